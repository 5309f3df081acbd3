package handlers

import (
	"net/http"
)

// GreetingHandler handles GET /
type GreetingHandler struct {
	excited bool
}

// NewGreetingHandler creates a GreetingHandler. excited adds encouragement.
func NewGreetingHandler(excited bool) *GreetingHandler {
	return &GreetingHandler{excited: excited}
}

// HandleGreeting writes the plain-text greeting
func (h *GreetingHandler) HandleGreeting(w http.ResponseWriter, r *http.Request) {
	greeting := "Hello"
	if h.excited {
		greeting += "!!!!! You are doing great in this Udacity project."
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(greeting))
}
