package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/services/audit"
)

const maxBodyBytes = 1 << 20

// errMalformedBody is answered with 422
var errMalformedBody = errors.New("malformed request body")

// decodeJSON decodes the request body into dst. An empty body leaves dst untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errMalformedBody
	}
	if dec.More() {
		return errMalformedBody
	}
	return nil
}

// pathID parses the {id} route parameter
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// callerFrom identifies who is making the request for the audit trail
func callerFrom(r *http.Request) audit.Caller {
	caller := audit.Caller{RequestID: middleware.GetRequestIDFromContext(r.Context())}
	if principal := middleware.PrincipalFromContext(r.Context()); principal != nil {
		caller.Subject = principal.Subject()
	}
	return caller
}
