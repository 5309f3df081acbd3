package handlers

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/services/audit"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// MovieService is the movie catalogue as seen by the handler
type MovieService interface {
	List(ctx context.Context) ([]*models.Movie, error)
	Create(ctx context.Context, caller audit.Caller, req services.CreateMovieRequest) (*models.Movie, error)
	Update(ctx context.Context, caller audit.Caller, id int64, req services.UpdateMovieRequest) (*models.Movie, error)
	Delete(ctx context.Context, caller audit.Caller, id int64) error
}

// MovieHandler handles /movies requests
type MovieHandler struct {
	service MovieService
	logger  *zap.Logger
}

// NewMovieHandler creates a new MovieHandler
func NewMovieHandler(service MovieService, logger *zap.Logger) *MovieHandler {
	return &MovieHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /movies
func (h *MovieHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	movies, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"movies": movies})
}

// HandleCreate handles POST /movies
func (h *MovieHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req services.CreateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteUnprocessableEntity(w, "")
		return
	}

	movie, err := h.service.Create(r.Context(), callerFrom(r), req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"movie": movie})
}

// HandleUpdate handles PATCH /movies/{id}
func (h *MovieHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, services.ErrMovieNotFound.Message)
		return
	}

	var req services.UpdateMovieRequest
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteUnprocessableEntity(w, "")
		return
	}

	movie, err := h.service.Update(r.Context(), callerFrom(r), id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"movie": movie})
}

// HandleDelete handles DELETE /movies/{id}
func (h *MovieHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, services.ErrMovieNotFound.Message)
		return
	}

	if err := h.service.Delete(r.Context(), callerFrom(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"delete": id})
}
