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

// ActorService is the actor roster as seen by the handler
type ActorService interface {
	List(ctx context.Context) ([]*models.Actor, error)
	Create(ctx context.Context, caller audit.Caller, req services.CreateActorRequest) (*models.Actor, error)
	Update(ctx context.Context, caller audit.Caller, id int64, req services.UpdateActorRequest) (*models.Actor, error)
	Delete(ctx context.Context, caller audit.Caller, id int64) error
}

// ActorHandler handles /actors requests
type ActorHandler struct {
	service ActorService
	logger  *zap.Logger
}

// NewActorHandler creates a new ActorHandler
func NewActorHandler(service ActorService, logger *zap.Logger) *ActorHandler {
	return &ActorHandler{
		service: service,
		logger:  logger,
	}
}

// HandleList handles GET /actors
func (h *ActorHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actors, err := h.service.List(r.Context())
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"actors": actors})
}

// HandleCreate handles POST /actors
func (h *ActorHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req services.CreateActorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteUnprocessableEntity(w, "")
		return
	}

	actor, err := h.service.Create(r.Context(), callerFrom(r), req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"actor": actor})
}

// HandleUpdate handles PATCH /actors/{id}
func (h *ActorHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, services.ErrActorNotFound.Message)
		return
	}

	var req services.UpdateActorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		_ = utils.WriteUnprocessableEntity(w, "")
		return
	}

	actor, err := h.service.Update(r.Context(), callerFrom(r), id, req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"actor": actor})
}

// HandleDelete handles DELETE /actors/{id}
func (h *ActorHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		_ = utils.WriteNotFound(w, services.ErrActorNotFound.Message)
		return
	}

	if err := h.service.Delete(r.Context(), callerFrom(r), id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, map[string]interface{}{"delete": id})
}
