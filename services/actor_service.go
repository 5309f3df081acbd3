package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/services/audit"
	"go.uber.org/zap"
)

const (
	resourceActor = "actor"
	maxActorAge   = 150
)

// CreateActorRequest is the body of POST /actors. Age may be sent as a number or a numeric string.
type CreateActorRequest struct {
	Name   string      `json:"name" validate:"required,max=255"`
	Age    json.Number `json:"age" validate:"required"`
	Gender string      `json:"gender" validate:"required,max=50"`
}

// UpdateActorRequest is the body of PATCH /actors/{id}. Absent fields are kept.
type UpdateActorRequest struct {
	Name   *string      `json:"name" validate:"omitempty,min=1,max=255"`
	Age    *json.Number `json:"age"`
	Gender *string      `json:"gender" validate:"omitempty,min=1,max=50"`
}

// ActorService implements the actor roster operations
type ActorService struct {
	actors  repositories.ActorRepository
	txMgr   repositories.TransactionManager
	auditor Auditor
	logger  *zap.Logger
}

// NewActorService creates a new ActorService
func NewActorService(actors repositories.ActorRepository, txMgr repositories.TransactionManager, auditor Auditor, logger *zap.Logger) *ActorService {
	return &ActorService{
		actors:  actors,
		txMgr:   txMgr,
		auditor: auditor,
		logger:  logger,
	}
}

func parseAge(n json.Number) (int, error) {
	age, err := n.Int64()
	if err != nil {
		return 0, invalidInput("age", "age must be a whole number")
	}
	if age < 0 || age > maxActorAge {
		return 0, invalidInput("age", "age must be between 0 and 150")
	}
	return int(age), nil
}

// List returns every actor. An empty roster is ErrActorNotFound.
func (s *ActorService) List(ctx context.Context) ([]*models.Actor, error) {
	actors, err := s.actors.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list actors", err)
	}
	if len(actors) == 0 {
		return nil, notFound(ErrActorNotFound, nil)
	}
	return actors, nil
}

// Create validates req and stores a new actor
func (s *ActorService) Create(ctx context.Context, caller audit.Caller, req CreateActorRequest) (*models.Actor, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	age, err := parseAge(req.Age)
	if err != nil {
		return nil, err
	}

	actor := models.NewActor(req.Name, age, req.Gender)
	if err := s.actors.Create(ctx, actor); err != nil {
		return nil, WrapInternal("failed to create actor", err)
	}

	s.logger.Info("actor created",
		zap.Int64("actor_id", actor.ID),
		zap.String("subject", caller.Subject))
	record(s.auditor, s.logger, caller, models.AuditActionActorCreated, resourceActor, actor.ID, actor)

	return actor, nil
}

// Update applies the fields present in req to actor id
func (s *ActorService) Update(ctx context.Context, caller audit.Caller, id int64, req UpdateActorRequest) (*models.Actor, error) {
	patch := models.ActorPatch{Name: req.Name, Gender: req.Gender}
	if req.Age != nil {
		age, err := parseAge(*req.Age)
		if err != nil {
			return nil, err
		}
		patch.Age = &age
	}
	if err := validate(&req); err != nil {
		return nil, err
	}

	actor, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Actor, error) {
		actor, err := s.actors.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if patch.IsEmpty() {
			return nil, missingFields(map[string]string{"name": "one of name, age, gender is required"})
		}
		patch.Apply(actor)
		if err := s.actors.Update(ctx, actor); err != nil {
			return nil, err
		}
		return actor, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound(ErrActorNotFound, err)
		case GetErrorType(err) != "":
			return nil, err
		}
		return nil, WrapInternal("failed to update actor", err)
	}

	record(s.auditor, s.logger, caller, models.AuditActionActorUpdated, resourceActor, actor.ID, req)

	return actor, nil
}

// Delete removes actor id
func (s *ActorService) Delete(ctx context.Context, caller audit.Caller, id int64) error {
	if err := s.actors.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(ErrActorNotFound, err)
		}
		return WrapInternal("failed to delete actor", err)
	}

	s.logger.Info("actor deleted",
		zap.Int64("actor_id", id),
		zap.String("subject", caller.Subject))
	record(s.auditor, s.logger, caller, models.AuditActionActorDeleted, resourceActor, id, nil)

	return nil
}
