package services

import (
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/services/audit"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// Auditor records catalogue changes
type Auditor interface {
	Record(caller audit.Caller, action models.AuditAction, resourceType string, resourceID int64, details interface{}) error
}

// validate runs struct validation and maps failures to domain errors.
// Requests that only lack values are ErrMissingFields; anything else is ErrInvalidInput.
func validate(req interface{}) error {
	err := utils.ValidateStruct(req)
	if err == nil {
		return nil
	}

	var validationErr *utils.ValidationError
	if !errors.As(err, &validationErr) {
		return WrapInternal("failed to validate request", err)
	}
	if validationErr.OnlyMissing() {
		return missingFields(validationErr.Fields)
	}

	e := NewDomainError(ErrorTypeValidation, ErrInvalidInput.Message, err)
	for k, v := range validationErr.Fields {
		e.WithDetail(k, v)
	}
	return e
}

// record queues an audit entry. Failures are logged and never surface to the caller.
func record(auditor Auditor, logger *zap.Logger, caller audit.Caller, action models.AuditAction, resourceType string, id int64, details interface{}) {
	if auditor == nil {
		return
	}
	if err := auditor.Record(caller, action, resourceType, id, details); err != nil {
		logger.Warn("failed to record audit event",
			zap.Error(err),
			zap.String("action", string(action)),
			zap.Int64("resource_id", id),
			zap.String("request_id", caller.RequestID))
	}
}
