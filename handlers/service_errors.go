package handlers

import (
	"errors"
	"net/http"

	"github.com/upb/casting-agency/services"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	var domainErr *services.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error("unhandled error type", zap.Error(err))
		if err := utils.WriteInternalServerError(w, ""); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
		return
	}

	var writeErr error
	switch {
	case services.IsNotFoundError(err):
		writeErr = utils.WriteNotFound(w, domainErr.Message)

	case errors.Is(err, services.ErrMissingFields):
		// missing fields answer 404, as the public API always has
		writeErr = utils.WriteNotFound(w, domainErr.Message)

	case services.IsValidationError(err):
		writeErr = utils.WriteUnprocessableEntity(w, domainErr.Message)

	default:
		logger.Error("internal server error", zap.Error(err))
		writeErr = utils.WriteInternalServerError(w, "")
	}

	if writeErr != nil {
		logger.Error("failed to write error response", zap.Error(writeErr))
	}

	logger.Debug("handled service error",
		zap.String("type", string(domainErr.Type)),
		zap.String("message", domainErr.Message),
		zap.Any("details", domainErr.Details))
}
