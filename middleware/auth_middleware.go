package middleware

import (
	"context"
	"net/http"

	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/utils"
	"go.uber.org/zap"
)

// Authorizer checks an Authorization header against a permission
type Authorizer interface {
	Authorize(ctx context.Context, authorizationHeader, permission string) (*auth.Principal, error)
}

// AuthMiddleware guards routes with bearer-token permissions
type AuthMiddleware struct {
	authorizer Authorizer
	logger     *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(authorizer Authorizer, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authorizer: authorizer,
		logger:     logger,
	}
}

// RequirePermission only lets requests through whose token grants permission.
// The principal is stored in the request context.
func (m *AuthMiddleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := GetRequestIDFromContext(ctx)

			principal, err := m.authorizer.Authorize(ctx, r.Header.Get("Authorization"), permission)
			if err != nil {
				m.writeAuthError(w, requestID, permission, err)
				return
			}

			m.logger.Debug("request authorized",
				zap.String("request_id", requestID),
				zap.String("sub", principal.Subject()),
				zap.String("permission", permission))

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, principal)))
		})
	}
}

func (m *AuthMiddleware) writeAuthError(w http.ResponseWriter, requestID, permission string, err error) {
	authErr, ok := auth.AsAuthError(err)
	if !ok {
		m.logger.Error("authorization failed unexpectedly",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteError(w, http.StatusUnauthorized, "Unable to authorize request.")
		return
	}

	fields := []zap.Field{
		zap.String("request_id", requestID),
		zap.String("code", authErr.Code),
		zap.Int("status", authErr.Status),
		zap.String("permission", permission),
	}
	if authErr.Err != nil {
		fields = append(fields, zap.NamedError("cause", authErr.Err))
	}
	m.logger.Warn("authorization failed", fields...)

	_ = utils.WriteError(w, authErr.Status, authErr.Description)
}
