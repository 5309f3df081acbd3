package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/auth"
	"github.com/upb/casting-agency/middleware"
)

type claimsVerifier struct {
	claims *auth.Claims
}

func (v claimsVerifier) Verify(ctx context.Context, rawToken string) (*auth.Claims, error) {
	return v.claims, nil
}

// testPrincipal authorizes subject through a real Guard
func testPrincipal(t *testing.T, subject string, permission string) *auth.Principal {
	t.Helper()
	guard, err := auth.NewGuard(claimsVerifier{claims: &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: subject},
		Permissions:      []string{permission},
	}})
	require.NoError(t, err)

	principal, err := guard.Authorize(context.Background(), "Bearer token", permission)
	require.NoError(t, err)
	return principal
}

// newRequest builds a request carrying an id route param, a request ID and a principal
func newRequest(t *testing.T, method, target, body, id string) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := middleware.WithRequestID(req.Context(), "req-test")
	ctx = middleware.WithPrincipal(ctx, testPrincipal(t, "auth0|producer", "any"))
	if id != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", id)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}
