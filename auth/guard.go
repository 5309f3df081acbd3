package auth

import (
	"context"
	"errors"
	"strings"
)

// TokenVerifier verifies a raw bearer token
type TokenVerifier interface {
	Verify(ctx context.Context, rawToken string) (*Claims, error)
}

// Guard authorizes a request: it extracts the bearer token, verifies it and
// checks the route's permission, in that order. The first failure ends the
// chain.
type Guard struct {
	verifier TokenVerifier
}

// NewGuard creates a Guard around verifier
func NewGuard(verifier TokenVerifier) (*Guard, error) {
	if verifier == nil {
		return nil, errors.New("token verifier is required")
	}
	return &Guard{verifier: verifier}, nil
}

// Authorize returns the principal for authorizationHeader if it carries a
// valid token granting permission. Errors are always *AuthError.
func (g *Guard) Authorize(ctx context.Context, authorizationHeader, permission string) (*Principal, error) {
	token, err := ExtractBearerToken(authorizationHeader)
	if err != nil {
		return nil, err
	}

	claims, err := g.verifier.Verify(ctx, token)
	if err != nil {
		if _, ok := AsAuthError(err); ok {
			return nil, err
		}
		return nil, invalidToken(err)
	}

	if err := CheckPermission(permission, claims); err != nil {
		return nil, err
	}

	return newPrincipal(claims), nil
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header value. The scheme is case-sensitive.
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", authHeaderMissing()
	}

	parts := strings.Split(header, " ")
	switch {
	case parts[0] != "Bearer":
		return "", invalidHeader(`Authorization header must start with "Bearer".`, nil)
	case len(parts) == 1 || parts[1] == "":
		return "", invalidHeader("Token not found.", nil)
	case len(parts) > 2:
		return "", invalidHeader("Authorization header must be bearer token.", nil)
	}

	return parts[1], nil
}
