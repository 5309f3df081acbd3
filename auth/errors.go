package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried by AuthError
const (
	CodeAuthHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader     = "invalid_header"
	CodeInvalidToken      = "invalid_token"
	CodeTokenExpired      = "token_expired"
	CodeInvalidClaims     = "invalid_claims"
	CodePermissionDenied  = "unauthorized"
	CodeKeySetUnavailable = "key_set_unavailable"
)

var (
	// ErrKeyNotFound is returned by the key set cache when no key matches a kid
	ErrKeyNotFound = errors.New("signing key not found")

	// ErrKeySetUnavailable is returned when the key set cannot be fetched
	ErrKeySetUnavailable = errors.New("key set unavailable")
)

// AuthError is a classified authorization failure. Status is the HTTP status
// the boundary layer must answer with.
type AuthError struct {
	Status      int
	Code        string
	Description string
	Err         error
}

// Error implements the error interface
func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Description, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Unwrap implements errors.Unwrap
func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches another AuthError with the same code
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newAuthError(status int, code, description string, err error) *AuthError {
	return &AuthError{
		Status:      status,
		Code:        code,
		Description: description,
		Err:         err,
	}
}

// Sentinel values for errors.Is comparisons
var (
	ErrAuthHeaderMissing = newAuthError(http.StatusUnauthorized, CodeAuthHeaderMissing, "Authorization header is expected.", nil)
	ErrInvalidHeader     = newAuthError(http.StatusUnauthorized, CodeInvalidHeader, "Authorization header is invalid.", nil)
	ErrInvalidToken      = newAuthError(http.StatusUnauthorized, CodeInvalidToken, "Token signature is invalid.", nil)
	ErrTokenExpired      = newAuthError(http.StatusUnauthorized, CodeTokenExpired, "Token expired.", nil)
	ErrInvalidClaims     = newAuthError(http.StatusUnauthorized, CodeInvalidClaims, "Incorrect claims. Please, check the audience and issuer.", nil)
	ErrPermissionDenied  = newAuthError(http.StatusForbidden, CodePermissionDenied, "Permission not found.", nil)
	ErrKeySetFailure     = newAuthError(http.StatusUnauthorized, CodeKeySetUnavailable, "Unable to fetch signing keys.", nil)
)

// with returns a copy of the sentinel e carrying err and, when non-empty, a
// more specific description.
func (e *AuthError) with(description string, err error) *AuthError {
	c := *e
	if description != "" {
		c.Description = description
	}
	c.Err = err
	return &c
}

func authHeaderMissing() *AuthError {
	return ErrAuthHeaderMissing.with("", nil)
}

func invalidHeader(description string, err error) *AuthError {
	return ErrInvalidHeader.with(description, err)
}

func invalidToken(err error) *AuthError {
	return ErrInvalidToken.with("", err)
}

func tokenExpired(err error) *AuthError {
	return ErrTokenExpired.with("", err)
}

func invalidClaims(description string, err error) *AuthError {
	return ErrInvalidClaims.with(description, err)
}

// missingPermissions is the one invalid_claims failure answered with 400
func missingPermissions() *AuthError {
	e := ErrInvalidClaims.with("Permissions not included in JWT.", nil)
	e.Status = http.StatusBadRequest
	return e
}

func permissionDenied(permission string) *AuthError {
	return ErrPermissionDenied.with("", fmt.Errorf("missing permission %q", permission))
}

func keySetUnavailable(err error) *AuthError {
	return ErrKeySetFailure.with("", err)
}

// AsAuthError extracts an AuthError from err
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}
