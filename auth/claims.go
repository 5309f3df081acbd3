package auth

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenHeader is the unverified JOSE header. It only selects a signing key.
type TokenHeader struct {
	Algorithm string
	KeyID     string
}

// Claims are the assertions of a verified token.
//
// Permissions is nil when the token carries no permissions claim at all and
// non-nil (possibly empty) when the claim is present.
type Claims struct {
	jwt.RegisteredClaims
	Permissions []string `json:"permissions"`
}

// HasPermissionsClaim reports whether the token carried a permissions claim
func (c *Claims) HasPermissionsClaim() bool {
	return c.Permissions != nil
}

// HasPermission reports whether permission was granted
func (c *Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// Principal is the authorized caller handed to a protected operation
type Principal struct {
	claims Claims
}

func newPrincipal(claims *Claims) *Principal {
	p := &Principal{claims: *claims}
	p.claims.Permissions = slices.Clone(claims.Permissions)
	p.claims.Audience = slices.Clone(claims.Audience)
	return p
}

// Subject returns the sub claim
func (p *Principal) Subject() string {
	return p.claims.Subject
}

// Issuer returns the iss claim
func (p *Principal) Issuer() string {
	return p.claims.Issuer
}

// Audience returns a copy of the aud claim
func (p *Principal) Audience() []string {
	return slices.Clone(p.claims.Audience)
}

// ExpiresAt returns the exp claim
func (p *Principal) ExpiresAt() time.Time {
	if p.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return p.claims.ExpiresAt.Time
}

// Permissions returns a copy of the granted permissions
func (p *Principal) Permissions() []string {
	return slices.Clone(p.claims.Permissions)
}

// HasPermission reports whether permission was granted
func (p *Principal) HasPermission(permission string) bool {
	return p.claims.HasPermission(permission)
}

// Claims returns a copy of the verified claims
func (p *Principal) Claims() Claims {
	c := p.claims
	c.Permissions = slices.Clone(p.claims.Permissions)
	c.Audience = slices.Clone(p.claims.Audience)
	return c
}
