package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// KeyResolver resolves a signing key by key ID
type KeyResolver interface {
	GetKey(ctx context.Context, kid string) (*SigningKey, error)
}

// VerifierConfig holds configuration for Verifier
type VerifierConfig struct {
	Issuer   string
	Audience string
	// Algorithm defaults to RS256, which is also the only accepted value
	Algorithm string
}

// Verifier verifies bearer tokens issued by the identity provider
type Verifier struct {
	keys     KeyResolver
	issuer   string
	audience string
	now      func() time.Time
}

// NewVerifier creates a Verifier. It fails if the configuration asks for an
// algorithm other than RS256.
func NewVerifier(keys KeyResolver, config VerifierConfig) (*Verifier, error) {
	if keys == nil {
		return nil, errors.New("key resolver is required")
	}
	if config.Algorithm != "" && config.Algorithm != AlgorithmRS256 {
		return nil, fmt.Errorf("unsupported algorithm %q: only %s is accepted", config.Algorithm, AlgorithmRS256)
	}
	if config.Issuer == "" {
		return nil, errors.New("issuer is required")
	}
	if config.Audience == "" {
		return nil, errors.New("audience is required")
	}
	return &Verifier{
		keys:     keys,
		issuer:   config.Issuer,
		audience: config.Audience,
		now:      time.Now,
	}, nil
}

// Verify checks the token's signature against the provider's keys, then its
// exp, aud and iss claims. Claims are never returned unless the signature holds.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*Claims, error) {
	if rawToken == "" || strings.Count(rawToken, ".") != 2 {
		return nil, invalidHeader("Authorization malformed.", nil)
	}

	parser := jwt.NewParser(
		jwt.WithIssuer(v.issuer),
		jwt.WithAudience(v.audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		header, err := tokenHeader(t)
		if err != nil {
			return nil, err
		}

		key, err := v.keys.GetKey(ctx, header.KeyID)
		if err != nil {
			if errors.Is(err, ErrKeyNotFound) {
				return nil, invalidHeader("Unable to find the appropriate key.", err)
			}
			return nil, keySetUnavailable(err)
		}
		return key.PublicKey, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}
	if !token.Valid {
		return nil, invalidToken(nil)
	}

	return claims, nil
}

// tokenHeader validates the algorithm and key ID of an unverified token
func tokenHeader(t *jwt.Token) (*TokenHeader, error) {
	alg, _ := t.Header["alg"].(string)
	if alg != AlgorithmRS256 {
		return nil, invalidHeader("Unsupported token algorithm.", fmt.Errorf("alg %q", alg))
	}
	if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, invalidHeader("Unsupported token algorithm.", fmt.Errorf("method %v", t.Method))
	}

	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, invalidHeader("Authorization malformed.", errors.New("kid header not found"))
	}

	return &TokenHeader{Algorithm: alg, KeyID: kid}, nil
}

func classifyParseError(err error) *AuthError {
	if authErr, ok := AsAuthError(err); ok {
		return authErr
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed), errors.Is(err, jwt.ErrTokenUnverifiable):
		return invalidHeader("Unable to parse authentication token.", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return invalidToken(err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return tokenExpired(err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return invalidClaims("Incorrect claims. Please, check the issuer.", err)
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return invalidClaims("Incorrect claims. Please, check the audience.", err)
	case errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return invalidClaims("Token is missing a required claim.", err)
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return invalidClaims("Token is not valid yet.", err)
	default:
		return invalidToken(err)
	}
}
