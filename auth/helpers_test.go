package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://casting.example.auth0.com/"
	testAudience = "casting-agency"
)

type testKey struct {
	kid     string
	private *rsa.PrivateKey
}

func generateTestKey(t *testing.T, kid string) testKey {
	t.Helper()
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return testKey{kid: kid, private: privateKey}
}

type jwkDoc struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg,omitempty"`
	Use string `json:"use,omitempty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func jwksDocument(t *testing.T, keys ...testKey) []byte {
	t.Helper()
	docs := make([]jwkDoc, 0, len(keys))
	for _, k := range keys {
		pub := k.private.PublicKey
		docs = append(docs, jwkDoc{
			Kid: k.kid,
			Kty: "RSA",
			Alg: "RS256",
			Use: "sig",
			N:   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
			E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
		})
	}
	body, err := json.Marshal(map[string]interface{}{"keys": docs})
	require.NoError(t, err)
	return body
}

// jwksServer serves whatever key set is currently stored in keys and counts hits
type jwksServer struct {
	*httptest.Server
	hits atomic.Int32
	keys atomic.Pointer[[]byte]
}

func newJWKSServer(t *testing.T, keys ...testKey) *jwksServer {
	t.Helper()
	s := &jwksServer{}
	s.setKeys(t, keys...)
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(*s.keys.Load())
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *jwksServer) setKeys(t *testing.T, keys ...testKey) {
	doc := jwksDocument(t, keys...)
	s.keys.Store(&doc)
}

type tokenOptions struct {
	issuer      string
	audience    []string
	subject     string
	expiresAt   time.Time
	permissions []string
	omitPerms   bool
	method      jwt.SigningMethod
	kid         string
	omitKid     bool
}

func defaultTokenOptions(key testKey) tokenOptions {
	return tokenOptions{
		issuer:      testIssuer,
		audience:    []string{testAudience},
		subject:     "auth0|director",
		expiresAt:   time.Now().Add(time.Hour),
		permissions: []string{"get:movies"},
		method:      jwt.SigningMethodRS256,
		kid:         key.kid,
	}
}

func signToken(t *testing.T, key testKey, opts tokenOptions) string {
	t.Helper()
	claims := jwt.MapClaims{
		"iss": opts.issuer,
		"sub": opts.subject,
		"exp": opts.expiresAt.Unix(),
		"iat": time.Now().Add(-time.Minute).Unix(),
	}
	if len(opts.audience) == 1 {
		claims["aud"] = opts.audience[0]
	} else if len(opts.audience) > 1 {
		claims["aud"] = opts.audience
	}
	if !opts.omitPerms {
		claims["permissions"] = opts.permissions
	}

	token := jwt.NewWithClaims(opts.method, claims)
	if !opts.omitKid {
		token.Header["kid"] = opts.kid
	}

	var signingKey interface{} = key.private
	if _, ok := opts.method.(*jwt.SigningMethodHMAC); ok {
		signingKey = []byte("shared-secret-shared-secret-0123")
	}
	if opts.method == jwt.SigningMethodNone {
		signingKey = jwt.UnsafeAllowNoneSignatureType
	}

	signed, err := token.SignedString(signingKey)
	require.NoError(t, err)
	return signed
}

func newTestVerifier(t *testing.T, resolver KeyResolver) *Verifier {
	t.Helper()
	v, err := NewVerifier(resolver, VerifierConfig{
		Issuer:    testIssuer,
		Audience:  testAudience,
		Algorithm: AlgorithmRS256,
	})
	require.NoError(t, err)
	return v
}
