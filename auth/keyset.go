package auth

import (
	"context"
	"crypto/rsa"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// AlgorithmRS256 is the only token algorithm this package accepts
const AlgorithmRS256 = "RS256"

// maxJWKSBytes bounds the size of a key set document
const maxJWKSBytes = 1 << 20

// SigningKey is a public key published by the identity provider
type SigningKey struct {
	KeyID     string
	Algorithm string
	PublicKey *rsa.PublicKey
}

// KeySet is an immutable snapshot of signing keys indexed by key ID
type KeySet struct {
	keys      []*SigningKey
	byID      map[string]*SigningKey
	fetchedAt time.Time
}

// NewKeySet builds a snapshot from keys. Later duplicates of a kid are ignored.
func NewKeySet(keys []*SigningKey, fetchedAt time.Time) *KeySet {
	set := &KeySet{
		keys:      make([]*SigningKey, 0, len(keys)),
		byID:      make(map[string]*SigningKey, len(keys)),
		fetchedAt: fetchedAt,
	}
	for _, k := range keys {
		if k == nil || k.KeyID == "" {
			continue
		}
		if _, dup := set.byID[k.KeyID]; dup {
			continue
		}
		set.keys = append(set.keys, k)
		set.byID[k.KeyID] = k
	}
	return set
}

// Key returns the key with the given ID
func (s *KeySet) Key(kid string) (*SigningKey, bool) {
	k, ok := s.byID[kid]
	return k, ok
}

// Len returns the number of keys in the set
func (s *KeySet) Len() int {
	return len(s.keys)
}

// KeyIDs returns key IDs in document order
func (s *KeySet) KeyIDs() []string {
	ids := make([]string, 0, len(s.keys))
	for _, k := range s.keys {
		ids = append(ids, k.KeyID)
	}
	return ids
}

// FetchedAt returns when the snapshot was taken
func (s *KeySet) FetchedAt() time.Time {
	return s.fetchedAt
}

// KeyFetcher loads the identity provider's current key set
type KeyFetcher interface {
	FetchKeys(ctx context.Context) (*KeySet, error)
}

// KeyFetcherFunc adapts a function to KeyFetcher
type KeyFetcherFunc func(ctx context.Context) (*KeySet, error)

// FetchKeys calls f(ctx)
func (f KeyFetcherFunc) FetchKeys(ctx context.Context) (*KeySet, error) {
	return f(ctx)
}

// HTTPKeyFetcher fetches a JWKS document with a single unauthenticated GET
type HTTPKeyFetcher struct {
	url        string
	httpClient *http.Client
}

// NewHTTPKeyFetcher creates a fetcher for the given JWKS URL
func NewHTTPKeyFetcher(url string, timeout time.Duration) *HTTPKeyFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPKeyFetcher{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchKeys retrieves and decodes the key set
func (f *HTTPKeyFetcher) FetchKeys(ctx context.Context) (*KeySet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeySetUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status code %d", ErrKeySetUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxJWKSBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrKeySetUnavailable, err)
	}

	return ParseKeySet(body, time.Now())
}

// ParseKeySet decodes a JWKS document, keeping only RSA signature keys usable with RS256
func ParseKeySet(document []byte, fetchedAt time.Time) (*KeySet, error) {
	set, err := jwk.Parse(document)
	if err != nil {
		return nil, fmt.Errorf("%w: decode JWKS: %v", ErrKeySetUnavailable, err)
	}

	keys := make([]*SigningKey, 0, set.Len())
	for i := 0; i < set.Len(); i++ {
		key, ok := set.Key(i)
		if !ok || key.KeyType() != jwa.RSA || key.KeyID() == "" {
			continue
		}
		if use := key.KeyUsage(); use != "" && use != "sig" {
			continue
		}
		if alg := key.Algorithm(); alg != nil && alg.String() != "" && alg.String() != AlgorithmRS256 {
			continue
		}

		var pub rsa.PublicKey
		if err := key.Raw(&pub); err != nil {
			continue
		}
		keys = append(keys, &SigningKey{
			KeyID:     key.KeyID(),
			Algorithm: AlgorithmRS256,
			PublicKey: &pub,
		})
	}

	if len(keys) == 0 {
		return nil, fmt.Errorf("%w: no usable RSA signing keys", ErrKeySetUnavailable)
	}

	return NewKeySet(keys, fetchedAt), nil
}

// KeySetCacheConfig holds configuration for KeySetCache
type KeySetCacheConfig struct {
	// MinRefreshInterval throttles refreshes triggered by unknown key IDs.
	// Zero disables throttling.
	MinRefreshInterval time.Duration
}

// KeySetCache caches the provider's key set and refreshes it on a key ID miss.
// Readers always see a complete snapshot; a refresh swaps the pointer.
type KeySetCache struct {
	fetcher     KeyFetcher
	logger      *zap.Logger
	minInterval time.Duration
	now         func() time.Time

	current     atomic.Pointer[KeySet]
	lastAttempt atomic.Int64
	group       singleflight.Group
}

// NewKeySetCache creates a cache around fetcher
func NewKeySetCache(fetcher KeyFetcher, config KeySetCacheConfig, logger *zap.Logger) *KeySetCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KeySetCache{
		fetcher:     fetcher,
		logger:      logger,
		minInterval: config.MinRefreshInterval,
		now:         time.Now,
	}
}

// GetKey returns the signing key for kid, fetching the key set on cold start
// or when kid is not in the current snapshot.
func (c *KeySetCache) GetKey(ctx context.Context, kid string) (*SigningKey, error) {
	if set := c.current.Load(); set != nil {
		if key, ok := set.Key(kid); ok {
			return key, nil
		}
		if !c.refreshAllowed() {
			c.logger.Debug("key set refresh throttled", zap.String("kid", kid))
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
		}
	}

	set, err := c.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	key, ok := set.Key(kid)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, kid)
	}
	return key, nil
}

// Refresh fetches the key set and installs it. Concurrent callers share one
// fetch; each returns early if its own context is done.
func (c *KeySetCache) Refresh(ctx context.Context) (*KeySet, error) {
	ch := c.group.DoChan("jwks", func() (interface{}, error) {
		c.lastAttempt.Store(c.now().UnixNano())

		set, err := c.fetcher.FetchKeys(context.WithoutCancel(ctx))
		if err != nil {
			c.logger.Warn("key set fetch failed", zap.Error(err))
			return nil, err
		}

		c.current.Store(set)
		c.logger.Info("key set refreshed",
			zap.Int("keys", set.Len()),
			zap.Strings("kids", set.KeyIDs()))
		return set, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrKeySetUnavailable, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*KeySet), nil
	}
}

// Snapshot returns the current key set, or nil before the first fetch
func (c *KeySetCache) Snapshot() *KeySet {
	return c.current.Load()
}

func (c *KeySetCache) refreshAllowed() bool {
	if c.minInterval <= 0 {
		return true
	}
	last := c.lastAttempt.Load()
	return c.now().Sub(time.Unix(0, last)) >= c.minInterval
}
