package cache

import (
	"context"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Cache is a TTL key-value cache. A miss is (nil, false, nil); an entry older
// than its TTL is a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Clock lets tests move time without sleeping.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Digest returns a short stable hex digest of a credential so cache keys never
// carry the raw bearer token.
func Digest(secret string) string {
	sum := blake2b.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:16])
}

// Key joins a namespace and a credential digest, e.g. "orders:3fa1...".
func Key(namespace, secret string) string {
	if secret == "" {
		return namespace
	}
	return namespace + ":" + Digest(secret)
}
