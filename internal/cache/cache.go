// Package cache provides the verification result cache: deterministic keys,
// a TTL+LRU in-process backend, and an optional Redis backend that degrades
// transparently to the in-process one.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hyperjump/kensho/pkg/utils"
)

const keyPrefix = "verify:"

// Cache is a TTL key/value store for serialized verification results.
// Implementations never surface backend errors to callers; a failed get is a
// miss and a failed set is dropped.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Key derives the stable cache key for an article: a hash of the normalized
// article text, the optional source URL, and the cross-verification flag.
// Case and whitespace variants of the same text map to the same key.
func Key(text, sourceURL string, crossVerify bool) string {
	h := sha256.New()
	h.Write([]byte(utils.NormalizeText(text)))
	h.Write([]byte{0})
	h.Write([]byte(sourceURL))
	if crossVerify {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
