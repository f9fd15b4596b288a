package repo

import (
	"context"

	perr "insightbff/internal/platform/errors"
	"insightbff/internal/platform/store"
	"insightbff/internal/services/textcache/domain"
)

// KV keeps translations in redis under prefix+key with no expiry
type KV struct {
	kv     store.KV
	prefix string
}

// NewKV wraps a redis seam; prefix defaults to "tx:"
func NewKV(kv store.KV, prefix string) *KV {
	if prefix == "" {
		prefix = "tx:"
	}
	return &KV{kv: kv, prefix: prefix}
}

var _ domain.PersistentStore = (*KV)(nil)

// Get reads a cached translation
func (s *KV) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := s.kv.Get(ctx, s.prefix+key)
	if err != nil {
		return "", false, perr.Wrap(err, perr.ErrorCodeUnavailable, "redis get")
	}
	return v, ok, nil
}

// Put stores a translation
func (s *KV) Put(ctx context.Context, e domain.Entry) error {
	if err := s.kv.Set(ctx, s.prefix+e.Key, e.Text, 0); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "redis set")
	}
	return nil
}
