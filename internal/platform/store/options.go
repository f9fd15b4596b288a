package store

import (
	"insightbff/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Option mutates Store during Open
type Option func(*Store) error

// WithLogger sets the logger used by subclients
func WithLogger(log logger.Logger) Option {
	return func(s *Store) error {
		s.Log = log
		return nil
	}
}

// WithPoolConfig lets callers tweak the pgx pool config before the pool is built
func WithPoolConfig(fn func(*pgxpool.Config)) Option {
	return func(s *Store) error {
		s.poolMut = fn
		return nil
	}
}
