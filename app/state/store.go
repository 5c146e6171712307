package state

import (
	"context"
	"fmt"

	"github.com/lysyi3m/launch-comb/app/announcement"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Store persists the novelty keys of delivered facts.
type Store interface {
	Load(ctx context.Context) (announcement.SeenState, error)
	// SaveAtomic replaces the persisted state with seen in one step.
	SaveAtomic(ctx context.Context, seen announcement.SeenState) error
	Close() error
}

var (
	_ Store = (*FileStore)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*RedisStore)(nil)
)

type Options struct {
	Backend   string
	Path      string
	RedisAddr string
	RedisKey  string
}

// New opens the store selected by opts.Backend.
func New(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, opts.Path)
	case BackendRedis:
		return NewRedisStore(ctx, opts.RedisAddr, opts.RedisKey)
	default:
		return nil, fmt.Errorf("unknown state backend: %s", opts.Backend)
	}
}
