package store

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"
)

// Backends lists every backend name, default first.
var Backends = []string{BackendSQLite, BackendFile, BackendPostgres, BackendRedis, BackendMemory}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Dir is the data directory for the sqlite and file backends.
	Dir   string
	DSN   string
	Redis RedisOptions
}

// Open returns the configured backend. An empty Backend means sqlite.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendSQLite:
		return NewSQLite(filepath.Join(opts.Dir, "ramadan.db"))
	case BackendFile:
		return NewFile(filepath.Join(opts.Dir, "store"))
	case BackendPostgres:
		return NewPostgres(ctx, opts.DSN)
	case BackendRedis:
		return NewRedis(ctx, opts.Redis)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (valid: %v)", opts.Backend, Backends)
	}
}
