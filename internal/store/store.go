// Package store persists editing state as opaque strings under string keys.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// Store is a key/value store for snapshot text.
type Store interface {
	Save(ctx context.Context, key, value string) error
	// Load returns the value stored under key. ok is false when nothing is
	// stored there.
	Load(ctx context.Context, key string) (value string, ok bool, err error)
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend     string
	Dir         string
	PostgresDSN string
}

// Open returns the store selected by opts and a function releasing it.
// The PostgreSQL backend connects and migrates its schema before returning.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }
	switch opts.Backend {
	case BackendMemory:
		return NewMemoryStore(), noop, nil
	case BackendFile, "":
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	case BackendPostgres:
		if opts.PostgresDSN == "" {
			return nil, nil, errors.New("store: postgres backend needs a dsn")
		}
		conn, err := pgx.Connect(ctx, opts.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("store: connect postgres: %w", err)
		}
		s := NewPostgresStore(conn)
		if err := s.Migrate(ctx); err != nil {
			conn.Close(ctx)
			return nil, nil, err
		}
		return s, func() error { return conn.Close(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("store: unknown backend %q", opts.Backend)
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}
