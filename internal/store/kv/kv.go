// Package kv is the key-value boundary the todo store persists through.
// A backend holds named slots of opaque bytes; one Set rewrites one slot.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrWatchUnsupported is returned when a backend cannot report external changes.
var ErrWatchUnsupported = errors.New("kv: backend does not support watching")

// Backend stores whole values under string keys.
type Backend interface {
	// Get returns the value for key. ok is false when the slot is absent.
	Get(key string) (value []byte, ok bool, err error)
	// Set replaces the value for key in a single write.
	Set(key string, value []byte) error
	Close() error
}

// Watcher is implemented by backends that can notify about writes made
// by other processes. fn runs on a backend goroutine until ctx is done.
type Watcher interface {
	Watch(ctx context.Context, key string, fn func()) error
}

// Watch subscribes fn to changes of key when b supports it.
func Watch(ctx context.Context, b Backend, key string, fn func()) error {
	w, ok := b.(Watcher)
	if !ok {
		return ErrWatchUnsupported
	}
	return w.Watch(ctx, key, fn)
}

// Kind names a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// SQLiteFileName is the database file used by the sqlite backend inside the data dir.
const SQLiteFileName = "tada.db"

// Open returns the backend of the given kind rooted at dir.
func Open(kind Kind, dir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFile(dir)
	case KindSQLite:
		return OpenSQLite(filepath.Join(dir, SQLiteFileName))
	case KindMemory:
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", kind)
}
