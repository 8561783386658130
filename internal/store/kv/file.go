package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
)

// JSON-backed slots. One human-readable file per key in a directory, guarded
// by an advisory lock file so concurrent processes never see a torn write.

const (
	lockTimeout    = 3 * time.Second
	lockRetryDelay = 100 * time.Millisecond
)

// File stores each key as <dir>/<key>.json.
type File struct {
	dir string
}

// NewFile returns a file backend rooted at dir, creating it if needed.
func NewFile(dir string) (*File, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &File{dir: dir}, nil
}

// Path returns the file holding key.
func (f *File) Path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *File) lock(key string, shared bool) (*flock.Flock, error) {
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	fl := flock.New(f.Path(key) + ".lock")
	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = fl.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = fl.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return nil, errors.New("could not acquire file lock")
	}
	return fl, nil
}

func (f *File) Get(key string) ([]byte, bool, error) {
	fl, err := f.lock(key, true)
	if err != nil {
		return nil, false, err
	}
	defer func() { _ = fl.Unlock() }()

	b, err := os.ReadFile(f.Path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read file: %w", err)
	}
	return b, true, nil
}

func (f *File) Set(key string, value []byte) error {
	fl, err := f.lock(key, false)
	if err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	p := f.Path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

func (f *File) Close() error { return nil }

// Watch reports create/write/rename events on the key's file. The directory
// is watched rather than the file because Set replaces the file by rename.
func (f *File) Watch(ctx context.Context, key string, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("new watcher: %w", err)
	}
	if err := w.Add(f.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", f.dir, err)
	}
	target := filepath.Clean(f.Path(key))

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) {
					fn()
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}
