package persist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 50 * time.Millisecond

var validKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Dir stores each key as <key>.json inside a directory. Every access holds a
// lock on <dir>/.lock so several processes can share the directory.
type Dir struct {
	dir     string
	timeout time.Duration
	lock    *flock.Flock
}

func OpenDir(dir string, lockTimeout time.Duration) (*Dir, error) {
	if dir == "" {
		return nil, errors.New("storage directory not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &Dir{
		dir:     dir,
		timeout: lockTimeout,
		lock:    flock.New(filepath.Join(dir, ".lock")),
	}, nil
}

func (d *Dir) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(d.dir, key+".json"), nil
}

func (d *Dir) withLock(fn func() error) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	locked, err := d.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !locked {
		return errors.New("could not acquire file lock")
	}
	defer func() { _ = d.lock.Unlock() }()
	return fn()
}

func (d *Dir) Load(key string) ([]byte, bool, error) {
	p, err := d.path(key)
	if err != nil {
		return nil, false, err
	}
	var (
		bs    []byte
		found bool
	)
	err = d.withLock(func() error {
		data, err := os.ReadFile(p)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		if err != nil {
			return err
		}
		bs, found = data, true
		return nil
	})
	return bs, found, err
}

// Save writes to a temporary file first and renames it over the old one, so
// readers never see a partial payload.
func (d *Dir) Save(key string, value []byte) error {
	p, err := d.path(key)
	if err != nil {
		return err
	}
	return d.withLock(func() error {
		f, err := os.CreateTemp(d.dir, key+".*.tmp")
		if err != nil {
			return err
		}
		tmp := f.Name()
		if _, err := f.Write(value); err != nil {
			f.Close()
			os.Remove(tmp)
			return err
		}
		if err := f.Close(); err != nil {
			os.Remove(tmp)
			return err
		}
		if err := os.Rename(tmp, p); err != nil {
			os.Remove(tmp)
			return err
		}
		return nil
	})
}

func (d *Dir) Close() error {
	return d.lock.Close()
}
