// Package lock provides an advisory, exclusive, cross-process file lock
// guarding mutations of the root directory.
package lock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/frederic-klein/yanm/internal/dist"
)

// Lock is a held advisory lock.
type Lock struct {
	file *os.File
}

// Acquire blocks until the exclusive lock on path is held.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("%w: creating lock directory: %v", dist.ErrSystem, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: opening lock file: %v", dist.ErrSystem, err)
	}
	if err := lockFile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: acquiring lock %s: %v", dist.ErrSystem, path, err)
	}
	return &Lock{file: f}, nil
}

// Release drops the lock. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := unlockFile(l.file)
	if cerr := l.file.Close(); err == nil {
		err = cerr
	}
	l.file = nil
	return err
}

// With runs fn while holding the lock on path.
func With(path string, fn func() error) error {
	l, err := Acquire(path)
	if err != nil {
		return err
	}
	defer l.Release()
	return fn()
}
