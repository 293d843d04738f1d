package tokenstore

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/kbukum/apiclient/errors"
	"github.com/kbukum/apiclient/logger"
)

const lockRetryDelay = 20 * time.Millisecond

// File stores values in a JSON object on disk. Reads take a shared lock and
// writes an exclusive one on <path>.lock, so several processes can use the
// same file.
type File struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
	log         *logger.Logger
}

// NewFile creates a File store. The parent directory is created if missing;
// the file itself is created on first write.
func NewFile(cfg FileConfig, log *logger.Logger) (*File, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultFilePath()
	}
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o700); err != nil {
		return nil, errors.StoreFailure(DriverFile, err)
	}
	return &File{
		path:        cfg.Path,
		lock:        flock.New(cfg.Path + ".lock"),
		lockTimeout: cfg.LockTimeout,
		log:         log,
	}, nil
}

// Path returns the token file location.
func (f *File) Path() string { return f.path }

// Get implements Store.
func (f *File) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		ok    bool
	)
	err := f.withLock(ctx, false, func() error {
		values, err := f.read()
		if err != nil {
			return err
		}
		value, ok = values[key]
		return nil
	})
	return value, ok, err
}

// Set implements Store.
func (f *File) Set(ctx context.Context, key, value string) error {
	return f.withLock(ctx, true, func() error {
		values, err := f.read()
		if err != nil {
			return err
		}
		values[key] = value
		return f.write(values)
	})
}

// Delete implements Store.
func (f *File) Delete(ctx context.Context, key string) error {
	return f.withLock(ctx, true, func() error {
		values, err := f.read()
		if err != nil {
			return err
		}
		if _, ok := values[key]; !ok {
			return nil
		}
		delete(values, key)
		return f.write(values)
	})
}

// Close implements Store.
func (f *File) Close() error {
	return f.lock.Close()
}

func (f *File) withLock(ctx context.Context, exclusive bool, fn func() error) error {
	ctx, cancel := context.WithTimeout(ctx, f.lockTimeout)
	defer cancel()

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = f.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = f.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return errors.StoreFailure(DriverFile, fmt.Errorf("acquire lock: %w", err))
	}
	if !locked {
		return errors.StoreFailure(DriverFile, fmt.Errorf("acquire lock: timeout"))
	}
	defer func() {
		if err := f.lock.Unlock(); err != nil {
			f.log.Warn("failed to release token file lock", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	if err := fn(); err != nil {
		var appErr *errors.AppError
		if stderrors.As(err, &appErr) {
			return err
		}
		return errors.StoreFailure(DriverFile, err)
	}
	return nil
}

// read loads the file. A missing or empty file is an empty store.
func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.path, err)
	}
	return values, nil
}

// write replaces the file atomically.
func (f *File) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path)
}
