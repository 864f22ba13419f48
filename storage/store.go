// Package storage persists the authentication blob behind a capability
// interface with pluggable backends. Exactly one backend is selected at
// process start for a given runtime; it is never swapped afterwards.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/constrogen/procure"
)

// probeKey is the disposable key used by availability checks.
const probeKey = "__storage_probe__"

// Store defines the contract for persisting blobs. Every operation takes a
// context regardless of whether the underlying primitive is synchronous, so
// the contract stays portable between a local file store and an asynchronous
// secure device store.
type Store interface {
	// Set serializes value and persists it under key. Serialization and
	// write failures propagate as *StorageError.
	Set(ctx context.Context, key string, value interface{}) error

	// Get loads the value stored under key into target. It returns false
	// when the key is absent or the payload cannot be decoded; read
	// failures are logged, never surfaced.
	Get(ctx context.Context, key string, target interface{}) bool

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// IsAvailable probes the backend with a disposable write and delete,
	// returning false on any failure rather than propagating it.
	IsAvailable(ctx context.Context) bool
}

// StorageError describes a failed write or delete against a backend.
type StorageError struct {
	Op  string
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError returns true if err is or wraps a StorageError.
func IsStorageError(err error) bool {
	var target *StorageError
	return errors.As(err, &target)
}

func newError(op, key string, err error) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err}
}

type options struct {
	logger procure.Logger
	prefix string
	ttl    time.Duration
}

// Option customizes a store backend.
type Option func(*options)

// WithLogger overrides the logger used for absorbed read failures.
func WithLogger(logger procure.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithPrefix sets the key prefix used by shared backends.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.prefix = prefix
		}
	}
}

// WithTTL sets an expiry on persisted entries where the backend supports one.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

func newOptions(opts []Option) *options {
	ret := &options{logger: procure.DefaultLogger}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
