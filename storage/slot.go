// Package storage persists small JSON documents under fixed keys ("slots")
// and propagates writes between processes that share a slot.
package storage

import (
	"context"
	"errors"
)

// Driver identifies a concrete slot backend.
type Driver string

const (
	DriverMemory   Driver = "memory"   // in-memory (tests)
	DriverFS       Driver = "fs"       // local filesystem (default, dev)
	DriverSQLite   Driver = "sqlite"   // gorm + sqlite
	DriverPostgres Driver = "postgres" // gorm + postgres
	DriverS3       Driver = "s3"       // S3 / MinIO compatible
)

var (
	// ErrNotFound is returned by Read when nothing was ever written to the key.
	ErrNotFound = errors.New("storage: slot not found")
	// ErrPublish wraps a change notification failure after a successful write.
	ErrPublish = errors.New("storage: publish change")
)

// Slot is a last-write-wins key/value store holding whole documents.
type Slot interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
	Driver() Driver
}

// Change announces that Key now holds Value. Source identifies the writer.
type Change struct {
	Key    string `json:"key"`
	Value  []byte `json:"value"`
	Source string `json:"source"`
}

// Bus fans slot changes out to every subscriber of the key. Subscribe's
// channel is closed once ctx is done or the bus is closed.
type Bus interface {
	Publish(ctx context.Context, change Change) error
	Subscribe(ctx context.Context, key string) (<-chan Change, error)
	Close() error
}

// Watcher is implemented by slots that can report writes made elsewhere.
type Watcher interface {
	Watch(ctx context.Context, key string) (<-chan Change, error)
}
