// Package storage holds archived ledger snapshots. The engine only needs
// a key/value blob store; implementations can be local filesystem today
// and object storage later without touching the jobs that write archives.
package storage

import (
	"context"
	"time"
)

// Metadata describes one archived snapshot.
type Metadata struct {
	ContentType string            `json:"contentType,omitempty"`
	StoreName   string            `json:"storeName,omitempty"` // empty for cross-store snapshots
	PointCount  int               `json:"pointCount,omitempty"`
	ArchivedAt  time.Time         `json:"archivedAt,omitempty"`
	Custom      map[string]string `json:"custom,omitempty"`
}

// FileInfo contains information about a stored archive.
type FileInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	Checksum   string    `json:"checksum"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// Storage defines the blob operations archive jobs rely on.
type Storage interface {
	// Put stores content at the given key with optional metadata.
	Put(ctx context.Context, key string, content []byte, metadata *Metadata) error

	// Get retrieves content from the given key.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetInfo retrieves file information without content.
	GetInfo(ctx context.Context, key string) (*FileInfo, error)

	// Exists checks if a file exists at the given key.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes a file at the given key.
	Delete(ctx context.Context, key string) error

	// List returns all keys matching the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}
