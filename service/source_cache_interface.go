package service

import (
	"context"
	"io"
)

// DocumentHandle points at a persisted catalog document
type DocumentHandle struct {
	SourceID string
	Path     string
}

// Downloader retrieves the raw bytes of a catalog source
type Downloader interface {
	Download(ctx context.Context, sourceID string) ([]byte, error)
}

// DocumentStore persists raw documents keyed by source id.
// PutIfAbsent must be safe to race: concurrent writers for the same id
// never leave a partial document visible to readers.
type DocumentStore interface {
	Lookup(sourceID string) (DocumentHandle, bool)
	PutIfAbsent(sourceID string, r io.Reader) (DocumentHandle, error)
	Invalidate(sourceID string) error
}

// SourceCacheInterface defines the contract for cached catalog source retrieval
type SourceCacheInterface interface {
	Fetch(ctx context.Context, sourceID string) (DocumentHandle, error)
	Invalidate(sourceID string) error
}
