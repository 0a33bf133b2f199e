package repository

import (
	"context"
	"errors"
)

// ErrDocumentNotFound is returned by a DocumentStore when no document has
// been saved under the requested name yet.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore keeps whole JSON documents addressed by name. Save replaces
// the previous document in full.
type DocumentStore interface {
	Load(ctx context.Context, name string) ([]byte, error)
	Save(ctx context.Context, name string, data []byte) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
