package storage

import (
	"context"
	"fmt"

	"github.com/containerd/errdefs"
)

// Document is what a Port returns when opening a locator.
type Document struct {
	DisplayName string
	Content     string
	// MIMEType is a best-effort content-type hint, e.g. "text/plain; charset=utf-8".
	// Empty when the backend cannot tell.
	MIMEType string
}

// Port abstracts opening and saving documents by locator.
// FileStore implements it over the local filesystem; MemoryStore keeps
// everything in memory for tests.
//
// Errors follow the errdefs taxonomy: IsNotFound, IsPermissionDenied and
// IsInternal (generic I/O) are the cases callers dispatch on.
type Port interface {
	Open(ctx context.Context, locator string) (Document, error)
	Save(ctx context.Context, locator string, content string) (displayName string, err error)

	// DefaultLocalDir is the application-storage directory used for
	// fallback saves when a document has no user-chosen target.
	DefaultLocalDir() string
}

func notFound(op, locator string) error {
	return fmt.Errorf("%s %s: %w", op, locator, errdefs.ErrNotFound)
}
