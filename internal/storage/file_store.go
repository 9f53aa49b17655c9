package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/containerd/errdefs"
	"github.com/gabriel-vasile/mimetype"
)

// FileStore implements Port over the local filesystem.
// Saves are atomic: content goes to a temp file in the target directory
// which is then renamed over the destination.
type FileStore struct {
	localDir string
}

// NewFileStore creates a file store. localDir is created if missing; it is
// where fallback saves land.
func NewFileStore(localDir string) (*FileStore, error) {
	if localDir == "" {
		return nil, errors.New("local directory is required")
	}
	if err := os.MkdirAll(localDir, 0o755); err != nil {
		return nil, fmt.Errorf("create local directory: %w", err)
	}
	return &FileStore{localDir: localDir}, nil
}

func (f *FileStore) DefaultLocalDir() string {
	return f.localDir
}

// Open reads the file behind locator and sniffs its MIME type.
func (f *FileStore) Open(ctx context.Context, locator string) (Document, error) {
	if locator == "" {
		return Document{}, fmt.Errorf("empty locator: %w", errdefs.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	content, err := os.ReadFile(locator)
	if err != nil {
		return Document{}, mapFSError("open", locator, err)
	}

	return Document{
		DisplayName: filepath.Base(locator),
		Content:     string(content),
		MIMEType:    mimetype.Detect(content).String(),
	}, nil
}

// Save writes content to locator atomically and returns the display name.
func (f *FileStore) Save(ctx context.Context, locator string, content string) (string, error) {
	if locator == "" {
		return "", fmt.Errorf("empty locator: %w", errdefs.ErrInvalidArgument)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Dir(locator)
	base := filepath.Base(locator)

	tmpFile, err := os.CreateTemp(dir, base+".tmp-")
	if err != nil {
		return "", mapFSError("save", locator, err)
	}
	defer func() {
		tmpFile.Close()
		os.Remove(tmpFile.Name())
	}()

	if _, err := tmpFile.WriteString(content); err != nil {
		return "", mapFSError("save", locator, err)
	}

	if err := tmpFile.Sync(); err != nil {
		return "", mapFSError("save", locator, err)
	}

	if err := tmpFile.Close(); err != nil {
		return "", mapFSError("save", locator, err)
	}

	if err := os.Rename(tmpFile.Name(), locator); err != nil {
		return "", mapFSError("save", locator, err)
	}

	return base, nil
}

// mapFSError folds os-level errors into the errdefs taxonomy while keeping
// the original message.
func mapFSError(op, locator string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%s %s: %v: %w", op, locator, err, errdefs.ErrNotFound)
	case os.IsPermission(err):
		return fmt.Errorf("%s %s: %v: %w", op, locator, err, errdefs.ErrPermissionDenied)
	default:
		return fmt.Errorf("%s %s: %v: %w", op, locator, err, errdefs.ErrInternal)
	}
}
