// Package usecase implements the file business logic: metadata, content
// reads, and lock-guarded content writes.
package usecase

import (
	"context"
	"io"

	filesDomain "github.com/allisson/wopihost/internal/files/domain"
)

// FileRepository defines content storage operations.
type FileRepository interface {
	// Stat returns metadata for the file, or ErrFileNotFound.
	Stat(ctx context.Context, fileID string) (*filesDomain.FileInfo, error)

	// Open returns the file's content for reading along with its metadata.
	// The caller owns the returned reader.
	Open(ctx context.Context, fileID string) (io.ReadCloser, *filesDomain.FileInfo, error)

	// Replace overwrites the file's content. The file must already exist.
	Replace(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error)

	// Create writes a new file. Returns an ErrConflict-classed error when
	// the id is taken.
	Create(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error)

	// Delete removes the file.
	Delete(ctx context.Context, fileID string) error
}

// FileUseCase orchestrates file operations. Content writes and deletes are
// guarded by the resource's lock: they proceed only when the resource is
// unlocked or the presented lock id matches the active lock.
type FileUseCase interface {
	// GetInfo returns metadata for the file.
	GetInfo(ctx context.Context, fileID string) (*filesDomain.FileInfo, error)

	// Read returns the file's content and metadata.
	Read(ctx context.Context, fileID string) (io.ReadCloser, *filesDomain.FileInfo, error)

	// Write replaces the file's content after a lock check. A lock conflict
	// is returned as *locks/domain.ConflictError.
	Write(ctx context.Context, fileID, lockID string, content io.Reader) (*filesDomain.FileInfo, error)

	// Create stores a new file.
	Create(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error)

	// Delete removes the file after a lock check.
	Delete(ctx context.Context, fileID, lockID string) error
}
