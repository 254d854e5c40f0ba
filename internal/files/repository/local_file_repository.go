// Package repository provides file content storage. The local filesystem
// implementation serves a single flat directory; the file id is the file
// name.
package repository

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/allisson/wopihost/internal/errors"
	filesDomain "github.com/allisson/wopihost/internal/files/domain"
)

// LocalFileRepository stores file content under a single root directory.
type LocalFileRepository struct {
	root string
}

// NewLocalFileRepository creates a repository rooted at the given directory,
// creating it if needed.
func NewLocalFileRepository(root string) (*LocalFileRepository, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to resolve storage root")
	}
	if err := os.MkdirAll(absRoot, 0o750); err != nil {
		return nil, apperrors.Wrap(err, "failed to create storage root")
	}
	return &LocalFileRepository{root: absRoot}, nil
}

// resolve maps a file id to its on-disk path. Ids containing separators or
// path traversal are rejected so a request can never escape the root.
func (r *LocalFileRepository) resolve(fileID string) (string, error) {
	if fileID == "" ||
		fileID == "." || fileID == ".." ||
		strings.ContainsAny(fileID, `/\`) {
		return "", filesDomain.ErrInvalidFileID
	}
	return filepath.Join(r.root, fileID), nil
}

// Stat returns metadata for the file.
func (r *LocalFileRepository) Stat(ctx context.Context, fileID string) (*filesDomain.FileInfo, error) {
	path, err := r.resolve(fileID)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, filesDomain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to stat file")
	}
	if info.IsDir() {
		return nil, filesDomain.ErrFileNotFound
	}

	return &filesDomain.FileInfo{
		ID:           fileID,
		Name:         info.Name(),
		Size:         info.Size(),
		LastModified: info.ModTime().UTC(),
	}, nil
}

// Open returns the file's content for reading along with its metadata.
// The caller owns the returned reader.
func (r *LocalFileRepository) Open(ctx context.Context, fileID string) (io.ReadCloser, *filesDomain.FileInfo, error) {
	info, err := r.Stat(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	path, err := r.resolve(fileID)
	if err != nil {
		return nil, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, filesDomain.ErrFileNotFound
		}
		return nil, nil, apperrors.Wrap(err, "failed to open file")
	}

	return file, info, nil
}

// Replace atomically overwrites the file's content. The write goes to a
// temporary file in the same directory and is renamed into place so readers
// never observe a partial write. The file must already exist.
func (r *LocalFileRepository) Replace(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error) {
	path, err := r.resolve(fileID)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, filesDomain.ErrFileNotFound
		}
		return nil, apperrors.Wrap(err, "failed to stat file")
	}

	tmp, err := os.CreateTemp(r.root, "."+fileID+".tmp-*")
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create temporary file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return nil, apperrors.Wrap(err, "failed to write file content")
	}
	if err := tmp.Close(); err != nil {
		return nil, apperrors.Wrap(err, "failed to close temporary file")
	}

	if err := os.Rename(tmpName, path); err != nil {
		return nil, apperrors.Wrap(err, "failed to replace file")
	}

	return r.Stat(ctx, fileID)
}

// Create writes a new file. Returns ErrConflict when the id is taken.
func (r *LocalFileRepository) Create(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error) {
	path, err := r.resolve(fileID)
	if err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		if os.IsExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrConflict, "file already exists")
		}
		return nil, apperrors.Wrap(err, "failed to create file")
	}

	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		os.Remove(path)
		return nil, apperrors.Wrap(err, "failed to write file content")
	}
	if err := file.Close(); err != nil {
		return nil, apperrors.Wrap(err, "failed to close file")
	}

	return r.Stat(ctx, fileID)
}

// Delete removes the file.
func (r *LocalFileRepository) Delete(ctx context.Context, fileID string) error {
	path, err := r.resolve(fileID)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return filesDomain.ErrFileNotFound
		}
		return apperrors.Wrap(err, "failed to delete file")
	}
	return nil
}
