// Package domain defines the file model served over the protocol endpoints.
//
// Files are identified by an opaque id chosen by the host. The id doubles as
// the stored file name; it never contains path separators.
package domain

import (
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/allisson/wopihost/internal/errors"
)

// File-related errors.
var (
	// ErrFileNotFound indicates no file exists for the id.
	ErrFileNotFound = errors.Wrap(errors.ErrNotFound, "file not found")

	// ErrInvalidFileID indicates an id that is empty or would escape the
	// storage root.
	ErrInvalidFileID = errors.Wrap(errors.ErrInvalidInput, "invalid file id")
)

// FileInfo describes a stored file.
type FileInfo struct {
	ID           string
	Name         string
	Size         int64
	LastModified time.Time
}

// Version is an opaque value that changes whenever the content changes.
// Editors use it to detect concurrent modification.
func (f *FileInfo) Version() string {
	return strconv.FormatInt(f.LastModified.UnixNano(), 10) + "-" + strconv.FormatInt(f.Size, 10)
}

// Extension returns the lowercase file extension without the leading dot, or
// an empty string when the name has none.
func (f *FileInfo) Extension() string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(f.Name), "."))
}
