package usecase

import (
	"context"
	"io"
	"time"

	filesDomain "github.com/allisson/wopihost/internal/files/domain"
	"github.com/allisson/wopihost/internal/metrics"
)

// fileUseCaseWithMetrics decorates FileUseCase with metrics instrumentation.
type fileUseCaseWithMetrics struct {
	next    FileUseCase
	metrics metrics.BusinessMetrics
}

// NewFileUseCaseWithMetrics wraps a FileUseCase with metrics recording.
func NewFileUseCaseWithMetrics(useCase FileUseCase, m metrics.BusinessMetrics) FileUseCase {
	return &fileUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (f *fileUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	f.metrics.RecordOperation(ctx, "files", operation, status)
	f.metrics.RecordDuration(ctx, "files", operation, time.Since(start), status)
}

// GetInfo records metrics for metadata lookups.
func (f *fileUseCaseWithMetrics) GetInfo(ctx context.Context, fileID string) (*filesDomain.FileInfo, error) {
	start := time.Now()
	info, err := f.next.GetInfo(ctx, fileID)
	f.record(ctx, "info", start, err)
	return info, err
}

// Read records metrics for content reads.
func (f *fileUseCaseWithMetrics) Read(ctx context.Context, fileID string) (io.ReadCloser, *filesDomain.FileInfo, error) {
	start := time.Now()
	content, info, err := f.next.Read(ctx, fileID)
	f.record(ctx, "read", start, err)
	return content, info, err
}

// Write records metrics for content writes.
func (f *fileUseCaseWithMetrics) Write(ctx context.Context, fileID, lockID string, content io.Reader) (*filesDomain.FileInfo, error) {
	start := time.Now()
	info, err := f.next.Write(ctx, fileID, lockID, content)
	f.record(ctx, "write", start, err)
	return info, err
}

// Create records metrics for file creation.
func (f *fileUseCaseWithMetrics) Create(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error) {
	start := time.Now()
	info, err := f.next.Create(ctx, fileID, content)
	f.record(ctx, "create", start, err)
	return info, err
}

// Delete records metrics for file deletion.
func (f *fileUseCaseWithMetrics) Delete(ctx context.Context, fileID, lockID string) error {
	start := time.Now()
	err := f.next.Delete(ctx, fileID, lockID)
	f.record(ctx, "delete", start, err)
	return err
}
