package usecase

import (
	"context"
	"io"
	"log/slog"

	filesDomain "github.com/allisson/wopihost/internal/files/domain"
	locksUseCase "github.com/allisson/wopihost/internal/locks/usecase"
)

type fileUseCase struct {
	repository FileRepository
	locks      locksUseCase.LockUseCase
	logger     *slog.Logger
}

// NewFileUseCase creates a file use case guarded by the lock use case.
func NewFileUseCase(
	repository FileRepository,
	locks locksUseCase.LockUseCase,
	logger *slog.Logger,
) FileUseCase {
	return &fileUseCase{
		repository: repository,
		locks:      locks,
		logger:     logger,
	}
}

func (f *fileUseCase) GetInfo(ctx context.Context, fileID string) (*filesDomain.FileInfo, error) {
	return f.repository.Stat(ctx, fileID)
}

func (f *fileUseCase) Read(ctx context.Context, fileID string) (io.ReadCloser, *filesDomain.FileInfo, error) {
	return f.repository.Open(ctx, fileID)
}

func (f *fileUseCase) Write(ctx context.Context, fileID, lockID string, content io.Reader) (*filesDomain.FileInfo, error) {
	// The existence check runs first so a missing file is reported as 404
	// rather than a lock conflict.
	if _, err := f.repository.Stat(ctx, fileID); err != nil {
		return nil, err
	}

	if err := f.locks.CheckWrite(ctx, fileID, lockID); err != nil {
		return nil, err
	}

	info, err := f.repository.Replace(ctx, fileID, content)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "file content replaced",
		slog.String("file_id", fileID),
		slog.Int64("size", info.Size),
	)
	return info, nil
}

func (f *fileUseCase) Create(ctx context.Context, fileID string, content io.Reader) (*filesDomain.FileInfo, error) {
	info, err := f.repository.Create(ctx, fileID, content)
	if err != nil {
		return nil, err
	}

	f.logger.InfoContext(ctx, "file created",
		slog.String("file_id", fileID),
		slog.Int64("size", info.Size),
	)
	return info, nil
}

func (f *fileUseCase) Delete(ctx context.Context, fileID, lockID string) error {
	if _, err := f.repository.Stat(ctx, fileID); err != nil {
		return err
	}

	if err := f.locks.CheckWrite(ctx, fileID, lockID); err != nil {
		return err
	}

	if err := f.repository.Delete(ctx, fileID); err != nil {
		return err
	}

	// A deleted file keeps no lock state behind.
	if _, err := f.locks.RemoveLock(ctx, fileID); err != nil {
		f.logger.WarnContext(ctx, "failed to clear lock for deleted file",
			slog.String("file_id", fileID),
			slog.Any("error", err),
		)
	}

	f.logger.InfoContext(ctx, "file deleted", slog.String("file_id", fileID))
	return nil
}
