package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/internal/storage"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/logger"
	"go-dreamjob-backend/pkg/security"
	"go-dreamjob-backend/pkg/security/antivirus"

	"github.com/google/uuid"
)

// fileUsecase implements domain.FileStore: metadata rows in a repository,
// payload bytes in a blob backend.
type fileUsecase struct {
	repo    domain.FileRepository
	blobs   storage.BlobStore
	scanner antivirus.Scanner
}

// NewFileUsecase wires the file store. scanner may be nil to skip malware scanning.
func NewFileUsecase(repo domain.FileRepository, blobs storage.BlobStore, scanner antivirus.Scanner) domain.FileStore {
	return &fileUsecase{
		repo:    repo,
		blobs:   blobs,
		scanner: scanner,
	}
}

func (u *fileUsecase) Save(ctx context.Context, file domain.FileDto) (domain.File, error) {
	name := security.SanitizeFilename(file.Name)

	if u.scanner != nil {
		result := u.scanner.Scan(ctx, name, file.Content)
		if result.Error != nil {
			logger.Log.Error("antivirus scan failed", "scanner", result.ScannerName, "error", result.Error)
			return domain.File{}, apperror.New(http.StatusServiceUnavailable, "File could not be scanned, try again later", result.Error)
		}
		if result.Infected {
			logger.Log.Warn("infected upload rejected", "scanner", result.ScannerName, "threat", result.ThreatName)
			return domain.File{}, apperror.BadRequest("File rejected: malware detected")
		}
	}

	key := uuid.NewString() + "_" + name
	if err := u.blobs.Put(ctx, key, file.Content); err != nil {
		return domain.File{}, fmt.Errorf("store payload: %w", err)
	}

	saved, err := u.repo.Save(ctx, domain.File{Name: name, Path: key})
	if err != nil {
		if delErr := u.blobs.Delete(ctx, key); delErr != nil {
			logger.Log.Warn("failed to remove orphaned payload", "key", key, "error", delErr)
		}
		return domain.File{}, fmt.Errorf("save file metadata: %w", err)
	}
	return saved, nil
}

func (u *fileUsecase) DeleteByID(ctx context.Context, id int) error {
	meta, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("find file %d: %w", id, err)
	}
	if meta == nil {
		return nil
	}

	if err := u.blobs.Delete(ctx, meta.Path); err != nil {
		return fmt.Errorf("delete payload: %w", err)
	}
	if _, err := u.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete file metadata: %w", err)
	}
	return nil
}

func (u *fileUsecase) GetByID(ctx context.Context, id int) (*domain.FileDto, error) {
	meta, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find file %d: %w", id, err)
	}
	if meta == nil {
		return nil, nil
	}

	content, err := u.blobs.Get(ctx, meta.Path)
	if errors.Is(err, storage.ErrObjectNotFound) {
		logger.Log.Warn("file metadata without payload", "file_id", id, "key", meta.Path)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return &domain.FileDto{Name: meta.Name, Content: content}, nil
}
