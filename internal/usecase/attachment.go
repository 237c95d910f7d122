package usecase

import (
	"context"
	"errors"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/logger"
	"go-dreamjob-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// attachmentService keeps an entity and its optional attached file consistent.
// The file is always written before the entity that references it, and a
// newly written file is removed again when the entity write does not land.
type attachmentService[T domain.Attachable[T]] struct {
	repo     domain.AttachmentRepository[T]
	files    domain.FileStore
	validate *validator.Validate
	kind     string
}

func newAttachmentService[T domain.Attachable[T]](kind string, repo domain.AttachmentRepository[T], files domain.FileStore, validate *validator.Validate) *attachmentService[T] {
	return &attachmentService[T]{
		repo:     repo,
		files:    files,
		validate: validate,
		kind:     kind,
	}
}

func (s *attachmentService[T]) check(entity T) error {
	if s.validate == nil {
		return nil
	}
	if err := s.validate.Struct(entity); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return apperror.BadRequest(validation.Message(err))
		}
		return apperror.Internal(err)
	}
	return nil
}

func (s *attachmentService[T]) Save(ctx context.Context, entity T, file domain.FileDto) (T, error) {
	var zero T
	if err := s.check(entity); err != nil {
		return zero, err
	}

	newFileID := 0
	if !file.Empty() {
		stored, err := s.files.Save(ctx, file)
		if err != nil {
			return zero, wrapInternal(err)
		}
		newFileID = stored.ID
		entity = entity.WithFileID(newFileID)
	}

	saved, err := s.repo.Save(ctx, entity)
	if err != nil {
		s.discardFile(ctx, newFileID, "rollback of failed save")
		return zero, wrapInternal(err)
	}
	return saved, nil
}

// Update writes entity conditioned on the file id it was read with. When a
// concurrent writer changes the stored file first, the entry is read again
// and the write retried, so the previous file deleted here is always the
// one the write replaced.
func (s *attachmentService[T]) Update(ctx context.Context, entity T, file domain.FileDto) (bool, error) {
	if err := s.check(entity); err != nil {
		return false, err
	}

	current, err := s.repo.FindByID(ctx, entity.GetID())
	if err != nil {
		return false, wrapInternal(err)
	}
	if current == nil {
		return false, nil
	}

	newFileID := 0
	if !file.Empty() {
		stored, err := s.files.Save(ctx, file)
		if err != nil {
			return false, wrapInternal(err)
		}
		newFileID = stored.ID
	}

	for {
		previousFileID := (*current).GetFileID()
		nextFileID := previousFileID
		if newFileID != 0 {
			nextFileID = newFileID
		}

		updated, err := s.repo.UpdateIfFile(ctx, entity.WithFileID(nextFileID), previousFileID)
		if err != nil {
			s.discardFile(ctx, newFileID, "rollback of failed update")
			return false, wrapInternal(err)
		}
		if updated {
			if newFileID != 0 {
				s.discardFile(ctx, previousFileID, "replaced by new attachment")
			}
			return true, nil
		}

		current, err = s.reload(ctx, entity.GetID())
		if err != nil || current == nil {
			s.discardFile(ctx, newFileID, "rollback of failed update")
			return false, err
		}
	}
}

// DeleteByID removes the entity while it still references the file it was
// read with, then deletes that file best-effort.
func (s *attachmentService[T]) DeleteByID(ctx context.Context, id int) (bool, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return false, wrapInternal(err)
	}

	for current != nil {
		fileID := (*current).GetFileID()
		deleted, err := s.repo.DeleteIfFile(ctx, id, fileID)
		if err != nil {
			return false, wrapInternal(err)
		}
		if deleted {
			s.discardFile(ctx, fileID, "owner deleted")
			return true, nil
		}

		current, err = s.reload(ctx, id)
		if err != nil {
			return false, err
		}
	}
	return false, nil
}

// reload reads the entry again after a conditional write lost to a concurrent one
func (s *attachmentService[T]) reload(ctx context.Context, id int) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapInternal(err)
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapInternal(err)
	}
	return current, nil
}

func (s *attachmentService[T]) FindByID(ctx context.Context, id int) (*T, error) {
	entity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, wrapInternal(err)
	}
	return entity, nil
}

func (s *attachmentService[T]) FindAll(ctx context.Context) ([]T, error) {
	entities, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, wrapInternal(err)
	}
	return entities, nil
}

// discardFile deletes a file best-effort. Failures leave an orphaned
// payload behind and are only logged.
func (s *attachmentService[T]) discardFile(ctx context.Context, fileID int, reason string) {
	if fileID == 0 {
		return
	}
	if err := s.files.DeleteByID(ctx, fileID); err != nil {
		logger.Log.Warn("failed to delete attachment",
			"entity", s.kind,
			"file_id", fileID,
			"reason", reason,
			"error", err,
		)
	}
}

// wrapInternal passes AppErrors through and hides everything else behind a 500
func wrapInternal(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Internal(err)
}
