package usecase

import (
	"context"
	"time"

	"go-dreamjob-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

type vacancyUsecase struct {
	*attachmentService[domain.Vacancy]
	now func() time.Time
}

func NewVacancyUsecase(repo domain.VacancyRepository, files domain.FileStore, validate *validator.Validate) domain.VacancyUsecase {
	return &vacancyUsecase{
		attachmentService: newAttachmentService("vacancy", repo, files, validate),
		now:               time.Now,
	}
}

func (u *vacancyUsecase) Save(ctx context.Context, vacancy domain.Vacancy, file domain.FileDto) (domain.Vacancy, error) {
	if vacancy.CreationDate.IsZero() {
		vacancy.CreationDate = u.now()
	}
	return u.attachmentService.Save(ctx, vacancy, file)
}
