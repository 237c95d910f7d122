package usecase

import (
	"context"
	"time"

	"go-dreamjob-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

type candidateUsecase struct {
	*attachmentService[domain.Candidate]
	now func() time.Time
}

func NewCandidateUsecase(repo domain.CandidateRepository, files domain.FileStore, validate *validator.Validate) domain.CandidateUsecase {
	return &candidateUsecase{
		attachmentService: newAttachmentService("candidate", repo, files, validate),
		now:               time.Now,
	}
}

func (u *candidateUsecase) Save(ctx context.Context, candidate domain.Candidate, file domain.FileDto) (domain.Candidate, error) {
	if candidate.CreationDate.IsZero() {
		candidate.CreationDate = u.now()
	}
	return u.attachmentService.Save(ctx, candidate, file)
}
