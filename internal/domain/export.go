package domain

import "context"

type ExportUsecase interface {
	CandidatesXLSX(ctx context.Context) ([]byte, error)
	VacanciesXLSX(ctx context.Context) ([]byte, error)
}
