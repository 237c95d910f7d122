package usecase

import (
	"context"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/export"
)

const exportDateLayout = "2006-01-02 15:04"

type exportUsecase struct {
	candidates domain.CandidateRepository
	vacancies  domain.VacancyRepository
	cities     domain.CityRepository
}

func NewExportUsecase(candidates domain.CandidateRepository, vacancies domain.VacancyRepository, cities domain.CityRepository) domain.ExportUsecase {
	return &exportUsecase{
		candidates: candidates,
		vacancies:  vacancies,
		cities:     cities,
	}
}

func (u *exportUsecase) cityNames(ctx context.Context) (map[int]string, error) {
	cities, err := u.cities.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(cities))
	for _, c := range cities {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (u *exportUsecase) CandidatesXLSX(ctx context.Context) ([]byte, error) {
	candidates, err := u.candidates.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	cities, err := u.cityNames(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	table := export.Table{
		Sheet:   "Candidates",
		Columns: []string{"ID", "Name", "Description", "City", "Created", "Has attachment"},
	}
	for _, c := range candidates {
		table.Rows = append(table.Rows, []interface{}{
			c.ID, c.Name, c.Description, cities[c.CityID], c.CreationDate.Format(exportDateLayout), yesNo(c.FileID != 0),
		})
	}

	data, err := export.XLSX(table)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

func (u *exportUsecase) VacanciesXLSX(ctx context.Context) ([]byte, error) {
	vacancies, err := u.vacancies.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	cities, err := u.cityNames(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	table := export.Table{
		Sheet:   "Vacancies",
		Columns: []string{"ID", "Title", "Description", "City", "Visible", "Created", "Has attachment"},
	}
	for _, v := range vacancies {
		table.Rows = append(table.Rows, []interface{}{
			v.ID, v.Title, v.Description, cities[v.CityID], yesNo(v.Visible), v.CreationDate.Format(exportDateLayout), yesNo(v.FileID != 0),
		})
	}

	data, err := export.XLSX(table)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return data, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
