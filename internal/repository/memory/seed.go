package memory

import (
	"context"
	"fmt"
	"time"

	"go-dreamjob-backend/internal/domain"
)

// DefaultCities is the city catalogue shared by every storage backend.
var DefaultCities = []domain.City{
	{Name: "Moscow"},
	{Name: "Saint Petersburg"},
	{Name: "Yekaterinburg"},
}

func seedCandidates() []domain.Candidate {
	return []domain.Candidate{
		{Name: "Ivan Petrov", Description: "More than 10 years of C++ development, 2 years of Java",
			CreationDate: time.Date(2025, 1, 9, 12, 30, 59, 0, time.UTC), CityID: 1},
		{Name: "Maria Bykova", Description: "Java developer, 3 years at a billing company",
			CreationDate: time.Date(2025, 1, 25, 13, 10, 25, 0, time.UTC), CityID: 2},
		{Name: "Taras Vasilchikov", Description: "Junior Java developer",
			CreationDate: time.Date(2025, 1, 12, 10, 15, 5, 0, time.UTC), CityID: 3},
		{Name: "Lyubov Ogonkova", Description: "More than 4 years as a Java developer in a bank",
			CreationDate: time.Date(2025, 1, 12, 10, 15, 5, 0, time.UTC), CityID: 3},
		{Name: "Nikolay Kukushkin", Description: "Java developer for more than 7 years",
			CreationDate: time.Date(2025, 2, 2, 11, 25, 17, 0, time.UTC), CityID: 2},
		{Name: "Anna Kruglova", Description: "Java developer for more than 2 years, Python for more than 3 years",
			CreationDate: time.Date(2025, 2, 6, 1, 32, 56, 0, time.UTC), CityID: 1},
	}
}

func seedVacancies() []domain.Vacancy {
	return []domain.Vacancy{
		{Title: "Intern Java Developer", Description: "Internship to gain hands-on software development experience",
			CreationDate: time.Date(2025, 1, 9, 12, 30, 59, 0, time.UTC), Visible: true, CityID: 1},
		{Title: "Junior Java Developer", Description: "Junior specialist position",
			CreationDate: time.Date(2025, 1, 25, 13, 10, 25, 0, time.UTC), Visible: false, CityID: 2},
		{Title: "Junior+ Java Developer", Description: "Advanced junior specialist position",
			CreationDate: time.Date(2025, 1, 12, 10, 15, 5, 0, time.UTC), Visible: true, CityID: 3},
		{Title: "Middle Java Developer", Description: "Specialist with 3+ years who can build an application from scratch on their own",
			CreationDate: time.Date(2025, 1, 12, 10, 15, 5, 0, time.UTC), Visible: false, CityID: 1},
		{Title: "Middle+ Java Developer", Description: "Middle level specialist with advanced experience",
			CreationDate: time.Date(2025, 2, 2, 11, 25, 17, 0, time.UTC), Visible: true, CityID: 2},
		{Title: "Senior Java Developer", Description: "Professional with 5+ years combining technical lead and team lead duties",
			CreationDate: time.Date(2025, 2, 6, 1, 32, 56, 0, time.UTC), Visible: true, CityID: 3},
	}
}

// SeedCities fills an empty city repository with DefaultCities.
func SeedCities(ctx context.Context, repo domain.CityRepository) error {
	return seedIfEmpty(ctx, repo, DefaultCities)
}

// SeedDemoData fills empty candidate and vacancy repositories with demo rows.
func SeedDemoData(ctx context.Context, candidates domain.CandidateRepository, vacancies domain.VacancyRepository) error {
	if err := seedIfEmpty[domain.Candidate](ctx, candidates, seedCandidates()); err != nil {
		return fmt.Errorf("seed candidates: %w", err)
	}
	if err := seedIfEmpty[domain.Vacancy](ctx, vacancies, seedVacancies()); err != nil {
		return fmt.Errorf("seed vacancies: %w", err)
	}
	return nil
}

func seedIfEmpty[T any](ctx context.Context, repo domain.Repository[T], rows []T) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, row := range rows {
		if _, err := repo.Save(ctx, row); err != nil {
			return err
		}
	}
	return nil
}
