package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-dreamjob-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type vacancyRepo struct {
	db *pgxpool.Pool
}

func NewVacancyRepository(db *pgxpool.Pool) domain.VacancyRepository {
	return &vacancyRepo{db: db}
}

const vacancyColumns = `id, title, description, creation_date, visible, city_id, file_id`

func scanVacancy(row pgx.Row) (domain.Vacancy, error) {
	var v domain.Vacancy
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.CreationDate, &v.Visible, &v.CityID, &v.FileID)
	return v, err
}

func (r *vacancyRepo) Save(ctx context.Context, v domain.Vacancy) (domain.Vacancy, error) {
	query := `INSERT INTO vacancies (title, description, creation_date, visible, city_id, file_id)
              VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := r.db.QueryRow(ctx, query, v.Title, v.Description, v.CreationDate, v.Visible, v.CityID, v.FileID).Scan(&v.ID)
	if err != nil {
		return domain.Vacancy{}, fmt.Errorf("insert vacancy: %w", err)
	}
	return v, nil
}

func (r *vacancyRepo) DeleteByID(ctx context.Context, id int) (bool, error) {
	return execAffected(ctx, r.db, `DELETE FROM vacancies WHERE id = $1`, id)
}

func (r *vacancyRepo) Update(ctx context.Context, v domain.Vacancy) (bool, error) {
	query := `UPDATE vacancies
              SET title = $2, description = $3, creation_date = $4, visible = $5, city_id = $6, file_id = $7
              WHERE id = $1`
	return execAffected(ctx, r.db, query, v.ID, v.Title, v.Description, v.CreationDate, v.Visible, v.CityID, v.FileID)
}

func (r *vacancyRepo) UpdateIfFile(ctx context.Context, v domain.Vacancy, expectedFileID int) (bool, error) {
	query := `UPDATE vacancies
              SET title = $2, description = $3, creation_date = $4, visible = $5, city_id = $6, file_id = $7
              WHERE id = $1 AND file_id = $8`
	return execAffected(ctx, r.db, query, v.ID, v.Title, v.Description, v.CreationDate, v.Visible, v.CityID, v.FileID, expectedFileID)
}

func (r *vacancyRepo) DeleteIfFile(ctx context.Context, id int, expectedFileID int) (bool, error) {
	return execAffected(ctx, r.db, `DELETE FROM vacancies WHERE id = $1 AND file_id = $2`, id, expectedFileID)
}

func (r *vacancyRepo) FindByID(ctx context.Context, id int) (*domain.Vacancy, error) {
	v, err := scanVacancy(r.db.QueryRow(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find vacancy %d: %w", id, err)
	}
	return &v, nil
}

func (r *vacancyRepo) FindAll(ctx context.Context) ([]domain.Vacancy, error) {
	rows, err := r.db.Query(ctx, `SELECT `+vacancyColumns+` FROM vacancies ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	defer rows.Close()

	vacancies := []domain.Vacancy{}
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, err
		}
		vacancies = append(vacancies, v)
	}
	return vacancies, rows.Err()
}
