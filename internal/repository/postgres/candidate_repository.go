package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-dreamjob-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type candidateRepo struct {
	db *pgxpool.Pool
}

func NewCandidateRepository(db *pgxpool.Pool) domain.CandidateRepository {
	return &candidateRepo{db: db}
}

const candidateColumns = `id, name, description, creation_date, city_id, file_id`

func scanCandidate(row pgx.Row) (domain.Candidate, error) {
	var c domain.Candidate
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreationDate, &c.CityID, &c.FileID)
	return c, err
}

func (r *candidateRepo) Save(ctx context.Context, c domain.Candidate) (domain.Candidate, error) {
	query := `INSERT INTO candidates (name, description, creation_date, city_id, file_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRow(ctx, query, c.Name, c.Description, c.CreationDate, c.CityID, c.FileID).Scan(&c.ID); err != nil {
		return domain.Candidate{}, fmt.Errorf("insert candidate: %w", err)
	}
	return c, nil
}

func (r *candidateRepo) DeleteByID(ctx context.Context, id int) (bool, error) {
	return execAffected(ctx, r.db, `DELETE FROM candidates WHERE id = $1`, id)
}

func (r *candidateRepo) Update(ctx context.Context, c domain.Candidate) (bool, error) {
	query := `UPDATE candidates
              SET name = $2, description = $3, creation_date = $4, city_id = $5, file_id = $6
              WHERE id = $1`
	return execAffected(ctx, r.db, query, c.ID, c.Name, c.Description, c.CreationDate, c.CityID, c.FileID)
}

func (r *candidateRepo) UpdateIfFile(ctx context.Context, c domain.Candidate, expectedFileID int) (bool, error) {
	query := `UPDATE candidates
              SET name = $2, description = $3, creation_date = $4, city_id = $5, file_id = $6
              WHERE id = $1 AND file_id = $7`
	return execAffected(ctx, r.db, query, c.ID, c.Name, c.Description, c.CreationDate, c.CityID, c.FileID, expectedFileID)
}

func (r *candidateRepo) DeleteIfFile(ctx context.Context, id int, expectedFileID int) (bool, error) {
	return execAffected(ctx, r.db, `DELETE FROM candidates WHERE id = $1 AND file_id = $2`, id, expectedFileID)
}

func (r *candidateRepo) FindByID(ctx context.Context, id int) (*domain.Candidate, error) {
	c, err := scanCandidate(r.db.QueryRow(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find candidate %d: %w", id, err)
	}
	return &c, nil
}

func (r *candidateRepo) FindAll(ctx context.Context) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `SELECT `+candidateColumns+` FROM candidates ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	candidates := []domain.Candidate{}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}
