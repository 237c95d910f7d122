package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-dreamjob-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type fileRepo struct {
	db *pgxpool.Pool
}

func NewFileRepository(db *pgxpool.Pool) domain.FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Save(ctx context.Context, f domain.File) (domain.File, error) {
	if err := r.db.QueryRow(ctx, `INSERT INTO files (name, path) VALUES ($1, $2) RETURNING id`, f.Name, f.Path).Scan(&f.ID); err != nil {
		return domain.File{}, fmt.Errorf("insert file: %w", err)
	}
	return f, nil
}

func (r *fileRepo) DeleteByID(ctx context.Context, id int) (bool, error) {
	return execAffected(ctx, r.db, `DELETE FROM files WHERE id = $1`, id)
}

func (r *fileRepo) Update(ctx context.Context, f domain.File) (bool, error) {
	return execAffected(ctx, r.db, `UPDATE files SET name = $2, path = $3 WHERE id = $1`, f.ID, f.Name, f.Path)
}

func (r *fileRepo) FindByID(ctx context.Context, id int) (*domain.File, error) {
	var f domain.File
	err := r.db.QueryRow(ctx, `SELECT id, name, path FROM files WHERE id = $1`, id).Scan(&f.ID, &f.Name, &f.Path)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find file %d: %w", id, err)
	}
	return &f, nil
}

func (r *fileRepo) FindAll(ctx context.Context) ([]domain.File, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, path FROM files ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	files := []domain.File{}
	for rows.Next() {
		var f domain.File
		if err := rows.Scan(&f.ID, &f.Name, &f.Path); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
