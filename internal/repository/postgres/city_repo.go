package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-dreamjob-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type cityRepo struct {
	db *pgxpool.Pool
}

func NewCityRepository(db *pgxpool.Pool) domain.CityRepository {
	return &cityRepo{db: db}
}

func (r *cityRepo) Save(ctx context.Context, c domain.City) (domain.City, error) {
	if err := r.db.QueryRow(ctx, `INSERT INTO cities (name) VALUES ($1) RETURNING id`, c.Name).Scan(&c.ID); err != nil {
		return domain.City{}, fmt.Errorf("insert city: %w", err)
	}
	return c, nil
}

func (r *cityRepo) DeleteByID(ctx context.Context, id int) (bool, error) {
	return execAffected(ctx, r.db, `DELETE FROM cities WHERE id = $1`, id)
}

func (r *cityRepo) Update(ctx context.Context, c domain.City) (bool, error) {
	return execAffected(ctx, r.db, `UPDATE cities SET name = $2 WHERE id = $1`, c.ID, c.Name)
}

func (r *cityRepo) FindByID(ctx context.Context, id int) (*domain.City, error) {
	var c domain.City
	err := r.db.QueryRow(ctx, `SELECT id, name FROM cities WHERE id = $1`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find city %d: %w", id, err)
	}
	return &c, nil
}

func (r *cityRepo) FindAll(ctx context.Context) ([]domain.City, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM cities ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	cities := []domain.City{}
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	return cities, rows.Err()
}
