package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cities (
		id   SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id   SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		path VARCHAR(512) NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS candidates (
		id            SERIAL PRIMARY KEY,
		name          VARCHAR(255) NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		city_id       INT NOT NULL DEFAULT 0,
		file_id       INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS vacancies (
		id            SERIAL PRIMARY KEY,
		title         VARCHAR(255) NOT NULL,
		description   TEXT NOT NULL DEFAULT '',
		creation_date TIMESTAMPTZ NOT NULL DEFAULT now(),
		visible       BOOLEAN NOT NULL DEFAULT false,
		city_id       INT NOT NULL DEFAULT 0,
		file_id       INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id       SERIAL PRIMARY KEY,
		email    VARCHAR(255) NOT NULL UNIQUE,
		name     VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL
	)`,
}

// EnsureSchema creates the tables if needed and loads the given city
// names when the cities table is empty.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool, cities []string) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	var count int
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM cities`).Scan(&count); err != nil {
		return fmt.Errorf("count cities: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, name := range cities {
		if _, err := db.Exec(ctx, `INSERT INTO cities (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
			return fmt.Errorf("seed city %q: %w", name, err)
		}
	}
	return nil
}
