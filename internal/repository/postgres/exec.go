package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// execAffected runs a single-row UPDATE or DELETE and reports whether a row matched
func execAffected(ctx context.Context, db *pgxpool.Pool, query string, args ...any) (bool, error) {
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
