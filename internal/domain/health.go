package domain

import "context"

type HealthUsecase interface {
	// Check reports per-dependency status and whether all of them are reachable.
	Check(ctx context.Context) (map[string]string, bool)
}
