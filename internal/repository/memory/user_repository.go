package memory

import (
	"context"
	"strings"
	"sync"

	"go-dreamjob-backend/internal/domain"
)

// UserRepository keeps users in a Store and enforces unique emails.
type UserRepository struct {
	mu      sync.Mutex
	store   *Store[domain.User]
	byEmail map[string]int
}

func NewUserRepository() domain.UserRepository {
	return &UserRepository{
		store:   NewStore[domain.User](),
		byEmail: make(map[string]int),
	}
}

func (r *UserRepository) Save(ctx context.Context, user domain.User) (*domain.User, error) {
	key := normalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[key]; exists {
		return nil, nil
	}
	saved, err := r.store.Save(ctx, user)
	if err != nil {
		return nil, err
	}
	r.byEmail[key] = saved.ID
	return &saved, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	id, exists := r.byEmail[normalizeEmail(email)]
	r.mu.Unlock()

	if !exists {
		return nil, nil
	}
	return r.store.FindByID(ctx, id)
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*domain.User, error) {
	return r.store.FindByID(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
