package domain

import (
	"context"
	"time"
)

type User struct {
	ID       int    `json:"id"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=2,max=255,valid_name"`
	Password string `json:"-"`
}

func (u User) GetID() int { return u.ID }

func (u User) WithID(id int) User {
	u.ID = id
	return u
}

// Session is issued on successful login.
type Session struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserRepository interface {
	// Save returns nil without error when the email is already registered.
	Save(ctx context.Context, user User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
}

type UserUsecase interface {
	Register(ctx context.Context, user User) (*User, error)
	Login(ctx context.Context, email, password, ip string) (*Session, error)
	GetCurrentUser(ctx context.Context, id int) (*User, error)
}
