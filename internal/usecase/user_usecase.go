package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/logger"
	"go-dreamjob-backend/pkg/security"
	"go-dreamjob-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

const minPasswordLength = 6

// LoginGuard tracks failed logins and blocks brute force attempts
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

// SessionIssuer signs session tokens
type SessionIssuer interface {
	Issue(userID int, email, name string) (string, time.Time, error)
}

type userUsecase struct {
	repo     domain.UserRepository
	guard    LoginGuard
	sessions SessionIssuer
	secLog   *security.SecurityLogger
	validate *validator.Validate
}

func NewUserUsecase(repo domain.UserRepository, guard LoginGuard, sessions SessionIssuer, secLog *security.SecurityLogger, validate *validator.Validate) domain.UserUsecase {
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	return &userUsecase{
		repo:     repo,
		guard:    guard,
		sessions: sessions,
		secLog:   secLog,
		validate: validate,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *userUsecase) Register(ctx context.Context, user domain.User) (*domain.User, error) {
	user.Email = normalizeEmail(user.Email)
	user.Name = strings.TrimSpace(user.Name)

	if err := u.validate.Struct(user); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) {
			return nil, apperror.BadRequest(validation.Message(err))
		}
		return nil, apperror.Internal(err)
	}
	if len(user.Password) < minPasswordLength {
		return nil, apperror.BadRequest("Password: must be at least 6 characters")
	}

	hash, err := security.HashPassword(user.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	user.Password = hash

	saved, err := u.repo.Save(ctx, user)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if saved == nil {
		return nil, apperror.Conflict("User with this email already exists")
	}

	u.secLog.LogRegistered(ctx, saved.Email)
	return saved, nil
}

func (u *userUsecase) Login(ctx context.Context, email, password, ip string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperror.BadRequest("Email and password are required")
	}

	if u.guard != nil {
		blocked, err := u.guard.IsBlocked(ctx, email, ip)
		if err != nil {
			logger.Log.Warn("login block check failed", "error", err)
		}
		if blocked {
			return nil, apperror.TooManyRequests("Too many failed login attempts, try again later")
		}
	}

	user, err := u.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil || !security.CheckPassword(user.Password, password) {
		return nil, u.failLogin(ctx, email, ip)
	}

	if u.guard != nil {
		if err := u.guard.ClearAttempts(ctx, email, ip); err != nil {
			logger.Log.Warn("failed to clear login attempts", "error", err)
		}
	}

	token, expiresAt, err := u.sessions.Issue(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u.secLog.LogLoginSuccess(ctx, user.ID, ip)
	return &domain.Session{User: *user, Token: token, ExpiresAt: expiresAt}, nil
}

func (u *userUsecase) failLogin(ctx context.Context, email, ip string) error {
	if u.guard == nil {
		u.secLog.LogLoginFailed(ctx, email, ip, "invalid_credentials")
		return apperror.Unauthorized("Invalid email or password")
	}

	blocked, _, err := u.guard.RecordFailedAttempt(ctx, email, ip)
	if err != nil {
		logger.Log.Warn("failed to record login attempt", "error", err)
	}
	if blocked {
		return apperror.TooManyRequests("Too many failed login attempts, try again later")
	}
	return apperror.Unauthorized("Invalid email or password")
}

func (u *userUsecase) GetCurrentUser(ctx context.Context, id int) (*domain.User, error) {
	user, err := u.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if user == nil {
		return nil, apperror.Unauthorized("Session user no longer exists")
	}
	return user, nil
}
