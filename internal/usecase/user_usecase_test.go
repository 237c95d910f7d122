package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/internal/repository/memory"
	"go-dreamjob-backend/internal/usecase"
	"go-dreamjob-backend/pkg/security"
	"go-dreamjob-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockLoginGuard struct {
	mock.Mock
}

func (m *MockLoginGuard) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	args := m.Called(ctx, email, ip)
	return args.Bool(0), args.Error(1)
}

func (m *MockLoginGuard) RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error) {
	args := m.Called(ctx, email, ip)
	return args.Bool(0), args.Int(1), args.Error(2)
}

func (m *MockLoginGuard) ClearAttempts(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

func newUserUsecase(guard usecase.LoginGuard) (domain.UserUsecase, *security.SessionManager) {
	sessions := security.NewSessionManager("test-secret", time.Hour)
	secLog := security.NewSecurityLogger(zap.NewNop(), "dreamjob", "test")
	return usecase.NewUserUsecase(memory.NewUserRepository(), guard, sessions, secLog, validation.New()), sessions
}

func TestUserUsecaseRegister(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUsecase(nil)

	user, err := uc.Register(ctx, domain.User{Email: " Anna@Example.com ", Name: "Anna", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.Password)
	assert.True(t, security.CheckPassword(user.Password, "secret1"))

	_, err = uc.Register(ctx, domain.User{Email: "anna@example.com", Name: "Other", Password: "secret2"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, appErrCode(t, err))

	_, err = uc.Register(ctx, domain.User{Email: "not-an-email", Name: "Bob", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))

	_, err = uc.Register(ctx, domain.User{Email: "bob@example.com", Name: "Bob", Password: "123"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrCode(t, err))
}

func TestUserUsecaseLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("Valid credentials issue a session", func(t *testing.T) {
		guard := new(MockLoginGuard)
		uc, sessions := newUserUsecase(guard)
		registered, err := uc.Register(ctx, domain.User{Email: "anna@example.com", Name: "Anna", Password: "secret1"})
		require.NoError(t, err)

		guard.On("IsBlocked", ctx, "anna@example.com", "10.0.0.1").Return(false, nil).Once()
		guard.On("ClearAttempts", ctx, "anna@example.com", "10.0.0.1").Return(nil).Once()

		session, err := uc.Login(ctx, "ANNA@example.com", "secret1", "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, session.User.ID)

		userID, claims, err := sessions.Parse(session.Token)
		require.NoError(t, err)
		assert.Equal(t, registered.ID, userID)
		assert.Equal(t, "Anna", claims.Name)
		guard.AssertExpectations(t)
	})

	t.Run("Wrong password records a failure", func(t *testing.T) {
		guard := new(MockLoginGuard)
		uc, _ := newUserUsecase(guard)
		_, err := uc.Register(ctx, domain.User{Email: "anna@example.com", Name: "Anna", Password: "secret1"})
		require.NoError(t, err)

		guard.On("IsBlocked", ctx, "anna@example.com", "10.0.0.1").Return(false, nil).Once()
		guard.On("RecordFailedAttempt", ctx, "anna@example.com", "10.0.0.1").Return(false, 1, nil).Once()

		_, err = uc.Login(ctx, "anna@example.com", "wrong", "10.0.0.1")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
		guard.AssertExpectations(t)
	})

	t.Run("Unknown email looks like a wrong password", func(t *testing.T) {
		guard := new(MockLoginGuard)
		uc, _ := newUserUsecase(guard)

		guard.On("IsBlocked", ctx, "ghost@example.com", "").Return(false, nil).Once()
		guard.On("RecordFailedAttempt", ctx, "ghost@example.com", "").Return(false, 1, nil).Once()

		_, err := uc.Login(ctx, "ghost@example.com", "whatever", "")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
	})

	t.Run("Reaching the limit blocks", func(t *testing.T) {
		guard := new(MockLoginGuard)
		uc, _ := newUserUsecase(guard)

		guard.On("IsBlocked", ctx, "anna@example.com", "10.0.0.1").Return(false, nil).Once()
		guard.On("RecordFailedAttempt", ctx, "anna@example.com", "10.0.0.1").Return(true, 5, nil).Once()

		_, err := uc.Login(ctx, "anna@example.com", "wrong", "10.0.0.1")
		require.Error(t, err)
		assert.Equal(t, http.StatusTooManyRequests, appErrCode(t, err))
	})

	t.Run("Blocked user is rejected before password check", func(t *testing.T) {
		guard := new(MockLoginGuard)
		uc, _ := newUserUsecase(guard)
		_, err := uc.Register(ctx, domain.User{Email: "anna@example.com", Name: "Anna", Password: "secret1"})
		require.NoError(t, err)

		guard.On("IsBlocked", ctx, "anna@example.com", "10.0.0.1").Return(true, nil).Once()

		_, err = uc.Login(ctx, "anna@example.com", "secret1", "10.0.0.1")
		require.Error(t, err)
		assert.Equal(t, http.StatusTooManyRequests, appErrCode(t, err))
		guard.AssertNotCalled(t, "ClearAttempts", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserUsecaseGetCurrentUser(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserUsecase(nil)

	registered, err := uc.Register(ctx, domain.User{Email: "anna@example.com", Name: "Anna", Password: "secret1"})
	require.NoError(t, err)

	user, err := uc.GetCurrentUser(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", user.Email)

	_, err = uc.GetCurrentUser(ctx, 999)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, appErrCode(t, err))
}
