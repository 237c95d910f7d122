package security

import (
	"context"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*SecurityLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewSecurityLogger(zap.New(core), "dreamjob", "test"), logs
}

func noRedis() *goredis.Client { return nil }

func TestSecurityLoggerHashesEmail(t *testing.T) {
	sl, logs := observedLogger()

	sl.LogLoginFailed(context.Background(), "anna@example.com", "10.0.0.1", "invalid_credentials")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zapcore.WarnLevel, entry.Level)
	assert.Equal(t, string(EventLoginFailed), entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, HashValue("anna@example.com"), fields["subject_value"])
	assert.NotContains(t, fields["subject_value"], "anna")
	assert.Equal(t, "10.0.0.1", fields["ip"])
}

func TestLoginTrackerFailsOpenWithoutRedis(t *testing.T) {
	sl, logs := observedLogger()
	tracker := NewLoginTracker(LoginTrackerConfig{}, sl)
	tracker.client = noRedis
	ctx := context.Background()

	blocked, err := tracker.IsBlocked(ctx, "anna@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)

	blocked, count, err := tracker.RecordFailedAttempt(ctx, "anna@example.com", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Zero(t, count)
	assert.Equal(t, 1, logs.FilterMessage(string(EventLoginFailed)).Len())

	assert.NoError(t, tracker.ClearAttempts(ctx, "anna@example.com", "10.0.0.1"))

	remaining, err := tracker.GetRemainingAttempts(ctx, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)
}

func TestUploadLimiterFailsOpenWithoutRedis(t *testing.T) {
	limiter := NewUploadLimiter(0, 0)
	limiter.client = noRedis

	allowed, retry, err := limiter.AllowUpload(context.Background(), "10.0.0.1", "1")
	assert.True(t, allowed)
	assert.Zero(t, retry)
	assert.Error(t, err)
	assert.Equal(t, 10, limiter.maxPerMinute)
	assert.Equal(t, 50, limiter.maxPerDay)
}

func TestHashValue(t *testing.T) {
	assert.Len(t, HashValue("x"), 16)
	assert.Equal(t, HashValue("x"), HashValue("x"))
	assert.NotEqual(t, HashValue("x"), HashValue("y"))
	assert.Equal(t, "10.0.0.1", maskValue("ip", "10.0.0.1"))
}

func TestEventSeverityDrivesLevel(t *testing.T) {
	sl, logs := observedLogger()
	ctx := context.Background()

	sl.LogLoginSuccess(ctx, 7, "10.0.0.1")
	sl.LogCSRFViolation(ctx, "10.0.0.2", "req-1", "/v1/candidates")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, zapcore.InfoLevel, logs.All()[0].Level)
	assert.Equal(t, "INFO", logs.All()[0].ContextMap()["severity"])
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[1].Level)
	assert.Equal(t, "HIGH", logs.All()[1].ContextMap()["severity"])

	assert.True(t, IsHighOrAbove(EventLoginBlocked))
	assert.False(t, IsHighOrAbove(EventUploadRejected))
	assert.Equal(t, SeverityWARN, GetSeverity(EventType("something_new")))
}
