package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-dreamjob-backend/pkg/redis"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // window for counting attempts
	BlockDuration time.Duration
	UseIPTracking bool // also count and block by IP address
}

// DefaultLoginTrackerConfig returns 5 attempts per 15 minutes and a 15 minute block
func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed logins in Redis and blocks brute force attempts.
// Without Redis it fails open: nobody is blocked and nothing is counted.
type LoginTracker struct {
	config LoginTrackerConfig
	logger *SecurityLogger
	client func() *goredis.Client
}

// NewLoginTracker creates a tracker backed by the shared Redis client
func NewLoginTracker(config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 5
	}
	if config.AttemptWindow <= 0 {
		config.AttemptWindow = 15 * time.Minute
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = 15 * time.Minute
	}
	if logger == nil {
		logger = DefaultLogger()
	}
	return &LoginTracker{
		config: config,
		logger: logger,
		client: redis.Client,
	}
}

// Redis key patterns. Emails are hashed so no PII lands in Redis.
const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL in seconds
const incrWithTTLScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`

func emailKey(email string) string {
	return HashValue(strings.ToLower(strings.TrimSpace(email)))
}

// IsBlocked checks if the given email or IP is currently blocked
func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	client := lt.client()
	if client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + emailKey(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}

	exists, err := client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	if exists > 0 {
		lt.logger.LogLoginBlocked(ctx, email, ip)
		return true, nil
	}
	return false, nil
}

// RecordFailedAttempt counts a failed login and creates a block when the limit is hit.
// Returns (blocked, currentAttempts, error).
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip string) (bool, int, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, "invalid_credentials")

	client := lt.client()
	if client == nil {
		return false, 0, nil
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())

	userCount, err := lt.atomicIncrement(ctx, client, failLoginUserPrefix+emailKey(email), ttlSeconds)
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment user counter: %w", err)
	}

	if lt.config.UseIPTracking && ip != "" {
		_, _ = lt.atomicIncrement(ctx, client, failLoginIPPrefix+ip, ttlSeconds) // best effort
	}

	if userCount >= lt.config.MaxAttempts {
		if err := lt.createBlock(ctx, client, email, ip); err != nil {
			return true, userCount, fmt.Errorf("failed to create block: %w", err)
		}
		return true, userCount, nil
	}
	return false, userCount, nil
}

func (lt *LoginTracker) atomicIncrement(ctx context.Context, client *goredis.Client, key string, ttlSeconds int) (int, error) {
	result, err := client.Eval(ctx, incrWithTTLScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, err
	}
	count, ok := result.(int64)
	if !ok {
		return 0, errors.New("unexpected result type from Lua script")
	}
	return int(count), nil
}

func (lt *LoginTracker) createBlock(ctx context.Context, client *goredis.Client, email, ip string) error {
	blockTTL := lt.config.BlockDuration

	if err := client.Set(ctx, blockedLoginUserPrefix+emailKey(email), "1", blockTTL).Err(); err != nil {
		return fmt.Errorf("failed to set user block: %w", err)
	}

	if lt.config.UseIPTracking && ip != "" {
		if err := client.Set(ctx, blockedLoginIPPrefix+ip, "1", blockTTL).Err(); err != nil {
			// user is already blocked
			lt.logger.zapLogger.Warn("failed to set IP block", zap.Error(err))
		}
	}

	lt.logger.LogBlockCreated(ctx, "email", email, ip, int(blockTTL.Minutes()))
	return nil
}

// ClearAttempts resets the failure counters after a successful login
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	client := lt.client()
	if client == nil {
		return nil
	}

	if err := client.Del(ctx, failLoginUserPrefix+emailKey(email)).Err(); err != nil {
		return fmt.Errorf("failed to clear user attempts: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_ = client.Del(ctx, failLoginIPPrefix+ip).Err() // best effort
	}
	return nil
}

// GetRemainingAttempts returns how many attempts remain before a block
func (lt *LoginTracker) GetRemainingAttempts(ctx context.Context, email string) (int, error) {
	client := lt.client()
	if client == nil {
		return lt.config.MaxAttempts, nil
	}

	count, err := client.Get(ctx, failLoginUserPrefix+emailKey(email)).Int()
	if errors.Is(err, goredis.Nil) {
		return lt.config.MaxAttempts, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt count: %w", err)
	}

	remaining := lt.config.MaxAttempts - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
