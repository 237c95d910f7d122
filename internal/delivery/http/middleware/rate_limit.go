package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go-dreamjob-backend/internal/delivery/http/response"
	"go-dreamjob-backend/internal/domain"
	"go-dreamjob-backend/pkg/apperror"
	"go-dreamjob-backend/pkg/logger"
	"go-dreamjob-backend/pkg/redis"
	"go-dreamjob-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig describes a fixed-window request limit keyed per caller
type RateLimitConfig struct {
	Limit     int
	Window    time.Duration
	KeyPrefix string
	KeyFunc   func(*gin.Context) string
}

// LoginRateLimitConfig limits credential endpoints per client IP
func LoginRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Limit:     10,
		Window:    time.Minute,
		KeyPrefix: "dreamjob:rl:auth:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// KEYS[1] = counter key, ARGV[1] = window in seconds.
// Returns {count, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type windowCounter struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// memoryWindows is used when Redis is not configured or fails
type memoryWindows struct {
	entries sync.Map
}

func (m *memoryWindows) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	v, _ := m.entries.LoadOrStore(key, &windowCounter{resetAt: now.Add(window)})
	entry := v.(*windowCounter)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if now.After(entry.resetAt) {
		entry.count = 0
		entry.resetAt = now.Add(window)
	}
	entry.count++
	return entry.count, entry.resetAt
}

func (m *memoryWindows) sweep(now time.Time) {
	m.entries.Range(func(key, value interface{}) bool {
		entry := value.(*windowCounter)
		entry.mu.Lock()
		expired := now.After(entry.resetAt)
		entry.mu.Unlock()
		if expired {
			m.entries.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware enforces config using Redis when available and an
// in-process window otherwise.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	windows := &memoryWindows{}
	var lastSweep time.Time
	var sweepMu sync.Mutex

	return func(c *gin.Context) {
		key := config.KeyPrefix + config.KeyFunc(c)
		now := time.Now()

		var count int
		var resetAt time.Time
		if client := redis.Client(); client != nil {
			var err error
			count, resetAt, err = hitRedis(c.Request.Context(), client, key, config.Window)
			if err != nil {
				logger.Log.Warn("rate limit falling back to memory", "error", err)
				count, resetAt = windows.hit(key, config.Window, now)
			}
		} else {
			count, resetAt = windows.hit(key, config.Window, now)
		}

		sweepMu.Lock()
		if now.Sub(lastSweep) > 5*time.Minute {
			lastSweep = now
			go windows.sweep(now)
		}
		sweepMu.Unlock()

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > config.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-count))
		c.Next()
	}
}

func hitRedis(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

// UploadAllower decides whether a caller may upload another file
type UploadAllower interface {
	AllowUpload(ctx context.Context, ip, userID string) (bool, int, error)
}

// UploadLimitMiddleware applies the upload limiter to multipart requests.
// A limiter error lets the request through.
func UploadLimitMiddleware(limiter UploadAllower) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			c.Next()
			return
		}

		userID := ""
		if id, ok := c.Get(string(domain.KeyUserID)); ok {
			userID = fmt.Sprint(id)
		}

		allowed, retryAfter, err := limiter.AllowUpload(c.Request.Context(), c.ClientIP(), userID)
		if err != nil {
			logger.Log.Debug("upload limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)
			_ = c.Error(apperror.TooManyRequests("Upload limit reached. Please try again later."))
			c.Abort()
			return
		}
		c.Next()
	}
}

func logRateLimitTriggered(c *gin.Context) {
	if sl := security.DefaultLogger(); sl != nil {
		sl.LogRateLimitTriggered(
			c.Request.Context(),
			c.ClientIP(),
			c.GetHeader("User-Agent"),
			response.RequestID(c),
			c.FullPath(),
		)
	}
}
