package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"

	ctxIdempotencyCacheKey = "idempotency_cache_key"
	ctxIdempotencyLockKey  = "idempotency_lock_key"

	idempotencyLockTTL   = 30 * time.Second
	idempotencyResultTTL = 24 * time.Hour
)

// IdempotentResult is what gets replayed for a repeated Idempotency-Key.
// Location is set for browser flows that ended in a redirect.
type IdempotentResult struct {
	Status   int             `json:"status"`
	Location string          `json:"location,omitempty"`
	Body     json.RawMessage `json:"body,omitempty"`
}

// Idempotency replays a stored result for a repeated key and rejects a
// repeat that arrives while the first request is still running. The
// handler stores the result with SaveIdempotentResult. A nil client
// disables the middleware.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		userID := c.GetString(ContextUserID)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), userID, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var res IdempotentResult
			if json.Unmarshal([]byte(val), &res) == nil {
				replay(c, res)
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// fail open: the submit transaction locks per employee before its overlap check
			zap.L().Named("middleware.idempotency").Warn("idempotency lock failed", zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "Your request is still being processed", nil)
			c.Abort()
			return
		}

		c.Set(ctxIdempotencyCacheKey, cacheKey)
		c.Set(ctxIdempotencyLockKey, lockKey)

		c.Next()

		if err := rdb.Del(ctx, lockKey).Err(); err != nil {
			zap.L().Named("middleware.idempotency").Warn("idempotency unlock failed", zap.Error(err))
		}
	}
}

// SaveIdempotentResult is a no-op unless Idempotency acquired a key for this request.
func SaveIdempotentResult(c *gin.Context, rdb *redis.Client, res IdempotentResult) {
	cacheKey := c.GetString(ctxIdempotencyCacheKey)
	if rdb == nil || cacheKey == "" {
		return
	}

	payload, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := rdb.Set(c.Request.Context(), cacheKey, payload, idempotencyResultTTL).Err(); err != nil {
		zap.L().Named("middleware.idempotency").Warn("idempotency store failed",
			zap.String("key", cacheKey),
			zap.Error(err),
		)
	}
}

func replay(c *gin.Context, res IdempotentResult) {
	c.Header("Idempotent-Replayed", "true")
	if res.Location != "" {
		c.Redirect(res.Status, res.Location)
		c.Abort()
		return
	}
	c.Data(res.Status, "application/json; charset=utf-8", res.Body)
	c.Abort()
}
