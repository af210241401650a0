package middleware

import (
	"net/http"
	"time"

	"github.com/eric6923/finTrack-sub000/internal/domain/shared"
	"github.com/eric6923/finTrack-sub000/internal/infrastructure/logger"
	"github.com/eric6923/finTrack-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// IdempotencyKeyHeader carries the client-chosen key of a mutating request
	IdempotencyKeyHeader = "Idempotency-Key"
	// IdempotencyReplayHeader is set on responses rejected as replays
	IdempotencyReplayHeader = "Idempotent-Replayed"
	// IdempotentReplayKey marks a replayed request on the gin context
	IdempotentReplayKey = "idempotent_replay"

	maxIdempotencyKeyLen = 255
)

// IdempotencyConfig configures the Idempotency middleware
type IdempotencyConfig struct {
	Store shared.IdempotencyStore
	TTL   time.Duration
}

// Idempotency rejects a second request carrying an Idempotency-Key already
// seen for the same tenant and route. Keys are released again when the
// first request fails so that the client can retry. Requests without the
// header pass through untouched.
//
// It must run after JWTAuth so the tenant is known.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	if cfg.Store == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return func(c *gin.Context) {
		raw := c.GetHeader(IdempotencyKeyHeader)
		if raw == "" || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}
		if len(raw) > maxIdempotencyKeyLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}

		tenant := "anonymous"
		if id, ok := GetTenantUUID(c); ok {
			tenant = id.String()
		}
		key := tenant + ":" + c.Request.Method + ":" + c.FullPath() + ":" + raw

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)

		fresh, err := cfg.Store.MarkProcessed(ctx, key, ttl)
		if err != nil {
			// store outage: serve the request rather than fail it
			log.Warn("Idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !fresh {
			c.Set(IdempotentReplayKey, true)
			c.Header(IdempotencyReplayHeader, "true")
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already processed", GetRequestID(c)))
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := cfg.Store.Release(ctx, key); err != nil {
				log.Warn("Failed to release idempotency key", zap.Error(err))
			}
		}
	}
}
