package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plateful/plateful/internal/log"
	"github.com/plateful/plateful/internal/metrics"
	"github.com/plateful/plateful/internal/security"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("X-Request-ID", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.ReqDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// SessionGuard validates the session cookie and attaches the identity to
// the context. Fails closed: no cookie or a bad/expired token is 401; a
// missing server-side secret is 500, distinct from any token problem.
func (h *Handler) SessionGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, err := c.Cookie(sessionCookie)
		if err != nil || tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
			return
		}
		claims, err := security.ParseSession(h.Cfg.JWTSecret, tok)
		if err != nil {
			if errors.Is(err, security.ErrNoSecret) {
				log.L().Error("session guard: signing secret unconfigured")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server configuration error"})
				return
			}
			// log the precise reason, return a generic message
			reason := "invalid"
			if errors.Is(err, jwt.ErrTokenExpired) {
				reason = "expired"
			}
			log.L().Warn("session rejected", zap.String("reason", reason), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}
		c.Set("uid", claims.UID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// AdminOnly requires the authenticated user to own a restaurant.
func (h *Handler) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := authUserID(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "user not authenticated"})
			return
		}
		u, err := h.Store.FindUserByID(c.Request.Context(), id)
		if err != nil || u == nil || !u.Admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "admin access required"})
			return
		}
		c.Next()
	}
}

// RateLimit throttles brute-forceable endpoints per client IP via redis.
func (h *Handler) RateLimit(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + scope + ":" + c.ClientIP()
		if !h.Redis.Allow(c.Request.Context(), key, h.Cfg.RateLimitPerMin, time.Minute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "message": "too many requests"})
			return
		}
		c.Next()
	}
}
