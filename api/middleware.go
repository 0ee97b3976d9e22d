package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/Domenick1991/letservice/internal/logger"
	"github.com/Domenick1991/letservice/internal/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	HeaderUserID    = "X-User-Id"
	HeaderUserRole  = "X-User-Role"
	HeaderRequestID = "X-Request-Id"

	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleUser    = "USER"

	ctxUserID   = "user_id"
	ctxUserRole = "user_role"
)

// Identity copies the caller headers into the gin context. Authentication
// happens upstream; headers are trusted as given.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxUserID, strings.TrimSpace(c.GetHeader(HeaderUserID)))
		c.Set(ctxUserRole, strings.ToUpper(strings.TrimSpace(c.GetHeader(HeaderUserRole))))
		c.Next()
	}
}

func userID(c *gin.Context) string {
	if v := c.GetString(ctxUserID); v != "" {
		return v
	}
	return strings.TrimSpace(c.GetHeader(HeaderUserID))
}

func userRole(c *gin.Context) string {
	if v := c.GetString(ctxUserRole); v != "" {
		return v
	}
	return strings.ToUpper(strings.TrimSpace(c.GetHeader(HeaderUserRole)))
}

// RoleGuard enforces X-User-Role only when enforcement is switched on.
type RoleGuard struct {
	enforce bool
}

func NewRoleGuard(enforce bool) RoleGuard {
	return RoleGuard{enforce: enforce}
}

func (g RoleGuard) Require(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[strings.ToUpper(r)] = struct{}{}
	}
	return func(c *gin.Context) {
		if !g.enforce {
			c.Next()
			return
		}
		if _, ok := allowed[userRole(c)]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, errorResponse{Error: "FORBIDDEN", Message: "Insufficient role"})
			return
		}
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)

		c.Next()

		fields := []logger.Field{
			logger.F("request_id", requestID),
			logger.F("method", c.Request.Method),
			logger.F("path", c.FullPath()),
			logger.F("status", c.Writer.Status()),
			logger.F("latency_ms", time.Since(start).Milliseconds()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.F("error", c.Errors.String()))
			log.Error("request failed", fields...)
			return
		}
		log.Info("request", fields...)
	}
}

// Throttle rejects a caller once counter reports more than limit hits for
// its key. A non-positive limit disables it; counter failures let the
// request through.
func Throttle(counter ratelimit.Counter, limit int, key func(*gin.Context) string, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || counter == nil {
			c.Next()
			return
		}
		k := key(c)
		n, err := counter.Hit(c.Request.Context(), k)
		if err != nil {
			log.Warn("rate limit counter unavailable", logger.F("key", k), logger.F("error", err))
			c.Next()
			return
		}
		if n > limit {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{Error: kindRateLimited, Message: "Too many attempts, try again later"})
			return
		}
		c.Next()
	}
}

// CallerKey keys throttling by caller id, falling back to the client address.
func CallerKey(prefix string) func(*gin.Context) string {
	return func(c *gin.Context) string {
		if id := userID(c); id != "" {
			return prefix + ":user:" + id
		}
		return prefix + ":ip:" + c.ClientIP()
	}
}
