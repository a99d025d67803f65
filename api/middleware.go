package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"pos_sales/internal/auth"
	"pos_sales/internal/i18n"
	"pos_sales/internal/sales"
)

const (
	requestIDKey = "request_id"
	languageKey  = "lang"
	actorKey     = "actor"
)

var anonymous = sales.Actor{Username: "anonymous"}

// RequestLogger tags the request with an id and language and writes one
// access log line when it completes.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Set(languageKey, i18n.DetectLanguage(c.GetHeader("Accept-Language")))
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		if c.Writer.Status() >= 500 {
			logger.Error("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// ActorMiddleware resolves the bearer token into the actor handlers pass to
// the sales workflows. Without a token the request runs as anonymous unless
// required is set.
func ActorMiddleware(verifier *auth.Verifier, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			if required {
				respondUnauthorized(c, "auth.required")
				return
			}
			c.Set(actorKey, anonymous)
			c.Next()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || verifier == nil {
			respondUnauthorized(c, "auth.invalid")
			return
		}
		claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			respondUnauthorized(c, "auth.invalid")
			return
		}
		c.Set(actorKey, claims.Actor())
		c.Next()
	}
}

func respondUnauthorized(c *gin.Context, key string) {
	c.AbortWithStatusJSON(401, APIResponse{
		Success: false,
		Message: i18n.T(language(c), key),
		Key:     key,
		Meta:    newMeta(c),
	})
}

// CORS lets the single-page front-end call the API from its own origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept-Language", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}
	return cors.New(cfg)
}

func actorFrom(c *gin.Context) sales.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(sales.Actor); ok {
			return actor
		}
	}
	return anonymous
}

func language(c *gin.Context) string {
	if lang := c.GetString(languageKey); lang != "" {
		return lang
	}
	return i18n.DetectLanguage(c.GetHeader("Accept-Language"))
}
