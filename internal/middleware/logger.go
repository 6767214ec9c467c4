package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"oficina/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger assigns a request id, logs one line per request and turns
// panics into a 500 envelope. Stacks are only returned to clients outside
// production.
func RequestLogger(log *zap.Logger, production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("request_id", rid)
		c.Writer.Header().Set(requestIDHeader, rid)

		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				stack := debug.Stack()
				log.Error("panic recovered",
					append(requestFields(c, start, rid), zap.Error(err), zap.ByteString("stack", stack))...)

				if production {
					response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				} else {
					response.ErrorWithDetails(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), string(stack))
				}
				c.Abort()
			}
		}()

		c.Next()

		fields := requestFields(c, start, rid)
		status := c.Writer.Status()
		switch {
		case len(c.Errors) > 0:
			log.Error("request failed", append(fields, zap.String("errors", c.Errors.String()))...)
		case status >= http.StatusInternalServerError:
			log.Error("request failed", fields...)
		case status >= http.StatusBadRequest:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func requestFields(c *gin.Context, start time.Time, rid string) []zap.Field {
	return []zap.Field{
		zap.String("request_id", rid),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("query", c.Request.URL.RawQuery),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
		zap.String("client_ip", c.ClientIP()),
		zap.Int64("user_id", c.GetInt64(ctxUserID)),
	}
}
