package logger

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger logs every request once it has been served. Bodies are not read
// since uploads can be large.
func Logger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		uri := c.Request.RequestURI
		method := c.Request.Method

		t := time.Now()
		c.Next()
		duration := time.Since(t)

		fields := []any{
			"uri", uri,
			"method", method,
			"duration", duration,
			"status", c.Writer.Status(),
			"size", c.Writer.Size(),
		}
		if len(c.Errors) > 0 {
			logger.Warnw("request failed", append(fields, "errors", c.Errors.String())...)
			return
		}
		logger.Infow("request served", fields...)
		logger.Debugw("request body", "content_length", c.Request.ContentLength, "content_type", c.ContentType())
	}
}
