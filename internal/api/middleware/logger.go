package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger emits one structured log line per request.
func Logger(log *logrus.Logger) gin.HandlerFunc {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Millisecond).String(),
			"client":   c.ClientIP(),
		})
		if c.Writer.Status() >= 500 {
			entry.Error("request")
		} else {
			entry.Info("request")
		}
	}
}
