package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spot-the-bot/internal/metrics"
)

// requestLogger logs and counts every request by its route pattern so room
// codes do not explode metric cardinality.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := time.Since(start)
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

		event := s.log.Info()
		if status >= 500 {
			event = s.log.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", elapsed).
			Str("remote_addr", c.ClientIP()).
			Msg("request completed")
	}
}
