package middlewares

import (
	"strconv"
	"time"

	"github.com/fsdevblog/luffy-streaming/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics снимает метрики по каждому запросу. В качестве пути используется шаблон роута.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.IncInFlight()
		defer m.DecInFlight()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
