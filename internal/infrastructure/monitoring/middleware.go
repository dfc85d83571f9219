package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Route template keeps label cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures an inference channel call
type Timer struct {
	start    time.Time
	metrics  *Metrics
	endpoint string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, endpoint string) *Timer {
	return &Timer{
		start:    time.Now(),
		metrics:  metrics,
		endpoint: endpoint,
	}
}

// Stop records the duration with the given status
func (t *Timer) Stop(status string) {
	t.metrics.RecordBridgeRequest(t.endpoint, status, time.Since(t.start))
}
