package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// requestMetrics records every request under its route template.
func (h *Handler) requestMetrics(c *gin.Context) {
	start := time.Now()
	c.Next()

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	h.metrics.ObserveRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
}
