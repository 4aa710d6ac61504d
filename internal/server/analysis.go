package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// itemAnalysis runs the price analysis for one item number on demand.
// An optional lookback_days query overrides the configured window.
func (s *Server) itemAnalysis(c *gin.Context) {
	item := c.Param("item")
	if item == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item number is required"})
		return
	}

	lookback := s.lookback
	if raw := c.Query("lookback_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lookback_days must be a positive integer"})
			return
		}
		lookback = n
	}

	analysis, err := s.analyzer.Analyze(c.Request.Context(), item, lookback)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
