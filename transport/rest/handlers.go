package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultResultsLimit = 20
	maxResultsLimit     = 100
)

func (that *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (that *Server) handleMatch(c *gin.Context) {
	c.JSON(http.StatusOK, that.service.Snapshot())
}

func (that *Server) handleResults(c *gin.Context) {
	limit := defaultResultsLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxResultsLimit {
		limit = maxResultsLimit
	}

	results, err := that.service.Results(c.Request.Context(), limit)
	if err != nil {
		that.logger.Error("failed to load results", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load results"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
