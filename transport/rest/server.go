package rest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/deyvinz/connect44fx/internal/entity"
)

type matchService interface {
	Snapshot() entity.Snapshot
	Results(ctx context.Context, limit int) ([]entity.RoundSummary, error)
}

type Server struct {
	logger  *slog.Logger
	service matchService
	router  *gin.Engine
}

func New(logger *slog.Logger, service matchService) *Server {
	gin.SetMode(gin.ReleaseMode)

	that := &Server{
		logger:  logger.With("component", "rest"),
		service: service,
		router:  gin.New(),
	}

	that.router.GET("/health", that.handleHealth)
	that.router.GET("/api/match", that.handleMatch)
	that.router.GET("/api/results", that.handleResults)

	return that
}

// Start - starts the HTTP server.
func (that *Server) Start(port string) error {
	if err := that.router.Run(":" + port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}
