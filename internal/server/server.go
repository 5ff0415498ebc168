package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"stocktargets/internal/model"
	"stocktargets/internal/store"
)

// Store is the read surface the query service needs.
type Store interface {
	List(ctx context.Context, f store.ListFilter) ([]model.StockRecord, error)
	GetBySymbol(ctx context.Context, symbol string) (*model.StockRecord, error)
	Stats(ctx context.Context) (*model.Stats, error)
	Undervalued(ctx context.Context, f store.UndervaluedFilter) ([]model.StockRecord, error)
}

// Server routes HTTP requests to the store.
type Server struct {
	store  Store
	logger *slog.Logger
	engine *gin.Engine
}

// New creates a Server with all routes registered.
func New(st Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	s := &Server{
		store:  st,
		logger: logger,
		engine: engine,
	}
	s.routes()
	return s
}

// Handler exposes the router for an http.Server or tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/data/", s.handleList)
	s.engine.GET("/data/:symbol", s.handleGetSymbol)
	s.engine.GET("/stats/", s.handleStats)
	s.engine.GET("/undervalued/", s.handleUndervalued)
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
