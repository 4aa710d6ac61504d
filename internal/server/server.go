// Package server exposes the quote pipeline over HTTP: upload and
// extraction, stored quote retrieval, report downloads, price analysis, and
// prompt config administration.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/procuretrack/quote-analyzer/internal/common"
	"github.com/procuretrack/quote-analyzer/internal/extract"
	"github.com/procuretrack/quote-analyzer/internal/pricing"
	"github.com/procuretrack/quote-analyzer/internal/report"
	"github.com/procuretrack/quote-analyzer/internal/repository"
)

type Server struct {
	cfg       common.ServerConfig
	extractor *extract.Extractor
	quotes    repository.QuoteRepository
	prompts   repository.PromptConfigRepository
	analyzer  *pricing.Analyzer
	reports   *report.Service
	lookback  int
	logger    *slog.Logger
}

func NewServer(
	cfg common.ServerConfig,
	extractor *extract.Extractor,
	quotes repository.QuoteRepository,
	prompts repository.PromptConfigRepository,
	analyzer *pricing.Analyzer,
	reports *report.Service,
	lookbackDays int,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:       cfg,
		extractor: extractor,
		quotes:    quotes,
		prompts:   prompts,
		analyzer:  analyzer,
		reports:   reports,
		lookback:  lookbackDays,
		logger:    logger,
	}
}

// Router builds the gin engine with middleware and all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.requestLogger())
	r.Use(cors.New(corsConfig()))
	r.MaxMultipartMemory = 16 << 20

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/quotes", s.uploadQuote)
	r.GET("/quotes", s.listQuotes)
	r.GET("/quotes/:id", s.getQuote)
	r.GET("/quotes/:id/report.pdf", s.quoteReportPDF)
	r.GET("/quotes/:id/report.xlsx", s.quoteReportXLSX)

	r.GET("/items/:item/analysis", s.itemAnalysis)

	r.GET("/prompt-configs", s.listPromptConfigs)
	r.POST("/prompt-configs", s.createPromptConfig)
	r.POST("/prompt-configs/:id/activate", s.activatePromptConfig)

	return r
}

func corsConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = []string{"Content-Type", "Content-Length", "Accept", "Origin", "Authorization"}
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}

// requestLogger logs one line per request with a request id, matching the
// dotted event naming used everywhere else.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := uuid.New().String()
		c.Set("req_id", reqID)
		c.Header("X-Request-ID", reqID)

		c.Next()

		s.logger.Info("http.request",
			"req_id", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	}
}

// writeError maps domain errors onto HTTP statuses. Invariant violations
// such as multiple active prompt configs are server faults, not client ones.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("http.error", "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}
