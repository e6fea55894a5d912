// Package server exposes the generate-then-send session flow over
// HTTP. It is a thin adapter: every handler translates one request into
// pipeline calls and a session state transition.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/assemble"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/batch"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/config"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/email"
	"github.com/Akhyarrrrr/Automasi-SPTJM/internal/excel"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Generator runs one generation batch; satisfied by batch.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, entries []assemble.Entry) (*batch.GenerateResult, error)
}

// TransportFactory builds the send capability on demand, so dry runs
// and generation work on hosts with no relay configured.
type TransportFactory func() (email.Transport, error)

// Server is the HTTP adapter over the document pipeline
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	router     *gin.Engine

	reader       *excel.Reader
	assembler    *assemble.Assembler
	generator    Generator
	newTransport TransportFactory
	store        *Store
	logger       *zap.Logger
}

// NewServer wires the pipeline components into an HTTP surface.
func NewServer(
	cfg *config.Config,
	reader *excel.Reader,
	assembler *assemble.Assembler,
	generator Generator,
	newTransport TransportFactory,
	logger *zap.Logger,
) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		cfg:          cfg,
		router:       router,
		reader:       reader,
		assembler:    assembler,
		generator:    generator,
		newTransport: newTransport,
		store:        NewStore(),
		logger:       logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.MaxMultipartMemory = s.cfg.Server.MaxUploadSize

	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.POST("/sessions", s.handleCreateSession)

		sess := api.Group("/sessions/:id")
		{
			sess.GET("", s.handleSessionStatus)
			sess.POST("/workbook", s.handleUploadWorkbook)
			sess.POST("/load", s.handleLoadSheet)
			sess.POST("/generate", s.handleGenerate)
			sess.GET("/archive", s.handleDownloadArchive)
			sess.GET("/reports/generate", s.handleGenerateReport)
			sess.GET("/reports/email", s.handleEmailReport)
			sess.GET("/preview/:index", s.handlePreview)
			sess.POST("/mapping", s.handleUploadMapping)
			sess.POST("/confirm", s.handleConfirm)
			sess.POST("/send", s.handleSend)
			sess.POST("/reset", s.handleReset)
		}
	}
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins serving and blocks until the listener fails or closes.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	s.logger.Info("HTTP server starting", zap.String("addr", addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
