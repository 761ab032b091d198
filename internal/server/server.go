// Package server exposes searches, downloads and live progress over HTTP.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atikulmunna/logbrowser/internal/aggregator"
	"github.com/atikulmunna/logbrowser/internal/browser"
	"github.com/atikulmunna/logbrowser/internal/hub"
	"github.com/atikulmunna/logbrowser/internal/model"
)

// Deps are the components the API serves.
type Deps struct {
	Browser    *browser.Coordinator
	Hub        *hub.Hub
	Aggregator *aggregator.Aggregator
	Apps       func() []string
}

// Server holds the Gin engine and its dependencies.
type Server struct {
	engine *gin.Engine
	deps   Deps
	port   string
}

// New creates the API server.
func New(deps Deps, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		deps:   deps,
		port:   port,
	}

	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) setupRoutes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		stats := s.deps.Aggregator.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status":         "ok",
			"uptime":         stats.Uptime,
			"apps":           stats.Apps,
			"searches":       stats.Searches,
			"eps":            stats.EPS,
			"dropped_events": stats.DroppedEvents,
		})
	})

	api := s.engine.Group("/api")
	api.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.deps.Aggregator.Snapshot())
	})
	api.GET("/apps", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"apps": s.deps.Apps()})
	})
	api.GET("/search", s.handleSearch)
	api.POST("/download", s.handleDownload)

	s.engine.GET("/ws", s.handleWebSocket)

	s.engine.GET("/debug/pprof/", gin.WrapF(pprof.Index))
	s.engine.GET("/debug/pprof/cmdline", gin.WrapF(pprof.Cmdline))
	s.engine.GET("/debug/pprof/profile", gin.WrapF(pprof.Profile))
	s.engine.GET("/debug/pprof/symbol", gin.WrapF(pprof.Symbol))
	s.engine.GET("/debug/pprof/trace", gin.WrapF(pprof.Trace))
	s.engine.GET("/debug/pprof/allocs", gin.WrapH(pprof.Handler("allocs")))
	s.engine.GET("/debug/pprof/heap", gin.WrapH(pprof.Handler("heap")))
	s.engine.GET("/debug/pprof/goroutine", gin.WrapH(pprof.Handler("goroutine")))
}

func (s *Server) handleSearch(c *gin.Context) {
	dr, err := model.ParseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}

	res, err := s.deps.Browser.Run(c.Request.Context(), browser.Query{
		App:   c.Query("app"),
		Range: dr,
		Text:  c.Query("text"),
		Files: c.Query("files"),
		Level: c.Query("level"),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if res.Entries == nil {
		res.Entries = []browser.ResultEntry{}
	}
	c.JSON(http.StatusOK, res)
}

type downloadRequest struct {
	Overwrite bool `json:"overwrite"`
}

func (s *Server) handleDownload(c *gin.Context) {
	var req downloadRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	folder, err := s.deps.Browser.PrepareDownloadFolder()
	var exists *model.FolderExistsError
	if err != nil && !(errors.As(err, &exists) && req.Overwrite) {
		writeError(c, err)
		return
	}

	n, err := s.deps.Browser.Download(c.Request.Context(), folder, req.Overwrite)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"folder": folder, "files": n})
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		exists    *model.FolderExistsError
		transport *model.TransportError
	)
	switch {
	case errors.As(err, &exists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "path": exists.Path})
	case errors.Is(err, model.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrConfiguration):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &transport):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "source": transport.Source})
	case errors.Is(err, context.Canceled):
		c.Status(499)
	default:
		log.Printf("[server] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
