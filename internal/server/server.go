// Package server exposes the chart over HTTP: JSON queries, rendered images,
// a websocket cursor stream and Prometheus metrics.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"SplitChart/internal/chart"
	"SplitChart/internal/logger"
	"SplitChart/internal/metrics"
	"SplitChart/internal/render"
)

// Server serves one chart engine.
type Server struct {
	engine   *chart.Engine
	renderer *render.GoChartRenderer
	metrics  *metrics.Metrics
	log      *logrus.Entry

	httpSrv *http.Server
}

// New creates a server. Nothing listens until Start.
func New(e *chart.Engine, r *render.GoChartRenderer, m *metrics.Metrics) *Server {
	return &Server{
		engine:   e,
		renderer: r,
		metrics:  m,
		log:      logger.Component("server"),
	}
}

// Router builds the gin handler tree.
func (s *Server) Router() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.GET("/pass", s.handlePass)
	api.GET("/cursor", s.handleCursor)
	api.PUT("/reference", s.handleSetReference)
	api.PUT("/series", s.handleReplaceSeries)

	r.GET("/chart.svg", s.handleChart(render.FormatSVG))
	r.GET("/chart.png", s.handleChart(render.FormatPNG))
	r.GET("/ws/cursor", s.handleCursorStream)

	return r
}

// Start listens on addr in the background.
func (s *Server) Start(addr string) {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		s.log.WithField("addr", addr).Info("http server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("http server stopped")
		}
	}()
}

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}).Debug("request")
	}
}
