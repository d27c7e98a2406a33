package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"SplitChart/internal/chart"
	"SplitChart/internal/collector"
	"SplitChart/internal/model"
	"SplitChart/internal/render"
)

type cursorResponse struct {
	X       time.Time    `json:"x"`
	Bracket model.Sample `json:"bracket"`
	Price   float64      `json:"price"`
	Tooltip string       `json:"tooltip"`
	Side    model.Side   `json:"side"`
}

type referenceRequest struct {
	Value *float64 `json:"value" binding:"required"`
}

func (s *Server) handlePass(c *gin.Context) {
	p := s.engine.Store.Current()
	if p == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": chart.ErrNoPass.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleCursor(c *gin.Context) {
	x, err := ParseX(c.Query("x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.metrics.CursorQueries.WithLabelValues("http").Inc()

	resp, ok := s.locate(x)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no sample at or before x"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) locate(x time.Time) (cursorResponse, bool) {
	p := s.engine.Store.Current()
	if p == nil {
		return cursorResponse{}, false
	}
	res, ok := p.Locate(x)
	if !ok {
		return cursorResponse{}, false
	}
	return cursorResponse{
		X:       res.X,
		Bracket: res.Bracket,
		Price:   res.Price,
		Tooltip: render.Tooltip(res.Price),
		Side:    model.SideOf(res.Price, p.Reference),
	}, true
}

func (s *Server) handleSetReference(c *gin.Context) {
	var req referenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.engine.SetReference(*req.Value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p == nil {
		c.JSON(http.StatusAccepted, gin.H{"reference": *req.Value})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleReplaceSeries(c *gin.Context) {
	var records []model.RawRecord
	if err := c.ShouldBindJSON(&records); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.engine.Replace(records)
	switch {
	case errors.Is(err, collector.ErrInvalidData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleChart(format string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := s.engine.Store.Current()
		if p == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": chart.ErrNoPass.Error()})
			return
		}

		var cursor *model.CursorResult
		if raw := c.Query("cursor"); raw != "" {
			x, err := ParseX(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if res, ok := p.Locate(x); ok {
				cursor = &res
			}
		}

		r, err := s.renderer.WithFormat(format)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var buf bytes.Buffer
		if err := r.Render(&buf, p, cursor); err != nil {
			s.log.WithError(err).WithField("pass", p.ID).Error("render chart")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		s.metrics.RendersTotal.WithLabelValues(format).Inc()
		c.Data(http.StatusOK, r.ContentType(), buf.Bytes())
	}
}

// ParseX reads a cursor position given as RFC 3339 or as Unix milliseconds.
func ParseX(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing cursor position")
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("cursor position %q is neither RFC 3339 nor unix milliseconds", raw)
	}
	return time.UnixMilli(ms).UTC(), nil
}
