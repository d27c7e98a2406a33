// Package chart holds the published render pass and the engine that
// recomputes it when the series or the reference value changes.
package chart

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"SplitChart/internal/calculator"
	"SplitChart/internal/model"
)

// Pass is one immutable recomputation of the chart. Nothing in it is
// modified after Build returns.
type Pass struct {
	ID        string          `json:"id"`
	Samples   []model.Sample  `json:"samples"`
	Reference float64         `json:"reference"`
	Segments  []model.Segment `json:"segments"`
	Smoothed  []float64       `json:"smoothed,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Build segments samples against reference. A positive alpha also computes
// the EMA overlay of the prices.
func Build(samples []model.Sample, reference, alpha float64) (*Pass, error) {
	if math.IsNaN(reference) || math.IsInf(reference, 0) {
		return nil, fmt.Errorf("reference %v: %w", reference, ErrInvalidReference)
	}
	p := &Pass{
		ID:        uuid.NewString(),
		Samples:   samples,
		Reference: reference,
		Segments:  calculator.SplitByReference(samples, reference),
		CreatedAt: time.Now(),
	}
	if alpha > 0 {
		smoothed, err := calculator.EMA(model.Prices(samples), alpha)
		if err != nil {
			return nil, err
		}
		p.Smoothed = smoothed
	}
	return p, nil
}

// Locate answers a cursor query against this pass.
func (p *Pass) Locate(x time.Time) (model.CursorResult, bool) {
	return calculator.Locate(p.Samples, x)
}

// Crossings counts the interpolated crossing points of the pass.
func (p *Pass) Crossings() int {
	if len(p.Segments) == 0 {
		return 0
	}
	return len(p.Segments) - 1
}

// LastSide is the side of the most recent segment; ok is false for an empty
// pass.
func (p *Pass) LastSide() (side model.Side, ok bool) {
	if len(p.Segments) == 0 {
		return "", false
	}
	return p.Segments[len(p.Segments)-1].Side, true
}
