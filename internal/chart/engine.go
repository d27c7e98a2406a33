package chart

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"SplitChart/internal/collector"
	"SplitChart/internal/logger"
	"SplitChart/internal/metrics"
	"SplitChart/internal/model"
)

// CrossingListener is called when the newest segment changes side between
// two consecutive passes. It runs with the engine locked and must not call
// back into it.
type CrossingListener func(prev, next model.Side, p *Pass)

// Engine recomputes the chart and publishes each pass to its Store.
// Recomputations are serialized; readers of the Store never block.
type Engine struct {
	Store *Store

	collector *collector.Collector
	metrics   *metrics.Metrics
	alpha     float64
	log       *logrus.Entry

	mu        sync.Mutex
	reference float64
	listeners []CrossingListener
}

// NewEngine creates an engine reading col. col may be nil when the series is
// only ever supplied through Replace.
func NewEngine(col *collector.Collector, reference, alpha float64, m *metrics.Metrics) *Engine {
	if m == nil {
		m = metrics.New()
	}
	return &Engine{
		Store:     &Store{},
		collector: col,
		metrics:   m,
		alpha:     alpha,
		log:       logger.Component("engine"),
		reference: reference,
	}
}

// OnCrossing registers l for side changes of the newest segment.
func (e *Engine) OnCrossing(l CrossingListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Reference returns the reference value used for the next pass.
func (e *Engine) Reference() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reference
}

// Refresh collects the configured source and publishes a new pass. On any
// error the previously published pass stays in place.
func (e *Engine) Refresh(ctx context.Context) (*Pass, error) {
	if e.collector == nil {
		return nil, errors.New("engine has no source configured")
	}
	start := time.Now()
	samples, err := e.collector.Collect(ctx)
	if err != nil {
		e.fail(err)
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publish(samples, e.reference, start)
}

// Replace prepares a new input array and publishes the pass built from it.
func (e *Engine) Replace(records []model.RawRecord) (*Pass, error) {
	start := time.Now()
	samples, err := collector.Prepare(records)
	if err != nil {
		e.fail(err)
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.publish(samples, e.reference, start)
}

// SetReference changes the reference value and recomputes over the current
// samples. The returned pass is nil when nothing has been published yet; the
// value is still kept for the first pass.
func (e *Engine) SetReference(v float64) (*Pass, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("reference %v: %w", v, ErrInvalidReference)
	}
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()
	e.reference = v
	cur := e.Store.Current()
	if cur == nil {
		return nil, nil
	}
	return e.publish(cur.Samples, v, start)
}

// publish must be called with e.mu held.
func (e *Engine) publish(samples []model.Sample, reference float64, start time.Time) (*Pass, error) {
	p, err := Build(samples, reference, e.alpha)
	if err != nil {
		e.fail(err)
		return nil, err
	}
	prev := e.Store.Swap(p)

	e.metrics.PassesTotal.WithLabelValues(metrics.ResultOK).Inc()
	e.metrics.PassDuration.Observe(time.Since(start).Seconds())
	e.metrics.Segments.Set(float64(len(p.Segments)))
	e.metrics.Samples.Set(float64(len(p.Samples)))
	e.metrics.CrossingsTotal.Add(float64(p.Crossings()))

	e.log.WithFields(logrus.Fields{
		"pass":      p.ID,
		"samples":   len(p.Samples),
		"segments":  len(p.Segments),
		"reference": reference,
	}).Debug("pass published")

	e.notify(prev, p)
	return p, nil
}

func (e *Engine) notify(prev, next *Pass) {
	if prev == nil || len(e.listeners) == 0 {
		return
	}
	before, ok := prev.LastSide()
	if !ok {
		return
	}
	after, ok := next.LastSide()
	if !ok || before == after {
		return
	}
	for _, l := range e.listeners {
		l(before, after, next)
	}
}

// fail records an aborted pass. The stale chart remains published.
func (e *Engine) fail(err error) {
	result := metrics.ResultSourceError
	if errors.Is(err, collector.ErrInvalidData) {
		result = metrics.ResultInvalidData
	}
	e.metrics.PassesTotal.WithLabelValues(result).Inc()

	entry := e.log.WithError(err)
	if cur := e.Store.Current(); cur != nil {
		entry = entry.WithField("kept_pass", cur.ID)
	}
	entry.Warn("pass aborted")
}
