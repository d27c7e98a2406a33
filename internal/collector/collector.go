package collector

import (
	"context"
	"fmt"
	"time"

	"SplitChart/internal/model"
)

// MockSource returns a fixed series for development and testing.
type MockSource struct {
	Records []model.RawRecord
	Err     error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) Load(_ context.Context) ([]model.RawRecord, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Records != nil {
		return m.Records, nil
	}
	return DemoRecords(), nil
}

// DemoRecords is the eight-day sample series shipped with the chart.
func DemoRecords() []model.RawRecord {
	prices := []float64{100, 105, 102, 108, 110, 108, 99, 115}
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.RawRecord, len(prices))
	for i, p := range prices {
		out[i] = model.RawRecord{
			Timestamp: start.AddDate(0, 0, i).Format(time.RFC3339),
			Price:     model.NumberPrice(p),
		}
	}
	return out
}

// Collector loads records from a source and prepares them.
type Collector struct {
	Source Source
}

// NewCollector creates a new Collector.
func NewCollector(src Source) *Collector {
	return &Collector{Source: src}
}

// Collect fetches the raw series and converts it to samples.
func (c *Collector) Collect(ctx context.Context) ([]model.Sample, error) {
	records, err := c.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records from %s: %w", c.Source.Name(), err)
	}
	samples, err := Prepare(records)
	if err != nil {
		return nil, fmt.Errorf("prepare %s series: %w", c.Source.Name(), err)
	}
	return samples, nil
}
