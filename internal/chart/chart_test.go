package chart

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SplitChart/internal/collector"
	"SplitChart/internal/metrics"
	"SplitChart/internal/model"
)

var day0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func series(prices ...float64) []model.Sample {
	out := make([]model.Sample, len(prices))
	for i, p := range prices {
		out[i] = model.Sample{Time: day0.AddDate(0, 0, i), Price: p}
	}
	return out
}

func TestBuild(t *testing.T) {
	p, err := Build(series(100, 105, 102, 108, 110, 108, 99, 115), 105, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 105.0, p.Reference)
	assert.Len(t, p.Segments, 4)
	assert.Equal(t, 3, p.Crossings())
	assert.Nil(t, p.Smoothed)

	side, ok := p.LastSide()
	require.True(t, ok)
	assert.Equal(t, model.SideAbove, side)
}

func TestBuildSmoothing(t *testing.T) {
	p, err := Build(series(100, 110, 120), 105, 0.5)
	require.NoError(t, err)
	require.Len(t, p.Smoothed, 3)
	assert.InDelta(t, 100.0, p.Smoothed[0], 1e-9)

	_, err = Build(series(100), 105, 1)
	assert.Error(t, err)
}

func TestBuildRejectsNonFiniteReference(t *testing.T) {
	_, err := Build(series(100), math.NaN(), 0)
	assert.ErrorIs(t, err, ErrInvalidReference)
	_, err = Build(series(100), math.Inf(1), 0)
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestBuildEmpty(t *testing.T) {
	p, err := Build(nil, 105, 0)
	require.NoError(t, err)
	assert.Empty(t, p.Segments)
	assert.Equal(t, 0, p.Crossings())
	_, ok := p.LastSide()
	assert.False(t, ok)
}

func TestStore(t *testing.T) {
	var s Store
	assert.Nil(t, s.Current())
	_, ok := s.Locate(day0)
	assert.False(t, ok)

	p, err := Build(series(100, 110), 105, 0)
	require.NoError(t, err)
	assert.Nil(t, s.Swap(p))
	assert.Same(t, p, s.Current())

	res, ok := s.Locate(day0.Add(12 * time.Hour))
	require.True(t, ok)
	assert.InDelta(t, 105.0, res.Price, 1e-9)
	assert.Equal(t, day0, res.Bracket.Time)
}

func TestEngineRefresh(t *testing.T) {
	m := metrics.New()
	e := NewEngine(collector.NewCollector(&collector.MockSource{}), 110, 0, m)

	p, err := e.Refresh(context.Background())
	require.NoError(t, err)
	assert.Same(t, p, e.Store.Current())
	assert.Len(t, p.Samples, 8)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesTotal.WithLabelValues(metrics.ResultOK)))
	assert.Equal(t, float64(len(p.Segments)), testutil.ToFloat64(m.Segments))
}

func TestEngineKeepsStalePassOnInvalidData(t *testing.T) {
	m := metrics.New()
	e := NewEngine(nil, 105, 0, m)

	good, err := e.Replace(collector.DemoRecords())
	require.NoError(t, err)

	bad := collector.DemoRecords()
	bad[3].Price = model.StringPrice("n/a")
	_, err = e.Replace(bad)
	assert.ErrorIs(t, err, collector.ErrInvalidData)
	assert.Same(t, good, e.Store.Current())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesTotal.WithLabelValues(metrics.ResultInvalidData)))
}

func TestEngineKeepsStalePassOnSourceError(t *testing.T) {
	m := metrics.New()
	src := &collector.MockSource{}
	e := NewEngine(collector.NewCollector(src), 105, 0, m)

	good, err := e.Refresh(context.Background())
	require.NoError(t, err)

	src.Err = errors.New("disk gone")
	_, err = e.Refresh(context.Background())
	assert.Error(t, err)
	assert.Same(t, good, e.Store.Current())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PassesTotal.WithLabelValues(metrics.ResultSourceError)))
}

func TestEngineRefreshWithoutSource(t *testing.T) {
	e := NewEngine(nil, 105, 0, nil)
	_, err := e.Refresh(context.Background())
	assert.Error(t, err)
}

func TestEngineSetReference(t *testing.T) {
	e := NewEngine(nil, 105, 0, nil)

	p, err := e.SetReference(200)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, 200.0, e.Reference())

	first, err := e.Replace(collector.DemoRecords())
	require.NoError(t, err)
	assert.Equal(t, 200.0, first.Reference)
	require.Len(t, first.Segments, 1)
	assert.Equal(t, model.SideBelow, first.Segments[0].Side)

	second, err := e.SetReference(50)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Samples, second.Samples)
	require.Len(t, second.Segments, 1)
	assert.Equal(t, model.SideAbove, second.Segments[0].Side)

	_, err = e.SetReference(math.NaN())
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, 50.0, e.Reference())
}

func TestEngineCrossingListener(t *testing.T) {
	e := NewEngine(nil, 105, 0, nil)

	type flip struct{ prev, next model.Side }
	var got []flip
	e.OnCrossing(func(prev, next model.Side, _ *Pass) {
		got = append(got, flip{prev, next})
	})

	// demo series ends at 115, above 105
	_, err := e.Replace(collector.DemoRecords())
	require.NoError(t, err)
	assert.Empty(t, got, "first pass has nothing to compare with")

	_, err = e.SetReference(120)
	require.NoError(t, err)
	_, err = e.SetReference(121)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, flip{model.SideAbove, model.SideBelow}, got[0])
}

func TestEngineConcurrentReaders(t *testing.T) {
	e := NewEngine(nil, 105, 0, nil)
	_, err := e.Replace(collector.DemoRecords())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if i%2 == 0 {
					_, _ = e.SetReference(100 + float64(j%20))
					continue
				}
				p := e.Store.Current()
				if !assert.NotNil(t, p) {
					return
				}
				for _, seg := range p.Segments {
					assert.NotEmpty(t, seg.Points)
				}
			}
		}(i)
	}
	wg.Wait()
}
