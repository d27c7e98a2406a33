package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SplitChart/internal/chart"
	"SplitChart/internal/model"
)

func demoPass(t *testing.T, alpha float64) *chart.Pass {
	t.Helper()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	prices := []float64{100, 105, 102, 108, 110, 108, 99, 115}
	samples := make([]model.Sample, len(prices))
	for i, p := range prices {
		samples[i] = model.Sample{Time: start.AddDate(0, 0, i), Price: p}
	}
	p, err := chart.Build(samples, 105, alpha)
	require.NoError(t, err)
	return p
}

func TestTooltip(t *testing.T) {
	assert.Equal(t, "Price: 105.00", Tooltip(105))
	assert.Equal(t, "Price: 99.13", Tooltip(99.125))
	assert.Equal(t, "Price: -0.50", Tooltip(-0.5))
}

func TestNewGoChartRenderer(t *testing.T) {
	r, err := NewGoChartRenderer(Options{})
	require.NoError(t, err)
	assert.Equal(t, FormatSVG, r.Format())
	assert.Equal(t, "image/svg+xml", r.ContentType())

	r, err = NewGoChartRenderer(Options{Format: "PNG"})
	require.NoError(t, err)
	assert.Equal(t, "image/png", r.ContentType())

	_, err = NewGoChartRenderer(Options{Format: "gif"})
	assert.Error(t, err)
	_, err = NewGoChartRenderer(Options{FillOpacity: 1.5})
	assert.Error(t, err)
}

func TestRenderSVG(t *testing.T) {
	r, err := NewGoChartRenderer(Options{Format: FormatSVG, Glow: true, FillOpacity: 0.25})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, demoPass(t, 0.5), nil))
	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "</svg>")
}

func TestRenderSVGWithCursor(t *testing.T) {
	r, err := NewGoChartRenderer(Options{Format: FormatSVG})
	require.NoError(t, err)

	p := demoPass(t, 0)
	cursor := &model.CursorResult{
		X:       p.Samples[1].Time.Add(12 * time.Hour),
		Bracket: p.Samples[1],
		Price:   103.5,
	}
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, p, cursor))
	assert.Contains(t, buf.String(), "Price: 103.50")
}

func TestRenderPNG(t *testing.T) {
	r, err := NewGoChartRenderer(Options{Format: FormatPNG, Width: 320, Height: 160})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, demoPass(t, 0), nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRenderSingleSample(t *testing.T) {
	p, err := chart.Build([]model.Sample{{Time: time.Unix(0, 0).UTC(), Price: 100}}, 100, 0)
	require.NoError(t, err)

	r, err := NewGoChartRenderer(Options{})
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.NoError(t, r.Render(&buf, p, nil))
}

func TestRenderWithoutData(t *testing.T) {
	r, err := NewGoChartRenderer(Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.ErrorIs(t, r.Render(&buf, nil, nil), chart.ErrNoPass)

	empty, err := chart.Build(nil, 100, 0)
	require.NoError(t, err)
	assert.Error(t, r.Render(&buf, empty, nil))
}

func TestWithFormat(t *testing.T) {
	r, err := NewGoChartRenderer(Options{Width: 300})
	require.NoError(t, err)
	png, err := r.WithFormat(FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, FormatPNG, png.Format())
	assert.Equal(t, FormatSVG, r.Format())
}
