// Package render draws a chart pass with go-chart.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"SplitChart/internal/calculator"
	"SplitChart/internal/chart"
	"SplitChart/internal/model"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
)

var (
	colorAbove     = drawing.ColorFromHex("16a34a")
	colorBelow     = drawing.ColorFromHex("dc2626")
	colorReference = drawing.ColorFromHex("6b7280")
	colorSmoothed  = drawing.ColorFromHex("2563eb")
)

// Renderer turns a pass, and optionally a cursor marker, into an image.
type Renderer interface {
	Render(w io.Writer, p *chart.Pass, cursor *model.CursorResult) error
	ContentType() string
}

// Options control the look of the rendered chart. None of them change the
// segments being drawn.
type Options struct {
	Format      string
	Width       int
	Height      int
	StrokeWidth float64
	FillOpacity float64 // 0..1, area between line and reference
	Glow        bool
}

// GoChartRenderer renders passes as SVG or PNG.
type GoChartRenderer struct {
	opts Options
}

// NewGoChartRenderer validates opts and fills in defaults.
func NewGoChartRenderer(opts Options) (*GoChartRenderer, error) {
	opts.Format = strings.ToLower(opts.Format)
	if opts.Format == "" {
		opts.Format = FormatSVG
	}
	if opts.Format != FormatSVG && opts.Format != FormatPNG {
		return nil, fmt.Errorf("unsupported render format %q", opts.Format)
	}
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 400
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 3
	}
	if opts.FillOpacity < 0 || opts.FillOpacity > 1 {
		return nil, fmt.Errorf("fill opacity %v out of [0, 1]", opts.FillOpacity)
	}
	return &GoChartRenderer{opts: opts}, nil
}

// WithFormat returns a copy of r producing format.
func (r *GoChartRenderer) WithFormat(format string) (*GoChartRenderer, error) {
	opts := r.opts
	opts.Format = format
	return NewGoChartRenderer(opts)
}

func (r *GoChartRenderer) Format() string { return r.opts.Format }

func (r *GoChartRenderer) ContentType() string {
	if r.opts.Format == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Render draws p to w. cursor may be nil.
func (r *GoChartRenderer) Render(w io.Writer, p *chart.Pass, cursor *model.CursorResult) error {
	if p == nil {
		return chart.ErrNoPass
	}
	c, err := r.build(p, cursor)
	if err != nil {
		return err
	}
	provider := gochart.SVG
	if r.opts.Format == FormatPNG {
		provider = gochart.PNG
	}
	if err := c.Render(provider, w); err != nil {
		return fmt.Errorf("render %s: %w", r.opts.Format, err)
	}
	return nil
}

func (r *GoChartRenderer) build(p *chart.Pass, cursor *model.CursorResult) (gochart.Chart, error) {
	first, last, err := calculator.TimeExtent(p.Samples)
	if err != nil {
		return gochart.Chart{}, err
	}
	lo, hi, err := calculator.PriceDomain(p.Samples, p.Reference)
	if err != nil {
		return gochart.Chart{}, err
	}
	if first.Equal(last) {
		first, last = first.Add(-time.Hour), last.Add(time.Hour)
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	lo, hi = lo-pad, hi+pad

	series := make([]gochart.Series, 0, len(p.Segments)+3)
	for i, seg := range p.Segments {
		series = append(series, segmentSeries{
			name:      fmt.Sprintf("segment-%d", i),
			segment:   seg,
			reference: p.Reference,
			opts:      r.opts,
		})
	}
	series = append(series, gochart.TimeSeries{
		Name: "reference",
		Style: gochart.Style{
			StrokeColor:     colorReference,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
		XValues: []time.Time{first, last},
		YValues: []float64{p.Reference, p.Reference},
	})
	if len(p.Smoothed) == len(p.Samples) && len(p.Smoothed) > 0 {
		xs := make([]time.Time, len(p.Samples))
		for i, s := range p.Samples {
			xs[i] = s.Time
		}
		series = append(series, gochart.TimeSeries{
			Name:    "ema",
			Style:   gochart.Style{StrokeColor: colorSmoothed.WithAlpha(180), StrokeWidth: 1.5},
			XValues: xs,
			YValues: p.Smoothed,
		})
	}
	if cursor != nil {
		col := sideColor(model.SideOf(cursor.Price, p.Reference))
		series = append(series, cursorSeries{result: *cursor, color: col})
		series = append(series, gochart.AnnotationSeries{
			Name:  "tooltip",
			Style: gochart.Style{StrokeColor: col, FontColor: col},
			Annotations: []gochart.Value2{{
				XValue: gochart.TimeToFloat64(cursor.X),
				YValue: cursor.Price,
				Label:  Tooltip(cursor.Price),
			}},
		})
	}

	xFormat := "Jan 02"
	if last.Sub(first) < 48*time.Hour {
		xFormat = "Jan 02 15:04"
	}
	return gochart.Chart{
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 20, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: gochart.XAxis{
			Range: &gochart.ContinuousRange{
				Min: gochart.TimeToFloat64(first),
				Max: gochart.TimeToFloat64(last),
			},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return gochart.TimeFromFloat64(f).UTC().Format(xFormat)
				}
				return ""
			},
		},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: lo, Max: hi},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return decimal.NewFromFloat(f).StringFixed(2)
				}
				return ""
			},
		},
		Series: series,
	}, nil
}

// Tooltip is the label shown next to the cursor marker.
func Tooltip(price float64) string {
	return "Price: " + decimal.NewFromFloat(price).StringFixed(2)
}

func sideColor(side model.Side) drawing.Color {
	if side == model.SideAbove {
		return colorAbove
	}
	return colorBelow
}
