package render

import (
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"SplitChart/internal/model"
)

// segmentSeries draws one segment as a stroked polyline with the area
// between it and the reference filled in the segment's colour.
type segmentSeries struct {
	name      string
	segment   model.Segment
	reference float64
	opts      Options
}

func (s segmentSeries) GetName() string             { return s.name }
func (s segmentSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (s segmentSeries) GetStyle() gochart.Style     { return gochart.Style{} }
func (s segmentSeries) Validate() error             { return nil }

func (s segmentSeries) Render(r gochart.Renderer, box gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	pts := s.segment.Points
	if len(pts) == 0 {
		return
	}
	col := sideColor(s.segment.Side)
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i] = box.Left + xrange.Translate(gochart.TimeToFloat64(p.X))
		ys[i] = box.Bottom - yrange.Translate(p.Y)
	}
	baseline := box.Bottom - yrange.Translate(s.reference)

	if s.opts.FillOpacity > 0 && len(pts) > 1 {
		r.SetFillColor(col.WithAlpha(uint8(s.opts.FillOpacity * 255)))
		r.SetStrokeColor(drawing.ColorTransparent)
		r.SetStrokeWidth(0)
		r.MoveTo(xs[0], baseline)
		for i := range xs {
			r.LineTo(xs[i], ys[i])
		}
		r.LineTo(xs[len(xs)-1], baseline)
		r.Close()
		r.Fill()
	}

	if s.opts.Glow {
		strokePolyline(r, xs, ys, col.WithAlpha(60), s.opts.StrokeWidth*3)
	}
	strokePolyline(r, xs, ys, col, s.opts.StrokeWidth)
}

func strokePolyline(r gochart.Renderer, xs, ys []int, col drawing.Color, width float64) {
	r.SetStrokeColor(col)
	r.SetStrokeWidth(width)
	r.SetStrokeDashArray(nil)
	r.MoveTo(xs[0], ys[0])
	for i := 1; i < len(xs); i++ {
		r.LineTo(xs[i], ys[i])
	}
	r.Stroke()
}

// cursorSeries draws a vertical guide at the cursor and a dot on the line.
type cursorSeries struct {
	result model.CursorResult
	color  drawing.Color
}

func (c cursorSeries) GetName() string             { return "cursor" }
func (c cursorSeries) GetYAxis() gochart.YAxisType { return gochart.YAxisPrimary }
func (c cursorSeries) GetStyle() gochart.Style     { return gochart.Style{} }
func (c cursorSeries) Validate() error             { return nil }

func (c cursorSeries) Render(r gochart.Renderer, box gochart.Box, xrange, yrange gochart.Range, _ gochart.Style) {
	x := box.Left + xrange.Translate(gochart.TimeToFloat64(c.result.X))
	y := box.Bottom - yrange.Translate(c.result.Price)

	r.SetStrokeColor(colorReference.WithAlpha(140))
	r.SetStrokeWidth(1)
	r.SetStrokeDashArray([]float64{2, 3})
	r.MoveTo(x, box.Top)
	r.LineTo(x, box.Bottom)
	r.Stroke()

	r.SetStrokeDashArray(nil)
	r.SetFillColor(c.color)
	r.SetStrokeColor(c.color)
	r.Circle(4, x, y)
	r.FillStroke()
}
