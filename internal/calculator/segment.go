package calculator

import (
	"time"

	"SplitChart/internal/model"
)

// SplitByReference partitions the price polyline into runs lying on one side
// of reference, inserting an interpolated crossing point wherever the line
// passes through it. A crossing point closes one segment and opens the next,
// so it appears in both.
//
// A price equal to the reference counts as the lower side when detecting a
// crossing. Samples are expected in chronological order.
func SplitByReference(samples []model.Sample, reference float64) []model.Segment {
	if len(samples) == 0 {
		return nil
	}

	var segments []model.Segment
	current := []model.Point{{X: samples[0].Time, Y: samples[0].Price}}

	for _, s := range samples[1:] {
		last := current[len(current)-1]
		d := model.Point{X: s.Time, Y: s.Price}

		if crosses(last.Y, d.Y, reference) {
			t := (reference - last.Y) / (d.Y - last.Y)
			crossing := model.Point{X: interpolateTime(last.X, d.X, t), Y: reference}
			current = append(current, crossing)
			segments = append(segments, newSegment(current, reference))
			current = []model.Point{crossing, d}
			continue
		}
		current = append(current, d)
	}

	return append(segments, newSegment(current, reference))
}

func crosses(a, b, reference float64) bool {
	return (a > reference && b <= reference) || (a <= reference && b > reference)
}

// interpolateTime moves t of the way from a to b on a linear time axis.
func interpolateTime(a, b time.Time, t float64) time.Time {
	return a.Add(time.Duration(t * float64(b.Sub(a))))
}

// newSegment classifies a run as above when its first two points are both at
// or above the reference. A lone point is classified by itself.
func newSegment(points []model.Point, reference float64) model.Segment {
	side := model.SideBelow
	switch {
	case len(points) == 1:
		side = model.SideOf(points[0].Y, reference)
	case points[0].Y >= reference && points[1].Y >= reference:
		side = model.SideAbove
	}
	return model.Segment{Side: side, Points: points}
}
