package model

import "time"

// Side tells on which side of the reference value a segment lies.
type Side string

const (
	SideAbove Side = "above"
	SideBelow Side = "below"
)

// Point is a vertex of a segment polyline. Crossing points are synthesized
// and carry Y equal to the reference value.
type Point struct {
	X time.Time `json:"x"`
	Y float64   `json:"y"`
}

// Segment is a maximal run of the series on one side of the reference.
type Segment struct {
	Side   Side    `json:"side"`
	Points []Point `json:"points"`
}

// Above reports whether the segment is drawn as a gain region.
func (s Segment) Above() bool { return s.Side == SideAbove }

// SideOf classifies a single price against the reference the way the
// cursor marker is coloured: at or above the reference counts as a gain.
func SideOf(price, reference float64) Side {
	if price >= reference {
		return SideAbove
	}
	return SideBelow
}
