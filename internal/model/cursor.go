package model

import "time"

// CursorResult is the answer to one pointer-position query.
type CursorResult struct {
	X       time.Time `json:"x"`       // the queried position
	Bracket Sample    `json:"bracket"` // last sample not after the query
	Price   float64   `json:"price"`   // linearly interpolated price at the query
}
