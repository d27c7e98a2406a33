package calculator

import "errors"

var (
	// ErrNoData is returned when a calculation needs at least one sample.
	ErrNoData = errors.New("no samples provided")
	// ErrAlphaRange is returned when an EMA smoothing factor is outside [0, 1).
	ErrAlphaRange = errors.New("alpha must be in [0, 1)")
)
