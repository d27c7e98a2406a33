package chart

import "errors"

var (
	// ErrInvalidReference is returned for a NaN or infinite reference value.
	ErrInvalidReference = errors.New("reference must be a finite number")
	// ErrNoPass is returned when a query needs a published pass.
	ErrNoPass = errors.New("no chart pass published")
)
