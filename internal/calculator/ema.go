package calculator

import (
	"fmt"
	"math"
)

// EMA computes the bias-corrected exponential moving average
//
//	raw[0] = (1-alpha)*values[0]
//	raw[i] = alpha*raw[i-1] + (1-alpha)*values[i]
//	out[i] = raw[i] / (1 - alpha^(i+1))
//
// The result has the same length as values. With alpha == 0 the output
// equals the input exactly.
func EMA(values []float64, alpha float64) ([]float64, error) {
	if math.IsNaN(alpha) || alpha < 0 || alpha >= 1 {
		return nil, fmt.Errorf("ema alpha %v: %w", alpha, ErrAlphaRange)
	}
	out := make([]float64, len(values))
	var raw float64
	for i, v := range values {
		if i == 0 {
			raw = (1 - alpha) * v
		} else {
			raw = alpha*raw + (1-alpha)*v
		}
		out[i] = raw / (1 - math.Pow(alpha, float64(i+1)))
	}
	return out, nil
}
