package calculator

import (
	"time"

	"SplitChart/internal/model"
)

// PriceDomain returns the vertical extent of the chart: the lowest and highest
// of all sample prices and the reference value, so the reference line is
// always visible.
func PriceDomain(samples []model.Sample, reference float64) (lo, hi float64, err error) {
	if len(samples) == 0 {
		return 0, 0, ErrNoData
	}
	lo, hi = reference, reference
	for _, s := range samples {
		if s.Price < lo {
			lo = s.Price
		}
		if s.Price > hi {
			hi = s.Price
		}
	}
	return lo, hi, nil
}

// TimeExtent returns the first and last timestamps of an ordered series.
func TimeExtent(samples []model.Sample) (first, last time.Time, err error) {
	if len(samples) == 0 {
		return time.Time{}, time.Time{}, ErrNoData
	}
	return samples[0].Time, samples[len(samples)-1].Time, nil
}
