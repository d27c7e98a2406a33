package calculator

import (
	"sort"
	"time"

	"SplitChart/internal/model"
)

// Locate answers a cursor query at x. It returns the last sample not after x
// together with the price linearly interpolated towards the following sample.
// Past the end of the series the last price is held flat. ok is false when x
// precedes every sample.
func Locate(samples []model.Sample, x time.Time) (res model.CursorResult, ok bool) {
	// first index strictly after x
	next := sort.Search(len(samples), func(i int) bool { return samples[i].Time.After(x) })
	if next == 0 {
		return model.CursorResult{}, false
	}
	left := samples[next-1]
	res = model.CursorResult{X: x, Bracket: left, Price: left.Price}
	if next == len(samples) {
		return res, true
	}

	right := samples[next]
	frac := float64(x.Sub(left.Time)) / float64(right.Time.Sub(left.Time))
	res.Price = left.Price + frac*(right.Price-left.Price)
	return res, true
}
