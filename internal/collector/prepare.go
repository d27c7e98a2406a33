package collector

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SplitChart/internal/model"
)

// ErrInvalidData marks a batch that contains an unparseable timestamp or a
// non-numeric price. The whole batch is rejected.
var ErrInvalidData = errors.New("invalid data")

// Prepare converts raw records into typed samples, keeping input order.
// A single bad record fails the whole batch.
func Prepare(records []model.RawRecord) ([]model.Sample, error) {
	samples := make([]model.Sample, len(records))
	for i, r := range records {
		ts, err := ParseTimestamp(r.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: timestamp %q", ErrInvalidData, i, r.Timestamp)
		}
		price, err := CoercePrice(r.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidData, i, err)
		}
		samples[i] = model.Sample{Time: ts, Price: price}
	}
	return samples, nil
}

// ParseTimestamp accepts RFC 3339 timestamps such as 2024-05-01T00:00:00Z.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, strings.TrimSpace(s))
}

// CoercePrice turns a number or numeric string into a finite float.
func CoercePrice(p model.RawPrice) (float64, error) {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return 0, fmt.Errorf("price is empty")
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return 0, fmt.Errorf("price %q is not a number", p.Text)
	}
	f, _ := d.Float64()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("price %q is out of range", p.Text)
	}
	return f, nil
}
