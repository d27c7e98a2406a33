package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceDomain_IncludesReference(t *testing.T) {
	lo, hi, err := PriceDomain(daily(100, 105, 102), 110)
	require.NoError(t, err)
	assert.Equal(t, 100.0, lo)
	assert.Equal(t, 110.0, hi)

	lo, hi, err = PriceDomain(daily(100, 120), 90)
	require.NoError(t, err)
	assert.Equal(t, 90.0, lo)
	assert.Equal(t, 120.0, hi)
}

func TestPriceDomain_Empty(t *testing.T) {
	_, _, err := PriceDomain(nil, 100)
	assert.ErrorIs(t, err, ErrNoData)

	_, _, err = TimeExtent(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestTimeExtent(t *testing.T) {
	first, last, err := TimeExtent(daily(1, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, day0, first)
	assert.Equal(t, day0.AddDate(0, 0, 2), last)
}
