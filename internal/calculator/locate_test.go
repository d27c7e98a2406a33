package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SplitChart/internal/model"
)

func at(sec int64) time.Time { return time.Unix(sec, 0).UTC() }

func TestLocate_Interpolates(t *testing.T) {
	samples := []model.Sample{{Time: at(0), Price: 100}, {Time: at(10), Price: 110}}

	res, ok := Locate(samples, at(5))
	require.True(t, ok)
	assert.Equal(t, samples[0], res.Bracket)
	assert.Equal(t, at(5), res.X)
	assert.InDelta(t, 105.0, res.Price, 1e-9)
}

func TestLocate_BeforeFirstSample(t *testing.T) {
	samples := []model.Sample{{Time: at(10), Price: 100}}

	_, ok := Locate(samples, at(9))
	assert.False(t, ok)

	_, ok = Locate(nil, at(9))
	assert.False(t, ok)
}

func TestLocate_FlatBeyondEnd(t *testing.T) {
	samples := []model.Sample{{Time: at(0), Price: 100}, {Time: at(10), Price: 110}}

	for _, x := range []time.Time{at(10), at(11), at(10_000)} {
		res, ok := Locate(samples, x)
		require.True(t, ok)
		assert.Equal(t, samples[1], res.Bracket)
		assert.Equal(t, 110.0, res.Price)
	}
}

func TestLocate_OnSample(t *testing.T) {
	samples := []model.Sample{{Time: at(0), Price: 100}, {Time: at(10), Price: 110}, {Time: at(20), Price: 90}}

	res, ok := Locate(samples, at(10))
	require.True(t, ok)
	assert.Equal(t, samples[1], res.Bracket)
	assert.Equal(t, 110.0, res.Price)

	res, ok = Locate(samples, at(15))
	require.True(t, ok)
	assert.InDelta(t, 100.0, res.Price, 1e-9)
}

func TestLocate_DuplicateTimestamps(t *testing.T) {
	samples := []model.Sample{
		{Time: at(0), Price: 100},
		{Time: at(10), Price: 110},
		{Time: at(10), Price: 120},
		{Time: at(20), Price: 100},
	}

	res, ok := Locate(samples, at(10))
	require.True(t, ok)
	assert.Equal(t, samples[2], res.Bracket)
	assert.Equal(t, 120.0, res.Price)
}
