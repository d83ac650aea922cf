package timedataset

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateT(t *testing.T) {
	nowFunc := func() time.Time {
		return time.Date(1970, 1, 8, 0, 0, 0, 0, time.UTC)
	}

	numPnts := 7
	res := GenerateT(numPnts, 24*time.Hour, nowFunc)
	assert.Len(t, res, numPnts)

	assert.Equal(t, res[0], time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, res[numPnts-1], time.Date(1970, 1, 7, 0, 0, 0, 0, time.UTC))
}

func TestSeries(t *testing.T) {
	numPnts := 7
	s := Series(GenerateConstY(numPnts, 1))

	res := s.Add(GenerateConstY(numPnts, 2))
	require.Equal(t, Series([]float64{3, 3, 3, 3, 3, 3, 3}), res)

	s.Add(GenerateRampY(numPnts, 0, 1))
	require.Equal(t, Series([]float64{3, 4, 5, 6, 7, 8, 9}), s)

	nowFunc := func() time.Time {
		return time.Date(1970, 1, 8, 0, 0, 0, 0, time.UTC)
	}

	tSeries := GenerateT(numPnts, 24*time.Hour, nowFunc)
	s.SetMissing(tSeries,
		time.Date(1970, 1, 3, 0, 0, 0, 0, time.UTC),
		time.Date(1970, 1, 5, 0, 0, 0, 0, time.UTC),
	)
	for i, v := range s {
		if i == 2 || i == 3 {
			assert.True(t, math.IsNaN(v), "index %d should be missing", i)
			continue
		}
		assert.False(t, math.IsNaN(v), "index %d should be present", i)
	}
}
