package timeseries

import (
	"errors"
	"testing"

	"biosense/domain/core"
	"biosense/domain/trend"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollingAverage(t *testing.T) {
	a := New()

	out, err := a.RollingAverage([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3, 4}, out)

	out, err = a.RollingAverage([]float64{10, 20}, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20}, out)

	// Output length contract: len(data) - window + 1
	data := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	for w := 1; w <= len(data); w++ {
		out, err := a.RollingAverage(data, w)
		require.NoError(t, err)
		assert.Len(t, out, len(data)-w+1)
	}
}

func TestRollingAveragePreconditions(t *testing.T) {
	a := New()

	_, err := a.RollingAverage([]float64{1, 2}, 3)
	assert.True(t, errors.Is(err, core.ErrWindowTooLarge))
	assert.True(t, core.IsPreconditionError(err))

	_, err = a.RollingAverage([]float64{1, 2}, 0)
	assert.True(t, errors.Is(err, core.ErrInvalidWindow))
}

func TestBaselineVariance(t *testing.T) {
	a := New()

	b, err := a.BaselineVariance([]float64{10, 10, 10}, 0)
	require.NoError(t, err)
	assert.Equal(t, 10.0, b.Mean)
	assert.Equal(t, 0.0, b.Stdev)
	assert.Equal(t, 3, b.Window)

	// Trailing window only sees the last points
	b, err = a.BaselineVariance([]float64{100, 100, 4, 6}, 2)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, b.Mean, 1e-9)
	assert.InDelta(t, 1.0, b.Stdev, 1e-9)

	// Oversized window falls back to whole series
	b, err = a.BaselineVariance([]float64{1, 3}, 50)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Window)

	_, err = a.BaselineVariance(nil, 0)
	assert.True(t, errors.Is(err, core.ErrEmptySeries))
}

func TestDetectSignificance(t *testing.T) {
	a := New()

	assert.True(t, a.DetectSignificance(10, 5, 1.5))   // 10 > 7.5
	assert.False(t, a.DetectSignificance(5, 5, 1.5))   // 5 <= 7.5
	assert.True(t, a.DetectSignificance(-10, 5, 1.5))  // sign-agnostic
	assert.False(t, a.DetectSignificance(7.5, 5, 1.5)) // strict inequality

	// Zero threshold uses the default 1.5
	assert.True(t, a.DetectSignificance(10, 5, 0))
	assert.False(t, a.DetectSignificance(5, 5, 0))
}

func TestDetectTrend(t *testing.T) {
	a := New()

	dirs := a.DetectTrend([]float64{100, 102, 104, 106}, 3)
	require.Len(t, dirs, 4)
	assert.Equal(t, trend.DirectionIndeterminate, dirs[0])
	assert.Equal(t, trend.DirectionIndeterminate, dirs[1])
	assert.Equal(t, trend.DirectionUp, dirs[2])
	assert.Equal(t, trend.DirectionUp, dirs[3])

	dirs = a.DetectTrend([]float64{100, 98, 96, 94}, 3)
	assert.Equal(t, trend.DirectionDown, dirs[3])

	// Slope within ±0.5% of the window's first value is flat
	dirs = a.DetectTrend([]float64{100, 100.1, 100.2}, 3)
	assert.Equal(t, trend.DirectionFlat, dirs[2])

	// Output length always equals input length
	assert.Len(t, a.DetectTrend([]float64{1}, 3), 1)
	assert.Len(t, a.DetectTrend(nil, 3), 0)
}

func TestFindPeaksAndValleys(t *testing.T) {
	a := New()

	ext := a.FindPeaksAndValleys([]float64{1, 5, 1, 2, 1, 6, 1}, 3)
	// Peaks at 1 and 5 survive; the micro-peak at 3 is within minDistance
	require.Len(t, ext, 3)
	assert.Equal(t, trend.Extremum{Index: 1, Value: 5, Kind: trend.Peak}, ext[0])
	assert.Equal(t, trend.Extremum{Index: 2, Value: 1, Kind: trend.Valley}, ext[1])
	assert.Equal(t, trend.Extremum{Index: 5, Value: 6, Kind: trend.Peak}, ext[2])

	// Ties never count as extrema
	ext = a.FindPeaksAndValleys([]float64{1, 5, 5, 1}, 3)
	assert.Empty(t, ext)
}

func TestFindPeaksMinDistanceProperty(t *testing.T) {
	a := New()

	noisy := []float64{1, 9, 1, 8, 1, 7, 1, 9, 1, 8, 1}
	for _, d := range []int{1, 2, 3, 4, 5} {
		ext := a.FindPeaksAndValleys(noisy, d)
		lastPeak, lastValley := -d, -d
		for _, e := range ext {
			if e.Kind == trend.Peak {
				assert.GreaterOrEqual(t, e.Index-lastPeak, d)
				lastPeak = e.Index
			} else {
				assert.GreaterOrEqual(t, e.Index-lastValley, d)
				lastValley = e.Index
			}
		}
	}
}
