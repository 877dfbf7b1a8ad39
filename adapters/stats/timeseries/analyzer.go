package timeseries

import (
	"math"

	"biosense/domain/core"
	"biosense/domain/trend"

	"github.com/montanaflynn/stats"
)

// Default tuning for the analyzer's classifiers. Callers can pass explicit
// values; zero/negative inputs fall back to these.
const (
	DefaultSignificanceThreshold = 1.5
	DefaultTrendMinPoints        = 3
	DefaultExtremumMinDistance   = 3

	// trendSlopeFraction: a window counts as moving only when its
	// endpoint-to-endpoint slope exceeds this fraction of the window's
	// first value.
	trendSlopeFraction = 0.005
)

// Analyzer provides the pure numeric core: smoothing, baseline noise
// estimation, significance testing, trend classification and turning-point
// detection. It holds no state and is safe for concurrent use.
type Analyzer struct{}

// New creates a time-series analyzer
func New() *Analyzer {
	return &Analyzer{}
}

// RollingAverage computes a trailing, right-aligned moving average. The
// output has length len(data)-window+1. A window longer than the data is a
// caller contract violation, not a condition to recover from.
func (a *Analyzer) RollingAverage(data []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, core.ErrInvalidWindow
	}
	if len(data) < window {
		return nil, core.NewWindowError(window, len(data))
	}

	out := make([]float64, 0, len(data)-window+1)
	sum := 0.0
	for i, v := range data {
		sum += v
		if i >= window {
			sum -= data[i-window]
		}
		if i >= window-1 {
			out = append(out, sum/float64(window))
		}
	}
	return out, nil
}

// BaselineVariance computes the mean and population standard deviation over
// the last window points, or the whole series when window is zero/negative
// or exceeds the series length. The result is the individual's own noise
// floor for significance testing.
func (a *Analyzer) BaselineVariance(data []float64, window int) (trend.Baseline, error) {
	if len(data) == 0 {
		return trend.Baseline{}, core.ErrEmptySeries
	}
	if window <= 0 || window > len(data) {
		window = len(data)
	}
	tail := data[len(data)-window:]

	mean, err := stats.Mean(tail)
	if err != nil {
		return trend.Baseline{}, err
	}
	stdev, err := stats.StandardDeviationPopulation(tail)
	if err != nil {
		return trend.Baseline{}, err
	}
	return trend.Baseline{Mean: mean, Stdev: stdev, Window: window}, nil
}

// DetectSignificance classifies an observed change as signal vs noise:
// true iff |delta| exceeds threshold standard deviations of the series' own
// baseline. A non-positive threshold falls back to the default 1.5.
func (a *Analyzer) DetectSignificance(delta, baselineStdev, threshold float64) bool {
	if threshold <= 0 {
		threshold = DefaultSignificanceThreshold
	}
	return math.Abs(delta) > threshold*baselineStdev
}

// DetectTrend classifies direction at every index over a trailing window of
// minPoints values. Indices with fewer than minPoints values available are
// indeterminate. Output length always equals input length.
func (a *Analyzer) DetectTrend(data []float64, minPoints int) []trend.Direction {
	if minPoints <= 0 {
		minPoints = DefaultTrendMinPoints
	}

	out := make([]trend.Direction, len(data))
	for i := range data {
		if i < minPoints-1 {
			out[i] = trend.DirectionIndeterminate
			continue
		}
		first := data[i-minPoints+1]
		last := data[i]
		slope := (last - first) / float64(minPoints-1)
		cutoff := trendSlopeFraction * math.Abs(first)

		switch {
		case slope > cutoff:
			out[i] = trend.DirectionUp
		case slope < -cutoff:
			out[i] = trend.DirectionDown
		default:
			out[i] = trend.DirectionFlat
		}
	}
	return out
}

// FindPeaksAndValleys detects strict local extrema (ties never count) and
// greedily suppresses a new extremum closer than minDistance indices to the
// previously accepted extremum of the same kind, so noisy micro-oscillations
// do not register as repeated peaks.
func (a *Analyzer) FindPeaksAndValleys(data []float64, minDistance int) []trend.Extremum {
	if minDistance <= 0 {
		minDistance = DefaultExtremumMinDistance
	}

	var out []trend.Extremum
	lastPeak, lastValley := -minDistance, -minDistance
	for i := 1; i < len(data)-1; i++ {
		switch {
		case data[i] > data[i-1] && data[i] > data[i+1]:
			if i-lastPeak >= minDistance {
				out = append(out, trend.Extremum{Index: i, Value: data[i], Kind: trend.Peak})
				lastPeak = i
			}
		case data[i] < data[i-1] && data[i] < data[i+1]:
			if i-lastValley >= minDistance {
				out = append(out, trend.Extremum{Index: i, Value: data[i], Kind: trend.Valley})
				lastValley = i
			}
		}
	}
	return out
}
