package app

import (
	"biosense/adapters/stats/confound"
	"biosense/adapters/stats/timeseries"
	"biosense/domain/biometrics"
	"biosense/domain/core"
	"biosense/domain/trend"
)

// ReportOptions tune one trend report. Zero values fall back to defaults.
type ReportOptions struct {
	RollingWindow         int     // default 7, clamped to the series length
	BaselineWindow        int     // default whole series
	TrendMinPoints        int     // default 3
	ExtremumMinDistance   int     // default 3
	SignificanceThreshold float64 // default 1.5 baseline stdevs
}

const defaultRollingWindow = 7

// TrendService produces the de-noised, trend-aware view of a metric's
// history: confound adjustment first, then smoothing, baseline noise
// estimation, per-day direction, turning points, and a significance check
// of the latest reading against the individual's own noise floor.
type TrendService struct {
	adjuster *confound.Adjuster
	analyzer *timeseries.Analyzer
}

// NewTrendService creates a trend service over the pure stats engines
func NewTrendService(adjuster *confound.Adjuster, analyzer *timeseries.Analyzer) *TrendService {
	return &TrendService{adjuster: adjuster, analyzer: analyzer}
}

// Report runs the full pipeline over one metric's daily history. Data and
// flags are index-aligned per day; a shape mismatch fails loudly. At least
// two data points are required for a report.
func (s *TrendService) Report(data []float64, flags []biometrics.ConfoundFlags, metric biometrics.MetricKind, opts ReportOptions) (trend.Report, error) {
	if len(data) < 2 {
		return trend.Report{}, core.ErrInsufficientData
	}

	adjustments, err := s.adjuster.AdjustSeries(data, flags, metric)
	if err != nil {
		return trend.Report{}, err
	}
	adjusted := confound.Values(adjustments)

	window := opts.RollingWindow
	if window <= 0 {
		window = defaultRollingWindow
	}
	if window > len(adjusted) {
		window = len(adjusted)
	}
	rolling, err := s.analyzer.RollingAverage(adjusted, window)
	if err != nil {
		return trend.Report{}, err
	}

	// Baseline excludes the latest point so today's movement is judged
	// against history, not against itself.
	baseline, err := s.analyzer.BaselineVariance(adjusted[:len(adjusted)-1], opts.BaselineWindow)
	if err != nil {
		return trend.Report{}, err
	}

	latest := adjusted[len(adjusted)-1]
	latestDelta := latest - baseline.Mean

	return trend.Report{
		Metric:            metric,
		Adjusted:          adjusted,
		Rolling:           rolling,
		RollingWindow:     window,
		Baseline:          baseline,
		Directions:        s.analyzer.DetectTrend(adjusted, opts.TrendMinPoints),
		Extrema:           s.analyzer.FindPeaksAndValleys(adjusted, opts.ExtremumMinDistance),
		LatestDelta:       latestDelta,
		LatestSignificant: s.analyzer.DetectSignificance(latestDelta, baseline.Stdev, opts.SignificanceThreshold),
	}, nil
}
