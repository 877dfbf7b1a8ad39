package app

import (
	"errors"
	"testing"

	"biosense/adapters/stats/confound"
	"biosense/adapters/stats/timeseries"
	"biosense/domain/biometrics"
	"biosense/domain/core"
	"biosense/domain/trend"
	"biosense/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTrendService() *TrendService {
	return NewTrendService(confound.New(), timeseries.New())
}

func TestReportShapes(t *testing.T) {
	s := newTrendService()
	kit := testkit.New(7)

	data := kit.Series(14, 60, 2)
	flags := kit.FlatFlags(14)

	report, err := s.Report(data, flags, biometrics.MetricHRV, ReportOptions{})
	require.NoError(t, err)

	assert.Len(t, report.Adjusted, 14)
	assert.Len(t, report.Directions, 14)
	assert.Equal(t, 7, report.RollingWindow)
	assert.Len(t, report.Rolling, 14-7+1)
	// Baseline excludes the latest point
	assert.Equal(t, 13, report.Baseline.Window)
}

func TestReportAdjustsConfoundedDays(t *testing.T) {
	s := newTrendService()

	units := 2.0
	data := []float64{60, 60, 55}
	flags := []biometrics.ConfoundFlags{{}, {}, {AlcoholUnits: &units}}

	report, err := s.Report(data, flags, biometrics.MetricHRV, ReportOptions{})
	require.NoError(t, err)

	// The alcohol day is lifted by 2 * 2.5 before any trend math
	assert.InDelta(t, 60.0, report.Adjusted[2], 1e-9)
	assert.InDelta(t, 0.0, report.LatestDelta, 1e-9)
	assert.False(t, report.LatestSignificant)
}

func TestReportFlagsSignificantDrop(t *testing.T) {
	s := newTrendService()

	// Stable history, then a collapse far outside the noise floor
	data := []float64{60, 61, 59, 60, 61, 60, 59, 60, 40}
	flags := make([]biometrics.ConfoundFlags, len(data))

	report, err := s.Report(data, flags, biometrics.MetricHRV, ReportOptions{})
	require.NoError(t, err)

	assert.True(t, report.LatestSignificant)
	assert.Negative(t, report.LatestDelta)
	assert.Equal(t, trend.DirectionDown, report.Directions[len(data)-1])
}

func TestReportPreconditions(t *testing.T) {
	s := newTrendService()

	_, err := s.Report([]float64{60}, make([]biometrics.ConfoundFlags, 1), biometrics.MetricHRV, ReportOptions{})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))

	_, err = s.Report([]float64{60, 61, 62}, make([]biometrics.ConfoundFlags, 2), biometrics.MetricHRV, ReportOptions{})
	assert.True(t, errors.Is(err, core.ErrShapeMismatch))
}

func TestReportClampsRollingWindow(t *testing.T) {
	s := newTrendService()

	data := []float64{60, 62, 61}
	report, err := s.Report(data, make([]biometrics.ConfoundFlags, 3), biometrics.MetricHRV, ReportOptions{RollingWindow: 30})
	require.NoError(t, err)
	assert.Equal(t, 3, report.RollingWindow)
	assert.Len(t, report.Rolling, 1)
}
