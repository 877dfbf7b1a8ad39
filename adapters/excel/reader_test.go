package excel

import (
	"os"
	"path/filepath"
	"testing"

	"biosense/domain/biometrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCSVHistory(t *testing.T) {
	path := writeCSV(t, `date,sleep,readiness,hrv_balance,resting_hr,training_intensity,travel_day,alcohol_units
2026-05-01,82,75,60,52,,,
2026-05-02,,70,55,54,80,true,2
2026-05-03,79,72,58,53,,,
`)

	history, err := NewHistoryReader(path).Read()
	require.NoError(t, err)
	require.Len(t, history.Snapshots, 3)

	// Blank cells stay absent, never zero
	_, ok := history.Snapshots[1].Metric(biometrics.MetricSleep)
	assert.False(t, ok)
	hrv, ok := history.Snapshots[1].Metric(biometrics.MetricHRV)
	require.True(t, ok)
	assert.Equal(t, 55.0, hrv)

	assert.True(t, history.Flags[1].TravelDay)
	require.NotNil(t, history.Flags[1].AlcoholUnits)
	assert.Equal(t, 2.0, *history.Flags[1].AlcoholUnits)
	assert.False(t, history.Flags[0].HasAny())
}

func TestHistorySeriesDropsAbsentDays(t *testing.T) {
	path := writeCSV(t, `date,sleep,hrv_balance
2026-05-01,82,60
2026-05-02,,55
2026-05-03,79,
`)

	history, err := NewHistoryReader(path).Read()
	require.NoError(t, err)

	sleep, flags := history.Series(biometrics.MetricSleep)
	assert.Equal(t, []float64{82, 79}, sleep)
	require.Len(t, flags, 2)
	assert.Equal(t, "2026-05-03", flags[1].Date.String())
}

func TestReadRejectsBadFiles(t *testing.T) {
	_, err := NewHistoryReader(filepath.Join(t.TempDir(), "missing.csv")).Read()
	assert.Error(t, err)

	_, err = NewHistoryReader(writeCSV(t, "date,sleep\n")).Read()
	assert.Error(t, err)

	// No date column
	_, err = NewHistoryReader(writeCSV(t, "sleep\n80\n")).Read()
	assert.Error(t, err)

	// Out-of-range metric fails loudly
	_, err = NewHistoryReader(writeCSV(t, "date,sleep\n2026-05-01,140\n")).Read()
	assert.Error(t, err)
}
