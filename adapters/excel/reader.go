package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"biosense/domain/biometrics"
	"biosense/domain/core"
	apperrors "biosense/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Recognized column headers in wearable exports (case-insensitive)
const (
	colDate      = "date"
	colSleep     = "sleep"
	colReadiness = "readiness"
	colHRV       = "hrv_balance"
	colRestingHR = "resting_hr"
	colTraining  = "training_intensity"
	colTravel    = "travel_day"
	colAlcohol   = "alcohol_units"
)

// History is an imported wearable export: one snapshot and one set of
// confound flags per day, aligned by index and ordered as the file orders
// them.
type History struct {
	Snapshots []biometrics.Snapshot
	Flags     []biometrics.ConfoundFlags
}

// Series extracts one metric as an aligned series for trend analysis.
// Days where the metric was not measured are dropped from both slices,
// never zero-filled.
func (h History) Series(metric biometrics.MetricKind) ([]float64, []biometrics.ConfoundFlags) {
	var data []float64
	var flags []biometrics.ConfoundFlags
	for i, snap := range h.Snapshots {
		if v, ok := snap.Metric(metric); ok {
			data = append(data, v)
			flags = append(flags, h.Flags[i])
		}
	}
	return data, flags
}

// HistoryReader reads wearable xlsx/csv exports into snapshots and
// confound flags. Blank cells become absent metrics.
type HistoryReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewHistoryReader creates a reader that handles both Excel and CSV files
func NewHistoryReader(filePath string) *HistoryReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &HistoryReader{filePath: filePath, fileType: fileType}
}

// Read parses the file into a History
func (r *HistoryReader) Read() (*History, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.New(apperrors.CodeImportFailed,
			fmt.Sprintf("history file not found: %s", r.filePath))
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to read history file")
	}

	if len(rows) < 2 {
		return nil, apperrors.New(apperrors.CodeImportFailed,
			"history file must have a header row and at least one data row")
	}
	return parseRows(rows)
}

func (r *HistoryReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	return rows, nil
}

func (r *HistoryReader) readCSVRows() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

func parseRows(rows [][]string) (*History, error) {
	columns := make(map[string]int)
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	dateCol, ok := columns[colDate]
	if !ok {
		return nil, apperrors.New(apperrors.CodeImportFailed, "history file has no date column")
	}

	history := &History{}
	for rowIdx, row := range rows[1:] {
		rawDate := cell(row, dateCol)
		if rawDate == "" {
			continue
		}
		day, err := core.ParseDay(rawDate)
		if err != nil {
			return nil, apperrors.Wrapf(err, "row %d has an invalid date %q", rowIdx+2, rawDate)
		}

		snap := biometrics.NewSnapshot(day)
		for header, kind := range map[string]biometrics.MetricKind{
			colSleep:     biometrics.MetricSleep,
			colReadiness: biometrics.MetricReadiness,
			colHRV:       biometrics.MetricHRV,
			colRestingHR: biometrics.MetricRestingHR,
		} {
			if idx, ok := columns[header]; ok {
				if v, ok := parseFloat(cell(row, idx)); ok {
					snap = snap.WithMetric(kind, v)
				}
			}
		}
		if err := snap.Validate(); err != nil {
			return nil, apperrors.Wrapf(err, "row %d rejected", rowIdx+2)
		}

		flags := biometrics.ConfoundFlags{Date: day}
		if idx, ok := columns[colTraining]; ok {
			if v, ok := parseFloat(cell(row, idx)); ok {
				flags.TrainingIntensity = &v
			}
		}
		if idx, ok := columns[colTravel]; ok {
			flags.TravelDay = parseBool(cell(row, idx))
		}
		if idx, ok := columns[colAlcohol]; ok {
			if v, ok := parseFloat(cell(row, idx)); ok {
				flags.AlcoholUnits = &v
			}
		}

		history.Snapshots = append(history.Snapshots, snap)
		history.Flags = append(history.Flags, flags)
	}

	if len(history.Snapshots) == 0 {
		return nil, apperrors.New(apperrors.CodeImportFailed, "history file has no usable rows")
	}
	return history, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
