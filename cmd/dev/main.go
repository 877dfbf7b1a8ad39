package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"biosense/adapters/excel"
	"biosense/app"
	"biosense/domain/biometrics"
	"biosense/domain/core"
	"biosense/internal/config"
	"biosense/internal/container"
)

// Dev runs the full capture->resolve->profile loop against the in-memory
// stores with a synthetic two-week history, then prints the learned profile.
// With HISTORY_FILE set it also imports a wearable export and prints a trend
// report for HRV.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.Database.URL = "" // always in-memory for the dev loop

	c, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to wire dependencies: %v", err)
	}
	defer c.Close()

	ctx := context.Background()
	userID := core.UserID("dev-user")

	if err := seedFortnight(ctx, c, userID); err != nil {
		log.Fatalf("Seed failed: %v", err)
	}

	profile := c.ProfileCache.Get(ctx, userID)
	out, _ := json.MarshalIndent(profile, "", "  ")
	fmt.Println(string(out))

	if cfg.Import.HistoryFile != "" {
		if err := reportImportedTrend(c, cfg.Import.HistoryFile); err != nil {
			log.Fatalf("Import failed: %v", err)
		}
	}
}

// seedFortnight plays 14 days of life: a drink most evenings with cycling
// magnitude, and a next-morning HRV dip proportional to it. Enough resolved
// events accumulate to cross the personalization threshold.
func seedFortnight(ctx context.Context, c *container.Container, userID core.UserID) error {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	baseHRV := 62.0
	pendingDip := 0.0

	for day := 0; day < 14; day++ {
		date := core.NewDay(start.AddDate(0, 0, day))
		snapshot := biometrics.NewSnapshot(date).
			WithMetric(biometrics.MetricHRV, baseHRV-pendingDip).
			WithMetric(biometrics.MetricSleep, 78).
			WithMetric(biometrics.MetricReadiness, 70)

		result, err := c.Intake.Ingest(ctx, userID, snapshot)
		if err != nil {
			return err
		}
		if result.Resolved > 0 {
			fmt.Printf("day %s: resolved %d event(s)\n", date, result.Resolved)
		}

		pendingDip = 0
		if day%2 == 0 {
			drinks := float64(day%3 + 1)
			intent := app.Intent{
				Domain:     "alcohol",
				Magnitude:  drinks,
				DrinkType:  "beer",
				OccurredAt: core.NewTimestamp(start.AddDate(0, 0, day).Add(21*time.Hour + 30*time.Minute)),
			}
			intent.UserID = userID
			if _, err := c.Capture.Capture(ctx, intent, snapshot); err != nil {
				return err
			}
			pendingDip = 4.5 * drinks
		}
	}
	return nil
}

func reportImportedTrend(c *container.Container, path string) error {
	history, err := excel.NewHistoryReader(path).Read()
	if err != nil {
		return err
	}
	data, flags := history.Series(biometrics.MetricHRV)

	report, err := c.Trends.Report(data, flags, biometrics.MetricHRV, app.ReportOptions{})
	if err != nil {
		return err
	}
	fmt.Printf("imported %d days: baseline %.1f±%.1f, latest delta %+.1f (significant: %v)\n",
		len(data), report.Baseline.Mean, report.Baseline.Stdev, report.LatestDelta, report.LatestSignificant)
	return nil
}
