package analysis

import (
	"strings"
	"time"
)

// Drink-type → standard-unit conversion. The event log stores normalized
// magnitudes, so the profile stays reproducible from the log alone.
var standardUnits = map[string]float64{
	"beer":     1.0,
	"wine":     1.25,
	"cocktail": 1.5,
	"spirits":  1.0,
	"shot":     1.0,
}

// AlcoholMagnitude normalizes a drink count of a given type to standard
// units. Unknown types count as one standard unit each.
func AlcoholMagnitude(drinkType string, count float64) float64 {
	if count <= 0 {
		return 0
	}
	unit, ok := standardUnits[strings.ToLower(strings.TrimSpace(drinkType))]
	if !ok {
		unit = 1.0
	}
	return count * unit
}

// caffeineWindow is how long before sleep caffeine intake starts weighing
// on the outcome. Intake at sleep time weighs double; intake at or beyond
// the window boundary weighs its plain cup count.
const caffeineWindow = 12 * time.Hour

// CaffeineMagnitude weights a cup count by how close to the declared sleep
// time it was consumed: cups * (1 + proximity), proximity in [0,1].
func CaffeineMagnitude(cups float64, consumedAt time.Time, sleepAt time.Time) float64 {
	if cups <= 0 {
		return 0
	}
	until := sleepAt.Sub(consumedAt)
	if until < 0 {
		until = 0
	}
	if until >= caffeineWindow {
		return cups
	}
	proximity := 1 - until.Hours()/caffeineWindow.Hours()
	return cups * (1 + proximity)
}

// SleepTimeOn anchors a declared clock-time of sleep (e.g. 23:00) onto the
// calendar day of a consumption moment.
func SleepTimeOn(day time.Time, sleepHour, sleepMinute int) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, sleepHour, sleepMinute, 0, 0, day.Location())
}
