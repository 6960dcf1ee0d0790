package playercount

import (
	"time"
)

// ExportStartDate is the first date covered by the remote source's daily
// exports. History before this comes from the legacy baseline file.
var ExportStartDate = time.Date(2020, time.August, 1, 0, 0, 0, 0, time.UTC)

// MostRecentAvailableDate returns the latest calendar date for which the
// remote source is expected to have a complete daily file. A day's file only
// appears after the day ends, and during the source's own end-of-day
// processing window (00:00-01:00 UTC) the previous day's file may still be
// partially written, so an extra day of lag applies before 01:00.
func MostRecentAvailableDate(now time.Time) time.Time {
	now = now.UTC()
	if now.Hour() < 1 {
		return Day(now).AddDate(0, 0, -2)
	}
	return Day(now).AddDate(0, 0, -1)
}

// PlanDates returns every calendar date from start to end inclusive, in
// ascending order. The result is empty when end precedes start.
func PlanDates(start, end time.Time) []time.Time {
	start = Day(start)
	end = Day(end)

	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}
