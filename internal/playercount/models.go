package playercount

import (
	"time"
)

// ServerIP is the server identity whose samples the pipeline keeps.
const ServerIP = "mc.hypixel.net"

// RawSample is a single reading as reported by the remote source, after the
// server identity column has been dropped.
type RawSample struct {
	Timestamp time.Time
	Count     int
}

// Sample is one hour of the normalized series. A nil Peak means the source
// had no data for that hour; it is never coerced to zero.
type Sample struct {
	Timestamp time.Time `json:"timestamp"` // hour-aligned, UTC
	Peak      *int      `json:"peakPlayerCount"`
}

// Series is a time-ordered sequence of hourly samples.
type Series []Sample

// Latest returns the timestamp of the last sample in the series.
func (s Series) Latest() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[len(s)-1].Timestamp, true
}

// Day truncates t to its UTC calendar date (midnight UTC).
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
