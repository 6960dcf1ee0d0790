package playercount

import (
	"time"
)

// ResampleDay buckets raw samples into hourly windows for one calendar day,
// keeping the maximum count per hour. The source takes periodic snapshots
// rather than exactly hourly ones, so several raw samples can land in the
// same window. Buckets whose UTC date is not the requested day are dropped:
// the per-day files occasionally carry a few samples from the adjacent day
// near midnight.
func ResampleDay(day time.Time, samples []RawSample) Series {
	day = Day(day)

	maxima := make(map[time.Time]int, 24)
	for _, s := range samples {
		h := s.Timestamp.UTC().Truncate(time.Hour)
		if !Day(h).Equal(day) {
			continue
		}
		if v, ok := maxima[h]; !ok || s.Count > v {
			maxima[h] = s.Count
		}
	}

	series := make(Series, 0, len(maxima))
	for i := 0; i < 24; i++ {
		h := day.Add(time.Duration(i) * time.Hour)
		if v, ok := maxima[h]; ok {
			v := v
			series = append(series, Sample{Timestamp: h, Peak: &v})
		}
	}
	return series
}

// Merge combines a baseline series with newly fetched daily series into a
// single gap-free hourly grid spanning the full min-to-max timestamp range.
// Overlapping hours resolve to the maximum contributing value, which makes
// re-ingesting an already-covered date a no-op; hours with no contributing
// data are kept as explicit nil-peak samples. The same inputs always produce
// the same output, so a run can safely rebuild the series from scratch.
func Merge(baseline Series, dailies []Series) Series {
	all := make(Series, 0, len(baseline))
	all = append(all, baseline...)
	for _, d := range dailies {
		all = append(all, d...)
	}
	if len(all) == 0 {
		return nil
	}

	maxima := make(map[time.Time]int, len(all))
	var minHour, maxHour time.Time
	for i, s := range all {
		h := s.Timestamp.UTC().Truncate(time.Hour)
		if i == 0 || h.Before(minHour) {
			minHour = h
		}
		if i == 0 || h.After(maxHour) {
			maxHour = h
		}
		if s.Peak == nil {
			continue
		}
		if v, ok := maxima[h]; !ok || *s.Peak > v {
			maxima[h] = *s.Peak
		}
	}

	merged := make(Series, 0, int(maxHour.Sub(minHour)/time.Hour)+1)
	for h := minHour; !h.After(maxHour); h = h.Add(time.Hour) {
		sample := Sample{Timestamp: h}
		if v, ok := maxima[h]; ok {
			v := v
			sample.Peak = &v
		}
		merged = append(merged, sample)
	}
	return merged
}
