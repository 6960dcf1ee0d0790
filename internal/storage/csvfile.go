package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/playercount-ingestion/internal/playercount"
)

const (
	timestampHeader = "Timestamp"
	peakHeader      = "Peak Player Count"

	timestampLayout = "2006-01-02 15:04:05"
)

// timestampLayouts are the formats accepted when reading series files. The
// legacy baseline predates this tool and is not guaranteed to use the
// output layout.
var timestampLayouts = []string{
	timestampLayout,
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ReadSeries loads a persisted hourly series from a CSV file with a
// Timestamp column and a peak-count column. A blank count is kept as an
// explicit no-data sample.
func ReadSeries(path string) (playercount.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header of %s: %w", path, err)
	}

	tsCol, peakCol := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case timestampHeader:
			tsCol = i
		case peakHeader:
			peakCol = i
		}
	}
	if tsCol < 0 {
		return nil, fmt.Errorf("%s has no %q column", path, timestampHeader)
	}
	// The legacy baseline may name its count column differently; with two
	// columns total, the non-timestamp one is the count.
	if peakCol < 0 && len(header) == 2 {
		peakCol = 1 - tsCol
	}
	if peakCol < 0 {
		return nil, fmt.Errorf("%s has no %q column", path, peakHeader)
	}

	var series playercount.Series
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		ts, err := parseTimestamp(record[tsCol])
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}

		sample := playercount.Sample{Timestamp: ts}
		if v := strings.TrimSpace(record[peakCol]); v != "" {
			count, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("reading %s: invalid count %q: %w", path, v, err)
			}
			sample.Peak = &count
		}
		series = append(series, sample)
	}

	return series, nil
}

// WriteSeries persists the series to path, creating the parent directory
// when absent. The file is written to a temporary sibling first and renamed
// into place, so a failed run never leaves a partial output behind.
func WriteSeries(path string, series playercount.Series) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	writer := csv.NewWriter(tmp)
	if err := writer.Write([]string{timestampHeader, peakHeader}); err != nil {
		return err
	}
	for _, sample := range series {
		count := ""
		if sample.Peak != nil {
			count = strconv.Itoa(*sample.Peak)
		}
		record := []string{sample.Timestamp.UTC().Format(timestampLayout), count}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}
