package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/i474232898/playercount-ingestion/internal/config"
	"github.com/i474232898/playercount-ingestion/internal/playercount"
	"github.com/i474232898/playercount-ingestion/internal/storage"
)

// Mode selects how a run derives its baseline and date range.
type Mode string

const (
	// ModeHistorical rebuilds the full series from the legacy baseline plus
	// every day since the export start date.
	ModeHistorical Mode = "historical"
	// ModeMostRecent extends the existing output file from its latest
	// recorded date.
	ModeMostRecent Mode = "most_recent"
)

var (
	// ErrUnknownMode is returned for ingestion modes other than historical
	// and most_recent.
	ErrUnknownMode = errors.New("unknown ingestion mode")
	// ErrMissingBaseline is returned when historical mode cannot read the
	// legacy baseline file.
	ErrMissingBaseline = errors.New("legacy baseline unavailable")
	// ErrMissingPriorOutput is returned when most_recent mode finds no
	// output file to extend; run historical mode first.
	ErrMissingPriorOutput = errors.New("no prior output to extend")
)

// DayFetcher retrieves the hourly-peak series for a single calendar day.
type DayFetcher interface {
	FetchDay(ctx context.Context, day time.Time) (playercount.Series, error)
}

// Service runs one ingestion pass: it plans the dates to fetch, fetches each
// day sequentially, merges the results onto the baseline and persists the
// merged series. A day that fails to fetch is logged and excluded from the
// merge; the run itself only fails when a required input file is missing or
// the output cannot be written.
type Service struct {
	mode    Mode
	fetcher DayFetcher
	cfg     *config.AppConfig

	now func() time.Time
}

// NewService validates the mode and creates a Service.
func NewService(mode string, fetcher DayFetcher, cfg *config.AppConfig) (*Service, error) {
	m := Mode(mode)
	switch m {
	case ModeHistorical, ModeMostRecent:
	default:
		return nil, fmt.Errorf("%w: %q (allowed: %s, %s)", ErrUnknownMode, mode, ModeHistorical, ModeMostRecent)
	}

	return &Service{
		mode:    m,
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// Run executes the configured ingestion mode.
func (s *Service) Run(ctx context.Context) error {
	var (
		baseline playercount.Series
		dates    []time.Time
		err      error
	)

	end := playercount.MostRecentAvailableDate(s.now())

	switch s.mode {
	case ModeHistorical:
		baseline, err = storage.ReadSeries(s.cfg.LegacyPath())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingBaseline, err)
		}
		dates = playercount.PlanDates(s.cfg.ExportStartDate, end)
	case ModeMostRecent:
		baseline, err = storage.ReadSeries(s.cfg.OutputPath())
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingPriorOutput, err)
		}
		latest, ok := baseline.Latest()
		if !ok {
			return fmt.Errorf("%w: output file is empty", ErrMissingPriorOutput)
		}
		dates = playercount.PlanDates(playercount.Day(latest).AddDate(0, 0, 1), end)
	}

	// The historical range spans years; show progress for it.
	dailies := s.fetchAll(ctx, dates, s.mode == ModeHistorical)

	merged := playercount.Merge(baseline, dailies)
	if err := storage.WriteSeries(s.cfg.OutputPath(), merged); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	log.Printf("INFO: wrote %d hourly samples to %s", len(merged), s.cfg.OutputPath())
	return nil
}

// fetchAll fetches the planned dates one at a time, in order. Failed days
// are skipped; all failures are treated as permanent for this run.
func (s *Service) fetchAll(ctx context.Context, dates []time.Time, progress bool) []playercount.Series {
	if len(dates) == 0 {
		log.Printf("INFO: series already up to date; nothing to fetch")
		return nil
	}

	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(dates)), "fetching daily files")
	}

	dailies := make([]playercount.Series, 0, len(dates))
	skipped := 0
	for _, day := range dates {
		series, err := s.fetcher.FetchDay(ctx, day)
		if err != nil {
			log.Printf("daily file for %s unavailable, skipping: %v", day.Format("2006-01-02"), err)
			skipped++
		} else {
			dailies = append(dailies, series)
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	log.Printf("INFO: fetched %d of %d days (%d skipped)", len(dates)-skipped, len(dates), skipped)
	return dailies
}
