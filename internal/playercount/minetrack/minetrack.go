package minetrack

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/playercount-ingestion/internal/playercount"
)

var (
	errUnexpectedStatus = errors.New("unexpected status code")
	errMissingColumn    = errors.New("missing column in daily file")
	errCircuitOpen      = errors.New("circuit breaker open")
)

// Client fetches Minetrack's per-day CSV exports and normalizes them into
// hourly-peak series for a single server identity. Any transport or parse
// failure surfaces as an error; callers treat a failed day as unavailable
// and move on.
type Client struct {
	baseURL    string
	serverIP   string
	httpClient *http.Client
	circuit    *gobreaker.CircuitBreaker
}

// NewClient creates a Client using the shared HTTP client. The circuit
// breaker fails fast through source outages; rejected days are skipped the
// same way any other failed day is, no retries are attempted.
func NewClient(httpClient *http.Client, baseURL, serverIP string) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "minetrack",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serverIP:   serverIP,
		httpClient: httpClient,
		circuit:    cb,
	}
}

// FetchDay retrieves the daily file for the given calendar date and returns
// the hourly-peak series for that date only.
func (c *Client) FetchDay(ctx context.Context, day time.Time) (playercount.Series, error) {
	day = playercount.Day(day)

	// Minetrack names its exports without zero padding.
	url := fmt.Sprintf("%s/%d-%d-%d.csv", c.baseURL, day.Day(), int(day.Month()), day.Year())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.httpClient.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: %d", errUnexpectedStatus, resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	raw, err := c.parseDailyFile(resp)
	if err != nil {
		return nil, err
	}

	sort.Slice(raw, func(i, j int) bool { return raw[i].Timestamp.Before(raw[j].Timestamp) })

	return playercount.ResampleDay(day, raw), nil
}

// parseDailyFile decodes the daily CSV and keeps only rows for the target
// server, dropping the identity column.
func (c *Client) parseDailyFile(resp *http.Response) ([]playercount.RawSample, error) {
	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // column count validated per row below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading daily file header: %w", err)
	}

	ipCol, tsCol, countCol := -1, -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case "ip":
			ipCol = i
		case "timestamp":
			tsCol = i
		case "playerCount":
			countCol = i
		}
	}
	if ipCol < 0 || tsCol < 0 || countCol < 0 {
		return nil, fmt.Errorf("%w: need ip, timestamp, playerCount", errMissingColumn)
	}

	var raw []playercount.RawSample
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading daily file row: %w", err)
		}
		if len(record) <= ipCol || len(record) <= tsCol || len(record) <= countCol {
			return nil, fmt.Errorf("%w: short row", errMissingColumn)
		}
		if record[ipCol] != c.serverIP {
			continue
		}

		millis, err := strconv.ParseInt(strings.TrimSpace(record[tsCol]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing timestamp %q: %w", record[tsCol], err)
		}

		countField := strings.TrimSpace(record[countCol])
		if countField == "" {
			// Snapshot with no reading for this server; not an error.
			continue
		}
		count, err := strconv.Atoi(countField)
		if err != nil {
			return nil, fmt.Errorf("parsing player count %q: %w", record[countCol], err)
		}

		raw = append(raw, playercount.RawSample{
			Timestamp: time.UnixMilli(millis).UTC(),
			Count:     count,
		})
	}

	return raw, nil
}
