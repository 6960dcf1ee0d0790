package minetrack

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const targetIP = "mc.hypixel.net"

func millis(t time.Time) int64 { return t.UnixMilli() }

func TestFetchDayFiltersAndResamples(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	body := fmt.Sprintf("timestamp,ip,playerCount\n"+
		"%d,%s,10\n"+
		"%d,%s,15\n"+
		"%d,mc.otherserver.net,99999\n"+
		"%d,%s,7\n",
		millis(day.Add(10*time.Hour+5*time.Minute)), targetIP,
		millis(day.Add(10*time.Hour+35*time.Minute)), targetIP,
		millis(day.Add(10*time.Hour)),
		millis(day.Add(12*time.Hour)), targetIP,
	)

	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, targetIP)
	series, err := client.FetchDay(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if requestedPath != "/5-3-2024.csv" {
		t.Fatalf("expected path /5-3-2024.csv (no zero padding), got %s", requestedPath)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 hourly samples, got %d: %v", len(series), series)
	}
	if !series[0].Timestamp.Equal(day.Add(10*time.Hour)) || *series[0].Peak != 15 {
		t.Fatalf("expected 10:00 -> 15, got %s -> %v", series[0].Timestamp, series[0].Peak)
	}
	if !series[1].Timestamp.Equal(day.Add(12*time.Hour)) || *series[1].Peak != 7 {
		t.Fatalf("expected 12:00 -> 7, got %s -> %v", series[1].Timestamp, series[1].Peak)
	}
}

func TestFetchDayDropsNeighboringDayBuckets(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	// The file carries a couple of minutes of the next day near midnight.
	body := fmt.Sprintf("timestamp,ip,playerCount\n"+
		"%d,%s,40\n"+
		"%d,%s,99\n",
		millis(day.Add(23*time.Hour+30*time.Minute)), targetIP,
		millis(day.Add(24*time.Hour+2*time.Minute)), targetIP,
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, targetIP)
	series, err := client.FetchDay(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("expected only the 23:00 bucket, got %v", series)
	}
	if *series[0].Peak != 40 {
		t.Fatalf("expected 23:00 -> 40, got %v", series[0].Peak)
	}
}

func TestFetchDayNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, targetIP)
	_, err := client.FetchDay(context.Background(), time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestFetchDayMissingColumns(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "timestamp,playerCount\n1709632800000,10\n")
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, targetIP)
	_, err := client.FetchDay(context.Background(), time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for missing ip column")
	}
}

func TestFetchDayMalformedRow(t *testing.T) {
	body := fmt.Sprintf("timestamp,ip,playerCount\nnot-a-timestamp,%s,10\n", targetIP)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, targetIP)
	_, err := client.FetchDay(context.Background(), time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for malformed timestamp")
	}
}

func TestFetchDaySkipsBlankCounts(t *testing.T) {
	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	body := fmt.Sprintf("timestamp,ip,playerCount\n"+
		"%d,%s,\n"+
		"%d,%s,12\n",
		millis(day.Add(9*time.Hour)), targetIP,
		millis(day.Add(9*time.Hour+30*time.Minute)), targetIP,
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}))
	defer srv.Close()

	client := NewClient(srv.Client(), srv.URL, targetIP)
	series, err := client.FetchDay(context.Background(), day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(series) != 1 || *series[0].Peak != 12 {
		t.Fatalf("expected single 09:00 -> 12 sample, got %v", series)
	}
}

func TestFetchDayTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(&http.Client{Timeout: time.Second}, srv.URL, targetIP)
	_, err := client.FetchDay(context.Background(), time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatal("expected error for refused connection")
	}
}
