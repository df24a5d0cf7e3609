package hostapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davidthor/evlog/pkg/logs"
	"github.com/davidthor/evlog/pkg/logs/live"
)

const sampleArray = `[
	{"Message": "Started plugin", "TypeStr": "Application", "TypeVal": 0, "TimeStamp": "2024-01-05T10:30:00"},
	{"Message": "Turned on", "TypeStr": "Z-Wave", "TypeVal": "2", "TimeStamp": "2024-01-05T10:30:01.500000"},
	{"Message": "no source", "TimeStamp": null}
]`

func TestFetch_Array(t *testing.T) {
	var capturedCount, capturedTS string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/eventlog" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		capturedCount = r.URL.Query().Get("lineCount")
		capturedTS = r.URL.Query().Get("showTimeStamp")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleArray))
	}))
	defer ts.Close()

	a, err := New(ts.URL+"/eventlog", logs.OldestFirst)
	if err != nil {
		t.Fatalf("failed to create accessor: %v", err)
	}

	records, err := a.Fetch(context.Background(), 501)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if capturedCount != "501" {
		t.Errorf("expected lineCount=501, got %s", capturedCount)
	}
	if capturedTS != "true" {
		t.Errorf("expected showTimeStamp=true, got %s", capturedTS)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].Message != "Started plugin" || records[0].TypeStr != "Application" {
		t.Errorf("unexpected first record: %+v", records[0])
	}
	if records[1].TypeVal != 2 {
		t.Errorf("expected string TypeVal to parse as 2, got %d", records[1].TypeVal)
	}
	if records[1].TimeStamp != "2024-01-05T10:30:01.500000" {
		t.Errorf("unexpected timestamp: %v", records[1].TimeStamp)
	}
	if records[2].TypeStr != "" || records[2].TimeStamp != nil {
		t.Errorf("expected zero values for missing fields, got %+v", records[2])
	}
}

func TestFetch_EntriesObject(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entries": [{"Message": "x", "TypeStr": "Web", "TypeVal": 8, "TimeStamp": 1704450600}]}`))
	}))
	defer ts.Close()

	a, _ := New(ts.URL, logs.NewestFirst)
	records, err := a.Fetch(context.Background(), 10)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].TypeVal != 8 {
		t.Errorf("expected TypeVal 8, got %d", records[0].TypeVal)
	}
	if records[0].TimeStamp != "1704450600" {
		t.Errorf("expected numeric timestamp as text, got %v", records[0].TimeStamp)
	}
	if a.Order() != logs.NewestFirst {
		t.Errorf("expected newest-first order")
	}
}

func TestFetch_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("server starting"))
	}))
	defer ts.Close()

	a, _ := New(ts.URL, logs.OldestFirst)
	_, err := a.Fetch(context.Background(), 10)
	if err == nil {
		t.Fatal("expected error for bad status")
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	tests := map[string]string{
		"not json":      `<html>`,
		"no entries":    `{"items": []}`,
		"scalar":        `42`,
		"entries value": `{"entries": "nope"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer ts.Close()

			a, _ := New(ts.URL, logs.OldestFirst)
			if _, err := a.Fetch(context.Background(), 1); err == nil {
				t.Errorf("expected decode error for %q", body)
			}
		})
	}
}

func TestFetch_EndpointWithQuery(t *testing.T) {
	var rawQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	a, _ := New(ts.URL+"/log?token=abc", logs.OldestFirst)
	if _, err := a.Fetch(context.Background(), 5); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if rawQuery != "token=abc&lineCount=5&showTimeStamp=true" {
		t.Errorf("unexpected query: %s", rawQuery)
	}
}

func TestNew_EmptyEndpoint(t *testing.T) {
	_, err := New("", logs.OldestFirst)
	if err == nil {
		t.Error("expected error for empty endpoint")
	}
}

func TestNew_TrailingSlash(t *testing.T) {
	a, err := New("http://localhost:8176/", logs.OldestFirst)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a.endpoint != "http://localhost:8176" {
		t.Errorf("expected trailing slash stripped, got %s", a.endpoint)
	}
}

func TestRegistration(t *testing.T) {
	// The init() function should have registered "http"
	a, err := live.NewAccessor("http", live.Config{Endpoint: "http://localhost:8176", Order: logs.NewestFirst})
	if err != nil {
		t.Fatalf("expected http to be registered: %v", err)
	}
	if a.Order() != logs.NewestFirst {
		t.Errorf("expected order from config")
	}
}
