package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/username/vacation-calc/internal/vacation"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func run(t *testing.T, configContent string, args ...string) (string, error) {
	t.Helper()
	configFile := writeFile(t, "config.yaml", configContent)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"--config", configFile}, args...))

	err := cmd.Execute()
	return out.String(), err
}

const quietConfig = `
log:
  level: error
`

func TestCommands_Output(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantLines []string
		notWant   []string
	}{
		{
			name:      "duration",
			args:      []string{"duration", "--start", "2024-01-01", "--end", "2024-01-10", "--holidays", "2024-01-01,2024-01-07"},
			wantLines: []string{"Vacation duration: 8 day(s)", "Holidays skipped: 2", "2024-01-07"},
			notWant:   []string{"⚠️"},
		},
		{
			name:      "end lands on sunday",
			args:      []string{"end", "--start", "2024-01-01", "--days", "6", "--holidays", "2024-01-03"},
			wantLines: []string{"Vacation end date: 2024-01-07", "Vacation ends on a Sunday"},
			notWant:   []string{"starts on a"},
		},
		{
			name:      "start lands on sunday",
			args:      []string{"start", "--end", "2024-01-10", "-d", "3", "--holidays", "2024-01-08"},
			wantLines: []string{"Vacation start date: 2024-01-07", "Vacation starts on a Sunday"},
		},
		{
			name:      "calc ignores the computed field",
			args:      []string{"calc", "--mode", "END", "--start", "2024-01-01", "--end", "garbage", "--days", "5"},
			wantLines: []string{"Vacation end date: 2024-01-05", "2024-01-01 (Monday) → 2024-01-05 (Friday)"},
			notWant:   []string{"Holidays skipped"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, quietConfig, tt.args...)
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			for _, want := range tt.wantLines {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
			for _, unwanted := range tt.notWant {
				if strings.Contains(out, unwanted) {
					t.Errorf("output unexpectedly contains %q:\n%s", unwanted, out)
				}
			}
		})
	}
}

func TestCommands_ConfigHolidays(t *testing.T) {
	config := `
calendar:
  holidays:
    - "2024-01-02"
log:
  level: error
`
	out, err := run(t, config, "end", "--start", "2024-01-01", "--days", "2")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Vacation end date: 2024-01-03") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCommands_HolidaysFile(t *testing.T) {
	holidays := writeFile(t, "holidays.txt", "# team holidays\n2024-01-02 New Year holiday\n")

	out, err := run(t, quietConfig, "duration", "--start", "2024-01-01", "--end", "2024-01-03", "--holidays-file", holidays)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Vacation duration: 2 day(s)") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "New Year holiday") {
		t.Errorf("holiday note missing:\n%s", out)
	}
}

func TestCommands_JSON(t *testing.T) {
	out, err := run(t, quietConfig, "start", "--end", "2024-01-10", "--days", "3", "--holidays", "2024-01-08", "--json")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var got struct {
		Mode     string `json:"mode"`
		Start    string `json:"start"`
		End      string `json:"end"`
		Duration int    `json:"duration"`
		Value    string `json:"value"`
		Warnings struct {
			StartIsRestDay bool `json:"start_is_rest_day"`
		} `json:"warnings"`
		Holidays []struct {
			Date string `json:"date"`
		} `json:"holidays"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, out)
	}

	if got.Mode != "start" || got.Value != "2024-01-07" || got.Start != "2024-01-07" || got.End != "2024-01-10" {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.Duration != 3 {
		t.Errorf("duration = %d, want 3", got.Duration)
	}
	if !got.Warnings.StartIsRestDay {
		t.Error("expected start_is_rest_day warning")
	}
	if len(got.Holidays) != 1 || got.Holidays[0].Date != "2024-01-08" {
		t.Errorf("holidays = %+v, want [2024-01-08]", got.Holidays)
	}
}

func TestCommands_RestDayFromConfig(t *testing.T) {
	config := `
rules:
  rest_day: friday
log:
  level: error
`
	out, err := run(t, config, "end", "--start", "2024-01-01", "--days", "5")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Vacation ends on a Friday") {
		t.Errorf("expected friday warning:\n%s", out)
	}
}

func TestCommands_CalendarOutageIsReported(t *testing.T) {
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer remote.Close()

	config := fmt.Sprintf(`
calendar:
  holidays:
    - "2024-01-08"
  remote: isdayoff
  api_url: %q
  fallback_url: %q
log:
  level: fatal
`, remote.URL, remote.URL+"/{year}.json")

	out, err := run(t, config, "duration", "--start", "2024-01-01", "--end", "2024-01-10")
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(out, "Vacation duration: 9 day(s)") {
		t.Errorf("configured holiday should still apply:\n%s", out)
	}
	if !strings.Contains(out, "Holiday calendar incomplete") {
		t.Errorf("calendar outage not reported:\n%s", out)
	}
}

func TestCommands_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"reversed range", []string{"duration", "--start", "2024-01-10", "--end", "2024-01-01"}, vacation.ErrInvalidRange},
		{"zero days", []string{"end", "--start", "2024-01-01", "--days", "0"}, vacation.ErrInvalidDuration},
		{"missing start", []string{"end", "--days", "3"}, vacation.ErrMissingInput},
		{"unknown mode", []string{"calc", "--mode", "weeks"}, vacation.ErrInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, quietConfig, tt.args...)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCommands_MissingHolidaysFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.txt")
	if _, err := run(t, quietConfig, "end", "--start", "2024-01-01", "--days", "3", "--holidays-file", missing); err == nil {
		t.Fatal("expected error for missing holidays file")
	}
}

func TestCommands_InvalidConfig(t *testing.T) {
	_, err := run(t, "rules:\n  rest_day: someday\n", "end", "--start", "2024-01-01", "--days", "3")
	if err == nil || !strings.Contains(err.Error(), "failed to load config") {
		t.Fatalf("Execute() error = %v, want config error", err)
	}
}
