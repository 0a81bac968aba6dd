package calendar

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

func writeHolidaysFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write holidays file: %v", err)
	}
	return path
}

func TestFileCalendar_Load(t *testing.T) {
	path := writeHolidaysFile(t, `# public holidays
2024-05-09 Victory Day
2024-01-01	New Year
2024-01-01 duplicate

2024-02-30 impossible
bogus line
2024-03-08
`)

	logger, _ := zap.NewDevelopment()
	fc := NewFileCalendar(path, logger)
	if err := fc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	days, err := fc.Holidays(context.Background(),
		civil.Date{Year: 2024, Month: time.January, Day: 1},
		civil.Date{Year: 2024, Month: time.December, Day: 31})
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}

	want := []DayInfo{
		{Date: civil.Date{Year: 2024, Month: time.January, Day: 1}, Type: DayTypeHoliday, Note: "New Year"},
		{Date: civil.Date{Year: 2024, Month: time.March, Day: 8}, Type: DayTypeHoliday},
		{Date: civil.Date{Year: 2024, Month: time.May, Day: 9}, Type: DayTypeHoliday, Note: "Victory Day"},
	}
	if len(days) != len(want) {
		t.Fatalf("Holidays() = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("Holidays()[%d] = %+v, want %+v", i, days[i], want[i])
		}
	}
}

func TestFileCalendar_Range(t *testing.T) {
	path := writeHolidaysFile(t, "2024-01-01\n2024-01-07\n2024-02-01\n")
	fc := NewFileCalendar(path, zap.NewNop())
	if err := fc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	days, err := fc.Holidays(context.Background(),
		civil.Date{Year: 2024, Month: time.January, Day: 2},
		civil.Date{Year: 2024, Month: time.February, Day: 1})
	if err != nil {
		t.Fatalf("Holidays() error = %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("Holidays() returned %d days, want 2", len(days))
	}
	if days[0].Date.Day != 7 || days[1].Date.Month != time.February {
		t.Errorf("Holidays() = %v", days)
	}
}

func TestFileCalendar_Errors(t *testing.T) {
	fc := NewFileCalendar(filepath.Join(t.TempDir(), "missing.txt"), zap.NewNop())

	if err := fc.Load(); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not exist", err)
	}

	day := civil.Date{Year: 2024, Month: time.January, Day: 1}
	if _, err := fc.Holidays(context.Background(), day, day); err == nil {
		t.Error("Holidays() on unloaded calendar should fail")
	}
}

func TestFileCalendar_EmptyFile(t *testing.T) {
	fc := NewFileCalendar(writeHolidaysFile(t, "# nothing yet\n"), zap.NewNop())
	if err := fc.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	day := civil.Date{Year: 2024, Month: time.January, Day: 1}
	days, err := fc.Holidays(context.Background(), day, day)
	if err != nil || len(days) != 0 {
		t.Errorf("Holidays() = %v, %v; want empty", days, err)
	}
}
