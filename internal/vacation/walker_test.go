package vacation

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestCountInclusiveDays(t *testing.T) {
	tests := []struct {
		name     string
		start    civil.Date
		end      civil.Date
		holidays HolidaySet
		want     int
	}{
		{"single day", date(2024, 1, 1), date(2024, 1, 1), nil, 1},
		{"single holiday", date(2024, 1, 1), date(2024, 1, 1), NewHolidaySet(date(2024, 1, 1)), 0},
		{"ten days one holiday", date(2024, 1, 1), date(2024, 1, 10), NewHolidaySet(date(2024, 1, 7)), 9},
		{"holiday outside range ignored", date(2024, 1, 1), date(2024, 1, 10), NewHolidaySet(date(2024, 2, 7)), 10},
		{"across leap day", date(2024, 2, 27), date(2024, 3, 2), nil, 5},
		{"across year end", date(2024, 12, 30), date(2025, 1, 2), NewHolidaySet(date(2025, 1, 1)), 3},
		{"all holidays", date(2024, 1, 1), date(2024, 1, 3),
			NewHolidaySet(date(2024, 1, 1), date(2024, 1, 2), date(2024, 1, 3)), 0},
		{"reversed range", date(2024, 1, 10), date(2024, 1, 1), nil, 0},
		{"whole civil range", date(1, 1, 1), date(9999, 12, 31), NewHolidaySet(date(2024, 1, 1)), 3652058},
		{"two centuries", date(2000, 1, 1), date(2199, 12, 31), nil, 73049},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountInclusiveDays(tt.start, tt.end, tt.holidays)
			if got != tt.want {
				t.Errorf("CountInclusiveDays(%v, %v) = %d, want %d", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestAdvanceToDuration(t *testing.T) {
	tests := []struct {
		name     string
		start    civil.Date
		duration int
		holidays HolidaySet
		want     civil.Date
	}{
		{"one day", date(2024, 1, 1), 1, nil, date(2024, 1, 1)},
		{"five days", date(2024, 1, 1), 5, nil, date(2024, 1, 5)},
		{"holiday extends walk", date(2024, 1, 1), 5, NewHolidaySet(date(2024, 1, 3)), date(2024, 1, 6)},
		{"start on holiday", date(2024, 1, 1), 1, NewHolidaySet(date(2024, 1, 1)), date(2024, 1, 2)},
		{"holidays after end ignored", date(2024, 1, 1), 2, NewHolidaySet(date(2024, 1, 3)), date(2024, 1, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AdvanceToDuration(tt.start, tt.duration, tt.holidays, 0)
			if err != nil {
				t.Fatalf("AdvanceToDuration() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("AdvanceToDuration(%v, %d) = %v, want %v", tt.start, tt.duration, got, tt.want)
			}
		})
	}
}

func TestRetreatToDuration(t *testing.T) {
	tests := []struct {
		name     string
		end      civil.Date
		duration int
		holidays HolidaySet
		want     civil.Date
	}{
		{"one day", date(2024, 1, 10), 1, nil, date(2024, 1, 10)},
		{"three days", date(2024, 1, 10), 3, nil, date(2024, 1, 8)},
		{"holiday extends walk", date(2024, 1, 10), 3, NewHolidaySet(date(2024, 1, 9)), date(2024, 1, 7)},
		{"end on holiday", date(2024, 1, 10), 1, NewHolidaySet(date(2024, 1, 10)), date(2024, 1, 9)},
		{"across month start", date(2024, 3, 2), 3, nil, date(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RetreatToDuration(tt.end, tt.duration, tt.holidays, 0)
			if err != nil {
				t.Fatalf("RetreatToDuration() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RetreatToDuration(%v, %d) = %v, want %v", tt.end, tt.duration, got, tt.want)
			}
		})
	}
}

func TestWalk_Limit(t *testing.T) {
	start := date(2024, 1, 1)
	holidays := make(HolidaySet)
	for i := 0; i < 20; i++ {
		holidays.Add(start.AddDays(i))
	}

	_, err := AdvanceToDuration(start, 1, holidays, 10)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("AdvanceToDuration() error = %v, want Unreachable", err)
	}

	_, err = RetreatToDuration(start.AddDays(19), 1, holidays, 10)
	if !errors.Is(err, ErrUnreachable) {
		t.Errorf("RetreatToDuration() error = %v, want Unreachable", err)
	}

	// exactly enough room
	got, err := AdvanceToDuration(start, 1, holidays, 21)
	if err != nil {
		t.Fatalf("AdvanceToDuration() error = %v", err)
	}
	if got != start.AddDays(20) {
		t.Errorf("AdvanceToDuration() = %v, want %v", got, start.AddDays(20))
	}
}

func randomHolidays(rng *rand.Rand, around civil.Date, span int) HolidaySet {
	set := make(HolidaySet)
	for i := -span; i <= span; i++ {
		if rng.Intn(4) == 0 {
			set.Add(around.AddDays(i))
		}
	}
	return set
}

func TestWalkProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := date(2023, time.June, 1)

	for i := 0; i < 300; i++ {
		anchor := base.AddDays(rng.Intn(800))
		duration := 1 + rng.Intn(60)
		holidays := randomHolidays(rng, anchor, 150)

		end, err := AdvanceToDuration(anchor, duration, holidays, 0)
		if err != nil {
			t.Fatalf("AdvanceToDuration(%v, %d) error = %v", anchor, duration, err)
		}
		if got := CountInclusiveDays(anchor, end, holidays); got != duration {
			t.Fatalf("forward walk from %v for %d days ended %v covering %d days", anchor, duration, end, got)
		}
		if holidays.Contains(end) {
			t.Fatalf("forward walk ended on holiday %v", end)
		}

		start, err := RetreatToDuration(anchor, duration, holidays, 0)
		if err != nil {
			t.Fatalf("RetreatToDuration(%v, %d) error = %v", anchor, duration, err)
		}
		if got := CountInclusiveDays(start, anchor, holidays); got != duration {
			t.Fatalf("backward walk from %v for %d days ended %v covering %d days", anchor, duration, start, got)
		}

		// empty holiday set counts plain calendar span
		if got, want := CountInclusiveDays(start, anchor, nil), anchor.DaysSince(start)+1; got != want {
			t.Fatalf("CountInclusiveDays(%v, %v, {}) = %d, want %d", start, anchor, got, want)
		}
	}
}
