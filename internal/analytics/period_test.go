package analytics

import (
	"errors"
	"testing"

	appErrors "github.com/veerababu-g/budget-planner/errors"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Period
		expectErr bool
	}{
		{name: "Success - plain", input: "2024-05", want: Period{Year: 2024, Month: 5}},
		{name: "Success - december", input: "2023-12", want: Period{Year: 2023, Month: 12}},
		{name: "Fail - garbage", input: "not-a-period", expectErr: true},
		{name: "Fail - month zero", input: "2024-00", expectErr: true},
		{name: "Fail - month thirteen", input: "2024-13", expectErr: true},
		{name: "Fail - empty", input: "", expectErr: true},
		{name: "Fail - trailing day", input: "2024-05-99", expectErr: true},
		{name: "Fail - trailing junk", input: "2024-05junk", expectErr: true},
		{name: "Fail - no separator", input: "202405", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePeriod(tt.input)
			if tt.expectErr {
				if !errors.Is(err, appErrors.ErrInvalidRange) {
					t.Errorf("expected ErrInvalidRange, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestPeriodNext(t *testing.T) {
	if next := (Period{Year: 2024, Month: 12}).Next(); next != (Period{Year: 2025, Month: 1}) {
		t.Errorf("December should roll into January of the next year, got %v", next)
	}
	if next := (Period{Year: 2024, Month: 6}).Next(); next != (Period{Year: 2024, Month: 7}) {
		t.Errorf("expected July, got %v", next)
	}
}

func TestPeriodRangeMonthCount(t *testing.T) {
	tests := []struct {
		name  string
		start Period
		end   Period
		count int
	}{
		{name: "single month", start: Period{2024, 5}, end: Period{2024, 5}, count: 1},
		{name: "within a year", start: Period{2024, 1}, end: Period{2024, 12}, count: 12},
		{name: "across year boundary", start: Period{2023, 11}, end: Period{2024, 2}, count: 4},
		{name: "multiple years", start: Period{2022, 3}, end: Period{2024, 3}, count: 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := periodRange(tt.start, tt.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(periods) != tt.count {
				t.Errorf("expected %d months, got %d", tt.count, len(periods))
			}
			if periods[0] != tt.start || periods[len(periods)-1] != tt.end {
				t.Errorf("range should be [%v, %v], got [%v, %v]",
					tt.start, tt.end, periods[0], periods[len(periods)-1])
			}
			for i := 1; i < len(periods); i++ {
				if !periods[i-1].Before(periods[i]) {
					t.Fatalf("range is not chronological at index %d", i)
				}
			}
		})
	}
}

func TestPeriodString(t *testing.T) {
	p := Period{Year: 987, Month: 3}
	if p.String() != "0987-03" {
		t.Errorf("expected zero-padded 0987-03, got %s", p.String())
	}
	if p.MonthName() != "March" {
		t.Errorf("expected March, got %s", p.MonthName())
	}
}
