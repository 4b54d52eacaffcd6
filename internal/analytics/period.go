package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	appErrors "github.com/veerababu-g/budget-planner/errors"
)

// Period is one calendar month at (year, month) granularity. Month is
// 1..12.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

func (p Period) valid() bool {
	return p.Month >= 1 && p.Month <= 12
}

func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	if p.Month == 12 {
		return Period{Year: p.Year + 1, Month: 1}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

// PriorYear returns the same calendar month one year earlier.
func (p Period) PriorYear() Period {
	return Period{Year: p.Year - 1, Month: p.Month}
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// MonthName returns the English month name, the label the charts use.
func (p Period) MonthName() string {
	return time.Month(p.Month).String()
}

// ParsePeriod parses "YYYY-MM". The whole input must match; trailing
// characters are rejected rather than silently dropped.
func ParsePeriod(s string) (Period, error) {
	yearStr, monthStr, ok := strings.Cut(s, "-")
	if !ok {
		return Period{}, fmt.Errorf("%w: malformed period %q, expected YYYY-MM", appErrors.ErrInvalidRange, s)
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: malformed period %q, expected YYYY-MM", appErrors.ErrInvalidRange, s)
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return Period{}, fmt.Errorf("%w: malformed period %q, expected YYYY-MM", appErrors.ErrInvalidRange, s)
	}

	p := Period{Year: year, Month: month}
	if !p.valid() {
		return Period{}, fmt.Errorf("%w: month must be in 1..12, got %d", appErrors.ErrInvalidRange, p.Month)
	}
	return p, nil
}

// periodRange expands the closed range [start, end] into every calendar
// month it contains, in chronological order.
func periodRange(start, end Period) ([]Period, error) {
	if !start.valid() || !end.valid() {
		return nil, fmt.Errorf("%w: month must be in 1..12", appErrors.ErrInvalidRange)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s is after end %s", appErrors.ErrInvalidRange, start, end)
	}

	months := (end.Year-start.Year)*12 + (end.Month - start.Month) + 1
	periods := make([]Period, 0, months)
	for p := start; !end.Before(p); p = p.Next() {
		periods = append(periods, p)
	}
	return periods, nil
}
