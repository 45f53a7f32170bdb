package calendar

import (
	"errors"
	"fmt"
	"time"
)

// InputLayout is the textual form of a Date inside the bound form fields.
const InputLayout = "01/02/2006"

// ErrInvalidDate indicates a bound input could not be parsed back to a Date.
var ErrInvalidDate = errors.New("invalid date")

// Date is a civil date without a time zone. The zero value is not a valid
// date and is used to mean "unset".
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalises year/month/day the same way time.Date does, so
// NewDate(2024, 13, 1) is 2025-01-01.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 12, 0, 0, 0, time.UTC))
}

// FromTime extracts the civil date of t in its own location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseInput parses the MM/DD/YYYY text of a bound input field.
func ParseInput(value string) (Date, error) {
	t, err := time.Parse(InputLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return FromTime(t), nil
}

// Time returns noon UTC on d, which keeps day arithmetic away from DST edges.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

// IsZero reports whether d is the unset value.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays moves d by n days.
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// AddMonths moves d by n months, clamping the day to the end of the target
// month (Jan 31 + 1 month is the last day of February).
func (d Date) AddMonths(n int) Date {
	ym := d.YearMonth().Add(n)
	day := min(d.Day, ym.Days())
	return Date{Year: ym.Year, Month: ym.Month, Day: day}
}

// YearMonth returns the month containing d.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after other.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return cmpInt(d.Year, other.Year)
	case d.Month != other.Month:
		return cmpInt(int(d.Month), int(other.Month))
	default:
		return cmpInt(d.Day, other.Day)
	}
}

func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }
func (d Date) After(other Date) bool  { return d.Compare(other) > 0 }
func (d Date) Equal(other Date) bool  { return d == other }

// Format renders d in the MM/DD/YYYY input layout.
func (d Date) Format() string {
	return fmt.Sprintf("%02d/%02d/%04d", int(d.Month), d.Day, d.Year)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MaxDate returns the later of a and b.
func MaxDate(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// MinDate returns the earlier of a and b.
func MinDate(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
