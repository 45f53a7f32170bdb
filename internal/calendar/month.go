package calendar

import (
	"fmt"
	"time"
)

// YearMonth is the month/year cursor of a calendar grid.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Normalize keeps the month within 1..12 by rolling the year value.
func (ym YearMonth) Normalize() YearMonth {
	for ym.Month > 12 {
		ym.Month -= 12
		ym.Year++
	}
	for ym.Month < 1 {
		ym.Month += 12
		ym.Year--
	}
	return ym
}

// Next moves the cursor to the following month.
func (ym YearMonth) Next() YearMonth {
	ym.Month++
	return ym.Normalize()
}

// Prev moves the cursor to the preceding month.
func (ym YearMonth) Prev() YearMonth {
	ym.Month--
	return ym.Normalize()
}

// Add moves the cursor by n months in either direction.
func (ym YearMonth) Add(n int) YearMonth {
	ym.Month += time.Month(n % 12)
	ym.Year += n / 12
	return ym.Normalize()
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	return time.Date(ym.Year, ym.Month+1, 0, 12, 0, 0, 0, time.UTC).Day()
}

// First returns the first day of the month.
func (ym YearMonth) First() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// Last returns the last day of the month.
func (ym YearMonth) Last() Date {
	return Date{Year: ym.Year, Month: ym.Month, Day: ym.Days()}
}

// Day returns the given day of the month. The boolean is false when the
// month has no such day.
func (ym YearMonth) Day(day int) (Date, bool) {
	if day < 1 || day > ym.Days() {
		return Date{}, false
	}
	return Date{Year: ym.Year, Month: ym.Month, Day: day}, true
}

// Compare orders two months chronologically.
func (ym YearMonth) Compare(other YearMonth) int {
	if ym.Year != other.Year {
		return cmpInt(ym.Year, other.Year)
	}
	return cmpInt(int(ym.Month), int(other.Month))
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}
