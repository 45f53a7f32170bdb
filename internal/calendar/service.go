package calendar

import (
	"errors"
	"fmt"
	"time"

	calendarlib "github.com/Lofanmi/chinese-calendar-golang/calendar"

	"github.com/lululau/tripcal/internal/holidays"
)

// Supported Gregorian year range for lunar metadata, enforced by the
// upstream library.
const (
	MinSupportedYear = 1900
	MaxSupportedYear = 3000
)

// Day represents a single cell of the month grid.
type Day struct {
	Date            Date
	InMonth         bool
	Selectable      bool
	Selected        bool
	IsToday         bool
	LunarDayAlias   string
	LunarMonthAlias string
	SolarTerm       string
	HolidayInfo     *holidays.Info
	hasLunarData    bool
}

// SecondaryLabel selects the string that should be rendered beneath the
// day number. Solar terms take precedence, followed by lunar month names
// whenever it is the first day of a lunar month.
func (d Day) SecondaryLabel() string {
	if d.SolarTerm != "" {
		return d.SolarTerm
	}
	if d.LunarDayAlias == "初一" && d.LunarMonthAlias != "" {
		return d.LunarMonthAlias
	}
	return d.LunarDayAlias
}

// HasLunarData reports whether lunar metadata was calculated for the day.
func (d Day) HasLunarData() bool {
	return d.hasLunarData
}

// MonthView describes a month laid out into Sunday-first weeks.
type MonthView struct {
	Month YearMonth
	Title string
	Weeks [][]Day
}

// Service materialises month grids for the date pickers.
type Service struct {
	clock    Clock
	lunar    bool
	holidays holidays.Set
}

// Option configures the Service.
type Option func(*Service)

// WithClock overrides the clock, which is useful for tests.
func WithClock(clock Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLunar toggles lunar labels beneath the day numbers.
func WithLunar(enabled bool) Option {
	return func(s *Service) {
		s.lunar = enabled
	}
}

// WithHolidays sets the holiday data used to annotate days.
func WithHolidays(set holidays.Set) Option {
	return func(s *Service) {
		s.holidays = set
	}
}

// NewService constructs a Service.
func NewService(opts ...Option) *Service {
	s := &Service{
		clock: SystemClock(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HasHolidayData reports whether holiday annotations are available.
func (s *Service) HasHolidayData() bool {
	return len(s.holidays) > 0
}

var (
	// ErrYearOutOfRange indicates the requested year is unsupported.
	ErrYearOutOfRange = fmt.Errorf("year must be between %d and %d", MinSupportedYear, MaxSupportedYear)
	// ErrInvalidMonth indicates the month is not in the 1..12 range.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Month builds the grid for ym. Days inside w are marked selectable and the
// day equal to selected, if any, is marked selected.
func (s *Service) Month(ym YearMonth, w Window, selected Date) (MonthView, error) {
	if ym.Year < MinSupportedYear || ym.Year > MaxSupportedYear {
		return MonthView{}, ErrYearOutOfRange
	}
	if ym.Month < 1 || ym.Month > 12 {
		return MonthView{}, ErrInvalidMonth
	}

	first := ym.First()
	start := first.AddDays(-int(first.Time().Weekday()))
	end := ym.Next().First()
	today := s.clock.Today()

	weeks := make([][]Day, 0, 6)
	cursor := start
	for cursor.Before(end) {
		week := make([]Day, 7)
		for i := range week {
			week[i] = s.buildDay(cursor, ym, w, selected, today)
			cursor = cursor.AddDays(1)
		}
		weeks = append(weeks, week)
	}

	return MonthView{
		Month: ym,
		Title: fmt.Sprintf("%d 年 %d 月", ym.Year, int(ym.Month)),
		Weeks: weeks,
	}, nil
}

func (s *Service) buildDay(d Date, ym YearMonth, w Window, selected, today Date) Day {
	day := Day{
		Date:       d,
		InMonth:    d.YearMonth() == ym,
		Selectable: w.Contains(d),
		Selected:   !selected.IsZero() && d == selected,
		IsToday:    d == today,
	}
	if s.holidays != nil {
		day.HolidayInfo = s.holidays.Lookup(d.Year, int(d.Month), d.Day)
	}
	if !s.lunar || d.Year < MinSupportedYear || d.Year > MaxSupportedYear {
		return day
	}

	cal := calendarlib.BySolar(
		int64(d.Year),
		int64(d.Month),
		int64(d.Day),
		12, 0, 0,
	)
	day.LunarDayAlias = cal.Lunar.DayAlias()
	day.LunarMonthAlias = cal.Lunar.MonthAlias()
	day.hasLunarData = true
	if solarterm := cal.Solar.CurrentSolarterm; solarterm != nil {
		t := time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
		if solarterm.IsInDay(&t) {
			day.SolarTerm = solarterm.Alias()
		}
	}
	return day
}
