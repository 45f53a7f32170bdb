package calendar

import (
	"errors"
	"time"
)

// DefaultHorizonDays is the distance between today and the last selectable day.
const DefaultHorizonDays = 365

// ErrNegativeHorizon indicates a misconfigured bounds policy.
var ErrNegativeHorizon = errors.New("horizon days must not be negative")

// Clock supplies the current civil date.
type Clock interface {
	Today() Date
}

// ClockFunc adapts a plain function to Clock.
type ClockFunc func() Date

func (f ClockFunc) Today() Date { return f() }

// SystemClock reads the wall clock in loc, or time.Local when loc is nil.
func SystemClock(loc *time.Location) Clock {
	return ClockFunc(func() Date {
		now := time.Now()
		if loc != nil {
			now = now.In(loc)
		}
		return FromTime(now)
	})
}

// FixedClock always reports the same day.
func FixedClock(today Date) Clock {
	return ClockFunc(func() Date { return today })
}

// Window is the inclusive range of selectable dates.
type Window struct {
	Min Date
	Max Date
}

// ComputeWindow returns [today, today+horizonDays].
func ComputeWindow(today Date, horizonDays int) Window {
	return Window{Min: today, Max: today.AddDays(horizonDays)}
}

// Contains reports whether d lies inside the window, both ends included.
func (w Window) Contains(d Date) bool {
	return !d.Before(w.Min) && !d.After(w.Max)
}

// Overlaps reports whether at least one day of ym lies inside the window.
func (w Window) Overlaps(ym YearMonth) bool {
	return ym.Compare(w.Min.YearMonth()) >= 0 && ym.Compare(w.Max.YearMonth()) <= 0
}

// Clamp returns the date inside the window closest to d.
func (w Window) Clamp(d Date) Date {
	return MinDate(MaxDate(d, w.Min), w.Max)
}

// ClampMonth returns the month closest to ym that overlaps the window.
func (w Window) ClampMonth(ym YearMonth) YearMonth {
	if lo := w.Min.YearMonth(); ym.Compare(lo) < 0 {
		return lo
	}
	if hi := w.Max.YearMonth(); ym.Compare(hi) > 0 {
		return hi
	}
	return ym
}

// BoundsPolicy derives the selectable window from a Clock. It is shared
// read-only by every widget of a session and is not safe for concurrent use.
type BoundsPolicy struct {
	clock   Clock
	horizon int
	day     Date
	window  Window
}

// NewBoundsPolicy validates the horizon and binds it to clock.
func NewBoundsPolicy(clock Clock, horizonDays int) (*BoundsPolicy, error) {
	if horizonDays < 0 {
		return nil, ErrNegativeHorizon
	}
	if clock == nil {
		clock = SystemClock(nil)
	}
	return &BoundsPolicy{clock: clock, horizon: horizonDays}, nil
}

// Today returns the clock's current day.
func (p *BoundsPolicy) Today() Date {
	return p.clock.Today()
}

// HorizonDays returns the configured horizon.
func (p *BoundsPolicy) HorizonDays() int {
	return p.horizon
}

// Window returns the window for the clock's current day, recomputing it
// when the day has rolled over since the last call.
func (p *BoundsPolicy) Window() Window {
	today := p.clock.Today()
	if today != p.day || p.window.Min.IsZero() {
		p.day = today
		p.window = ComputeWindow(today, p.horizon)
	}
	return p.window
}
