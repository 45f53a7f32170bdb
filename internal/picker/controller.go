package picker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/lululau/tripcal/internal/calendar"
)

// Field selects one of the two widgets of a Controller.
type Field int

const (
	Depart Field = iota
	Return
)

func (f Field) String() string {
	if f == Return {
		return "return"
	}
	return "depart"
}

// InputID returns the id of the form input bound to f.
func (f Field) InputID() string {
	if f == Return {
		return ReturnFieldID
	}
	return DepartFieldID
}

// Offset places a default date on day Day of the month that is Months
// after the current month. Day is clamped to the length of that month.
type Offset struct {
	Months int
	Day    int
}

// Resolve returns the date the offset designates relative to today.
func (o Offset) Resolve(today calendar.Date) calendar.Date {
	ym := today.YearMonth().Add(o.Months)
	return calendar.Date{Year: ym.Year, Month: ym.Month, Day: min(o.Day, ym.Days())}
}

func (o Offset) validate(name string) error {
	if o.Months < 0 {
		return fmt.Errorf("%w: %s offset months %d is negative", ErrInvalidConfig, name, o.Months)
	}
	if o.Day < 1 || o.Day > 31 {
		return fmt.Errorf("%w: %s offset day %d is not in 1..31", ErrInvalidConfig, name, o.Day)
	}
	return nil
}

// Config is everything a session recognises.
type Config struct {
	Clock         calendar.Clock
	HorizonDays   int
	DefaultDepart Offset
	DefaultReturn Offset
}

// DefaultConfig returns a one year horizon with both default dates in the
// month after the current one.
func DefaultConfig() Config {
	return Config{
		Clock:         calendar.SystemClock(nil),
		HorizonDays:   calendar.DefaultHorizonDays,
		DefaultDepart: Offset{Months: 1, Day: 10},
		DefaultReturn: Offset{Months: 1, Day: 17},
	}
}

// Controller owns the departure and return widgets of one search form
// session and keeps the return date on or after the departure date.
type Controller struct {
	id     string
	bounds *calendar.BoundsPolicy
	depart *Widget
	ret    *Widget
	logger *slog.Logger
	closed bool
}

// NewController validates cfg, builds both widgets over their views and
// seeds the default dates into the bound inputs.
func NewController(cfg Config, departView, returnView CalendarView, opts ...Option) (*Controller, error) {
	if departView == nil || returnView == nil {
		return nil, fmt.Errorf("%w: both calendar views are required", ErrInvalidConfig)
	}
	bounds, err := calendar.NewBoundsPolicy(cfg.Clock, cfg.HorizonDays)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.DefaultDepart.validate("depart"); err != nil {
		return nil, err
	}
	if err := cfg.DefaultReturn.validate("return"); err != nil {
		return nil, err
	}

	today := bounds.Today()
	window := bounds.Window()
	departDate := cfg.DefaultDepart.Resolve(today)
	returnDate := cfg.DefaultReturn.Resolve(today)
	if !returnDate.After(departDate) {
		return nil, fmt.Errorf("%w: default return %s is not after default departure %s", ErrInvalidConfig, returnDate, departDate)
	}
	if !window.Contains(departDate) || !window.Contains(returnDate) {
		return nil, fmt.Errorf("%w: default dates %s and %s are outside %s..%s", ErrInvalidConfig, departDate, returnDate, window.Min, window.Max)
	}

	s := newSettings(opts)
	id := uuid.NewString()
	s.logger = s.logger.With(slog.String("session", id))

	c := &Controller{
		id:     id,
		bounds: bounds,
		depart: newWidget(Depart.String(), Depart.InputID(), departView, bounds, s),
		ret:    newWidget(Return.String(), Return.InputID(), returnView, bounds, s),
		logger: s.logger,
	}
	c.ret.floor = func() calendar.Date { return c.depart.selected }
	c.depart.seed(departDate)
	c.ret.seed(returnDate)
	c.logger.Info("session started",
		slog.String("today", today.String()),
		slog.String("depart", departDate.String()),
		slog.String("return", returnDate.String()))
	return c, nil
}

// ID returns the session identifier.
func (c *Controller) ID() string { return c.id }

// Bounds returns the bounds policy shared by both widgets.
func (c *Controller) Bounds() *calendar.BoundsPolicy { return c.bounds }

// Widget returns the widget for f.
func (c *Controller) Widget(f Field) *Widget {
	if f == Return {
		return c.ret
	}
	return c.depart
}

// Open shows the calendar of f.
func (c *Controller) Open(ctx context.Context, f Field) error {
	if c.closed {
		return ErrSessionClosed
	}
	return c.Widget(f).Open(ctx)
}

// Dismiss hides the calendar of f.
func (c *Controller) Dismiss(f Field) error {
	if c.closed {
		return ErrSessionClosed
	}
	c.Widget(f).Close()
	return nil
}

// NextMonth pages the calendar of f forward.
func (c *Controller) NextMonth(ctx context.Context, f Field) error {
	if c.closed {
		return ErrSessionClosed
	}
	return c.Widget(f).NextMonth(ctx)
}

// PrevMonth pages the calendar of f back.
func (c *Controller) PrevMonth(ctx context.Context, f Field) error {
	if c.closed {
		return ErrSessionClosed
	}
	return c.Widget(f).PrevMonth(ctx)
}

// Select dispatches to SelectDepart or SelectReturn.
func (c *Controller) Select(ctx context.Context, f Field, day int) error {
	if f == Return {
		return c.SelectReturn(ctx, day)
	}
	return c.SelectDepart(ctx, day)
}

// SelectDepart selects day in the departure calendar. When the new
// departure date is not before the return date, the return date moves to
// the day after it, limited to the last day of the window. The return
// field is updated before SelectDepart returns.
func (c *Controller) SelectDepart(ctx context.Context, day int) error {
	if c.closed {
		return ErrSessionClosed
	}
	committed, err := c.depart.SelectDay(ctx, day)
	if !committed {
		return err
	}
	departDate, returnDate := c.depart.selected, c.ret.selected
	if departDate.Before(returnDate) {
		return err
	}
	target := c.bounds.Window().Clamp(departDate.AddDays(1))
	c.logger.Info("return date advanced",
		slog.String("depart", departDate.String()),
		slog.String("from", returnDate.String()),
		slog.String("to", target.String()))
	return errors.Join(err, c.ret.assign(ctx, target))
}

// SelectReturn selects day in the return calendar. The return calendar
// deliberately refuses days before the departure date, ignoring them like
// any other out of range day, so a trip never returns before it departs.
// The departure date is never changed.
func (c *Controller) SelectReturn(ctx context.Context, day int) error {
	if c.closed {
		return ErrSessionClosed
	}
	_, err := c.ret.SelectDay(ctx, day)
	return err
}

// Dates returns both selections.
func (c *Controller) Dates() (depart, ret calendar.Date) {
	return c.depart.selected, c.ret.selected
}

// Close ends the session, hiding any open calendar. Later calls return
// ErrSessionClosed.
func (c *Controller) Close() error {
	if c.closed {
		return ErrSessionClosed
	}
	c.depart.Close()
	c.ret.Close()
	c.closed = true
	c.logger.Info("session closed")
	return nil
}
