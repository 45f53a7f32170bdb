package picker

import (
	"context"
	"log/slog"

	"github.com/lululau/tripcal/internal/calendar"
)

// Widget is a single month-grid date selector bound to a form field.
//
// Navigation past the months of the bounds window and selection of days
// outside it are silent no-ops. Widgets are driven by one caller at a time.
type Widget struct {
	name    string
	fieldID string
	view    CalendarView
	bounds  *calendar.BoundsPolicy
	// floor, when set, is an additional lower limit for selection only.
	floor func() calendar.Date
	settings

	displayed calendar.YearMonth
	selected  calendar.Date
	open      bool
}

// NewWidget creates a closed widget with no selection. It initially displays
// the month of the window's first day.
func NewWidget(name, fieldID string, view CalendarView, bounds *calendar.BoundsPolicy, opts ...Option) *Widget {
	return newWidget(name, fieldID, view, bounds, newSettings(opts))
}

func newWidget(name, fieldID string, view CalendarView, bounds *calendar.BoundsPolicy, s settings) *Widget {
	w := &Widget{
		name:     name,
		fieldID:  fieldID,
		view:     view,
		bounds:   bounds,
		settings: s,
	}
	w.displayed = bounds.Window().Min.YearMonth()
	w.logger = w.logger.With(slog.String("widget", name))
	return w
}

// Name returns the widget name used in logs and errors.
func (w *Widget) Name() string { return w.name }

// FieldID returns the id of the bound form input.
func (w *Widget) FieldID() string { return w.fieldID }

// IsOpen reports whether the calendar is visible.
func (w *Widget) IsOpen() bool { return w.open }

// DisplayedMonth returns the month/year cursor.
func (w *Widget) DisplayedMonth() calendar.YearMonth { return w.displayed }

// SelectedDate returns the committed selection.
func (w *Widget) SelectedDate() (calendar.Date, error) {
	if w.selected.IsZero() {
		return calendar.Date{}, ErrNoSelection
	}
	return w.selected, nil
}

// Window returns the bounds window as of now.
func (w *Widget) Window() calendar.Window {
	return w.bounds.Window()
}

// Selectable reports whether d would be accepted by SelectDay.
func (w *Widget) Selectable(d calendar.Date) bool {
	if !w.bounds.Window().Contains(d) {
		return false
	}
	if w.floor != nil {
		if lo := w.floor(); !lo.IsZero() && d.Before(lo) {
			return false
		}
	}
	return true
}

// Open shows the calendar at the month of the selection, or at the first
// month of the window when nothing is selected. Opening an open widget does
// nothing.
func (w *Widget) Open(ctx context.Context) error {
	if w.open {
		return nil
	}
	win := w.bounds.Window()
	month := win.Min.YearMonth()
	if !w.selected.IsZero() {
		month = win.ClampMonth(w.selected.YearMonth())
	}
	w.displayed = month
	w.open = true
	w.view.Show(month, w.selected)
	w.logger.Debug("calendar opened", slog.String("month", month.String()))
	return w.waitMonth(ctx)
}

// Close hides the calendar. The selection is left untouched.
func (w *Widget) Close() {
	if !w.open {
		return
	}
	w.open = false
	w.view.ClickClose()
	w.logger.Debug("calendar closed")
}

// NextMonth pages forward unless the next month has no day inside the
// bounds window.
func (w *Widget) NextMonth(ctx context.Context) error {
	return w.page(ctx, 1, w.view.ClickNext)
}

// PrevMonth pages back unless the previous month has no day inside the
// bounds window.
func (w *Widget) PrevMonth(ctx context.Context) error {
	return w.page(ctx, -1, w.view.ClickPrev)
}

func (w *Widget) page(ctx context.Context, step int, click func()) error {
	if !w.open {
		return nil
	}
	win := w.bounds.Window()
	if err := w.reclamp(ctx, win); err != nil {
		return err
	}
	target := w.displayed.Add(step)
	if !win.Overlaps(target) {
		w.logger.Debug("navigation clamped", slog.String("month", w.displayed.String()), slog.String("target", target.String()))
		return nil
	}
	click()
	w.displayed = target
	return w.waitMonth(ctx)
}

// reclamp moves an open calendar back inside win when the day rolled over
// and the displayed month no longer has a selectable day.
func (w *Widget) reclamp(ctx context.Context, win calendar.Window) error {
	month := win.ClampMonth(w.displayed)
	if month == w.displayed {
		return nil
	}
	w.logger.Debug("displayed month left the window",
		slog.String("from", w.displayed.String()),
		slog.String("to", month.String()))
	w.displayed = month
	w.view.Show(month, w.selected)
	return w.waitMonth(ctx)
}

// SelectDay selects day of the displayed month, first moving the calendar
// back inside the window if the day rolled over. It reports whether the
// selection changed. Days outside the bounds window, days the displayed
// month does not have and clicks on a closed calendar are ignored without
// error.
func (w *Widget) SelectDay(ctx context.Context, day int) (bool, error) {
	if !w.open {
		return false, nil
	}
	if err := w.reclamp(ctx, w.bounds.Window()); err != nil {
		return false, err
	}
	d, ok := w.displayed.Day(day)
	if !ok || !w.Selectable(d) {
		w.logger.Debug("selection rejected", slog.String("month", w.displayed.String()), slog.Int("day", day))
		return false, nil
	}
	if d == w.selected {
		return false, nil
	}
	w.view.ClickDay(day)
	w.selected = d
	w.logger.Info("date selected", slog.String("date", d.String()))
	return true, w.waitSelection(ctx, true)
}

// assign replaces the selection without a click, writing the bound input
// directly. Only the controller uses it, for values it has already
// validated.
func (w *Widget) assign(ctx context.Context, d calendar.Date) error {
	w.selected = d
	w.view.WriteBoundInput(w.fieldID, d.Format())
	if w.open {
		w.displayed = w.bounds.Window().ClampMonth(d.YearMonth())
		w.view.Show(w.displayed, d)
	}
	return w.waitSelection(ctx, w.open)
}

// seed sets the initial selection of a closed widget.
func (w *Widget) seed(d calendar.Date) {
	w.selected = d
	w.displayed = d.YearMonth()
	w.view.WriteBoundInput(w.fieldID, d.Format())
}

func (w *Widget) waitMonth(ctx context.Context) error {
	want := w.displayed
	return w.waitRendered(ctx, w.name, want.String(), func() observation {
		got := w.view.DisplayedMonth()
		return observation{got: got.String(), converged: got == want}
	})
}

// waitSelection waits for the bound input, and the highlighted cell when
// the overlay is visible, to show the selection.
func (w *Widget) waitSelection(ctx context.Context, highlighted bool) error {
	want := w.selected
	return w.waitRendered(ctx, w.name, want.String(), func() observation {
		text := w.view.ReadBoundInput(w.fieldID)
		input, err := calendar.ParseInput(text)
		if err != nil || input != want {
			return observation{got: "input " + text}
		}
		if highlighted {
			if hl, ok := w.view.HighlightedDate(); !ok || hl != want {
				return observation{got: "highlight " + hl.String()}
			}
		}
		return observation{got: input.String(), converged: true}
	})
}
