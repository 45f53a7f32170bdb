// Package picker implements the linked departure/return date pickers of the
// travel search form.
//
// A Widget is a single month-grid selector bound to a form field. It keeps
// the authoritative state (displayed month, selected date, open flag) and
// drives a CalendarView, which renders that state somewhere: a terminal
// surface, a browser page, or a test double. Every operation that changes
// what the view shows blocks until the view reports the new state or the
// render timeout elapses.
//
// A Controller owns the two widgets of a session and keeps the return date
// on or after the departure date.
package picker

import "github.com/lululau/tripcal/internal/calendar"

// Field identifiers of the bound form inputs.
const (
	DepartFieldID = "depart"
	ReturnFieldID = "return"
)

// CalendarView is the rendering capability driven by a Widget.
//
// Months are reported as calendar.YearMonth whose Month is 1-based
// (time.January == 1). Bound inputs hold dates in the MM/DD/YYYY layout.
type CalendarView interface {
	// Show opens the overlay at month with highlighted marked as the current
	// selection. A zero highlighted date marks nothing.
	Show(month calendar.YearMonth, highlighted calendar.Date)
	// HighlightedDate returns the day visually marked as selected.
	HighlightedDate() (calendar.Date, bool)
	// DisplayedMonth returns the month currently rendered.
	DisplayedMonth() calendar.YearMonth
	ClickNext()
	ClickPrev()
	// ClickDay clicks a day cell of the displayed month.
	ClickDay(day int)
	// ClickClose dismisses the overlay.
	ClickClose()
	// ReadBoundInput returns the text of the form field fieldID.
	ReadBoundInput(fieldID string) string
	// WriteBoundInput replaces the text of the form field fieldID.
	WriteBoundInput(fieldID, text string)
}
