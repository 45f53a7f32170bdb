package render

import (
	"github.com/lululau/tripcal/internal/calendar"
)

// Form is the headless search form: the text of every bound input and one
// datepicker overlay per input. Surfaces created by a Form share its inputs,
// the way datepickers on one page write into the same document.
type Form struct {
	inputs   map[string]string
	surfaces map[string]*Surface
}

// NewForm returns an empty form.
func NewForm() *Form {
	return &Form{
		inputs:   make(map[string]string),
		surfaces: make(map[string]*Surface),
	}
}

// Input returns the text of a bound input.
func (f *Form) Input(fieldID string) string {
	return f.inputs[fieldID]
}

// Surface returns the overlay bound to fieldID, creating it on first use.
func (f *Form) Surface(fieldID string) *Surface {
	if s, ok := f.surfaces[fieldID]; ok {
		return s
	}
	s := &Surface{form: f, fieldID: fieldID}
	f.surfaces[fieldID] = s
	return s
}

// Surface is a datepicker overlay rendered in the terminal. It implements
// picker.CalendarView: clicks change what it displays immediately, and it
// keeps a keyboard cursor over the day cells.
type Surface struct {
	form        *Form
	fieldID     string
	open        bool
	month       calendar.YearMonth
	highlighted calendar.Date
	cursor      int
}

// FieldID returns the bound input of the overlay.
func (s *Surface) FieldID() string { return s.fieldID }

// IsOpen reports whether the overlay is shown.
func (s *Surface) IsOpen() bool { return s.open }

func (s *Surface) Show(month calendar.YearMonth, highlighted calendar.Date) {
	s.open = true
	s.month = month
	s.highlighted = highlighted
	s.cursor = 1
	if highlighted.YearMonth() == month {
		s.cursor = highlighted.Day
	}
}

func (s *Surface) HighlightedDate() (calendar.Date, bool) {
	return s.highlighted, !s.highlighted.IsZero()
}

func (s *Surface) DisplayedMonth() calendar.YearMonth {
	return s.month
}

func (s *Surface) ClickNext() {
	s.month = s.month.Next()
	s.clampCursor()
}

func (s *Surface) ClickPrev() {
	s.month = s.month.Prev()
	s.clampCursor()
}

func (s *Surface) ClickDay(day int) {
	if !s.open {
		return
	}
	d, ok := s.month.Day(day)
	if !ok {
		return
	}
	s.highlighted = d
	s.cursor = day
	s.form.inputs[s.fieldID] = d.Format()
}

func (s *Surface) ClickClose() {
	s.open = false
}

func (s *Surface) ReadBoundInput(fieldID string) string {
	return s.form.inputs[fieldID]
}

func (s *Surface) WriteBoundInput(fieldID, text string) {
	s.form.inputs[fieldID] = text
	if d, err := calendar.ParseInput(text); err == nil && fieldID == s.fieldID {
		s.highlighted = d
	}
}

// Cursor returns the day under the keyboard cursor.
func (s *Surface) Cursor() calendar.Date {
	d, _ := s.month.Day(s.cursor)
	return d
}

// MoveCursor moves the keyboard cursor by delta days, staying inside the
// displayed month.
func (s *Surface) MoveCursor(delta int) {
	s.cursor += delta
	s.clampCursor()
}

func (s *Surface) clampCursor() {
	if s.month.Month == 0 {
		return
	}
	s.cursor = max(1, min(s.cursor, s.month.Days()))
}
