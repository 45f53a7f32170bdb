package picker

import (
	"github.com/lululau/tripcal/internal/calendar"
)

// fakeView is an in-memory CalendarView. It can ignore clicks (frozen) or
// report the previous month for a number of reads after paging (lag).
type fakeView struct {
	fieldID     string
	inputs      map[string]string
	month       calendar.YearMonth
	staleMonth  calendar.YearMonth
	staleReads  int
	lag         int
	highlighted calendar.Date
	open        bool
	frozen      bool
	clicks      []string
}

func newFakeView(fieldID string) *fakeView {
	return &fakeView{fieldID: fieldID, inputs: map[string]string{}}
}

var _ CalendarView = (*fakeView)(nil)

func (v *fakeView) Show(month calendar.YearMonth, highlighted calendar.Date) {
	v.clicks = append(v.clicks, "show")
	if v.frozen {
		return
	}
	v.setMonth(month)
	v.highlighted = highlighted
	v.open = true
}

func (v *fakeView) HighlightedDate() (calendar.Date, bool) {
	return v.highlighted, !v.highlighted.IsZero()
}

func (v *fakeView) DisplayedMonth() calendar.YearMonth {
	if v.staleReads > 0 {
		v.staleReads--
		return v.staleMonth
	}
	return v.month
}

func (v *fakeView) ClickNext() {
	v.clicks = append(v.clicks, "next")
	if !v.frozen {
		v.setMonth(v.month.Next())
	}
}

func (v *fakeView) ClickPrev() {
	v.clicks = append(v.clicks, "prev")
	if !v.frozen {
		v.setMonth(v.month.Prev())
	}
}

func (v *fakeView) ClickDay(day int) {
	v.clicks = append(v.clicks, "day")
	if v.frozen {
		return
	}
	if d, ok := v.month.Day(day); ok {
		v.highlighted = d
		v.inputs[v.fieldID] = d.Format()
	}
}

func (v *fakeView) ClickClose() {
	v.clicks = append(v.clicks, "close")
	v.open = false
}

func (v *fakeView) ReadBoundInput(fieldID string) string {
	return v.inputs[fieldID]
}

func (v *fakeView) WriteBoundInput(fieldID, text string) {
	if !v.frozen {
		v.inputs[fieldID] = text
	}
}

func (v *fakeView) setMonth(month calendar.YearMonth) {
	v.staleMonth = v.month
	v.staleReads = v.lag
	v.month = month
}

func (v *fakeView) count(click string) int {
	n := 0
	for _, c := range v.clicks {
		if c == click {
			n++
		}
	}
	return n
}
