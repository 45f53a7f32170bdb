package picker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lululau/tripcal/internal/calendar"
)

var june10 = calendar.NewDate(2024, time.June, 10)

type session struct {
	c          *Controller
	departView *fakeView
	returnView *fakeView
}

func newSession(t *testing.T, cfg Config, opts ...Option) session {
	t.Helper()
	s := session{
		departView: newFakeView(DepartFieldID),
		returnView: newFakeView(ReturnFieldID),
	}
	opts = append([]Option{WithRenderTimeout(200 * time.Millisecond), WithPollInterval(time.Millisecond)}, opts...)
	c, err := NewController(cfg, s.departView, s.returnView, opts...)
	require.NoError(t, err)
	s.c = c
	t.Cleanup(func() { _ = c.Close() })
	return s
}

func configAt(today calendar.Date) Config {
	cfg := DefaultConfig()
	cfg.Clock = calendar.FixedClock(today)
	return cfg
}

func ym(year int, month time.Month) calendar.YearMonth {
	return calendar.YearMonth{Year: year, Month: month}
}

func mustSelected(t *testing.T, w *Widget) calendar.Date {
	t.Helper()
	d, err := w.SelectedDate()
	require.NoError(t, err)
	return d
}

func TestSelectPastDayIsIgnored(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	ret := s.c.Widget(Return)
	before := mustSelected(t, ret)

	require.NoError(t, s.c.Open(ctx, Return))
	require.NoError(t, s.c.PrevMonth(ctx, Return))
	require.Equal(t, ym(2024, time.June), ret.DisplayedMonth())

	require.NoError(t, s.c.SelectReturn(ctx, june10.AddDays(-1).Day))
	assert.Equal(t, ym(2024, time.June), ret.DisplayedMonth())
	require.NoError(t, s.c.Dismiss(Return))
	require.NoError(t, s.c.Open(ctx, Return))

	assert.Equal(t, before, mustSelected(t, ret))
	assert.Equal(t, before.Format(), s.returnView.ReadBoundInput(ReturnFieldID))
	assert.Zero(t, s.returnView.count("day"))
}

func TestPrevMonthStopsAtFirstMonth(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	ret := s.c.Widget(Return)

	require.NoError(t, s.c.Open(ctx, Return))
	require.NoError(t, s.c.PrevMonth(ctx, Return))
	month := ret.DisplayedMonth()
	require.Equal(t, june10.YearMonth(), month)

	for range 3 {
		require.NoError(t, s.c.PrevMonth(ctx, Return))
		assert.Equal(t, month, ret.DisplayedMonth())
	}
	assert.Equal(t, month, s.returnView.DisplayedMonth())
	assert.Equal(t, 1, s.returnView.count("prev"))
}

func TestPaginationRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	ret := s.c.Widget(Return)
	require.NoError(t, s.c.Open(ctx, Return))
	start := ret.DisplayedMonth()
	require.Equal(t, ym(2024, time.July), start)

	for k := 1; k <= 5; k++ {
		for range k {
			require.NoError(t, s.c.NextMonth(ctx, Return))
		}
		assert.Equal(t, start.Add(k), ret.DisplayedMonth())
		for range k {
			require.NoError(t, s.c.PrevMonth(ctx, Return))
		}
		assert.Equal(t, start, ret.DisplayedMonth())
	}
}

func TestFarFutureSelectionAndNavigation(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	ret := s.c.Widget(Return)
	before := mustSelected(t, ret)

	require.NoError(t, s.c.Open(ctx, Return))
	for range 11 {
		require.NoError(t, s.c.NextMonth(ctx, Return))
	}
	last := ret.Window().Max
	require.Equal(t, last.YearMonth(), ret.DisplayedMonth())

	require.NoError(t, s.c.NextMonth(ctx, Return))
	assert.Equal(t, last.YearMonth(), ret.DisplayedMonth())
	assert.Equal(t, last.YearMonth(), s.returnView.DisplayedMonth())

	tooFar := june10.AddDays(366)
	require.NoError(t, s.c.SelectReturn(ctx, tooFar.Day))
	assert.Equal(t, before, mustSelected(t, ret))
}

func TestWindowEdgesAreSelectable(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	dep := s.c.Widget(Depart)
	ret := s.c.Widget(Return)

	require.NoError(t, s.c.Open(ctx, Return))
	for range 11 {
		require.NoError(t, s.c.NextMonth(ctx, Return))
	}
	last := ret.Window().Max
	require.NoError(t, s.c.SelectReturn(ctx, last.Day))
	assert.Equal(t, last, mustSelected(t, ret))

	require.NoError(t, s.c.Open(ctx, Depart))
	require.NoError(t, s.c.PrevMonth(ctx, Depart))
	require.NoError(t, s.c.SelectDepart(ctx, june10.Day))
	assert.Equal(t, june10, mustSelected(t, dep))
}

func TestSelectionMatchesBoundInput(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	ret := s.c.Widget(Return)

	require.NoError(t, s.c.Open(ctx, Return))
	require.NoError(t, s.c.SelectReturn(ctx, 15))

	got := mustSelected(t, ret)
	assert.Equal(t, 15, got.Day)
	input, err := calendar.ParseInput(s.returnView.ReadBoundInput(ReturnFieldID))
	require.NoError(t, err)
	assert.Equal(t, got, input)
	hl, ok := s.returnView.HighlightedDate()
	require.True(t, ok)
	assert.Equal(t, got, hl)
}

func TestInvalidDayNumbersAreIgnored(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	dep := s.c.Widget(Depart)
	before := mustSelected(t, dep)

	require.NoError(t, s.c.Open(ctx, Depart))
	require.NoError(t, s.c.PrevMonth(ctx, Depart))
	for _, day := range []int{0, -3, 31, 32} {
		require.NoError(t, s.c.SelectDepart(ctx, day))
	}
	assert.Equal(t, before, mustSelected(t, dep))
	assert.Equal(t, ym(2024, time.June), dep.DisplayedMonth())
}

func TestSelectOnClosedWidgetIsIgnored(t *testing.T) {
	s := newSession(t, configAt(june10))
	before := mustSelected(t, s.c.Widget(Return))
	require.NoError(t, s.c.SelectReturn(context.Background(), 20))
	assert.Equal(t, before, mustSelected(t, s.c.Widget(Return)))
	assert.Zero(t, s.returnView.count("day"))
}

func TestNoSelectionBeforeFirstSelect(t *testing.T) {
	policy, err := calendar.NewBoundsPolicy(calendar.FixedClock(june10), 365)
	require.NoError(t, err)
	w := NewWidget("standalone", "when", newFakeView("when"), policy)

	_, err = w.SelectedDate()
	require.ErrorIs(t, err, ErrNoSelection)
	assert.Equal(t, june10.YearMonth(), w.DisplayedMonth())

	ctx := context.Background()
	require.NoError(t, w.Open(ctx))
	committed, err := w.SelectDay(ctx, 12)
	require.NoError(t, err)
	assert.True(t, committed)
	assert.Equal(t, calendar.NewDate(2024, time.June, 12), mustSelected(t, w))

	committed, err = w.SelectDay(ctx, 12)
	require.NoError(t, err)
	assert.False(t, committed, "reselecting the same day is not a change")
}

func TestOpenIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	require.NoError(t, s.c.Open(ctx, Depart))
	require.NoError(t, s.c.NextMonth(ctx, Depart))
	require.NoError(t, s.c.Open(ctx, Depart))
	assert.Equal(t, 1, s.departView.count("show"))
	assert.Equal(t, ym(2024, time.August), s.c.Widget(Depart).DisplayedMonth())

	require.NoError(t, s.c.Dismiss(Depart))
	require.NoError(t, s.c.Dismiss(Depart))
	assert.Equal(t, 1, s.departView.count("close"))
	assert.False(t, s.c.Widget(Depart).IsOpen())
}

func TestWindowFollowsClockRollover(t *testing.T) {
	ctx := context.Background()
	today := june10
	cfg := DefaultConfig()
	cfg.Clock = calendar.ClockFunc(func() calendar.Date { return today })
	s := newSession(t, cfg)
	dep := s.c.Widget(Depart)

	require.NoError(t, s.c.Open(ctx, Depart))
	require.NoError(t, s.c.PrevMonth(ctx, Depart))

	today = today.AddDays(5)
	before := mustSelected(t, dep)
	require.NoError(t, s.c.SelectDepart(ctx, 12))
	assert.Equal(t, before, mustSelected(t, dep), "day 12 fell out of the window after the rollover")

	require.NoError(t, s.c.SelectDepart(ctx, 15))
	assert.Equal(t, calendar.NewDate(2024, time.June, 15), mustSelected(t, dep))
}

func TestOpenCalendarReturnsToWindowAfterMonthRollover(t *testing.T) {
	ctx := context.Background()
	today := calendar.NewDate(2024, time.June, 30)
	cfg := DefaultConfig()
	cfg.Clock = calendar.ClockFunc(func() calendar.Date { return today })
	s := newSession(t, cfg)
	ret := s.c.Widget(Return)

	require.NoError(t, s.c.Open(ctx, Return))
	require.NoError(t, s.c.PrevMonth(ctx, Return))
	require.Equal(t, ym(2024, time.June), ret.DisplayedMonth())

	today = calendar.NewDate(2024, time.July, 1)
	require.NoError(t, s.c.PrevMonth(ctx, Return))
	assert.Equal(t, ym(2024, time.July), ret.DisplayedMonth())
	assert.Equal(t, ym(2024, time.July), s.returnView.DisplayedMonth())
	assert.True(t, ret.Window().Overlaps(ret.DisplayedMonth()))
	assert.Equal(t, 2, s.returnView.count("show"))
	assert.Equal(t, 1, s.returnView.count("prev"))

	require.NoError(t, s.c.NextMonth(ctx, Return))
	assert.Equal(t, ym(2024, time.August), ret.DisplayedMonth())
}

func TestSelectAfterMonthRolloverUsesWindowMonth(t *testing.T) {
	ctx := context.Background()
	today := calendar.NewDate(2024, time.June, 30)
	cfg := DefaultConfig()
	cfg.Clock = calendar.ClockFunc(func() calendar.Date { return today })
	s := newSession(t, cfg)

	require.NoError(t, s.c.Open(ctx, Return))
	require.NoError(t, s.c.PrevMonth(ctx, Return))

	today = calendar.NewDate(2024, time.July, 1)
	require.NoError(t, s.c.SelectReturn(ctx, 20))
	assert.Equal(t, calendar.NewDate(2024, time.July, 20), mustSelected(t, s.c.Widget(Return)))
	assert.Equal(t, "07/20/2024", s.returnView.ReadBoundInput(ReturnFieldID))
}

func TestLaggingViewConverges(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10))
	s.returnView.lag = 3

	require.NoError(t, s.c.Open(ctx, Return))
	require.NoError(t, s.c.NextMonth(ctx, Return))
	assert.Equal(t, ym(2024, time.August), s.c.Widget(Return).DisplayedMonth())
}

func TestFrozenViewTimesOut(t *testing.T) {
	ctx := context.Background()
	s := newSession(t, configAt(june10), WithRenderTimeout(30*time.Millisecond))
	s.returnView.frozen = true

	err := s.c.Open(ctx, Return)
	require.ErrorIs(t, err, ErrRenderTimeout)
	var rte *RenderTimeoutError
	require.True(t, errors.As(err, &rte))
	assert.Equal(t, "return", rte.Widget)
	assert.Equal(t, "2024-07", rte.Want)
	assert.Equal(t, 30*time.Millisecond, rte.Timeout)
}

func TestWaitHonoursContext(t *testing.T) {
	s := newSession(t, configAt(june10), WithRenderTimeout(time.Hour))
	s.departView.frozen = true

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.c.Open(ctx, Depart), context.Canceled)
}
