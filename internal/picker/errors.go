package picker

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoSelection is returned when a widget has never committed a date.
	ErrNoSelection = errors.New("no date has been selected")
	// ErrRenderTimeout matches every *RenderTimeoutError.
	ErrRenderTimeout = errors.New("calendar view did not converge")
	// ErrSessionClosed is returned by every operation after Controller.Close.
	ErrSessionClosed = errors.New("date picker session is closed")
	// ErrInvalidConfig wraps configuration problems found at construction.
	ErrInvalidConfig = errors.New("invalid date picker configuration")
)

// RenderTimeoutError reports a view that kept showing stale state.
type RenderTimeoutError struct {
	Widget  string
	Want    string
	Got     string
	Timeout time.Duration
}

func (e *RenderTimeoutError) Error() string {
	return fmt.Sprintf("%s calendar: view shows %s, want %s after %s", e.Widget, e.Got, e.Want, e.Timeout)
}

// Is makes errors.Is(err, ErrRenderTimeout) true.
func (e *RenderTimeoutError) Is(target error) bool {
	return target == ErrRenderTimeout
}
