package picker

import (
	"context"
	"log/slog"
	"time"
)

const (
	DefaultRenderTimeout = 2 * time.Second
	DefaultPollInterval  = 20 * time.Millisecond
)

// settings are shared by widgets and the controller that owns them.
type settings struct {
	logger        *slog.Logger
	renderTimeout time.Duration
	pollInterval  time.Duration
}

// Option configures widgets and controllers.
type Option func(*settings)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderTimeout bounds every convergence wait.
func WithRenderTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.renderTimeout = d
		}
	}
}

// WithPollInterval sets how often the view is re-read while waiting.
func WithPollInterval(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.pollInterval = d
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:        slog.New(slog.DiscardHandler),
		renderTimeout: DefaultRenderTimeout,
		pollInterval:  DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// observation is one read of the view: what it shows and whether that
// matches the widget state.
type observation struct {
	got       string
	converged bool
}

// waitRendered polls observe until it converges, the render timeout passes
// or ctx is done.
func (s settings) waitRendered(ctx context.Context, widget, want string, observe func() observation) error {
	obs := observe()
	if obs.converged {
		return nil
	}

	deadline := time.NewTimer(s.renderTimeout)
	defer deadline.Stop()
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			obs = observe()
			if obs.converged {
				return nil
			}
			s.logger.Warn("calendar view did not converge",
				slog.String("widget", widget),
				slog.String("want", want),
				slog.String("got", obs.got),
				slog.Duration("timeout", s.renderTimeout))
			return &RenderTimeoutError{Widget: widget, Want: want, Got: obs.got, Timeout: s.renderTimeout}
		case <-ticker.C:
			obs = observe()
			if obs.converged {
				return nil
			}
		}
	}
}
