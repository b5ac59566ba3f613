// Package host provides an in-process stand-in for the document that
// embeds a form: an ordered list of steps that commits advance through.
package host

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-paramform/pkg/form"
)

// StepFunc is one unit of downstream work.
type StepFunc func(ctx context.Context) error

type step struct {
	name string
	run  StepFunc
}

// Steps runs the steps that follow a form in order. Every Advance starts
// again from the step right after the form.
type Steps struct {
	ctx    context.Context
	logger zerolog.Logger
	steps  []step
}

// Option configures Steps.
type Option func(*Steps)

// WithLogger logs step failures on logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Steps) {
		s.logger = logger
	}
}

// WithContext sets the context passed to every step.
func WithContext(ctx context.Context) Option {
	return func(s *Steps) {
		if ctx != nil {
			s.ctx = ctx
		}
	}
}

// New builds an empty step list.
func New(options ...Option) *Steps {
	s := &Steps{
		ctx:    context.Background(),
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Add appends a named step. Nil funcs are ignored.
func (s *Steps) Add(name string, fn StepFunc) *Steps {
	if fn == nil {
		return s
	}
	s.steps = append(s.steps, step{name: strings.TrimSpace(name), run: fn})
	return s
}

// Advance runs the first n steps, or all of them for form.AdvanceAll.
// Failures are logged and never stop the remaining steps.
func (s *Steps) Advance(n form.Advance) {
	if n < 1 {
		return
	}
	for i, current := range s.steps {
		if form.Advance(i) >= n {
			break
		}
		if err := current.run(s.ctx); err != nil {
			s.logger.Error().
				Err(err).
				Str("step", current.name).
				Msg("step failed")
			continue
		}
		s.logger.Debug().Str("step", current.name).Msg("step completed")
	}
}

// Names returns the step names in run order.
func (s *Steps) Names() []string {
	names := make([]string, 0, len(s.steps))
	for _, st := range s.steps {
		names = append(names, st.name)
	}
	return names
}

var _ form.Advancer = (*Steps)(nil)
