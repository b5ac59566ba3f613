package tui

import "github.com/rs/zerolog"

// DefaultMaxAttempts bounds how often a control is re-prompted after its
// answer was rejected.
const DefaultMaxAttempts = 3

// Option configures the Runner.
type Option func(*Runner)

// WithPromptDriver overrides the prompt driver used by the runner.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Runner) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithLogger routes rejected answers to logger at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithMaxAttempts overrides DefaultMaxAttempts. Values below one are ignored.
func WithMaxAttempts(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAttempts = n
		}
	}
}

// WithPageSize limits how many options select prompts show at once.
func WithPageSize(n int) Option {
	return func(r *Runner) {
		r.pageSize = n
	}
}
