package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrTooManyAttempts is returned when every answer for a control was
	// rejected.
	ErrTooManyAttempts = errors.New("tui: too many rejected answers")
)
