package form

import (
	"github.com/rs/zerolog"

	"github.com/goliatone/go-paramform/pkg/param"
)

// Trigger identifies what caused a commit.
type Trigger string

const (
	TriggerButton Trigger = "button"
	TriggerChange Trigger = "change"
	TriggerPath   Trigger = "path"
	TriggerInit   Trigger = "init"
)

// Executor is the single funnel every commit flows through.
type Executor struct {
	obj    *param.Object
	cfg    Config
	logger zerolog.Logger
}

// NewExecutor builds an executor for obj.
func NewExecutor(obj *param.Object, cfg Config) *Executor {
	return &Executor{obj: obj, cfg: cfg, logger: obj.Logger()}
}

// Commit asks the host to advance first and then runs the callback.
func (e *Executor) Commit(trigger Trigger) {
	advanced := false
	if e.cfg.Advancer != nil && shouldAdvance(e.cfg.Next) {
		e.cfg.Advancer.Advance(e.cfg.Next)
		advanced = true
	}
	if e.cfg.Callback != nil {
		e.cfg.Callback(e.obj)
	}
	e.logger.Debug().
		Str("object", e.obj.Name()).
		Str("trigger", string(trigger)).
		Bool("advanced", advanced).
		Bool("callback", e.cfg.Callback != nil).
		Msg("form commit")
	if e.cfg.Recorder != nil {
		e.cfg.Recorder.RecordCommit(string(trigger))
	}
}

func shouldAdvance(n Advance) bool {
	return n == AdvanceAll || n >= 1
}
