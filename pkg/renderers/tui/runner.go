// Package tui walks a form in the terminal, prompting for every control and
// feeding the answers back through the controls so the form's own binding
// and commit rules apply.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
)

// Runner prompts for a form's controls in display order.
type Runner struct {
	driver      PromptDriver
	logger      zerolog.Logger
	maxAttempts int
	pageSize    int
	strip       *bluemonday.Policy
}

// New constructs a Runner. Without WithPromptDriver it prompts on the
// process terminal.
func New(options ...Option) *Runner {
	r := &Runner{
		logger:      zerolog.Nop(),
		maxAttempts: DefaultMaxAttempts,
		strip:       bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

// Run prompts once for every node of f. Driver failures, including
// ErrAborted, stop the walk and are returned as is.
func (r *Runner) Run(ctx context.Context, f *form.Form) error {
	if f == nil {
		return errors.New("tui: form is nil")
	}
	for _, node := range f.Nodes() {
		if err := r.visit(ctx, node); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) visit(ctx context.Context, node controls.Control) error {
	switch n := node.(type) {
	case *controls.Label:
		if n.Heading() && n.Text() != "" {
			return r.driver.Info(ctx, HeadingStyle.Render(n.Text()))
		}
		// field captions double as the prompt message
		return nil
	case controls.Container:
		for _, child := range n.Children() {
			if err := r.visit(ctx, child); err != nil {
				return err
			}
		}
		return nil
	default:
		return r.prompt(ctx, node)
	}
}

func (r *Runner) prompt(ctx context.Context, ctrl controls.Control) error {
	message, help := describe(ctrl)

	if clickable, ok := ctrl.(controls.Clickable); ok {
		pressed, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: message + "?",
			Default: true,
			Help:    help,
		})
		if err != nil {
			return err
		}
		if pressed {
			clickable.Click()
		}
		return nil
	}

	if !ctrl.Editable() {
		value := r.strip.Sanitize(formatValue(ctrl.Value()))
		if value == "" {
			return nil
		}
		return r.driver.Info(ctx, fmt.Sprintf("%s: %s", message, OutputStyle.Render(value)))
	}

	for attempt := 1; ; attempt++ {
		answer, err := r.ask(ctx, ctrl, message, help)
		if err != nil {
			return err
		}
		err = ctrl.SetValue(answer)
		if err == nil {
			return nil
		}
		r.logger.Debug().
			Err(err).
			Str("control", ctrl.Name()).
			Int("attempt", attempt).
			Msg("answer rejected")
		if infoErr := r.driver.Info(ctx, ErrorMessageStyle.Render(err.Error())); infoErr != nil {
			return infoErr
		}
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%w for %s: %v", ErrTooManyAttempts, ctrl.Name(), err)
		}
	}
}

func (r *Runner) ask(ctx context.Context, ctrl controls.Control, message, help string) (any, error) {
	switch ctrl.Kind() {
	case controls.KindCheckbox:
		checked, _ := ctrl.Value().(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: help})
	case controls.KindDropdown:
		options := optionsOf(ctrl)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      optionNames(options),
			DefaultIndex: selectedIndex(options, ctrl.Value()),
			Help:         help,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			return nil, fmt.Errorf("tui: %s: selection %d out of range", ctrl.Name(), idx)
		}
		return options[idx].Value, nil
	case controls.KindSelectMultiple, controls.KindCrossSelect:
		options := optionsOf(ctrl)
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  message,
			Options:  optionNames(options),
			Defaults: selectedIndices(options, ctrl.Value()),
			Help:     help,
			PageSize: r.pageSize,
		})
		if err != nil {
			return nil, err
		}
		values := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				values = append(values, options[idx].Value)
			}
		}
		return values, nil
	default:
		// numeric controls parse the text themselves
		return r.driver.Input(ctx, InputConfig{
			Message:   message,
			Default:   formatValue(ctrl.Value()),
			Help:      help,
			Validator: numericValidator(ctrl),
		})
	}
}

// numericValidator catches text a numeric control would refuse so the
// terminal re-asks before an attempt is spent. Other kinds get nil.
func numericValidator(ctrl controls.Control) func(string) error {
	var integer bool
	switch ctrl.Kind() {
	case controls.KindIntText, controls.KindIntSlider:
		integer = true
	case controls.KindFloatText, controls.KindFloatSlider:
	default:
		return nil
	}
	var min, max *float64
	if bounded, ok := ctrl.(controls.Bounded); ok {
		min, max = bounded.Bounds()
	}
	return func(text string) error {
		text = strings.TrimSpace(text)
		var value float64
		if integer {
			i, err := strconv.ParseInt(text, 10, 64)
			if err != nil {
				return fmt.Errorf("%q is not an integer", text)
			}
			value = float64(i)
		} else {
			f, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return fmt.Errorf("%q is not a number", text)
			}
			value = f
		}
		if min != nil && value < *min {
			return fmt.Errorf("must be at least %s", formatValue(*min))
		}
		if max != nil && value > *max {
			return fmt.Errorf("must be at most %s", formatValue(*max))
		}
		return nil
	}
}

func describe(ctrl controls.Control) (message, help string) {
	message = ctrl.Name()
	if described, ok := ctrl.(controls.Described); ok {
		if described.Description() != "" {
			message = described.Description()
		}
		help = described.Tooltip()
	}
	return message, help
}

func optionsOf(ctrl controls.Control) []param.NamedValue {
	holder, ok := ctrl.(controls.OptionHolder)
	if !ok {
		return nil
	}
	return holder.Options()
}

func optionNames(options []param.NamedValue) []string {
	names := make([]string, len(options))
	for i, opt := range options {
		names[i] = opt.Name
	}
	return names
}

func selectedIndex(options []param.NamedValue, value any) int {
	current := formatValue(value)
	for i, opt := range options {
		if formatValue(opt.Value) == current {
			return i
		}
	}
	return -1
}

func selectedIndices(options []param.NamedValue, value any) []int {
	items, _ := value.([]any)
	selected := make(map[string]struct{}, len(items))
	for _, item := range items {
		selected[formatValue(item)] = struct{}{}
	}
	var out []int
	for i, opt := range options {
		if _, ok := selected[formatValue(opt.Value)]; ok {
			out = append(out, i)
		}
	}
	return out
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
