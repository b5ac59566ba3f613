package form

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/param"
)

// ErrNotDisplayed is returned by Form.Control for declared fields that the
// layout left out, such as the name field or fields below the threshold.
var ErrNotDisplayed = errors.New("form: field is not displayed")

// Form is the built control tree for one object together with its binder and
// executor. Forms are single-threaded: every event must be delivered from the
// goroutine that owns the form.
type Form struct {
	obj        *param.Object
	cfg        Config
	exec       *Executor
	binder     *Binder
	fields     []string
	labelWidth string
	heading    *controls.Label
	nodes      []controls.Control
	button     *controls.Button
	root       *controls.Box
}

// New runs the initializer, lays out the visible fields and binds a control
// to each of them. A field kind without a registered factory fails the build.
func New(obj *param.Object, options ...Option) (*Form, error) {
	if obj == nil {
		return nil, errors.New("form: object is required")
	}
	cfg := newConfig(options)
	if cfg.Initializer != nil {
		cfg.Initializer(obj)
	}

	exec := NewExecutor(obj, cfg)
	f := &Form{
		obj:        obj,
		cfg:        cfg,
		exec:       exec,
		binder:     NewBinder(obj, cfg, exec),
		fields:     Layout(obj, cfg),
		labelWidth: resolveLabelWidth(obj, cfg),
	}
	if err := f.build(); err != nil {
		f.binder.Close()
		return nil, err
	}
	if cfg.OnInit {
		exec.Commit(TriggerInit)
	}
	return f, nil
}

func (f *Form) build() error {
	f.heading = controls.NewHeading(f.obj.Name())
	nodes := []controls.Control{f.heading}

	for _, name := range f.fields {
		ctrl, err := f.binder.Control(name)
		if err != nil {
			return err
		}
		if !f.cfg.ShowLabels {
			nodes = append(nodes, ctrl)
			continue
		}
		d, _ := f.obj.Descriptor(name)
		label := newFieldLabel(d, f.cfg, f.labelWidth)
		nodes = append(nodes, controls.NewBox(controls.Row, label, ctrl))
	}

	if wantsButton(f.cfg) {
		f.button = controls.NewButton(controls.Props{
			Name:        "commit",
			Description: buttonLabel(f.cfg.Next),
		})
		f.button.OnClick(func() { f.exec.Commit(TriggerButton) })
		nodes = append(nodes, f.button)
	}

	f.nodes = nodes
	f.root = controls.NewBox(f.cfg.Orientation, nodes...)
	return nil
}

// Object returns the bound object.
func (f *Form) Object() *param.Object {
	return f.obj
}

// Config returns the resolved configuration.
func (f *Form) Config() Config {
	return f.cfg
}

// Fields returns the visible field names in display order.
func (f *Form) Fields() []string {
	return append([]string(nil), f.fields...)
}

// Nodes returns the top-level nodes: heading, one node per field, and the
// commit button when present.
func (f *Form) Nodes() []controls.Control {
	return append([]controls.Control(nil), f.nodes...)
}

// Root returns the box holding every node.
func (f *Form) Root() *controls.Box {
	return f.root
}

// Heading returns the label carrying the object name.
func (f *Form) Heading() *controls.Label {
	return f.heading
}

// Control returns the control bound to name. Only displayed fields have
// controls.
func (f *Form) Control(name string) (controls.Control, error) {
	if _, ok := f.obj.Descriptor(name); !ok {
		return nil, fmt.Errorf("form: %w", &param.FieldError{Field: name, Err: param.ErrUnknownField})
	}
	if !slices.Contains(f.fields, name) {
		return nil, fmt.Errorf("%w: %s", ErrNotDisplayed, name)
	}
	return f.binder.Control(name)
}

// Primary returns the field's own control, without path augmentation.
func (f *Form) Primary(name string) (controls.Control, bool) {
	return f.binder.Primary(name)
}

// Binder exposes the binding engine, mainly for pushing external updates.
func (f *Form) Binder() *Binder {
	return f.binder
}

// Commit runs the execution controller as if the button had been pressed.
func (f *Form) Commit() {
	f.exec.Commit(TriggerButton)
}

// Button returns the commit button, or nil in auto mode.
func (f *Form) Button() *controls.Button {
	return f.button
}

// LabelWidth returns the CSS width shared by every label.
func (f *Form) LabelWidth() string {
	return f.labelWidth
}

// Close releases every binding. The form must not be used afterwards.
func (f *Form) Close() {
	f.binder.Close()
}
