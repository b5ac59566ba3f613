package form

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/param"
)

// Field update outcomes reported to the Recorder.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

type binding struct {
	// control is what the layout places; primary is the field's own control.
	// They differ only for path-backed fields.
	control controls.Control
	primary controls.Control
	cancel  []func()
}

// Binder owns the per-form control registry and the two-way wiring between
// each control and its field.
type Binder struct {
	obj      *param.Object
	cfg      Config
	resolver *controls.Resolver
	exec     *Executor
	logger   zerolog.Logger
	bindings map[string]*binding
}

// NewBinder builds a binder for obj. Commits go through exec.
func NewBinder(obj *param.Object, cfg Config, exec *Executor) *Binder {
	return &Binder{
		obj:      obj,
		cfg:      cfg,
		resolver: controls.NewResolver(cfg.Registry),
		exec:     exec,
		logger:   obj.Logger(),
		bindings: make(map[string]*binding),
	}
}

// Control returns the control bound to name, creating it on first use.
func (b *Binder) Control(name string) (controls.Control, error) {
	if bound, ok := b.bindings[name]; ok {
		return bound.control, nil
	}
	bound, err := b.bind(name)
	if err != nil {
		return nil, err
	}
	b.bindings[name] = bound
	return bound.control, nil
}

// Primary returns the field's own control, unwrapping path augmentation.
func (b *Binder) Primary(name string) (controls.Control, bool) {
	bound, ok := b.bindings[name]
	if !ok {
		return nil, false
	}
	return bound.primary, true
}

// ApplyExternalUpdate reflects a value that reached the field outside the
// control. The size is applied first, then the value is displayed without
// raising a change event.
func (b *Binder) ApplyExternalUpdate(name string, rendered param.Rendered) error {
	bound, ok := b.bindings[name]
	if !ok {
		return fmt.Errorf("form: %s has no bound control", name)
	}
	applyRendered(bound.primary, rendered)
	return nil
}

// Close releases every subscription and forgets the bound controls.
func (b *Binder) Close() {
	for _, bound := range b.bindings {
		for _, cancel := range bound.cancel {
			cancel()
		}
	}
	b.bindings = make(map[string]*binding)
}

func (b *Binder) bind(name string) (*binding, error) {
	d, ok := b.obj.Descriptor(name)
	if !ok {
		return nil, &param.FieldError{Field: name, Err: param.ErrUnknownField}
	}

	props := b.props(d)
	factory, err := b.resolver.Resolve(d)
	if err != nil {
		return nil, fmt.Errorf("form: bind %s: %w", name, err)
	}
	ctrl, err := factory(props)
	if err != nil {
		return nil, fmt.Errorf("form: bind %s: %w", name, err)
	}

	bound := &binding{control: ctrl, primary: ctrl}
	if _, renderable := d.(param.Renderable); renderable {
		cancel, err := b.obj.Subscribe(name, func(r param.Rendered) {
			applyRendered(ctrl, r)
		})
		if err != nil {
			return nil, fmt.Errorf("form: bind %s: %w", name, err)
		}
		bound.cancel = append(bound.cancel, cancel)
	} else if ctrl.Editable() {
		bound.cancel = append(bound.cancel, ctrl.Observe(b.pull(name, ctrl)))
	}

	if pathed, ok := d.(param.Pathed); ok {
		pathInput := controls.NewText(controls.Props{
			Name:        name + ".path",
			Value:       pathed.Path(),
			Description: name + " path",
		})
		bound.cancel = append(bound.cancel, pathInput.Observe(func(c controls.Change) error {
			return b.pathChanged(d, pathed, ctrl, c.New)
		}))
		bound.control = controls.NewBox(controls.Column, pathInput, ctrl)
	}

	b.logger.Debug().
		Str("object", b.obj.Name()).
		Str("field", name).
		Str("control", ctrl.Kind()).
		Msg("control bound")
	return bound, nil
}

func (b *Binder) props(d param.Descriptor) controls.Props {
	value := b.obj.Value(d.Name())
	props := controls.Props{
		Name:        d.Name(),
		Value:       value,
		Description: d.Name(),
	}
	if b.cfg.Tooltips {
		props.Tooltip = d.Doc()
	}

	if r, ok := d.(param.Renderable); ok && value != nil {
		rendered := r.Render(value)
		props.Value = rendered.Value
		if rendered.HasSize() {
			props.Layout = sizedLayout(rendered.Size)
		}
	}
	if ranged, ok := d.(param.Ranged); ok {
		props.Options = ranged.Range()
	}
	if soft, ok := d.(param.SoftBounded); ok {
		props.Min, props.Max = soft.SoftBounds()
	}
	if limited, ok := d.(interface{ ItemLimit() (int, bool) }); ok {
		if limit, set := limited.ItemLimit(); set {
			props.ItemLimit = &limit
		}
	}
	if fn, ok := value.(param.ActionFunc); ok {
		props.Value = nil
		if fn != nil {
			obj := b.obj
			props.Value = func() { fn(obj) }
		}
	}
	return props
}

// pull writes user edits onto the field and commits in auto mode. A rejected
// value is returned to the caller and the control falls back to the field's
// current value.
func (b *Binder) pull(name string, ctrl controls.Control) controls.Observer {
	return func(c controls.Change) error {
		if err := b.obj.Set(name, c.New); err != nil {
			ctrl.SetDisplayValue(b.obj.Value(name))
			b.record(name, OutcomeRejected)
			return err
		}
		b.record(name, OutcomeAccepted)
		if !b.cfg.Button {
			b.exec.Commit(TriggerChange)
		}
		return nil
	}
}

func (b *Binder) pathChanged(d param.Descriptor, pathed param.Pathed, primary controls.Control, value any) error {
	name := d.Name()
	path, _ := value.(string)
	pathed.SetPath(path)
	if err := pathed.Update(); err != nil {
		b.obj.Warnf("could not resolve path for %s: %v", name, err)
		return err
	}

	var options []param.NamedValue
	if ranged, ok := d.(param.Ranged); ok {
		options = ranged.Range()
	}
	def := d.Default()
	if holder, ok := primary.(controls.OptionHolder); ok {
		holder.SetOptions(options)
		if def != nil {
			holder.AddOptions(param.NamedObjects([]any{def})...)
		}
	}
	if err := b.obj.Set(name, def); err != nil {
		b.record(name, OutcomeRejected)
		return err
	}
	b.record(name, OutcomeAccepted)
	primary.SetDisplayValue(b.obj.Value(name))

	if !b.cfg.Button && len(options) > 0 {
		b.exec.Commit(TriggerPath)
	}
	return nil
}

func (b *Binder) record(field, outcome string) {
	if b.cfg.Recorder != nil {
		b.cfg.Recorder.RecordFieldUpdate(field, outcome)
	}
}

func applyRendered(ctrl controls.Control, rendered param.Rendered) {
	if rendered.HasSize() {
		layout := ctrl.Layout()
		sized := sizedLayout(rendered.Size)
		layout.MinWidth = sized.MinWidth
		layout.MinHeight = sized.MinHeight
	}
	ctrl.SetDisplayValue(rendered.Value)
}

func sizedLayout(size *param.Size) *controls.Layout {
	return &controls.Layout{
		MinWidth:  fmt.Sprintf("%dpx", size.Width),
		MinHeight: fmt.Sprintf("%dpx", size.Height),
	}
}
