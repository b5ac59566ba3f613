package controls

import (
	"errors"
	"reflect"

	"github.com/goliatone/go-paramform/pkg/param"
)

// Built-in control kinds exposed by the headless toolkit.
const (
	KindText           = "text"
	KindHTML           = "html"
	KindCheckbox       = "checkbox"
	KindFloatSlider    = "float-slider"
	KindFloatText      = "float-text"
	KindIntSlider      = "int-slider"
	KindIntText        = "int-text"
	KindDropdown       = "dropdown"
	KindSelectMultiple = "select-multiple"
	KindCrossSelect    = "cross-select"
	KindButton         = "button"
	KindActiveHTML     = "active-html"
	KindBox            = "box"
	KindLabel          = "label"
)

var (
	// ErrReadOnly is returned when a user edit targets a display-only control.
	ErrReadOnly = errors.New("controls: control is read-only")
	// ErrInvalidInput is returned when a control cannot represent the value.
	ErrInvalidInput = errors.New("controls: invalid input")
)

// Orientation arranges the children of a Box.
type Orientation string

const (
	Row    Orientation = "row"
	Column Orientation = "column"
)

// Change describes a user edit observed on a control.
type Change struct {
	Name string
	Old  any
	New  any
}

// Observer receives change events. A returned error is handed back to the
// caller of SetValue.
type Observer func(Change) error

// Layout carries the display hints hosts apply to a control.
type Layout struct {
	MinWidth  string
	MinHeight string
	Margin    string
}

// Control is the toolkit contract the binding engine programs against.
type Control interface {
	Kind() string
	Name() string
	Value() any
	// SetValue is the user channel: it stores value and notifies observers
	// when the value changed.
	SetValue(value any) error
	// SetDisplayValue is the push channel: it stores value without notifying
	// anyone.
	SetDisplayValue(value any)
	Observe(fn Observer) (cancel func())
	Editable() bool
	Layout() *Layout
}

// OptionHolder is implemented by choice controls.
type OptionHolder interface {
	Options() []param.NamedValue
	SetOptions(options []param.NamedValue)
	AddOptions(options ...param.NamedValue)
}

// Clickable is implemented by buttons.
type Clickable interface {
	OnClick(fn func())
	Click()
}

// Container is implemented by controls that group other controls.
type Container interface {
	Children() []Control
	Orientation() Orientation
}

// Bounded is implemented by sliders.
type Bounded interface {
	Bounds() (min, max *float64)
}

// Described exposes the text hosts show next to a control.
type Described interface {
	Tooltip() string
	Description() string
}

type observerEntry struct {
	id int
	fn Observer
}

// widget implements the state and observer plumbing shared by every control.
type widget struct {
	kind        string
	name        string
	value       any
	tooltip     string
	description string
	editable    bool
	layout      *Layout
	coerce      func(any) (any, error)
	observers   []observerEntry
	nextID      int
}

func newWidget(kind string, props Props, editable bool) widget {
	layout := props.Layout
	if layout == nil {
		layout = &Layout{}
	}
	return widget{
		kind:        kind,
		name:        props.Name,
		value:       props.Value,
		tooltip:     props.Tooltip,
		description: props.Description,
		editable:    editable,
		layout:      layout,
	}
}

func (w *widget) Kind() string        { return w.kind }
func (w *widget) Name() string        { return w.name }
func (w *widget) Value() any          { return w.value }
func (w *widget) Editable() bool      { return w.editable }
func (w *widget) Layout() *Layout     { return w.layout }
func (w *widget) Tooltip() string     { return w.tooltip }
func (w *widget) Description() string { return w.description }

func (w *widget) SetValue(value any) error {
	if !w.editable {
		return ErrReadOnly
	}
	if w.coerce != nil {
		coerced, err := w.coerce(value)
		if err != nil {
			return err
		}
		value = coerced
	}
	old := w.value
	if reflect.DeepEqual(old, value) {
		return nil
	}
	w.value = value
	return w.emit(Change{Name: w.name, Old: old, New: value})
}

func (w *widget) SetDisplayValue(value any) {
	w.value = value
}

func (w *widget) Observe(fn Observer) func() {
	if fn == nil {
		return func() {}
	}
	w.nextID++
	id := w.nextID
	w.observers = append(w.observers, observerEntry{id: id, fn: fn})
	return func() {
		for i, entry := range w.observers {
			if entry.id == id {
				w.observers = append(w.observers[:i:i], w.observers[i+1:]...)
				return
			}
		}
	}
}

func (w *widget) emit(change Change) error {
	observers := append([]observerEntry(nil), w.observers...)
	var errs []error
	for _, entry := range observers {
		if err := entry.fn(change); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
