package param

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

// NameField is the pseudo-field every object carries for its display name.
const NameField = "name"

// ObjectOption configures an Object during construction.
type ObjectOption func(*Object)

// WithName sets the display name. Defaults to the type name.
func WithName(name string) ObjectOption {
	return func(o *Object) {
		o.initialName = name
	}
}

// WithLogger routes the object's warnings and debug events to logger.
func WithLogger(logger zerolog.Logger) ObjectOption {
	return func(o *Object) {
		o.logger = logger
	}
}

type subscription struct {
	id int
	fn func(Rendered)
}

// Object is a parameterized target: an ordered set of descriptors plus the
// current value of each. All reads and writes from the binding engine go
// through Get and Set so validation and output notifications always run.
type Object struct {
	typeName    string
	initialName string
	descriptors []Descriptor
	index       map[string]int
	values      map[string]any
	subs        map[string][]subscription
	nextSub     int
	logger      zerolog.Logger
	warnings    []string
}

// New builds an object of typeName holding descriptors in declaration order.
// The name pseudo-field is declared first and must not be redeclared.
func New(typeName string, descriptors []Descriptor, options ...ObjectOption) (*Object, error) {
	if typeName == "" {
		return nil, errors.New("param: type name is required")
	}
	obj := &Object{
		typeName: typeName,
		index:    make(map[string]int, len(descriptors)+1),
		values:   make(map[string]any, len(descriptors)+1),
		subs:     make(map[string][]subscription),
		logger:   zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(obj)
	}
	if obj.initialName == "" {
		obj.initialName = typeName
	}

	nameField := NewString(NameField,
		WithDefault(obj.initialName),
		WithDoc("String identifier for this object."),
	)
	all := make([]Descriptor, 0, len(descriptors)+1)
	all = append(all, nameField)
	all = append(all, descriptors...)

	for idx, d := range all {
		if d == nil {
			return nil, fmt.Errorf("param: %s descriptor %d is nil", typeName, idx)
		}
		name := d.Name()
		if name == "" {
			return nil, fmt.Errorf("param: %s descriptor %d has no name", typeName, idx)
		}
		if _, exists := obj.index[name]; exists {
			return nil, fmt.Errorf("param: %s declares %q twice", typeName, name)
		}
		obj.index[name] = idx
		obj.values[name] = d.Default()
	}
	obj.descriptors = all
	return obj, nil
}

// MustNew mirrors New but panics on error.
func MustNew(typeName string, descriptors []Descriptor, options ...ObjectOption) *Object {
	obj, err := New(typeName, descriptors, options...)
	if err != nil {
		panic(err)
	}
	return obj
}

// TypeName returns the declared type name, used to key override documents.
func (o *Object) TypeName() string {
	return o.typeName
}

// Name returns the current display name.
func (o *Object) Name() string {
	if name, ok := o.values[NameField].(string); ok {
		return name
	}
	return o.typeName
}

// Descriptors returns every descriptor in declaration order, name first.
func (o *Object) Descriptors() []Descriptor {
	return append([]Descriptor(nil), o.descriptors...)
}

// Names returns every field name in declaration order.
func (o *Object) Names() []string {
	names := make([]string, len(o.descriptors))
	for i, d := range o.descriptors {
		names[i] = d.Name()
	}
	return names
}

// Descriptor looks up a field by name.
func (o *Object) Descriptor(name string) (Descriptor, bool) {
	idx, ok := o.index[name]
	if !ok {
		return nil, false
	}
	return o.descriptors[idx], true
}

// Get returns the current value of a field.
func (o *Object) Get(name string) (any, bool) {
	if _, ok := o.index[name]; !ok {
		return nil, false
	}
	return o.values[name], true
}

// Value returns the current value of a field, or nil when unknown.
func (o *Object) Value(name string) any {
	return o.values[name]
}

// Values returns a snapshot of every field value keyed by name.
func (o *Object) Values() map[string]any {
	out := make(map[string]any, len(o.values))
	for k, v := range o.values {
		out[k] = v
	}
	return out
}

// Set validates and stores value. Output fields notify their subscribers
// with the rendered value after it is stored.
func (o *Object) Set(name string, value any) error {
	d, ok := o.Descriptor(name)
	if !ok {
		return &FieldError{Field: name, Err: ErrUnknownField, Reason: "not a parameter of " + o.typeName}
	}
	if d.Constant() {
		return &FieldError{Field: name, Err: ErrConstant}
	}
	checked, err := d.Check(value)
	if err != nil {
		return err
	}
	o.values[name] = checked
	o.logger.Debug().
		Str("object", o.Name()).
		Str("field", name).
		Interface("value", checked).
		Msg("field set")

	if r, ok := d.(Renderable); ok {
		o.notify(name, r.Render(checked))
	}
	return nil
}

// SetMany assigns values in sorted key order. Every assignment is attempted;
// failures are joined in the returned error.
func (o *Object) SetMany(values map[string]any) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var errs []error
	for _, key := range keys {
		if err := o.Set(key, values[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Subscribe registers fn to receive the rendered value of an output field
// each time it is set. The returned func cancels the subscription.
func (o *Object) Subscribe(name string, fn func(Rendered)) (func(), error) {
	d, ok := o.Descriptor(name)
	if !ok {
		return nil, &FieldError{Field: name, Err: ErrUnknownField}
	}
	if _, ok := d.(Renderable); !ok {
		return nil, &FieldError{Field: name, Err: ErrNotRenderable}
	}
	if fn == nil {
		return func() {}, nil
	}
	o.nextSub++
	id := o.nextSub
	o.subs[name] = append(o.subs[name], subscription{id: id, fn: fn})
	return func() {
		subs := o.subs[name]
		for i, sub := range subs {
			if sub.id == id {
				o.subs[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}, nil
}

func (o *Object) notify(name string, rendered Rendered) {
	subs := append([]subscription(nil), o.subs[name]...)
	for _, sub := range subs {
		sub.fn(rendered)
	}
}

// Warn reports a non-fatal problem on the object's own warning channel.
func (o *Object) Warn(msg string) {
	o.warnings = append(o.warnings, msg)
	o.logger.Warn().
		Str("object", o.Name()).
		Str("type", o.typeName).
		Msg(msg)
}

// Warnf formats and reports a warning.
func (o *Object) Warnf(format string, args ...any) {
	o.Warn(fmt.Sprintf(format, args...))
}

// Warnings returns every warning reported so far.
func (o *Object) Warnings() []string {
	return append([]string(nil), o.warnings...)
}

// Logger exposes the object's logger for collaborators that log on its
// behalf.
func (o *Object) Logger() zerolog.Logger {
	return o.logger
}
