package param

import (
	"fmt"
	"reflect"
)

// Descriptor is the typed field declaration the binding engine consumes.
// Optional behaviour is exposed through the capability interfaces below and
// discovered with type assertions.
type Descriptor interface {
	Name() string
	Kind() Kind
	Doc() string
	// Precedence returns nil when the field declares no precedence.
	Precedence() *float64
	Constant() bool
	Default() any
	// Check validates value and returns the normalised form that should be
	// stored on the object.
	Check(value any) (any, error)
}

// Ranged descriptors expose a discrete set of allowed values.
type Ranged interface {
	Range() []NamedValue
}

// SoftBounded descriptors expose the suggested numeric range for controls.
type SoftBounded interface {
	SoftBounds() (min, max *float64)
}

// Renderable descriptors produce display output for their value. Objects push
// the rendered value to subscribers every time the field is set.
type Renderable interface {
	Render(value any) Rendered
}

// Pathed descriptors derive their range from a filesystem path.
type Pathed interface {
	Path() string
	SetPath(path string)
	Update() error
}

// Size carries optional display dimensions in pixels.
type Size struct {
	Width  int
	Height int
}

// Rendered is the tagged result of rendering an output value.
type Rendered struct {
	Value any
	Size  *Size
}

// HasSize reports whether both dimensions are present.
func (r Rendered) HasSize() bool {
	return r.Size != nil && r.Size.Width != 0 && r.Size.Height != 0
}

// RenderFunc converts an output value into its displayable form.
type RenderFunc func(value any) Rendered

// ActionFunc is the value held by Action fields; buttons invoke it with the
// owning object.
type ActionFunc func(obj *Object)

// Option configures a descriptor during construction.
type Option func(*settings)

type settings struct {
	defaultValue any
	hasDefault   bool
	doc          string
	precedence   *float64
	constant     bool
	allowNone    bool
	bounds       *bounds
	softBounds   *bounds
	objects      []any
	rules        string
	render       RenderFunc
	itemLimit    *int
}

type bounds struct {
	min *float64
	max *float64
}

// WithDefault sets the initial value of the field.
func WithDefault(value any) Option {
	return func(s *settings) {
		s.defaultValue = value
		s.hasDefault = true
	}
}

// WithDoc attaches the documentation string used for tooltips.
func WithDoc(doc string) Option {
	return func(s *settings) {
		s.doc = doc
	}
}

// WithPrecedence sets the ordering and visibility key.
func WithPrecedence(precedence float64) Option {
	return func(s *settings) {
		value := precedence
		s.precedence = &value
	}
}

// Constant marks the field read-only after construction.
func Constant() Option {
	return func(s *settings) {
		s.constant = true
	}
}

// AllowNone accepts nil as a valid value.
func AllowNone() Option {
	return func(s *settings) {
		s.allowNone = true
	}
}

// WithBounds sets hard numeric bounds; pass nil for an open side.
func WithBounds(min, max *float64) Option {
	return func(s *settings) {
		s.bounds = &bounds{min: min, max: max}
	}
}

// WithSoftBounds sets the suggested numeric range used by sliders.
func WithSoftBounds(min, max *float64) Option {
	return func(s *settings) {
		s.softBounds = &bounds{min: min, max: max}
	}
}

// WithObjects sets the allowed values of selector fields.
func WithObjects(objects ...any) Option {
	return func(s *settings) {
		s.objects = append([]any(nil), objects...)
	}
}

// WithRules attaches go-playground/validator tags checked on every assignment.
func WithRules(rules string) Option {
	return func(s *settings) {
		s.rules = rules
	}
}

// WithRenderer overrides how output fields render their value.
func WithRenderer(fn RenderFunc) Option {
	return func(s *settings) {
		s.render = fn
	}
}

// WithItemLimit overrides the number of options a list selector may show
// before controls switch to a two-pane layout.
func WithItemLimit(limit int) Option {
	return func(s *settings) {
		value := limit
		s.itemLimit = &value
	}
}

// Float is a convenience for building bounds.
func Float(v float64) *float64 {
	return &v
}

func newSettings(options []Option) settings {
	var s settings
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&s)
	}
	return s
}

// base implements the shared part of every descriptor.
type base struct {
	name       string
	kind       Kind
	doc        string
	precedence *float64
	constant   bool
	allowNone  bool
	def        any
	rules      string
}

func newBase(name string, kind Kind, s settings) base {
	return base{
		name:       name,
		kind:       kind,
		doc:        s.doc,
		precedence: s.precedence,
		constant:   s.constant,
		allowNone:  s.allowNone,
		def:        s.defaultValue,
		rules:      s.rules,
	}
}

func (b *base) Name() string         { return b.name }
func (b *base) Kind() Kind           { return b.kind }
func (b *base) Doc() string          { return b.doc }
func (b *base) Precedence() *float64 { return b.precedence }
func (b *base) Constant() bool       { return b.constant }
func (b *base) Default() any         { return b.def }

func (b *base) checkNone(value any) (bool, error) {
	if !isNil(value) {
		return false, nil
	}
	if b.allowNone {
		return true, nil
	}
	return true, invalid(b.name, "None is not allowed")
}

func (b *base) checkRules(value any) error {
	if b.rules == "" {
		return nil
	}
	if err := validatorInstance().Var(value, b.rules); err != nil {
		return invalid(b.name, err.Error())
	}
	return nil
}

// Generic is the untyped parameter; any value is accepted.
type Generic struct {
	base
}

// NewParameter declares an untyped field.
func NewParameter(name string, options ...Option) *Generic {
	s := newSettings(options)
	s.allowNone = true
	return &Generic{base: newBase(name, KindParameter, s)}
}

func (g *Generic) Check(value any) (any, error) {
	if err := g.checkRules(value); err != nil {
		return nil, err
	}
	return value, nil
}

// String declares a text field.
type String struct {
	base
}

// NewString declares a string field.
func NewString(name string, options ...Option) *String {
	s := newSettings(options)
	if !s.hasDefault {
		s.defaultValue = ""
	}
	return &String{base: newBase(name, KindString, s)}
}

func (p *String) Check(value any) (any, error) {
	if none, err := p.checkNone(value); none {
		return nil, err
	}
	str, ok := value.(string)
	if !ok {
		return nil, invalid(p.name, fmt.Sprintf("expected string, got %T", value))
	}
	if err := p.checkRules(str); err != nil {
		return nil, err
	}
	return str, nil
}

// Boolean declares a true/false field.
type Boolean struct {
	base
}

// NewBoolean declares a boolean field.
func NewBoolean(name string, options ...Option) *Boolean {
	s := newSettings(options)
	if !s.hasDefault {
		s.defaultValue = false
	}
	return &Boolean{base: newBase(name, KindBoolean, s)}
}

func (p *Boolean) Check(value any) (any, error) {
	if none, err := p.checkNone(value); none {
		return nil, err
	}
	b, ok := value.(bool)
	if !ok {
		return nil, invalid(p.name, fmt.Sprintf("expected boolean, got %T", value))
	}
	return b, nil
}

// Number declares a float field with optional hard and soft bounds.
type Number struct {
	base
	bounds     *bounds
	softBounds *bounds
}

// NewNumber declares a float64 field.
func NewNumber(name string, options ...Option) *Number {
	s := newSettings(options)
	if !s.hasDefault {
		s.defaultValue = 0.0
	}
	if f, ok := toFloat(s.defaultValue); ok {
		s.defaultValue = f
	}
	return &Number{
		base:       newBase(name, KindNumber, s),
		bounds:     s.bounds,
		softBounds: s.softBounds,
	}
}

func (p *Number) Check(value any) (any, error) {
	if none, err := p.checkNone(value); none {
		return nil, err
	}
	f, ok := toFloat(value)
	if !ok {
		return nil, invalid(p.name, fmt.Sprintf("expected number, got %T", value))
	}
	if err := checkBounds(p.name, f, p.bounds); err != nil {
		return nil, err
	}
	if err := p.checkRules(f); err != nil {
		return nil, err
	}
	return f, nil
}

// SoftBounds returns the soft bounds, falling back to the hard bounds for
// any side that has no soft value.
func (p *Number) SoftBounds() (min, max *float64) {
	return softBounds(p.softBounds, p.bounds)
}

// Integer declares an int64 field.
type Integer struct {
	base
	bounds     *bounds
	softBounds *bounds
}

// NewInteger declares an int64 field.
func NewInteger(name string, options ...Option) *Integer {
	s := newSettings(options)
	if !s.hasDefault {
		s.defaultValue = int64(0)
	}
	if i, ok := toInt(s.defaultValue); ok {
		s.defaultValue = i
	}
	return &Integer{
		base:       newBase(name, KindInteger, s),
		bounds:     s.bounds,
		softBounds: s.softBounds,
	}
}

func (p *Integer) Check(value any) (any, error) {
	if none, err := p.checkNone(value); none {
		return nil, err
	}
	i, ok := toInt(value)
	if !ok {
		return nil, invalid(p.name, fmt.Sprintf("expected integer, got %v (%T)", value, value))
	}
	if err := checkBounds(p.name, float64(i), p.bounds); err != nil {
		return nil, err
	}
	if err := p.checkRules(i); err != nil {
		return nil, err
	}
	return i, nil
}

// SoftBounds mirrors Number.SoftBounds.
func (p *Integer) SoftBounds() (min, max *float64) {
	return softBounds(p.softBounds, p.bounds)
}

// ObjectSelector declares a field whose value must be one of objects.
type ObjectSelector struct {
	base
	objects []any
}

// NewObjectSelector declares a single-choice field. When no default is
// given the first object is used.
func NewObjectSelector(name string, options ...Option) *ObjectSelector {
	s := newSettings(options)
	if !s.hasDefault && len(s.objects) > 0 {
		s.defaultValue = s.objects[0]
	}
	return &ObjectSelector{
		base:    newBase(name, KindObjectSelector, s),
		objects: s.objects,
	}
}

func (p *ObjectSelector) Check(value any) (any, error) {
	if none, err := p.checkNone(value); none {
		return nil, err
	}
	for _, candidate := range p.objects {
		if sameValue(candidate, value) {
			return candidate, nil
		}
	}
	return nil, invalid(p.name, fmt.Sprintf("%v not in declared objects", value))
}

// Objects returns a copy of the allowed values.
func (p *ObjectSelector) Objects() []any {
	return append([]any(nil), p.objects...)
}

// Range returns the allowed values as named options.
func (p *ObjectSelector) Range() []NamedValue {
	return NamedObjects(p.objects)
}

// ListSelector declares a multi-choice field whose value is a subset of
// objects.
type ListSelector struct {
	base
	objects   []any
	itemLimit *int
}

// NewListSelector declares a multi-choice field. The default is an empty
// selection unless given.
func NewListSelector(name string, options ...Option) *ListSelector {
	s := newSettings(options)
	if !s.hasDefault {
		s.defaultValue = []any{}
	}
	if list, ok := toList(s.defaultValue); ok {
		s.defaultValue = list
	}
	return &ListSelector{
		base:      newBase(name, KindListSelector, s),
		objects:   s.objects,
		itemLimit: s.itemLimit,
	}
}

func (p *ListSelector) Check(value any) (any, error) {
	list, ok := toList(value)
	if !ok {
		if none, err := p.checkNone(value); none {
			return nil, err
		}
		return nil, invalid(p.name, fmt.Sprintf("expected list, got %T", value))
	}
	out := make([]any, 0, len(list))
	for _, item := range list {
		matched := false
		for _, candidate := range p.objects {
			if sameValue(candidate, item) {
				out = append(out, candidate)
				matched = true
				break
			}
		}
		if !matched {
			return nil, invalid(p.name, fmt.Sprintf("%v not in declared objects", item))
		}
	}
	return out, nil
}

// Range returns the allowed values as named options.
func (p *ListSelector) Range() []NamedValue {
	return NamedObjects(p.objects)
}

// ItemLimit returns the declared item limit, if any.
func (p *ListSelector) ItemLimit() (int, bool) {
	if p.itemLimit == nil {
		return 0, false
	}
	return *p.itemLimit, true
}

// Action declares a button-backed callable field.
type Action struct {
	base
}

// NewAction declares an action; fn runs when the button is pressed.
func NewAction(name string, fn ActionFunc, options ...Option) *Action {
	s := newSettings(options)
	s.defaultValue = fn
	s.allowNone = true
	return &Action{base: newBase(name, KindAction, s)}
}

func (p *Action) Check(value any) (any, error) {
	if isNil(value) {
		return nil, nil
	}
	switch fn := value.(type) {
	case ActionFunc:
		return fn, nil
	case func(*Object):
		return ActionFunc(fn), nil
	default:
		return nil, invalid(p.name, fmt.Sprintf("expected action func, got %T", value))
	}
}

// Output declares a display-only field that pushes rendered values to
// subscribers whenever it is set.
type Output struct {
	base
	render RenderFunc
}

// NewOutput declares a generic output field.
func NewOutput(name string, options ...Option) *Output {
	s := newSettings(options)
	s.allowNone = true
	return &Output{base: newBase(name, KindOutput, s), render: s.render}
}

// NewHTMLOutput declares an output whose value is an HTML fragment.
func NewHTMLOutput(name string, options ...Option) *Output {
	s := newSettings(options)
	s.allowNone = true
	return &Output{base: newBase(name, KindHTMLOutput, s), render: s.render}
}

func (p *Output) Check(value any) (any, error) {
	if isNil(value) {
		return nil, nil
	}
	if p.kind == KindHTMLOutput {
		if _, ok := value.(string); !ok {
			return nil, invalid(p.name, fmt.Sprintf("expected HTML string, got %T", value))
		}
	}
	return value, nil
}

// Render returns the display form of value.
func (p *Output) Render(value any) Rendered {
	if p.render != nil {
		return p.render(value)
	}
	return Rendered{Value: value}
}

func checkBounds(name string, value float64, b *bounds) error {
	if b == nil {
		return nil
	}
	if b.min != nil && value < *b.min {
		return invalid(name, fmt.Sprintf("%v below lower bound %v", value, *b.min))
	}
	if b.max != nil && value > *b.max {
		return invalid(name, fmt.Sprintf("%v above upper bound %v", value, *b.max))
	}
	return nil
}

func softBounds(soft, hard *bounds) (min, max *float64) {
	if hard != nil {
		min, max = hard.min, hard.max
	}
	if soft != nil {
		if soft.min != nil {
			min = soft.min
		}
		if soft.max != nil {
			max = soft.max
		}
	}
	return min, max
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Func, reflect.Map, reflect.Pointer, reflect.Interface, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
