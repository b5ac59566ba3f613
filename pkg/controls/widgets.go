package controls

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-paramform/pkg/param"
)

// Text is a single line text input.
type Text struct {
	widget
}

// NewText builds an editable text input. Non-string values are formatted.
func NewText(props Props) *Text {
	props.Value = asText(props.Value)
	t := &Text{widget: newWidget(KindText, props, true)}
	t.coerce = func(value any) (any, error) {
		return asText(value), nil
	}
	return t
}

// HTML is a read-only text fragment.
type HTML struct {
	widget
}

// NewHTML builds a non-editable display control.
func NewHTML(props Props) *HTML {
	props.Value = asText(props.Value)
	return &HTML{widget: newWidget(KindHTML, props, false)}
}

// Checkbox is a boolean toggle.
type Checkbox struct {
	widget
}

// NewCheckbox builds a boolean toggle.
func NewCheckbox(props Props) *Checkbox {
	c := &Checkbox{widget: newWidget(KindCheckbox, props, true)}
	c.coerce = func(value any) (any, error) {
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidInput, v)
			}
			return b, nil
		}
		return nil, fmt.Errorf("%w: %T is not a boolean", ErrInvalidInput, value)
	}
	return c
}

type numeric struct {
	widget
	min *float64
	max *float64
}

// Bounds returns the slider range.
func (n *numeric) Bounds() (min, max *float64) {
	return n.min, n.max
}

// FloatSlider is a bounded float input.
type FloatSlider struct {
	numeric
}

// FloatText is an unbounded float input.
type FloatText struct {
	widget
}

// IntSlider is a bounded integer input.
type IntSlider struct {
	numeric
}

// IntText is an unbounded integer input.
type IntText struct {
	widget
}

func coerceFloat(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	f, ok := asFloat(value)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not a number", ErrInvalidInput, value)
	}
	return f, nil
}

func coerceInt(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	i, ok := asInt(value)
	if !ok {
		return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidInput, value)
	}
	return i, nil
}

// NewFloatSlider builds a slider between min and max.
func NewFloatSlider(props Props) *FloatSlider {
	s := &FloatSlider{numeric{widget: newWidget(KindFloatSlider, props, true), min: props.Min, max: props.Max}}
	s.coerce = coerceFloat
	return s
}

// NewFloatText builds a numeric text input.
func NewFloatText(props Props) *FloatText {
	t := &FloatText{widget: newWidget(KindFloatText, props, true)}
	t.coerce = coerceFloat
	return t
}

// NewIntSlider builds an integer slider between min and max.
func NewIntSlider(props Props) *IntSlider {
	s := &IntSlider{numeric{widget: newWidget(KindIntSlider, props, true), min: props.Min, max: props.Max}}
	s.coerce = coerceInt
	return s
}

// NewIntText builds an integer text input.
func NewIntText(props Props) *IntText {
	t := &IntText{widget: newWidget(KindIntText, props, true)}
	t.coerce = coerceInt
	return t
}

// choice holds the option list shared by selection controls.
type choice struct {
	widget
	options []param.NamedValue
}

func (c *choice) Options() []param.NamedValue {
	return append([]param.NamedValue(nil), c.options...)
}

func (c *choice) SetOptions(options []param.NamedValue) {
	c.options = append([]param.NamedValue(nil), options...)
}

// AddOptions appends options whose name is not already present.
func (c *choice) AddOptions(options ...param.NamedValue) {
	for _, opt := range options {
		if _, exists := c.byName(opt.Name); exists {
			continue
		}
		c.options = append(c.options, opt)
	}
}

func (c *choice) byName(name string) (param.NamedValue, bool) {
	for _, opt := range c.options {
		if opt.Name == name {
			return opt, true
		}
	}
	return param.NamedValue{}, false
}

// resolve maps value to an option, matching on the option value first and
// the option name second.
func (c *choice) resolve(value any) (any, error) {
	for _, opt := range c.options {
		if sameValue(opt.Value, value) {
			return opt.Value, nil
		}
	}
	if name, ok := value.(string); ok {
		if opt, found := c.byName(name); found {
			return opt.Value, nil
		}
	}
	return nil, fmt.Errorf("%w: %v is not an option of %s", ErrInvalidInput, value, c.name)
}

func (c *choice) resolveList(value any) (any, error) {
	items, ok := asList(value)
	if !ok {
		return nil, fmt.Errorf("%w: %T is not a list", ErrInvalidInput, value)
	}
	out := make([]any, 0, len(items))
	for _, item := range items {
		resolved, err := c.resolve(item)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

// Dropdown selects a single option.
type Dropdown struct {
	choice
}

// NewDropdown builds a single choice control over props.Options.
func NewDropdown(props Props) *Dropdown {
	d := &Dropdown{choice{widget: newWidget(KindDropdown, props, true), options: props.Options}}
	d.coerce = d.resolve
	return d
}

// SelectMultiple selects any subset of options from a single list.
type SelectMultiple struct {
	choice
}

// NewSelectMultiple builds a multi choice list.
func NewSelectMultiple(props Props) *SelectMultiple {
	s := &SelectMultiple{choice{widget: newWidget(KindSelectMultiple, props, true), options: props.Options}}
	s.coerce = s.resolveList
	return s
}

// CrossSelect selects a subset through a two-pane available/selected layout.
type CrossSelect struct {
	choice
}

// NewCrossSelect builds a two-pane multi choice control.
func NewCrossSelect(props Props) *CrossSelect {
	s := &CrossSelect{choice{widget: newWidget(KindCrossSelect, props, true), options: props.Options}}
	s.coerce = s.resolveList
	return s
}

// Available returns the options that are not selected.
func (s *CrossSelect) Available() []param.NamedValue {
	selected, _ := asList(s.value)
	out := make([]param.NamedValue, 0, len(s.options))
	for _, opt := range s.options {
		picked := false
		for _, item := range selected {
			if sameValue(opt.Value, item) {
				picked = true
				break
			}
		}
		if !picked {
			out = append(out, opt)
		}
	}
	return out
}

// Button runs its click handlers when pressed.
type Button struct {
	widget
	handlers []func()
}

// NewButton builds a button labelled with props.Description.
func NewButton(props Props) *Button {
	props.Value = nil
	return &Button{widget: newWidget(KindButton, props, false)}
}

func (b *Button) OnClick(fn func()) {
	if fn != nil {
		b.handlers = append(b.handlers, fn)
	}
}

func (b *Button) Click() {
	for _, fn := range append([]func(){}, b.handlers...) {
		fn()
	}
}

// ActiveHTML displays rendered output pushed from the object.
type ActiveHTML struct {
	widget
}

// NewActiveHTML builds an output display.
func NewActiveHTML(props Props) *ActiveHTML {
	return &ActiveHTML{widget: newWidget(KindActiveHTML, props, false)}
}

// Box groups children in a row or a column.
type Box struct {
	widget
	children    []Control
	orientation Orientation
}

// NewBox groups children. An empty orientation defaults to Column.
func NewBox(orientation Orientation, children ...Control) *Box {
	if orientation == "" {
		orientation = Column
	}
	return &Box{
		widget:      newWidget(KindBox, Props{}, false),
		children:    append([]Control(nil), children...),
		orientation: orientation,
	}
}

func (b *Box) Children() []Control {
	return append([]Control(nil), b.children...)
}

func (b *Box) Orientation() Orientation {
	return b.orientation
}

// Label is the caption rendered next to a control, or the form heading.
type Label struct {
	widget
	width   string
	heading bool
}

// NewLabel builds a caption. Width is a CSS size applied by hosts.
func NewLabel(text, tooltip, width string) *Label {
	return &Label{
		widget: newWidget(KindLabel, Props{Value: text, Tooltip: tooltip}, false),
		width:  width,
	}
}

// NewHeading builds the bold caption carrying the object name.
func NewHeading(text string) *Label {
	l := NewLabel(text, "", "")
	l.heading = true
	return l
}

func (l *Label) Text() string {
	return asText(l.value)
}

func (l *Label) Width() string {
	return l.width
}

func (l *Label) Heading() bool {
	return l.heading
}

func asText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

func asInt(value any) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i, err == nil
	}
	f, ok := asFloat(value)
	if !ok || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func asList(value any) ([]any, bool) {
	switch v := value.(type) {
	case nil:
		return []any{}, true
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func sameValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	_, aStr := a.(string)
	_, bStr := b.(string)
	return aok && bok && !aStr && !bStr && af == bf
}
