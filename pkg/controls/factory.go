package controls

import (
	"fmt"
	"math"

	"github.com/goliatone/go-paramform/pkg/param"
)

// DefaultItemLimit is the number of options above which list selectors use
// a CrossSelect.
const DefaultItemLimit = 20

// NoItemLimit disables the CrossSelect switch.
const NoItemLimit = math.MaxInt

// Props is the keyword set handed to a factory.
type Props struct {
	Name        string
	Value       any
	Tooltip     string
	Description string
	Options     []param.NamedValue
	Min         *float64
	Max         *float64
	// ItemLimit overrides the factory's item limit for list selectors.
	ItemLimit *int
	Layout    *Layout
}

// Factory builds a control from props.
type Factory func(props Props) (Control, error)

// TextWidget builds a Text input.
func TextWidget(props Props) (Control, error) {
	return NewText(props), nil
}

// HTMLWidget builds the non-editable display used for constant fields.
func HTMLWidget(props Props) (Control, error) {
	return NewHTML(props), nil
}

// CheckboxWidget builds a Checkbox.
func CheckboxWidget(props Props) (Control, error) {
	if _, ok := props.Value.(bool); !ok && props.Value != nil {
		return nil, fmt.Errorf("controls: %s: checkbox value %T is not a boolean", props.Name, props.Value)
	}
	return NewCheckbox(props), nil
}

// DropdownWidget builds a Dropdown over props.Options.
func DropdownWidget(props Props) (Control, error) {
	return NewDropdown(props), nil
}

// FloatWidget builds a slider when both bounds are known and a numeric text
// input otherwise.
func FloatWidget(props Props) (Control, error) {
	if props.Min != nil && props.Max != nil {
		return NewFloatSlider(props), nil
	}
	return NewFloatText(props), nil
}

// IntegerWidget mirrors FloatWidget for integers.
func IntegerWidget(props Props) (Control, error) {
	if props.Min != nil && props.Max != nil {
		return NewIntSlider(props), nil
	}
	return NewIntText(props), nil
}

// ListSelectorWidget returns a factory that builds a SelectMultiple, or a
// CrossSelect when the options exceed limit. A negative limit always builds
// a CrossSelect. Props.ItemLimit takes precedence over limit.
func ListSelectorWidget(limit int) Factory {
	return func(props Props) (Control, error) {
		effective := limit
		if props.ItemLimit != nil {
			effective = *props.ItemLimit
		}
		if effective < 0 || len(props.Options) > effective {
			return NewCrossSelect(props), nil
		}
		return NewSelectMultiple(props), nil
	}
}

// ActionButton builds a Button that invokes props.Value when clicked. The
// button is labelled with the field name.
func ActionButton(props Props) (Control, error) {
	var action func()
	switch fn := props.Value.(type) {
	case nil:
	case func():
		action = fn
	default:
		return nil, fmt.Errorf("controls: %s: action value %T is not a func()", props.Name, props.Value)
	}
	props.Description = props.Name
	button := NewButton(props)
	if action != nil {
		button.OnClick(action)
	}
	return button, nil
}

// ActiveHTMLWidget builds the display used for output fields.
func ActiveHTMLWidget(props Props) (Control, error) {
	return NewActiveHTML(props), nil
}
