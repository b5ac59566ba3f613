// Package spec loads parameter object declarations from YAML or JSON.
//
//	type: Render
//	name: render settings
//	parameters:
//	  - name: width
//	    kind: integer
//	    default: 640
//	    bounds: [1, 4096]
//	  - name: format
//	    kind: object-selector
//	    objects: [png, svg]
package spec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-paramform/pkg/param"
)

// ErrUnsupportedKind is returned for kinds a declaration cannot express.
var ErrUnsupportedKind = errors.New("spec: unsupported kind")

// Declaration describes one parameter object.
type Declaration struct {
	Type       string      `yaml:"type" validate:"required"`
	Name       string      `yaml:"name"`
	Parameters []Parameter `yaml:"parameters" validate:"dive"`
}

// Parameter describes one field. Bounds hold [min, max]; null leaves a side
// open.
type Parameter struct {
	Name       string     `yaml:"name" validate:"required"`
	Kind       param.Kind `yaml:"kind" validate:"required"`
	Default    any        `yaml:"default"`
	Doc        string     `yaml:"doc"`
	Precedence *float64   `yaml:"precedence"`
	Constant   bool       `yaml:"constant"`
	AllowNone  bool       `yaml:"allow_none"`
	Bounds     []*float64 `yaml:"bounds" validate:"omitempty,len=2"`
	SoftBounds []*float64 `yaml:"soft_bounds" validate:"omitempty,len=2"`
	Objects    []any      `yaml:"objects"`
	Path       string     `yaml:"path"`
	Rules      string     `yaml:"rules"`
	ItemLimit  *int       `yaml:"item_limit"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load decodes a declaration and builds its object. Unknown keys are
// rejected.
func Load(data []byte, options ...param.ObjectOption) (*param.Object, error) {
	decl, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return decl.Build(options...)
}

// LoadFile reads path and calls Load.
func LoadFile(path string, options ...param.ObjectOption) (*param.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec: read %s: %w", path, err)
	}
	return Load(data, options...)
}

// Decode parses and validates a declaration without building it.
func Decode(r io.Reader) (*Declaration, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var decl Declaration
	if err := dec.Decode(&decl); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("spec: declaration is empty")
		}
		return nil, fmt.Errorf("spec: decode: %w", err)
	}
	if err := validate.Struct(decl); err != nil {
		return nil, fmt.Errorf("spec: invalid declaration: %w", err)
	}
	return &decl, nil
}

// Build creates the object. The declared name, if any, is applied before
// options so WithName can still override it.
func (d *Declaration) Build(options ...param.ObjectOption) (*param.Object, error) {
	descriptors := make([]param.Descriptor, 0, len(d.Parameters))
	for _, p := range d.Parameters {
		desc, err := p.descriptor()
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, desc)
	}

	var objOptions []param.ObjectOption
	if d.Name != "" {
		objOptions = append(objOptions, param.WithName(d.Name))
	}
	obj, err := param.New(d.Type, descriptors, append(objOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("spec: %w", err)
	}
	return obj, nil
}

func (p Parameter) descriptor() (param.Descriptor, error) {
	options := p.options()
	switch p.Kind {
	case param.KindParameter:
		return param.NewParameter(p.Name, options...), nil
	case param.KindString:
		return param.NewString(p.Name, options...), nil
	case param.KindBoolean:
		return param.NewBoolean(p.Name, options...), nil
	case param.KindNumber:
		return param.NewNumber(p.Name, options...), nil
	case param.KindInteger:
		return param.NewInteger(p.Name, options...), nil
	case param.KindSelector, param.KindObjectSelector:
		return param.NewObjectSelector(p.Name, options...), nil
	case param.KindListSelector:
		return param.NewListSelector(p.Name, options...), nil
	case param.KindFileSelector:
		if p.Path == "" {
			return nil, fmt.Errorf("spec: %s: file-selector needs a path", p.Name)
		}
		return param.NewFileSelector(p.Name, p.Path, options...), nil
	case param.KindOutput:
		return param.NewOutput(p.Name, options...), nil
	case param.KindHTMLOutput:
		return param.NewHTMLOutput(p.Name, options...), nil
	default:
		return nil, fmt.Errorf("%w %q for %s", ErrUnsupportedKind, p.Kind, p.Name)
	}
}

func (p Parameter) options() []param.Option {
	var options []param.Option
	if p.Default != nil {
		options = append(options, param.WithDefault(p.Default))
	}
	if p.Doc != "" {
		options = append(options, param.WithDoc(p.Doc))
	}
	if p.Precedence != nil {
		options = append(options, param.WithPrecedence(*p.Precedence))
	}
	if p.Constant {
		options = append(options, param.Constant())
	}
	if p.AllowNone {
		options = append(options, param.AllowNone())
	}
	if len(p.Bounds) == 2 {
		options = append(options, param.WithBounds(p.Bounds[0], p.Bounds[1]))
	}
	if len(p.SoftBounds) == 2 {
		options = append(options, param.WithSoftBounds(p.SoftBounds[0], p.SoftBounds[1]))
	}
	if len(p.Objects) > 0 {
		options = append(options, param.WithObjects(p.Objects...))
	}
	if p.Rules != "" {
		options = append(options, param.WithRules(p.Rules))
	}
	if p.ItemLimit != nil {
		options = append(options, param.WithItemLimit(*p.ItemLimit))
	}
	return options
}
