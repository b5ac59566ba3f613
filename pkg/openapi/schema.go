package openapi

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-paramform/pkg/param"
)

var (
	// ErrComponentNotFound is returned when the requested schema is missing.
	ErrComponentNotFound = errors.New("openapi: component schema not found")
	// ErrNotAnObject is returned when the component has no properties.
	ErrNotAnObject = errors.New("openapi: component schema has no properties")
)

// Components lists the component schema names of the document, sorted.
func Components(ctx context.Context, data []byte, options ...Option) ([]string, error) {
	doc, err := load(ctx, data, newConfig(options))
	if err != nil {
		return nil, err
	}
	if doc.Components == nil {
		return nil, nil
	}
	names := make([]string, 0, len(doc.Components.Schemas))
	for name := range doc.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ObjectFromSchema loads the document and declares one field per property of
// the named component schema. Properties the mapping does not understand are
// skipped with a debug event.
func ObjectFromSchema(ctx context.Context, data []byte, component string, options ...Option) (*param.Object, error) {
	cfg := newConfig(options)
	doc, err := load(ctx, data, cfg)
	if err != nil {
		return nil, err
	}

	var ref *openapi3.SchemaRef
	if doc.Components != nil {
		ref = doc.Components.Schemas[component]
	}
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, component)
	}
	schema := ref.Value
	if len(schema.Properties) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotAnObject, component)
	}

	var descriptors []param.Descriptor
	for _, name := range orderedProperties(schema.Properties) {
		prop := schema.Properties[name].Value
		d, err := descriptorFor(name, prop)
		if err != nil {
			cfg.logger.Debug().
				Str("component", component).
				Str("property", name).
				Err(err).
				Msg("property skipped")
			continue
		}
		descriptors = append(descriptors, d)
	}

	objOptions := []param.ObjectOption{param.WithLogger(cfg.logger)}
	if schema.Title != "" {
		objOptions = append(objOptions, param.WithName(schema.Title))
	}
	obj, err := param.New(component, descriptors, objOptions...)
	if err != nil {
		return nil, fmt.Errorf("openapi: build %s: %w", component, err)
	}
	return obj, nil
}

func load(ctx context.Context, data []byte, cfg config) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return doc, nil
}

// orderedProperties sorts by the order extension, then by name. Properties
// without the extension come last.
func orderedProperties(props openapi3.Schemas) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	rank := func(name string) float64 {
		if ref := props[name]; ref != nil && ref.Value != nil {
			if order, ok := toFloat(ref.Value.Extensions[ExtensionOrder]); ok {
				return order
			}
		}
		return math.Inf(1)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, rj := rank(names[i]), rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
	return names
}

func descriptorFor(name string, schema *openapi3.Schema) (param.Descriptor, error) {
	if schema == nil {
		return nil, errors.New("unresolved reference")
	}

	options := commonOptions(schema)
	kind, _ := schema.Extensions[ExtensionKind].(string)
	switch param.Kind(kind) {
	case param.KindHTMLOutput:
		return param.NewHTMLOutput(name, options...), nil
	case param.KindOutput:
		return param.NewOutput(name, options...), nil
	case "":
	default:
		return nil, fmt.Errorf("unsupported %s %q", ExtensionKind, kind)
	}

	typ := schemaType(schema.Type)
	if len(schema.Enum) > 0 && typ != openapi3.TypeArray {
		options = append(options, param.WithObjects(schema.Enum...))
		return param.NewObjectSelector(name, options...), nil
	}

	switch typ {
	case openapi3.TypeBoolean:
		return param.NewBoolean(name, options...), nil
	case openapi3.TypeInteger:
		return param.NewInteger(name, append(options, param.WithBounds(schema.Min, schema.Max))...), nil
	case openapi3.TypeNumber:
		return param.NewNumber(name, append(options, param.WithBounds(schema.Min, schema.Max))...), nil
	case openapi3.TypeString:
		if rules := stringRules(schema); rules != "" {
			options = append(options, param.WithRules(rules))
		}
		return param.NewString(name, options...), nil
	case openapi3.TypeArray:
		if schema.Items == nil || schema.Items.Value == nil || len(schema.Items.Value.Enum) == 0 {
			return param.NewParameter(name, options...), nil
		}
		options = append(options, param.WithObjects(schema.Items.Value.Enum...))
		if limit, ok := toFloat(schema.Extensions[ExtensionItemLimit]); ok {
			options = append(options, param.WithItemLimit(int(limit)))
		}
		return param.NewListSelector(name, options...), nil
	case "":
		return param.NewParameter(name, options...), nil
	default:
		return nil, fmt.Errorf("unsupported type %q", typ)
	}
}

func commonOptions(schema *openapi3.Schema) []param.Option {
	var options []param.Option
	if schema.Description != "" {
		options = append(options, param.WithDoc(schema.Description))
	}
	if schema.Default != nil {
		options = append(options, param.WithDefault(schema.Default))
	}
	if schema.ReadOnly {
		options = append(options, param.Constant())
	}
	if precedence, ok := toFloat(schema.Extensions[ExtensionPrecedence]); ok {
		options = append(options, param.WithPrecedence(precedence))
	}
	return options
}

func stringRules(schema *openapi3.Schema) string {
	var rules []string
	if schema.MinLength > 0 {
		rules = append(rules, fmt.Sprintf("min=%d", schema.MinLength))
	}
	if schema.MaxLength != nil {
		rules = append(rules, fmt.Sprintf("max=%d", *schema.MaxLength))
	}
	switch schema.Format {
	case "email":
		rules = append(rules, "email")
	case "uri", "url":
		rules = append(rules, "url")
	case "uuid":
		rules = append(rules, "uuid")
	}
	if len(rules) == 0 {
		return ""
	}
	if schema.MinLength == 0 {
		rules = append([]string{"omitempty"}, rules...)
	}
	return strings.Join(rules, ",")
}

// schemaType returns the first non-null type.
func schemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	for _, t := range types.Slice() {
		if t != "null" {
			return t
		}
	}
	return ""
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}
