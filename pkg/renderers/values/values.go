// Package values renders a form's object values as YAML or JSON.
package values

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
	"github.com/goliatone/go-paramform/pkg/render"
)

// Format selects the encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Renderer encodes every serializable field of the form's object.
type Renderer struct {
	format Format
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer for format.
func New(format Format) (*Renderer, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return &Renderer{format: format}, nil
	default:
		return nil, fmt.Errorf("values: unsupported format %q", format)
	}
}

func (r *Renderer) Name() string {
	return string(r.format)
}

func (r *Renderer) ContentType() string {
	if r.format == FormatJSON {
		return "application/json"
	}
	return "application/yaml"
}

// Render encodes the current values. Callable fields are left out.
func (r *Renderer) Render(ctx context.Context, f *form.Form) ([]byte, error) {
	if f == nil {
		return nil, errors.New("values: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := Map(f.Object())
	if r.format == FormatJSON {
		out, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("values: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("values: encode yaml: %w", err)
	}
	return out, nil
}

// Map copies the object's serializable values.
func Map(obj *param.Object) map[string]any {
	out := make(map[string]any)
	for _, name := range obj.Names() {
		d, _ := obj.Descriptor(name)
		if param.IsA(d.Kind(), param.KindCallable) {
			continue
		}
		out[name] = obj.Value(name)
	}
	return out
}
