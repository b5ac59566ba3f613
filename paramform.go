// Package paramform binds parameter objects to reactive form controls and
// renders the result as HTML or drives it from a terminal.
package paramform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/param"
	"github.com/goliatone/go-paramform/pkg/renderers/html"
	"github.com/goliatone/go-paramform/pkg/renderers/tui"
)

type (
	// Object aliases param.Object for callers of the root package.
	Object = param.Object
	// Form aliases form.Form.
	Form = form.Form
	// Option aliases form.Option.
	Option = form.Option
)

// NewForm builds a form for obj.
func NewForm(obj *param.Object, options ...form.Option) (*form.Form, error) {
	return form.New(obj, options...)
}

// RenderHTML renders a snapshot of f with a fresh HTML renderer.
func RenderHTML(ctx context.Context, f *form.Form, options ...html.Option) ([]byte, error) {
	renderer, err := html.New(options...)
	if err != nil {
		return nil, fmt.Errorf("paramform: %w", err)
	}
	return renderer.Render(ctx, f)
}

// RunTerminal prompts for every control of f.
func RunTerminal(ctx context.Context, f *form.Form, options ...tui.Option) error {
	return tui.New(options...).Run(ctx, f)
}
