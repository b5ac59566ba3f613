// Package render defines the contract form renderers satisfy and a registry
// to look them up by name.
package render

import (
	"context"

	"github.com/goliatone/go-paramform/pkg/form"
)

// Renderer converts a form's current state into a byte representation.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, f *form.Form) ([]byte, error)
}
