package paramform

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/overrides"
)

// Request describes a form to build from a declaration.
type Request struct {
	Source Source
	// Overrides configure the initialization overrides applied before
	// layout. The PARAMFORM_INIT variable is read by default.
	Overrides []overrides.Option
	Form      []form.Option
	Logger    *zerolog.Logger
}

// Build loads the object, applies overrides and binds the form.
func Build(ctx context.Context, req Request) (*form.Form, error) {
	logger := zerolog.Nop()
	if req.Logger != nil {
		logger = *req.Logger
	}
	obj, err := LoadObject(ctx, req.Source, logger)
	if err != nil {
		return nil, err
	}
	init := overrides.New(req.Overrides...)
	options := append([]form.Option{form.WithInitializer(init.Func())}, req.Form...)
	return form.New(obj, options...)
}
