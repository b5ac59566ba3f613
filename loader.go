package paramform

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-paramform/pkg/openapi"
	"github.com/goliatone/go-paramform/pkg/param"
	"github.com/goliatone/go-paramform/pkg/spec"
)

// ErrNoSource is returned when a Source names neither a declaration nor an
// OpenAPI document.
var ErrNoSource = errors.New("paramform: no declaration or openapi source")

// Source locates the declaration an object is built from. Declaration wins
// when both paths are set.
type Source struct {
	// Declaration is a YAML or JSON declaration file.
	Declaration string
	// OpenAPI is an OpenAPI document; Component names the schema to map.
	OpenAPI   string
	Component string
}

// LoadObject builds the object described by src. The object's warnings go
// to logger.
func LoadObject(ctx context.Context, src Source, logger zerolog.Logger) (*param.Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch {
	case src.Declaration != "":
		return spec.LoadFile(src.Declaration, param.WithLogger(logger))
	case src.OpenAPI != "":
		if src.Component == "" {
			return nil, errors.New("paramform: openapi source needs a component")
		}
		data, err := os.ReadFile(src.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("paramform: read %s: %w", src.OpenAPI, err)
		}
		return openapi.ObjectFromSchema(ctx, data, src.Component, openapi.WithLogger(logger))
	default:
		return nil, ErrNoSource
	}
}
