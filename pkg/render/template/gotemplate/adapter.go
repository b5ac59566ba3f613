// Package gotemplate executes the form templates with pongo2. Output is
// autoescaped; templates opt out per value with the safe filter.
package gotemplate

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-paramform/pkg/render/template"
)

// Option configures the engine.
type Option func(*config)

type config struct {
	dir     string
	files   fs.FS
	ext     string
	globals pongo2.Context
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.dir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from files. When a base dir is also set it is
// searched first.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.files = files
	}
}

// WithExtension sets the suffix appended to names that lack it.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			return
		}
		cfg.ext = "." + strings.TrimPrefix(ext, ".")
	}
}

// WithGlobals makes values visible to every template.
func WithGlobals(values map[string]any) Option {
	return func(cfg *config) {
		for key, value := range values {
			cfg.globals[key] = value
		}
	}
}

// Engine satisfies template.TemplateRenderer. Parsed templates are cached
// by path for the lifetime of the engine.
type Engine struct {
	set *pongo2.TemplateSet
	ext string

	mu    sync.Mutex
	cache map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New builds an engine over a base dir, an fs.FS or both.
func New(options ...Option) (*Engine, error) {
	cfg := config{ext: ".tmpl", globals: pongo2.Context{}}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.dir == "" && cfg.files == nil {
		return nil, errors.New("gotemplate: a base dir or fs.FS is required")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(cfg.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: base dir %q: %w", cfg.dir, err)
		}
		loaders = append(loaders, local)
	}
	if cfg.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.files))
	}

	set := pongo2.NewSet("paramform", loaders...)
	if set.Globals == nil {
		set.Globals = pongo2.Context{}
	}
	set.Globals.Update(cfg.globals)
	return &Engine{
		set:   set,
		ext:   cfg.ext,
		cache: make(map[string]*pongo2.Template),
	}, nil
}

// RenderTemplate executes the template stored at name.
func (e *Engine) RenderTemplate(name string, data map[string]any) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute %q: %w", name, err)
	}
	return out, nil
}

// RenderString parses and executes content without caching it.
func (e *Engine) RenderString(content string, data map[string]any) (string, error) {
	tmpl, err := e.set.FromString(content)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse: %w", err)
	}
	out, err := tmpl.Execute(pongo2.Context(data))
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute: %w", err)
	}
	return out, nil
}

// RegisterFilter adds fn under name. pongo2 filters are process wide, so
// registering a name twice fails.
func (e *Engine) RegisterFilter(name string, fn template.FilterFunc) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function are required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already registered", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var arg any
		if param != nil {
			arg = param.Interface()
		}
		result, err := fn(in.Interface(), arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

func (e *Engine) lookup(path string) (*pongo2.Template, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.cache[path]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load %q: %w", path, err)
	}
	e.cache[path] = tmpl
	return tmpl, nil
}
