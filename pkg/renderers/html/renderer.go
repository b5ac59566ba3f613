// Package html renders a form's control tree as a static HTML snapshot.
package html

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-paramform/pkg/controls"
	"github.com/goliatone/go-paramform/pkg/form"
	"github.com/goliatone/go-paramform/pkg/render"
	rendertemplate "github.com/goliatone/go-paramform/pkg/render/template"
	"github.com/goliatone/go-paramform/pkg/render/template/gotemplate"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	newID            func() string
}

// WithTemplatesFS supplies an alternate template bundle. It must provide the
// same templates/*.tmpl names as the built-in one.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme adds the theme name, variant and CSS variables to the output.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithIDGenerator replaces the uuid form id generator.
func WithIDGenerator(fn func() string) Option {
	return func(cfg *config) {
		if fn != nil {
			cfg.newID = fn
		}
	}
}

// Renderer turns a form into HTML through the template engine.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	newID     func() string
	output    *bluemonday.Policy
	text      *bluemonday.Policy
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer applying options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), newID: uuid.NewString}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		theme:     cfg.theme,
		newID:     cfg.newID,
		output:    bluemonday.UGCPolicy(),
		text:      bluemonday.StrictPolicy(),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the HTML snapshot of f's current state.
func (r *Renderer) Render(ctx context.Context, f *form.Form) ([]byte, error) {
	if f == nil {
		return nil, errors.New("html renderer: form is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}

	id := r.newID()
	body, err := r.renderChildren(id, f.Nodes())
	if err != nil {
		return nil, err
	}

	data := map[string]any{
		"id":          id,
		"object":      f.Object().Name(),
		"orientation": string(f.Root().Orientation()),
		"label_width": f.LabelWidth(),
		"body":        body,
	}
	if r.theme != nil {
		data["theme"] = r.theme.Theme
		data["variant"] = r.theme.Variant
		data["theme_css"] = cssVarsStyle("#"+id, r.theme.CSSVars)
	}

	out, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render form: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) renderChildren(formID string, nodes []controls.Control) (string, error) {
	var b strings.Builder
	for _, node := range nodes {
		html, err := r.renderNode(formID, node)
		if err != nil {
			return "", err
		}
		b.WriteString(html)
	}
	return b.String(), nil
}

func (r *Renderer) renderNode(formID string, node controls.Control) (string, error) {
	switch n := node.(type) {
	case *controls.Label:
		if n.Heading() {
			return r.execute("heading", map[string]any{"text": n.Text()})
		}
		return r.execute("label", map[string]any{
			"text":    n.Text(),
			"tooltip": r.text.Sanitize(n.Tooltip()),
			"width":   n.Width(),
		})
	case controls.Container:
		children := make([]any, 0, len(n.Children()))
		for _, child := range n.Children() {
			html, err := r.renderNode(formID, child)
			if err != nil {
				return "", err
			}
			children = append(children, html)
		}
		return r.execute("box", map[string]any{
			"orientation": string(n.Orientation()),
			"children":    children,
		})
	default:
		return r.execute("control", r.controlData(formID, node))
	}
}

func (r *Renderer) controlData(formID string, ctrl controls.Control) map[string]any {
	data := map[string]any{
		"kind":  string(ctrl.Kind()),
		"id":    formID + "-" + ctrl.Name(),
		"name":  ctrl.Name(),
		"value": displayValue(ctrl.Value()),
	}
	if described, ok := ctrl.(controls.Described); ok {
		data["tooltip"] = r.text.Sanitize(described.Tooltip())
		data["description"] = described.Description()
	}

	switch ctrl.Kind() {
	case controls.KindCheckbox:
		checked, _ := ctrl.Value().(bool)
		data["checked"] = checked
	case controls.KindIntSlider, controls.KindIntText:
		data["step"] = "1"
	case controls.KindFloatSlider, controls.KindFloatText:
		data["step"] = "any"
	case controls.KindSelectMultiple, controls.KindCrossSelect:
		data["multiple"] = true
	case controls.KindActiveHTML:
		data["value"] = r.output.Sanitize(displayValue(ctrl.Value()))
		data["style"] = sizeStyle(ctrl.Layout())
	}
	if bounded, ok := ctrl.(controls.Bounded); ok {
		min, max := bounded.Bounds()
		data["min"] = formatBound(min)
		data["max"] = formatBound(max)
	}
	if holder, ok := ctrl.(controls.OptionHolder); ok {
		data["options"] = optionData(holder, ctrl.Value())
	}
	return data
}

func (r *Renderer) execute(name string, data map[string]any) (string, error) {
	out, err := r.templates.RenderTemplate("templates/"+name+".tmpl", data)
	if err != nil {
		return "", fmt.Errorf("html renderer: render %s: %w", name, err)
	}
	return out, nil
}

func optionData(holder controls.OptionHolder, value any) []any {
	selected := map[string]struct{}{}
	if items, ok := value.([]any); ok {
		for _, item := range items {
			selected[displayValue(item)] = struct{}{}
		}
	} else if value != nil {
		selected[displayValue(value)] = struct{}{}
	}

	options := holder.Options()
	out := make([]any, 0, len(options))
	for _, opt := range options {
		_, isSelected := selected[displayValue(opt.Value)]
		out = append(out, map[string]any{
			"name":     opt.Name,
			"selected": isSelected,
		})
	}
	return out
}

func displayValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func formatBound(bound *float64) string {
	if bound == nil {
		return ""
	}
	return strconv.FormatFloat(*bound, 'g', -1, 64)
}

func sizeStyle(layout *controls.Layout) string {
	if layout == nil {
		return ""
	}
	var parts []string
	if layout.MinWidth != "" {
		parts = append(parts, "min-width: "+layout.MinWidth+";")
	}
	if layout.MinHeight != "" {
		parts = append(parts, "min-height: "+layout.MinHeight+";")
	}
	if layout.Margin != "" {
		parts = append(parts, "margin: "+layout.Margin+";")
	}
	return strings.Join(parts, " ")
}

func cssVarsStyle(selector string, vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
