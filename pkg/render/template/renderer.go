package template

// FilterFunc transforms a template value. param is nil when the filter is
// used without an argument.
type FilterFunc func(input any, param any) (any, error)

// TemplateRenderer is the contract the HTML renderer executes templates
// through. Data values should be plain strings, numbers, bools, maps and
// slices.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any) (string, error)
	RenderString(content string, data map[string]any) (string, error)
	RegisterFilter(name string, fn FilterFunc) error
}
