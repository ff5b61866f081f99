package template

import "io"

// Filter transforms a value inside a template expression. param is nil when
// the template passes no argument.
type Filter func(input any, param any) (any, error)

// TemplateRenderer renders named templates. Globals set through
// GlobalContext are visible to every template; per call data wins on key
// clashes.
type TemplateRenderer interface {
	RenderTemplate(name string, data map[string]any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn Filter) error
	GlobalContext(data map[string]any) error
}
