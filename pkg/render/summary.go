package render

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/record"
	"github.com/goliatone/go-scouting/pkg/render/template"
	"github.com/goliatone/go-scouting/pkg/render/template/gotemplate"
	"github.com/goliatone/go-scouting/pkg/values"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

const (
	summaryTemplate = "summary"
	otherSection    = "Other"
	missingValue    = "-"
)

// TextOption configures a TextFormatter.
type TextOption func(*textConfig)

type textConfig struct {
	templateDir string
	globals     map[string]any
}

// WithTemplateDir loads templates from dir before the embedded set, so a
// summary.tpl there replaces the bundled one.
func WithTemplateDir(dir string) TextOption {
	return func(cfg *textConfig) {
		cfg.templateDir = dir
	}
}

// WithGlobals exposes extra values, such as the stored file name, to every
// template the formatter renders.
func WithGlobals(data map[string]any) TextOption {
	return func(cfg *textConfig) {
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[key] = value
		}
	}
}

// TextFormatter renders a human readable summary grouped by layout category.
type TextFormatter struct {
	engine template.TemplateRenderer
}

// NewTextFormatter builds the summary formatter.
func NewTextFormatter(options ...TextOption) (*TextFormatter, error) {
	cfg := textConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("render: embedded templates: %w", err)
	}
	engineOpts := []gotemplate.Option{gotemplate.WithFS(templates)}
	if cfg.templateDir != "" {
		engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templateDir))
	}
	engine, err := gotemplate.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return newTextFormatter(engine, cfg.globals)
}

func newTextFormatter(engine template.TemplateRenderer, globals map[string]any) (*TextFormatter, error) {
	filters := map[string]template.Filter{
		"display":  filterDisplay,
		"padright": filterPadRight,
	}
	for name, fn := range filters {
		if err := engine.RegisterFilter(name, fn); err != nil {
			return nil, fmt.Errorf("render: filter %s: %w", name, err)
		}
	}
	if err := engine.GlobalContext(globals); err != nil {
		return nil, fmt.Errorf("render: globals: %w", err)
	}
	return &TextFormatter{engine: engine}, nil
}

func (f *TextFormatter) Name() string        { return "text" }
func (f *TextFormatter) ContentType() string { return "text/plain" }

// Format renders rec. Responses are grouped under the category that declares
// them; responses the layout does not know are listed under "Other" by id.
func (f *TextFormatter) Format(rec record.Record, screen layout.Screen) ([]byte, error) {
	out, err := f.engine.RenderTemplate(summaryTemplate, summaryContext(rec, screen))
	if err != nil {
		return nil, fmt.Errorf("render: summary: %w", err)
	}
	return []byte(out), nil
}

// Summary renders rec with the bundled text template.
func Summary(rec record.Record, screen layout.Screen) (string, error) {
	f, err := NewTextFormatter()
	if err != nil {
		return "", err
	}
	out, err := f.Format(rec, screen)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// JSONFormatter emits the stored record encoding.
type JSONFormatter struct{}

func (JSONFormatter) Name() string        { return "json" }
func (JSONFormatter) ContentType() string { return "application/json" }

func (JSONFormatter) Format(rec record.Record, _ layout.Screen) ([]byte, error) {
	return record.Encode(rec)
}

func summaryContext(rec record.Record, screen layout.Screen) map[string]any {
	width := 0
	seen := make(map[string]bool, rec.Responses.Len())
	entry := func(label string, v values.Value, ok bool) map[string]any {
		if n := utf8.RuneCountInString(label); n > width {
			width = n
		}
		if !ok {
			v = values.Value{}
		}
		return map[string]any{"label": label, "value": v}
	}

	sections := make([]map[string]any, 0, len(screen.Categories)+1)
	for _, category := range screen.Categories {
		var entries []map[string]any
		for _, row := range category.Rows {
			for _, widget := range row.Widgets {
				v, ok := rec.Responses.Get(widget.ID)
				seen[widget.ID] = true
				label := widget.Label
				if label == "" {
					label = widget.ID
				}
				entries = append(entries, entry(label, v, ok))
			}
		}
		if len(entries) > 0 {
			sections = append(sections, map[string]any{"title": category.Title, "entries": entries})
		}
	}

	var extra []map[string]any
	rec.Responses.Each(func(id string, v values.Value) {
		if !seen[id] {
			extra = append(extra, entry(id, v, true))
		}
	})
	if len(extra) > 0 {
		sections = append(sections, map[string]any{"title": otherSection, "entries": extra})
	}

	return map[string]any{
		"header":   rec.Header,
		"sections": sections,
		"width":    width,
	}
}

// filterDisplay prints a response: yes/no for booleans, "-" when the record
// has no value.
func filterDisplay(input any, _ any) (any, error) {
	v, ok := input.(values.Value)
	if !ok {
		return fmt.Sprint(input), nil
	}
	if !v.IsValid() {
		return missingValue, nil
	}
	if b, ok := v.AsBool(); ok {
		if b {
			return "yes", nil
		}
		return "no", nil
	}
	return v.String(), nil
}

// filterPadRight pads to the rune width given as parameter.
func filterPadRight(input any, param any) (any, error) {
	s := fmt.Sprint(input)
	width, ok := param.(int)
	if !ok {
		return nil, fmt.Errorf("padright: width must be an integer, got %T", param)
	}
	if n := utf8.RuneCountInString(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s, nil
}
