package layout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"gopkg.in/yaml.v3"
)

type screenFile struct {
	ID         string          `json:"screenId" yaml:"screenId"`
	Title      string          `json:"title" yaml:"title"`
	Categories *[]categoryFile `json:"categories" yaml:"categories"`
}

type categoryFile struct {
	ID    string     `json:"id" yaml:"id"`
	Title string     `json:"title" yaml:"title"`
	Rows  *[]rowFile `json:"rows" yaml:"rows"`
}

type rowFile struct {
	Widgets *[]widgetFile `json:"widgets" yaml:"widgets"`
}

type widgetFile struct {
	ID           *string   `json:"id" yaml:"id"`
	Type         *string   `json:"type" yaml:"type"`
	Label        *string   `json:"label" yaml:"label"`
	Hint         string    `json:"hint" yaml:"hint"`
	Min          *float64  `json:"min" yaml:"min"`
	Max          *float64  `json:"max" yaml:"max"`
	SliderMin    *float64  `json:"sliderMin" yaml:"sliderMin"`
	SliderMax    *float64  `json:"sliderMax" yaml:"sliderMax"`
	Options      *[]string `json:"options" yaml:"options"`
	Multiline    bool      `json:"multiline" yaml:"multiline"`
	MinLines     *int      `json:"minLines" yaml:"minLines"`
	MaxLength    int       `json:"maxLength" yaml:"maxLength"`
	RejectMarkup bool      `json:"rejectMarkup" yaml:"rejectMarkup"`
	Default      any       `json:"default" yaml:"default"`
	VisibleWhen  string    `json:"visibleWhen" yaml:"visibleWhen"`
}

// Parse decodes a JSON or YAML layout document into a Screen. JSON is assumed
// when the document starts with an object brace; everything else is handed to
// the YAML decoder.
func Parse(data []byte) (Screen, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Screen{}, schemaErrorf("", "document is empty")
	}

	var doc screenFile
	if trimmed[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return Screen{}, &SchemaError{Reason: "invalid JSON", Err: err}
		}
	} else if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return Screen{}, &SchemaError{Reason: "invalid YAML", Err: err}
	}

	return buildScreen(doc)
}

func buildScreen(doc screenFile) (Screen, error) {
	if doc.Categories == nil {
		return Screen{}, schemaErrorf("", "missing required field %q", "categories")
	}

	screen := Screen{
		ID:         strings.TrimSpace(doc.ID),
		Title:      strings.TrimSpace(doc.Title),
		Categories: make([]Category, 0, len(*doc.Categories)),
	}
	seen := make(map[string]string)

	for ci, rawCategory := range *doc.Categories {
		catPath := fmt.Sprintf("categories[%d]", ci)
		if rawCategory.Rows == nil {
			return Screen{}, schemaErrorf(catPath, "missing required field %q", "rows")
		}
		title := strings.TrimSpace(rawCategory.Title)
		if title == "" {
			title = DefaultCategory
		}
		category := Category{
			ID:    strings.TrimSpace(rawCategory.ID),
			Title: title,
			Rows:  make([]Row, 0, len(*rawCategory.Rows)),
		}

		for ri, rawRow := range *rawCategory.Rows {
			rowPath := fmt.Sprintf("%s.rows[%d]", catPath, ri)
			if rawRow.Widgets == nil {
				return Screen{}, schemaErrorf(rowPath, "missing required field %q", "widgets")
			}
			row := Row{Widgets: make([]Widget, 0, len(*rawRow.Widgets))}
			for wi, rawWidget := range *rawRow.Widgets {
				widgetPath := fmt.Sprintf("%s.widgets[%d]", rowPath, wi)
				widget, err := buildWidget(rawWidget, widgetPath)
				if err != nil {
					return Screen{}, err
				}
				if first, dup := seen[widget.ID]; dup {
					return Screen{}, schemaErrorf(widgetPath, "duplicate widget id %q (first declared at %s)", widget.ID, first)
				}
				seen[widget.ID] = widgetPath
				row.Widgets = append(row.Widgets, widget)
			}
			category.Rows = append(category.Rows, row)
		}
		screen.Categories = append(screen.Categories, category)
	}

	return screen, nil
}

func buildWidget(raw widgetFile, path string) (Widget, error) {
	id, err := requiredString(raw.ID, "id", path)
	if err != nil {
		return Widget{}, err
	}
	typ, err := requiredString(raw.Type, "type", path)
	if err != nil {
		return Widget{}, err
	}
	if raw.Label == nil {
		return Widget{}, schemaErrorf(path, "missing required field %q", "label")
	}

	kind, ok := ParseKind(typ)
	if !ok {
		return Widget{}, schemaErrorf(path, "unrecognised widget type %q", typ)
	}

	widget := Widget{
		ID:    id,
		Kind:  kind,
		Label: strings.TrimSpace(*raw.Label),
		Hint:  strings.TrimSpace(raw.Hint),
	}

	switch kind {
	case KindBoolean:
	case KindCounter:
		opts := CounterOptions{Min: DefaultCounterMin, Max: DefaultCounterMax}
		if raw.Min != nil {
			if opts.Min, err = integralBound(*raw.Min, "min", path); err != nil {
				return Widget{}, err
			}
		}
		if raw.Max != nil {
			if opts.Max, err = integralBound(*raw.Max, "max", path); err != nil {
				return Widget{}, err
			}
		}
		if opts.Min > opts.Max {
			return Widget{}, schemaErrorf(path, "min %d exceeds max %d", opts.Min, opts.Max)
		}
		widget.Counter = &opts
	case KindText:
		opts := TextOptions{Multiline: raw.Multiline, MinLines: 1, MaxLength: raw.MaxLength, RejectMarkup: raw.RejectMarkup}
		if raw.Multiline {
			opts.MinLines = DefaultMinLines
			if raw.MinLines != nil {
				opts.MinLines = *raw.MinLines
			}
		}
		if opts.MinLines < 1 {
			return Widget{}, schemaErrorf(path, "minLines must be at least 1, got %d", opts.MinLines)
		}
		if opts.MaxLength < 0 {
			return Widget{}, schemaErrorf(path, "maxLength must not be negative, got %d", opts.MaxLength)
		}
		widget.Text = &opts
	case KindChoice:
		if raw.Options == nil {
			return Widget{}, schemaErrorf(path, "missing required field %q", "options")
		}
		if len(*raw.Options) == 0 {
			return Widget{}, schemaErrorf(path, "options must not be empty")
		}
		widget.Choice = &ChoiceOptions{Options: append([]string(nil), (*raw.Options)...)}
	case KindRange:
		opts := RangeOptions{Min: DefaultRangeMin, Max: DefaultRangeMax}
		if bound := firstBound(raw.Min, raw.SliderMin); bound != nil {
			opts.Min = *bound
		}
		if bound := firstBound(raw.Max, raw.SliderMax); bound != nil {
			opts.Max = *bound
		}
		if math.IsNaN(opts.Min) || math.IsNaN(opts.Max) {
			return Widget{}, schemaErrorf(path, "range bounds must be numbers")
		}
		if opts.Min > opts.Max {
			return Widget{}, schemaErrorf(path, "min %g exceeds max %g", opts.Min, opts.Max)
		}
		widget.Range = &opts
	}

	if raw.Default != nil {
		value, err := normaliseDefault(kind, raw.Default)
		if err != nil {
			return Widget{}, &SchemaError{Path: path, Reason: "invalid default", Err: err}
		}
		if err := defaultInBounds(widget, value); err != nil {
			return Widget{}, &SchemaError{Path: path, Reason: "invalid default", Err: err}
		}
		widget.Default = value
	}

	if strings.TrimSpace(raw.VisibleWhen) != "" {
		cond, err := CompileCondition(raw.VisibleWhen)
		if err != nil {
			return Widget{}, &SchemaError{Path: path, Reason: "invalid visibleWhen rule", Err: err}
		}
		widget.VisibleWhen = cond
	}

	return widget, nil
}

func requiredString(value *string, name, path string) (string, error) {
	if value == nil {
		return "", schemaErrorf(path, "missing required field %q", name)
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return "", schemaErrorf(path, "field %q must not be empty", name)
	}
	return trimmed, nil
}

func integralBound(value float64, name, path string) (int64, error) {
	if value != math.Trunc(value) || math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, schemaErrorf(path, "counter %s must be an integer, got %g", name, value)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold.
	if value >= math.MaxInt64 || value < math.MinInt64 {
		return 0, schemaErrorf(path, "counter %s %g is out of range", name, value)
	}
	return int64(value), nil
}

func defaultInBounds(widget Widget, value any) error {
	switch {
	case widget.Counter != nil:
		n := value.(int64)
		if n < widget.Counter.Min || n > widget.Counter.Max {
			return fmt.Errorf("%d is outside %d..%d", n, widget.Counter.Min, widget.Counter.Max)
		}
	case widget.Range != nil:
		f := value.(float64)
		if f < widget.Range.Min || f > widget.Range.Max {
			return fmt.Errorf("%g is outside %g..%g", f, widget.Range.Min, widget.Range.Max)
		}
	}
	return nil
}

func firstBound(candidates ...*float64) *float64 {
	for _, candidate := range candidates {
		if candidate != nil {
			return candidate
		}
	}
	return nil
}

// normaliseDefault converts a decoded default into the Go type matching kind:
// bool, int64, string, or float64.
func normaliseDefault(kind Kind, raw any) (any, error) {
	switch kind {
	case KindBoolean:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case KindText, KindChoice:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case KindCounter:
		if n, ok := asInt(raw); ok {
			return n, nil
		}
	case KindRange:
		if f, ok := asFloat(raw); ok {
			return f, nil
		}
	}
	return nil, fmt.Errorf("%s widget cannot default to %T %v", kind, raw, raw)
}

func asInt(raw any) (int64, bool) {
	switch typed := raw.(type) {
	case json.Number:
		if n, err := typed.Int64(); err == nil {
			return n, true
		}
		if f, err := typed.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) <= math.MaxInt64 {
			return int64(f), true
		}
	case int:
		return int64(typed), true
	case int64:
		return typed, true
	case uint64:
		if typed <= math.MaxInt64 {
			return int64(typed), true
		}
	case float64:
		if typed == math.Trunc(typed) && math.Abs(typed) <= math.MaxInt64 {
			return int64(typed), true
		}
	}
	return 0, false
}

func asFloat(raw any) (float64, bool) {
	switch typed := raw.(type) {
	case json.Number:
		f, err := typed.Float64()
		return f, err == nil
	case int:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case uint64:
		return float64(typed), true
	case float64:
		return typed, true
	}
	return 0, false
}
