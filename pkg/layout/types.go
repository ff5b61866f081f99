package layout

import "strings"

// Kind enumerates the widget kinds a layout may declare.
type Kind string

const (
	KindBoolean Kind = "boolean"
	KindCounter Kind = "counter"
	KindText    Kind = "text"
	KindChoice  Kind = "choice"
	KindRange   Kind = "range"
)

// Kinds lists every supported kind in declaration order.
var Kinds = []Kind{KindBoolean, KindCounter, KindText, KindChoice, KindRange}

var kindAliases = map[string]Kind{
	"boolean":  KindBoolean,
	"checkbox": KindBoolean,
	"counter":  KindCounter,
	"text":     KindText,
	"choice":   KindChoice,
	"dropdown": KindChoice,
	"range":    KindRange,
	"slider":   KindRange,
}

// ParseKind resolves a declared widget type, accepting the legacy aliases
// checkbox, dropdown, and slider.
func ParseKind(raw string) (Kind, bool) {
	kind, ok := kindAliases[strings.ToLower(strings.TrimSpace(raw))]
	return kind, ok
}

// Default bounds applied when a widget omits them.
const (
	DefaultCounterMin = 0
	DefaultCounterMax = 999
	DefaultRangeMin   = 0.0
	DefaultRangeMax   = 10.0
	DefaultMinLines   = 3
	DefaultCategory   = "Section"
)

// Screen is the root of a parsed layout.
type Screen struct {
	ID         string
	Title      string
	Categories []Category
}

// Category groups rows under a titled card.
type Category struct {
	ID    string
	Title string
	Rows  []Row
}

// Row is a horizontal run of widgets.
type Row struct {
	Widgets []Widget
}

// Widget is a single input element. Exactly one of the option payloads is set
// and it always matches Kind.
type Widget struct {
	ID    string
	Kind  Kind
	Label string
	Hint  string

	// Default holds the declared default as bool, int64, string, or float64
	// according to Kind, or nil when the layout declares none.
	Default any

	Counter *CounterOptions
	Text    *TextOptions
	Choice  *ChoiceOptions
	Range   *RangeOptions

	VisibleWhen *Condition
}

// CounterOptions bounds an integer counter.
type CounterOptions struct {
	Min int64
	Max int64
}

// TextOptions configures a free text field. MaxLength of zero means no limit.
// RejectMarkup makes the field refuse input containing HTML.
type TextOptions struct {
	Multiline    bool
	MinLines     int
	MaxLength    int
	RejectMarkup bool
}

// ChoiceOptions lists the selectable values in display order.
type ChoiceOptions struct {
	Options []string
}

// RangeOptions bounds a continuous slider.
type RangeOptions struct {
	Min float64
	Max float64
}

// HasDefault reports whether the layout declared an explicit default.
func (w Widget) HasDefault() bool {
	return w.Default != nil
}

// Widgets returns every widget of the screen in layout order.
func (s Screen) Widgets() []Widget {
	var out []Widget
	for _, category := range s.Categories {
		for _, row := range category.Rows {
			out = append(out, row.Widgets...)
		}
	}
	return out
}

// Widget looks up a widget by id.
func (s Screen) Widget(id string) (Widget, bool) {
	for _, category := range s.Categories {
		for _, row := range category.Rows {
			for _, widget := range row.Widgets {
				if widget.ID == id {
					return widget, true
				}
			}
		}
	}
	return Widget{}, false
}
