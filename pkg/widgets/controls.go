package widgets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/values"
)

// Control binds one widget to a value store. Renderers read the display value
// with Read and push raw user input through Apply; they never write the store
// any other way.
type Control interface {
	Widget() layout.Widget
	Read(store *values.Store) values.Value
	Apply(store *values.Store, raw string) error
}

// For returns the control for widget's kind.
func For(widget layout.Widget) (Control, error) {
	switch widget.Kind {
	case layout.KindBoolean:
		return BooleanControl{widget: widget}, nil
	case layout.KindCounter:
		opts := layout.CounterOptions{Min: layout.DefaultCounterMin, Max: layout.DefaultCounterMax}
		if widget.Counter != nil {
			opts = *widget.Counter
		}
		return CounterControl{widget: widget, opts: opts}, nil
	case layout.KindText:
		opts := layout.TextOptions{MinLines: 1}
		if widget.Text != nil {
			opts = *widget.Text
		}
		return TextControl{widget: widget, opts: opts}, nil
	case layout.KindChoice:
		var opts layout.ChoiceOptions
		if widget.Choice != nil {
			opts = *widget.Choice
		}
		return ChoiceControl{widget: widget, opts: opts}, nil
	case layout.KindRange:
		opts := layout.RangeOptions{Min: layout.DefaultRangeMin, Max: layout.DefaultRangeMax}
		if widget.Range != nil {
			opts = *widget.Range
		}
		return RangeControl{widget: widget, opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w %q (widget %s)", ErrUnknownKind, widget.Kind, widget.ID)
	}
}

// BooleanControl drives a checkbox.
type BooleanControl struct {
	widget layout.Widget
}

func (c BooleanControl) Widget() layout.Widget { return c.widget }

func (c BooleanControl) Read(store *values.Store) values.Value {
	return values.Bool(store.Bool(c.widget.ID))
}

// Apply accepts true/false, yes/no, y/n, on/off, and 1/0 in any case.
func (c BooleanControl) Apply(store *values.Store, raw string) error {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "y", "on", "1":
		store.SetBool(c.widget.ID, true)
	case "false", "no", "n", "off", "0":
		store.SetBool(c.widget.ID, false)
	default:
		return invalid(c.widget.ID, raw, "expected yes or no", nil)
	}
	return nil
}

// Toggle flips the stored flag.
func (c BooleanControl) Toggle(store *values.Store) {
	store.SetBool(c.widget.ID, !store.Bool(c.widget.ID))
}

// CounterControl drives a bounded integer counter.
type CounterControl struct {
	widget layout.Widget
	opts   layout.CounterOptions
}

func (c CounterControl) Widget() layout.Widget { return c.widget }

// Bounds reports the inclusive counter range.
func (c CounterControl) Bounds() (int64, int64) { return c.opts.Min, c.opts.Max }

func (c CounterControl) Read(store *values.Store) values.Value {
	return values.Int(store.Int(c.widget.ID))
}

// Apply parses an integer and clamps it to the counter bounds. Inputs beyond
// the int64 range clamp by sign.
func (c CounterControl) Apply(store *values.Store, raw string) error {
	trimmed := strings.TrimSpace(raw)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		if !errors.Is(err, strconv.ErrRange) {
			return invalid(c.widget.ID, raw, "expected a whole number", err)
		}
		n = math.MaxInt64
		if strings.HasPrefix(trimmed, "-") {
			n = math.MinInt64
		}
	}
	store.SetInt(c.widget.ID, c.clamp(n))
	return nil
}

// Step adds delta to the current count, clamped to the bounds.
func (c CounterControl) Step(store *values.Store, delta int64) {
	current := c.clamp(store.Int(c.widget.ID))
	next := current + delta
	switch {
	case delta > 0 && next < current:
		next = math.MaxInt64
	case delta < 0 && next > current:
		next = math.MinInt64
	}
	store.SetInt(c.widget.ID, c.clamp(next))
}

func (c CounterControl) clamp(n int64) int64 {
	if n < c.opts.Min {
		return c.opts.Min
	}
	if n > c.opts.Max {
		return c.opts.Max
	}
	return n
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// TextControl drives a free text field.
type TextControl struct {
	widget layout.Widget
	opts   layout.TextOptions
}

func (c TextControl) Widget() layout.Widget { return c.widget }

// Options exposes the text layout options.
func (c TextControl) Options() layout.TextOptions { return c.opts }

func (c TextControl) Read(store *values.Store) values.Value {
	return values.Text(store.String(c.widget.ID))
}

// Apply stores text as typed. Single-line fields fold line breaks to spaces;
// maxLength counts characters. Fields declared with rejectMarkup refuse input
// carrying HTML instead of rewriting it.
func (c TextControl) Apply(store *values.Store, raw string) error {
	if c.opts.RejectMarkup && containsMarkup(raw) {
		return invalid(c.widget.ID, raw, "markup is not allowed", nil)
	}
	text := raw
	if !c.opts.Multiline {
		text = lineBreaks.Replace(text)
	}
	if c.opts.MaxLength > 0 {
		if n := utf8.RuneCountInString(text); n > c.opts.MaxLength {
			return invalid(c.widget.ID, raw, fmt.Sprintf("text is %d characters, limit is %d", n, c.opts.MaxLength), nil)
		}
	}
	store.SetString(c.widget.ID, text)
	return nil
}

// ChoiceControl drives a dropdown. Renderers only offer declared options, so
// Apply does not re-check membership.
type ChoiceControl struct {
	widget layout.Widget
	opts   layout.ChoiceOptions
}

func (c ChoiceControl) Widget() layout.Widget { return c.widget }

// Options lists the selectable values.
func (c ChoiceControl) Options() []string {
	return append([]string(nil), c.opts.Options...)
}

func (c ChoiceControl) Read(store *values.Store) values.Value {
	return values.Text(store.String(c.widget.ID))
}

func (c ChoiceControl) Apply(store *values.Store, raw string) error {
	store.SetString(c.widget.ID, raw)
	return nil
}

// RangeControl drives a bounded slider.
type RangeControl struct {
	widget layout.Widget
	opts   layout.RangeOptions
}

func (c RangeControl) Widget() layout.Widget { return c.widget }

// Bounds reports the inclusive slider range.
func (c RangeControl) Bounds() (float64, float64) { return c.opts.Min, c.opts.Max }

// Read returns the stored value clamped into range for display.
func (c RangeControl) Read(store *values.Store) values.Value {
	return values.Float(c.clamp(store.Float(c.widget.ID)))
}

// Apply parses a number and clamps it to the slider bounds.
func (c RangeControl) Apply(store *values.Store, raw string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return invalid(c.widget.ID, raw, "expected a number", err)
	}
	if math.IsNaN(f) {
		return invalid(c.widget.ID, raw, "expected a number", nil)
	}
	store.SetFloat(c.widget.ID, c.clamp(f))
	return nil
}

func (c RangeControl) clamp(f float64) float64 {
	if math.IsNaN(f) || f < c.opts.Min {
		return c.opts.Min
	}
	if f > c.opts.Max {
		return c.opts.Max
	}
	return f
}

// Visible evaluates the widget's visibleWhen rule against the store. Widgets
// without a rule are always visible.
func Visible(widget layout.Widget, store *values.Store) (bool, error) {
	if widget.VisibleWhen == nil {
		return true, nil
	}
	return widget.VisibleWhen.Eval(store.Snapshot().Map())
}
