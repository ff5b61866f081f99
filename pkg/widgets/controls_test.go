package widgets_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/values"
	"github.com/goliatone/go-scouting/pkg/widgets"
)

const formLayout = `{"categories":[{"rows":[{"widgets":[
	{"type":"counter","id":"autoPoints","label":"Auto points","min":0,"max":20},
	{"type":"boolean","id":"moved","label":"Moved"},
	{"type":"text","id":"notes","label":"Notes","maxLength":10},
	{"type":"text","id":"story","label":"Story","multiline":true},
	{"type":"choice","id":"climb","label":"Climb","options":["None","Low","High"]},
	{"type":"range","id":"rating","label":"Rating","min":1,"max":5},
	{"type":"boolean","id":"failed","label":"Failed","visibleWhen":"climb == \"None\""}
]}]}]}`

func setup(t *testing.T) (*widgets.Registry, *values.Store) {
	t.Helper()
	screen, err := layout.Parse([]byte(formLayout))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	reg, err := widgets.NewRegistry(screen)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	return reg, values.CreateWithDefaults(screen)
}

func TestCounter_ClampsInput(t *testing.T) {
	reg, store := setup(t)

	cases := []struct {
		input string
		want  int64
	}{
		{input: "-5", want: 0},
		{input: "999", want: 20},
		{input: " 7 ", want: 7},
		{input: "+3", want: 3},
		{input: "99999999999999999999999", want: 20},
		{input: "-99999999999999999999999", want: 0},
	}
	for _, tc := range cases {
		if err := reg.Apply(store, "autoPoints", tc.input); err != nil {
			t.Fatalf("apply %q: %v", tc.input, err)
		}
		if got := store.Int("autoPoints"); got != tc.want {
			t.Fatalf("apply %q: stored %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestCounter_RejectsNonNumeric(t *testing.T) {
	reg, store := setup(t)
	store.SetInt("autoPoints", 4)

	err := reg.Apply(store, "autoPoints", "four")
	var verr *widgets.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.WidgetID != "autoPoints" {
		t.Fatalf("unexpected widget id %q", verr.WidgetID)
	}
	if got := store.Int("autoPoints"); got != 4 {
		t.Fatalf("rejected input must not change the store, got %d", got)
	}
}

func TestCounter_Step(t *testing.T) {
	reg, store := setup(t)
	control, _ := reg.Resolve("autoPoints")
	counter := control.(widgets.CounterControl)

	counter.Step(store, -1)
	if got := store.Int("autoPoints"); got != 0 {
		t.Fatalf("step below min: got %d", got)
	}
	for i := 0; i < 25; i++ {
		counter.Step(store, 1)
	}
	if got := store.Int("autoPoints"); got != 20 {
		t.Fatalf("step above max: got %d", got)
	}
}

func TestRange_ClampsInput(t *testing.T) {
	reg, store := setup(t)

	cases := map[string]float64{
		"0":      1,
		"9.5":    5,
		"2.25":   2.25,
		"-1e400": 1,
		"1e400":  5,
		"Inf":    5,
	}
	for input, want := range cases {
		if err := reg.Apply(store, "rating", input); err != nil {
			t.Fatalf("apply %q: %v", input, err)
		}
		if got := store.Float("rating"); got != want {
			t.Fatalf("apply %q: stored %v, want %v", input, got, want)
		}
	}

	for _, bad := range []string{"NaN", "high", ""} {
		var verr *widgets.ValidationError
		if err := reg.Apply(store, "rating", bad); !errors.As(err, &verr) {
			t.Fatalf("apply %q: expected ValidationError, got %v", bad, err)
		}
	}
}

func TestRange_ReadClampsStoredValue(t *testing.T) {
	reg, store := setup(t)
	store.SetFloat("rating", 42)
	control, _ := reg.Resolve("rating")
	if got := control.Read(store); !got.Equal(values.Float(5)) {
		t.Fatalf("expected display value clamped to 5, got %v", got)
	}
}

func TestBoolean_Apply(t *testing.T) {
	reg, store := setup(t)
	for input, want := range map[string]bool{"yes": true, "N": false, "TRUE": true, "0": false, " on ": true} {
		if err := reg.Apply(store, "moved", input); err != nil {
			t.Fatalf("apply %q: %v", input, err)
		}
		if got := store.Bool("moved"); got != want {
			t.Fatalf("apply %q: got %v", input, got)
		}
	}
	if err := reg.Apply(store, "moved", "maybe"); err == nil {
		t.Fatalf("expected validation error")
	}

	control, _ := reg.Resolve("moved")
	control.(widgets.BooleanControl).Toggle(store)
	if !store.Bool("moved") {
		t.Fatalf("toggle should flip false to true")
	}
}

func TestText_StoresAsTypedAndLimits(t *testing.T) {
	reg, store := setup(t)

	for _, typed := range []string{"a<b c>d", "<jam> x2", "&amp; ok", "<b>go</b>"} {
		if err := reg.Apply(store, "notes", typed); err != nil {
			t.Fatalf("apply %q: %v", typed, err)
		}
		if got := store.String("notes"); got != typed {
			t.Fatalf("text should be stored as typed: got %q want %q", got, typed)
		}
	}

	if err := reg.Apply(store, "notes", "line1\nline2"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := store.String("notes"); got != "line1 line2" {
		t.Fatalf("single-line text should fold breaks, got %q", got)
	}

	err := reg.Apply(store, "notes", strings.Repeat("x", 11))
	var verr *widgets.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for long text, got %v", err)
	}

	if err := reg.Apply(store, "story", "a\nb"); err != nil {
		t.Fatalf("apply multiline: %v", err)
	}
	if got := store.String("story"); got != "a\nb" {
		t.Fatalf("multiline text should keep breaks, got %q", got)
	}
}

func TestText_RejectMarkup(t *testing.T) {
	screen, err := layout.Parse([]byte(`{"categories":[{"rows":[{"widgets":[
		{"type":"text","id":"team","label":"Team name","rejectMarkup":true}
	]}]}]}`))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	reg, err := widgets.NewRegistry(screen)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	store := values.CreateWithDefaults(screen)

	for _, plain := range []string{"Robots & Co", "3 < 5 > 2", "it's \"fine\""} {
		if err := reg.Apply(store, "team", plain); err != nil {
			t.Fatalf("plain text %q rejected: %v", plain, err)
		}
		if got := store.String("team"); got != plain {
			t.Fatalf("plain text changed: got %q want %q", got, plain)
		}
	}

	for _, markup := range []string{"<b>bold</b>", "intake <jammed> twice", "&amp;", "<!-- note -->"} {
		err := reg.Apply(store, "team", markup)
		var verr *widgets.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %q, got %v", markup, err)
		}
		if got := store.String("team"); got != "it's \"fine\"" {
			t.Fatalf("rejected input must not be stored, got %q", got)
		}
	}
}

func TestChoice_StoresSelection(t *testing.T) {
	reg, store := setup(t)
	control, _ := reg.Resolve("climb")
	choice := control.(widgets.ChoiceControl)
	if diff := cmp.Diff([]string{"None", "Low", "High"}, choice.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if err := choice.Apply(store, "High"); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got := choice.Read(store); !got.Equal(values.Text("High")) {
		t.Fatalf("choice read mismatch: %v", got)
	}
}

func TestRegistry_Visible(t *testing.T) {
	reg, store := setup(t)

	ids := func(controls []widgets.Control) []string {
		out := make([]string, 0, len(controls))
		for _, c := range controls {
			out = append(out, c.Widget().ID)
		}
		return out
	}

	visible, err := reg.Visible(store)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	if diff := cmp.Diff([]string{"autoPoints", "moved", "notes", "story", "climb", "rating", "failed"}, ids(visible)); diff != "" {
		t.Fatalf("visible mismatch (-want +got):\n%s", diff)
	}

	store.SetString("climb", "High")
	visible, err = reg.Visible(store)
	if err != nil {
		t.Fatalf("visible: %v", err)
	}
	for _, id := range ids(visible) {
		if id == "failed" {
			t.Fatalf("failed should be hidden once a climb is recorded")
		}
	}

	failed, _ := reg.Resolve("failed")
	if ok, err := widgets.Visible(failed.Widget(), store); ok || err != nil {
		t.Fatalf("expected hidden widget, got %v %v", ok, err)
	}
}

func TestRegistry_UnknownWidget(t *testing.T) {
	reg, store := setup(t)
	if err := reg.Apply(store, "nope", "1"); err == nil {
		t.Fatalf("expected error for unknown widget")
	}
}

func TestFor_UnknownKind(t *testing.T) {
	_, err := widgets.For(layout.Widget{ID: "x", Kind: layout.Kind("rating")})
	if !errors.Is(err, widgets.ErrUnknownKind) {
		t.Fatalf("expected ErrUnknownKind, got %v", err)
	}
}
