package values_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/values"
)

const sampleLayout = `{"categories":[{"rows":[{"widgets":[
	{"type":"boolean","id":"moved","label":"Moved"},
	{"type":"counter","id":"autoPoints","label":"Auto","min":0,"max":20},
	{"type":"text","id":"notes","label":"Notes"},
	{"type":"choice","id":"climb","label":"Climb","options":["None","Low","High"]},
	{"type":"range","id":"rating","label":"Rating","min":1,"max":5},
	{"type":"counter","id":"cycles","label":"Cycles","default":3},
	{"type":"boolean","id":"defended","label":"Defended","default":true}
]}]}]}`

func mustScreen(t *testing.T, raw string) layout.Screen {
	t.Helper()
	screen, err := layout.Parse([]byte(raw))
	if err != nil {
		t.Fatalf("parse layout: %v", err)
	}
	return screen
}

func TestCreateWithDefaults(t *testing.T) {
	screen := mustScreen(t, sampleLayout)
	store := values.CreateWithDefaults(screen)

	want := map[string]values.Value{
		"moved":      values.Bool(false),
		"autoPoints": values.Int(0),
		"notes":      values.Text(""),
		"climb":      values.Text("None"),
		"rating":     values.Float(1),
		"cycles":     values.Int(3),
		"defended":   values.Bool(true),
	}
	got := make(map[string]values.Value, store.Len())
	for _, id := range store.Keys() {
		v, _ := store.Get(id)
		got[id] = v
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}

	wantOrder := []string{"moved", "autoPoints", "notes", "climb", "rating", "cycles", "defended"}
	if diff := cmp.Diff(wantOrder, store.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateWithDefaults_EveryWidgetMatchesKind(t *testing.T) {
	screen, err := layout.Default()
	if err != nil {
		t.Fatalf("default layout: %v", err)
	}
	store := values.CreateWithDefaults(screen)
	for _, widget := range screen.Widgets() {
		v, ok := store.Get(widget.ID)
		if !ok {
			t.Fatalf("widget %s missing from store", widget.ID)
		}
		if v.Kind() != values.KindFor(widget.Kind) {
			t.Fatalf("widget %s: kind %s, want %s", widget.ID, v.Kind(), values.KindFor(widget.Kind))
		}
	}
}

func TestZeroFor_ChoiceWithoutOptions(t *testing.T) {
	widget := layout.Widget{ID: "x", Kind: layout.KindChoice}
	if got := values.ZeroFor(widget); !got.Equal(values.Text("")) {
		t.Fatalf("expected empty text, got %v", got)
	}
}

func TestStore_RoundTrip(t *testing.T) {
	store := values.NewStore()

	store.SetBool("b", true)
	store.SetInt("i", -42)
	store.SetString("s", "hello")
	store.SetFloat("f", 2.75)

	if got := store.Bool("b"); !got {
		t.Fatalf("bool round trip failed")
	}
	if got := store.Int("i"); got != -42 {
		t.Fatalf("int round trip: got %d", got)
	}
	if got := store.String("s"); got != "hello" {
		t.Fatalf("string round trip: got %q", got)
	}
	if got := store.Float("f"); got != 2.75 {
		t.Fatalf("float round trip: got %v", got)
	}
}

func TestStore_LenientReads(t *testing.T) {
	store := values.NewStore()
	store.SetFloat("f", 7.9)
	store.SetInt("i", 3)
	store.SetString("s", "12")

	if got := store.Int("f"); got != 7 {
		t.Fatalf("float read as int: got %d", got)
	}
	if got := store.Float("i"); got != 3 {
		t.Fatalf("int read as float: got %v", got)
	}
	if got := store.Int("s"); got != 0 {
		t.Fatalf("text read as int should be zero, got %d", got)
	}
	if got := store.Bool("i"); got {
		t.Fatalf("int read as bool should be false")
	}
	if got := store.String("missing"); got != "" {
		t.Fatalf("missing read should be empty, got %q", got)
	}
	if got := store.Float("missing"); got != 0 {
		t.Fatalf("missing float should be zero, got %v", got)
	}

	store.SetFloat("huge", math.Inf(1))
	if got := store.Int("huge"); got != 0 {
		t.Fatalf("infinite float read as int should be zero, got %d", got)
	}

	var nilStore *values.Store
	if nilStore.Bool("x") || nilStore.Len() != 0 {
		t.Fatalf("nil store must read as empty")
	}
}

func TestStore_SetKeepsFirstPosition(t *testing.T) {
	store := values.NewStore()
	store.SetInt("a", 1)
	store.SetInt("b", 2)
	store.SetString("a", "overwritten")

	if diff := cmp.Diff([]string{"a", "b"}, store.Keys()); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got := store.String("a"); got != "overwritten" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestSnapshot_IsDetached(t *testing.T) {
	store := values.NewStore()
	store.SetInt("a", 1)
	snap := store.Snapshot()
	store.SetInt("a", 2)
	store.SetInt("b", 3)

	v, _ := snap.Get("a")
	if !v.Equal(values.Int(1)) || snap.Len() != 1 {
		t.Fatalf("snapshot changed with store: %v len=%d", v, snap.Len())
	}
}

func TestSnapshot_JSONKeepsOrderAndKinds(t *testing.T) {
	store := values.NewStore()
	store.SetString("z", "last-declared-first")
	store.SetFloat("rating", 3)
	store.SetInt("count", 3)
	store.SetBool("ok", true)

	data, err := json.Marshal(store.Snapshot())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"z":"last-declared-first","rating":3.0,"count":3,"ok":true}`
	if string(data) != want {
		t.Fatalf("json mismatch:\nwant %s\ngot  %s", want, data)
	}

	var decoded values.Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(store.Snapshot(), decoded); diff != "" {
		t.Fatalf("snapshot round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_UnmarshalRejectsNested(t *testing.T) {
	var snap values.Snapshot
	if err := json.Unmarshal([]byte(`{"a":[1,2]}`), &snap); err == nil {
		t.Fatalf("expected nested array to be rejected")
	}
	if err := json.Unmarshal([]byte(`{"a":null,"b":1e3}`), &snap); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if snap.Len() != 1 {
		t.Fatalf("null entries should be dropped, got %d entries", snap.Len())
	}
	if v, _ := snap.Get("b"); !v.Equal(values.Float(1000)) {
		t.Fatalf("exponent literal should decode as float, got %v (%s)", v, v.Kind())
	}
}

func TestSnapshot_Map(t *testing.T) {
	var snap values.Snapshot
	snap.Put("a", values.Int(4))
	snap.Put("b", values.Text("x"))
	want := map[string]any{"a": int64(4), "b": "x"}
	if diff := cmp.Diff(want, snap.Map()); diff != "" {
		t.Fatalf("map mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_Clone(t *testing.T) {
	var original values.Snapshot
	original.Put("a", values.Int(1))
	original.Put("b", values.Text("x"))

	clone := original.Clone()
	clone.Put("a", values.Int(2))
	clone.Put("c", values.Bool(true))

	if diff := cmp.Diff([]string{"a", "b"}, original.Keys()); diff != "" {
		t.Fatalf("original keys changed (-want +got):\n%s", diff)
	}
	if v, _ := original.Get("a"); !v.Equal(values.Int(1)) {
		t.Fatalf("original value changed: %v", v)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, clone.Keys()); diff != "" {
		t.Fatalf("clone keys mismatch (-want +got):\n%s", diff)
	}

	var empty values.Snapshot
	if got := empty.Clone(); got.Len() != 0 {
		t.Fatalf("clone of empty snapshot should be empty, got %d", got.Len())
	}
}
