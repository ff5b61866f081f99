package values

import "github.com/goliatone/go-scouting/pkg/layout"

// Store is the keyed state of one form session. Iteration follows the order in
// which ids were first written, which for a seeded store is layout order. A
// Store is owned by a single session and is not safe for concurrent writers.
type Store struct {
	order   []string
	entries map[string]Value
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Value)}
}

// CreateWithDefaults seeds a store with one entry per widget of screen: the
// declared default when present, otherwise the zero value of the widget kind.
func CreateWithDefaults(screen layout.Screen) *Store {
	store := NewStore()
	for _, widget := range screen.Widgets() {
		store.Set(widget.ID, DefaultFor(widget))
	}
	return store
}

// Get returns the raw tagged value for id.
func (s *Store) Get(id string) (Value, bool) {
	if s == nil || s.entries == nil {
		return Value{}, false
	}
	v, ok := s.entries[id]
	return v, ok
}

// Set overwrites the value for id. Invalid values are ignored.
func (s *Store) Set(id string, v Value) {
	if s == nil || !v.IsValid() {
		return
	}
	if s.entries == nil {
		s.entries = make(map[string]Value)
	}
	if _, exists := s.entries[id]; !exists {
		s.order = append(s.order, id)
	}
	s.entries[id] = v
}

// Bool reads id as a boolean, false when missing or not a Bool.
func (s *Store) Bool(id string) bool {
	v, _ := s.Get(id)
	b, _ := v.AsBool()
	return b
}

// Int reads id as an integer; Float values truncate. Zero when missing or
// not numeric.
func (s *Store) Int(id string) int64 {
	v, _ := s.Get(id)
	i, _ := v.AsInt()
	return i
}

// String reads id as text, "" when missing or not Text.
func (s *Store) String(id string) string {
	v, _ := s.Get(id)
	str, _ := v.AsText()
	return str
}

// Float reads id as a float; Int values widen. Zero when missing or not
// numeric.
func (s *Store) Float(id string) float64 {
	v, _ := s.Get(id)
	f, _ := v.AsFloat()
	return f
}

// SetBool stores v as a Bool.
func (s *Store) SetBool(id string, v bool) { s.Set(id, Bool(v)) }

// SetInt stores v as an Int.
func (s *Store) SetInt(id string, v int64) { s.Set(id, Int(v)) }

// SetString stores v as Text.
func (s *Store) SetString(id string, v string) { s.Set(id, Text(v)) }

// SetFloat stores v as a Float.
func (s *Store) SetFloat(id string, v float64) { s.Set(id, Float(v)) }

// Len reports the number of stored ids.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Keys returns the stored ids in insertion order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Snapshot copies the current contents for serialization.
func (s *Store) Snapshot() Snapshot {
	var snap Snapshot
	if s == nil {
		return snap
	}
	for _, id := range s.order {
		snap.Put(id, s.entries[id])
	}
	return snap
}

// DefaultFor derives the initial value of a widget.
func DefaultFor(widget layout.Widget) Value {
	if widget.HasDefault() {
		if v, err := FromNative(widget.Default); err == nil && matchesKind(widget.Kind, v) {
			return v
		}
	}
	return ZeroFor(widget)
}

// ZeroFor returns the kind-appropriate zero value: false, 0, "", the lower
// range bound, or the first choice option.
func ZeroFor(widget layout.Widget) Value {
	switch widget.Kind {
	case layout.KindBoolean:
		return Bool(false)
	case layout.KindCounter:
		return Int(0)
	case layout.KindText:
		return Text("")
	case layout.KindChoice:
		if widget.Choice != nil && len(widget.Choice.Options) > 0 {
			return Text(widget.Choice.Options[0])
		}
		return Text("")
	case layout.KindRange:
		if widget.Range != nil {
			return Float(widget.Range.Min)
		}
		return Float(layout.DefaultRangeMin)
	default:
		return Text("")
	}
}

// KindFor maps a widget kind to the value kind it stores.
func KindFor(kind layout.Kind) Kind {
	switch kind {
	case layout.KindBoolean:
		return KindBool
	case layout.KindCounter:
		return KindInt
	case layout.KindText, layout.KindChoice:
		return KindText
	case layout.KindRange:
		return KindFloat
	default:
		return KindInvalid
	}
}

func matchesKind(kind layout.Kind, v Value) bool {
	return v.Kind() == KindFor(kind)
}
