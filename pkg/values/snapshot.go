package values

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Snapshot is an ordered, detached copy of store contents. It encodes as a
// JSON object whose keys keep their insertion order.
type Snapshot struct {
	order   []string
	entries map[string]Value
}

// Put appends or replaces id. Replacing keeps the original position.
func (s *Snapshot) Put(id string, v Value) {
	if !v.IsValid() {
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

// Get returns the value stored for id.
func (s Snapshot) Get(id string) (Value, bool) {
	v, ok := s.entries[id]
	return v, ok
}

// Keys lists ids in order.
func (s Snapshot) Keys() []string {
	return append([]string(nil), s.order...)
}

// Clone returns a snapshot that shares no storage with s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{order: append([]string(nil), s.order...)}
	if s.entries != nil {
		out.entries = make(map[string]Value, len(s.entries))
		for id, v := range s.entries {
			out.entries[id] = v
		}
	}
	return out
}

// Len reports the number of entries.
func (s Snapshot) Len() int {
	return len(s.order)
}

// Each calls fn for every entry in order.
func (s Snapshot) Each(fn func(id string, v Value)) {
	for _, id := range s.order {
		fn(id, s.entries[id])
	}
}

// Map returns the entries as native Go values, suitable as an expression
// environment.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, id := range s.order {
		out[id] = s.entries[id].Native()
	}
	return out
}

// Equal reports whether both snapshots hold the same entries in the same
// order.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.order) != len(other.order) {
		return false
	}
	for i, id := range s.order {
		if other.order[i] != id {
			return false
		}
		if !s.entries[id].Equal(other.entries[id]) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the entries as an object in insertion order.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := s.entries[id].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("values: encode %q: %w", id, err)
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object of scalar values, keeping key order. Null
// entries are dropped; arrays and objects are rejected.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("values: expected object, got %v", tok)
	}

	var out Snapshot
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("values: expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("values: decode %q: %w", key, err)
		}
		trimmed := bytes.TrimSpace(raw)
		if bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
			return fmt.Errorf("values: %q holds a nested value", key)
		}
		var v Value
		if err := v.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("values: decode %q: %w", key, err)
		}
		out.Put(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}
