// Package layout parses declarative form layouts into an immutable tree of
// screens, categories, rows, and widgets. Layouts are JSON or YAML documents;
// parsing performs no I/O and reports every structural problem as a
// *SchemaError so callers can refuse to start a session. The widget id is the
// join key between the layout, the value store, and persisted records, so ids
// must be unique within a screen.
package layout
