// Package render formats stored records for people: a text summary driven by
// a pongo2 template, and the raw JSON form. Formatters are looked up by name
// through a Registry.
package render

import (
	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/record"
)

// Formatter converts a record into a byte representation. The layout is used
// to resolve labels and grouping; it may be a zero Screen.
type Formatter interface {
	Name() string
	ContentType() string
	Format(rec record.Record, screen layout.Screen) ([]byte, error)
}
