// Package values holds the typed state of one form-fill session. A Store maps
// widget ids to tagged Values, is seeded from a layout with per-kind defaults,
// and exposes lenient typed accessors: reads never fail and fall back to the
// zero value of the requested type when a key is missing or holds an
// incompatible kind. The store does not enforce layout bounds; that is the job
// of the widget controls driving it.
package values
