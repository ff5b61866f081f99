package widgets

import (
	"fmt"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/values"
)

// Registry holds the controls of one screen in layout order, indexed by
// widget id. It is immutable after construction and safe for concurrent
// readers.
type Registry struct {
	controls []Control
	byID     map[string]Control
}

// NewRegistry builds a control for every widget of screen.
func NewRegistry(screen layout.Screen) (*Registry, error) {
	widgets := screen.Widgets()
	reg := &Registry{
		controls: make([]Control, 0, len(widgets)),
		byID:     make(map[string]Control, len(widgets)),
	}
	for _, widget := range widgets {
		control, err := For(widget)
		if err != nil {
			return nil, err
		}
		if _, exists := reg.byID[widget.ID]; exists {
			return nil, fmt.Errorf("widgets: duplicate widget id %q", widget.ID)
		}
		reg.controls = append(reg.controls, control)
		reg.byID[widget.ID] = control
	}
	return reg, nil
}

// Resolve returns the control bound to id.
func (r *Registry) Resolve(id string) (Control, bool) {
	if r == nil {
		return nil, false
	}
	control, ok := r.byID[id]
	return control, ok
}

// Controls returns every control in layout order.
func (r *Registry) Controls() []Control {
	if r == nil {
		return nil
	}
	return append([]Control(nil), r.controls...)
}

// Apply routes raw input to the control for id.
func (r *Registry) Apply(store *values.Store, id, raw string) error {
	control, ok := r.Resolve(id)
	if !ok {
		return fmt.Errorf("widgets: no widget %q", id)
	}
	return control.Apply(store, raw)
}

// Visible returns the controls whose visibleWhen rule currently holds.
func (r *Registry) Visible(store *values.Store) ([]Control, error) {
	if r == nil {
		return nil, nil
	}
	env := store.Snapshot().Map()
	out := make([]Control, 0, len(r.controls))
	for _, control := range r.controls {
		ok, err := control.Widget().VisibleWhen.Eval(env)
		if err != nil {
			return nil, fmt.Errorf("widgets: %s: %w", control.Widget().ID, err)
		}
		if ok {
			out = append(out, control)
		}
	}
	return out, nil
}
