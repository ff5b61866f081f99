// Package session ties one match header to a form screen and the value store
// being filled for it. A session is owned by a single renderer; nothing in it
// is shared with other sessions.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/record"
	"github.com/goliatone/go-scouting/pkg/storage"
	"github.com/goliatone/go-scouting/pkg/values"
	"github.com/goliatone/go-scouting/pkg/widgets"
)

// Saver persists a finished record.
type Saver interface {
	Save(header string, rec record.Record) (storage.Handle, error)
}

// Session is one in-progress match form.
type Session struct {
	id       string
	started  time.Time
	screen   layout.Screen
	header   MatchHeader
	store    *values.Store
	registry *widgets.Registry
}

// New starts a session with every widget at its default value.
func New(screen layout.Screen, header MatchHeader) (*Session, error) {
	if err := header.Validate(); err != nil {
		return nil, err
	}
	registry, err := widgets.NewRegistry(screen)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return &Session{
		id:       uuid.NewString(),
		started:  time.Now(),
		screen:   screen,
		header:   header,
		store:    values.CreateWithDefaults(screen),
		registry: registry,
	}, nil
}

func (s *Session) ID() string            { return s.id }
func (s *Session) Started() time.Time    { return s.started }
func (s *Session) Screen() layout.Screen { return s.screen }
func (s *Session) Header() MatchHeader   { return s.header }

// Store exposes the backing value store to renderers.
func (s *Session) Store() *values.Store { return s.store }

// Controls returns every control in layout order.
func (s *Session) Controls() []widgets.Control {
	return s.registry.Controls()
}

// Control returns the control bound to a widget id.
func (s *Session) Control(id string) (widgets.Control, bool) {
	return s.registry.Resolve(id)
}

// Visible returns the controls currently shown to the user.
func (s *Session) Visible() ([]widgets.Control, error) {
	return s.registry.Visible(s.store)
}

// Apply routes raw user input to a widget.
func (s *Session) Apply(id, raw string) error {
	return s.registry.Apply(s.store, id, raw)
}

// Record captures the current values under the session header.
func (s *Session) Record() record.Record {
	return record.ToRecord(s.header.String(), s.store)
}

// Save persists the current record through saver.
func (s *Session) Save(saver Saver) (storage.Handle, error) {
	if saver == nil {
		return storage.Handle{}, errors.New("session: saver is required")
	}
	return saver.Save(s.header.String(), s.Record())
}
