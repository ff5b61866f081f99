package tui

// State tracks what happened to each widget during one fill pass. It is
// intentionally small; the values themselves live in the session store.
type State struct {
	prompted []string
	hidden   []string
	errors   map[string][]string
}

// NewState returns an empty fill state.
func NewState() *State {
	return &State{errors: make(map[string][]string)}
}

// Prompted lists the widget ids that were asked, in order.
func (s *State) Prompted() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.prompted...)
}

// Hidden lists the widget ids skipped because their visibility rule failed.
func (s *State) Hidden() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.hidden...)
}

// ErrorsFor returns the rejected-input messages recorded for a widget.
func (s *State) ErrorsFor(id string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[id]
}

// Rejections counts rejected inputs across every widget.
func (s *State) Rejections() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, msgs := range s.errors {
		n += len(msgs)
	}
	return n
}

func (s *State) markPrompted(id string) {
	s.prompted = append(s.prompted, id)
}

func (s *State) markHidden(id string) {
	s.hidden = append(s.hidden, id)
}

func (s *State) addError(id, msg string) {
	if s.errors == nil {
		s.errors = make(map[string][]string)
	}
	s.errors[id] = append(s.errors[id], msg)
}
