package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/goliatone/go-scouting/pkg/layout"
	"github.com/goliatone/go-scouting/pkg/session"
	"github.com/goliatone/go-scouting/pkg/values"
	"github.com/goliatone/go-scouting/pkg/widgets"
)

// Renderer walks a match session in the terminal, one prompt per visible
// widget. It only touches the session store through widget controls.
type Renderer struct {
	driver PromptDriver
	theme  Theme
	logger *slog.Logger
}

// New constructs a TUI renderer with defaults (survey driver, default theme).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver: NewSurveyDriver(nil),
		theme:  DefaultTheme,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// FillHeader prompts for the match header, starting from defaults. Invalid
// answers are reported and the whole header is asked again with the previous
// answers prefilled.
func (r *Renderer) FillHeader(ctx context.Context, defaults session.MatchHeader) (session.MatchHeader, error) {
	if ctx == nil {
		return session.MatchHeader{}, errors.New("tui: context is required")
	}
	in := headerInput(defaults)
	for {
		var err error
		if in.Scout, err = r.driver.Input(ctx, InputConfig{Message: "Scout name", Default: in.Scout}); err != nil {
			return session.MatchHeader{}, err
		}
		if in.Alliance, err = r.selectOne(ctx, "Alliance", []string{"Red", "Blue"}, in.Alliance); err != nil {
			return session.MatchHeader{}, err
		}
		if in.Position, err = r.selectOne(ctx, "Position", positionOptions(), in.Position); err != nil {
			return session.MatchHeader{}, err
		}
		if in.MatchType, err = r.selectOne(ctx, "Match type", session.MatchTypes, in.MatchType); err != nil {
			return session.MatchHeader{}, err
		}
		if in.MatchNumber, err = r.driver.Input(ctx, InputConfig{Message: "Match number", Default: in.MatchNumber}); err != nil {
			return session.MatchHeader{}, err
		}
		if in.TeamNumber, err = r.driver.Input(ctx, InputConfig{Message: "Team number", Default: in.TeamNumber}); err != nil {
			return session.MatchHeader{}, err
		}

		header, err := session.ParseMatchHeader(in)
		if err == nil {
			return header, nil
		}
		var herr *session.HeaderError
		if !errors.As(err, &herr) {
			return session.MatchHeader{}, err
		}
		for _, problem := range herr.Problems {
			if err := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s: %s", r.theme.ErrorPrefix, problem.Field, problem.Message)); err != nil {
				return session.MatchHeader{}, err
			}
		}
	}
}

// Fill prompts every visible widget of the session in layout order.
// Visibility is re-evaluated before each widget so earlier answers can reveal
// or hide later ones. Rejected input is reported and asked again; any other
// error, including ErrAborted, stops the pass.
func (r *Renderer) Fill(ctx context.Context, s *session.Session) (*State, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if s == nil {
		return nil, errors.New("tui: session is required")
	}
	state := NewState()
	store := s.Store()

	for _, category := range s.Screen().Categories {
		if category.Title != "" {
			if err := r.driver.Info(ctx, r.theme.SectionPrefix+category.Title); err != nil {
				return state, err
			}
		}
		for _, row := range category.Rows {
			for _, widget := range row.Widgets {
				if err := ctx.Err(); err != nil {
					return state, err
				}
				control, ok := s.Control(widget.ID)
				if !ok {
					return state, fmt.Errorf("tui: no control for widget %q", widget.ID)
				}
				visible, err := widgets.Visible(widget, store)
				if err != nil {
					return state, fmt.Errorf("tui: %s: %w", widget.ID, err)
				}
				if !visible {
					state.markHidden(widget.ID)
					continue
				}
				state.markPrompted(widget.ID)
				if err := r.promptControl(ctx, control, store, state); err != nil {
					return state, err
				}
			}
		}
	}

	r.logger.Debug("fill complete",
		"session", s.ID(),
		"prompted", len(state.prompted),
		"hidden", len(state.hidden),
		"rejections", state.Rejections(),
	)
	return state, nil
}

func (r *Renderer) promptControl(ctx context.Context, control widgets.Control, store *values.Store, state *State) error {
	widget := control.Widget()
	label := displayLabel(widget)

	switch c := control.(type) {
	case widgets.BooleanControl:
		current, _ := c.Read(store).AsBool()
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: current, Help: widget.Hint})
		if err != nil {
			return err
		}
		return c.Apply(store, strconv.FormatBool(answer))

	case widgets.ChoiceControl:
		current, _ := c.Read(store).AsText()
		selected, err := r.selectOne(ctx, label, c.Options(), current)
		if err != nil {
			return err
		}
		return c.Apply(store, selected)

	case widgets.TextControl:
		if c.Options().Multiline {
			return r.askUntilValid(ctx, control, store, state, func(def string) (string, error) {
				return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: def, Help: widget.Hint})
			})
		}
		return r.askUntilValid(ctx, control, store, state, r.inputFor(ctx, label, widget.Hint))

	case widgets.CounterControl:
		lo, hi := c.Bounds()
		return r.askUntilValid(ctx, control, store, state, r.inputFor(ctx, fmt.Sprintf("%s (%d-%d)", label, lo, hi), widget.Hint))

	case widgets.RangeControl:
		lo, hi := c.Bounds()
		msg := fmt.Sprintf("%s (%s-%s)", label, formatFloat(lo), formatFloat(hi))
		return r.askUntilValid(ctx, control, store, state, r.inputFor(ctx, msg, widget.Hint))

	default:
		return r.askUntilValid(ctx, control, store, state, r.inputFor(ctx, label, widget.Hint))
	}
}

func (r *Renderer) inputFor(ctx context.Context, message, help string) func(string) (string, error) {
	return func(def string) (string, error) {
		return r.driver.Input(ctx, InputConfig{Message: message, Default: def, Help: help})
	}
}

func (r *Renderer) askUntilValid(ctx context.Context, control widgets.Control, store *values.Store, state *State, ask func(def string) (string, error)) error {
	widget := control.Widget()
	for {
		raw, err := ask(control.Read(store).String())
		if err != nil {
			return err
		}
		err = control.Apply(store, raw)
		if err == nil {
			return nil
		}
		var verr *widgets.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		msg := fmt.Sprintf("Invalid %s: %s", displayLabel(widget), verr.Reason)
		state.addError(widget.ID, msg)
		r.logger.Debug("input rejected", "widget", widget.ID, "reason", verr.Reason)
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+msg); err != nil {
			return err
		}
	}
}

func (r *Renderer) selectOne(ctx context.Context, message string, options []string, current string) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("tui: %s has no options", message)
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      options,
			DefaultIndex: indexOfFold(options, current),
		})
		if err != nil {
			return "", err
		}
		if idx >= 0 && idx < len(options) {
			return options[idx], nil
		}
		if err := r.driver.Info(ctx, fmt.Sprintf("%sInvalid %s selection", r.theme.ErrorPrefix, message)); err != nil {
			return "", err
		}
	}
}

func displayLabel(widget layout.Widget) string {
	if widget.Label != "" {
		return widget.Label
	}
	return widget.ID
}

func headerInput(h session.MatchHeader) session.HeaderInput {
	in := session.HeaderInput{
		Scout:     h.Scout,
		Alliance:  h.Alliance.Label(),
		MatchType: h.MatchType,
	}
	if h.Position > 0 {
		in.Position = strconv.Itoa(h.Position)
	}
	if h.MatchNumber > 0 {
		in.MatchNumber = strconv.Itoa(h.MatchNumber)
	}
	if h.TeamNumber > 0 {
		in.TeamNumber = strconv.Itoa(h.TeamNumber)
	}
	return in
}

func positionOptions() []string {
	out := make([]string, 0, len(session.Positions))
	for _, p := range session.Positions {
		out = append(out, strconv.Itoa(p))
	}
	return out
}

func indexOfFold(options []string, value string) int {
	if idx := indexOf(options, value); idx >= 0 {
		return idx
	}
	for i, option := range options {
		if strings.EqualFold(option, value) {
			return i
		}
	}
	return -1
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
