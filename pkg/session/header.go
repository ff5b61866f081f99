package session

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Alliance is the side a scouted robot plays on.
type Alliance string

const (
	AllianceRed  Alliance = "red"
	AllianceBlue Alliance = "blue"
)

// Label returns the capitalised alliance name used in headers.
func (a Alliance) Label() string {
	switch a {
	case AllianceRed:
		return "Red"
	case AllianceBlue:
		return "Blue"
	default:
		return string(a)
	}
}

// ParseAlliance accepts red or blue in any case.
func ParseAlliance(raw string) (Alliance, bool) {
	switch Alliance(strings.ToLower(strings.TrimSpace(raw))) {
	case AllianceRed:
		return AllianceRed, true
	case AllianceBlue:
		return AllianceBlue, true
	}
	return "", false
}

// MatchTypes lists the accepted match types in display order.
var MatchTypes = []string{"qualification", "semifinals", "finals", "practice", "other"}

// Positions lists the driver station positions of an alliance.
var Positions = []int{1, 2, 3}

// MatchHeader identifies what is being scouted and by whom.
type MatchHeader struct {
	Scout       string
	Alliance    Alliance
	Position    int
	MatchType   string
	MatchNumber int
	TeamNumber  int
}

// HeaderInput carries header fields as typed by the user.
type HeaderInput struct {
	Scout       string
	Alliance    string
	Position    string
	MatchType   string
	MatchNumber string
	TeamNumber  string
}

// FieldProblem describes one rejected header field.
type FieldProblem struct {
	Field   string
	Message string
}

// HeaderError lists every problem found in a match header.
type HeaderError struct {
	Problems []FieldProblem
}

func (e *HeaderError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, p.Field+": "+p.Message)
	}
	return "session: invalid match header: " + strings.Join(parts, "; ")
}

// Problem returns the message recorded for field, if any.
func (e *HeaderError) Problem(field string) (string, bool) {
	for _, p := range e.Problems {
		if p.Field == field {
			return p.Message, true
		}
	}
	return "", false
}

func (e *HeaderError) add(field, format string, args ...any) {
	e.Problems = append(e.Problems, FieldProblem{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (e *HeaderError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}
	return e
}

// Validate reports every invalid field as a *HeaderError.
func (h MatchHeader) Validate() error {
	problems := &HeaderError{}
	if strings.TrimSpace(h.Scout) == "" {
		problems.add("scout", "enter your name")
	}
	if h.Alliance != AllianceRed && h.Alliance != AllianceBlue {
		problems.add("alliance", "must be red or blue")
	}
	if h.Position < Positions[0] || h.Position > Positions[len(Positions)-1] {
		problems.add("position", "must be between %d and %d", Positions[0], Positions[len(Positions)-1])
	}
	if !validMatchType(h.MatchType) {
		problems.add("match type", "invalid match type %q", h.MatchType)
	}
	if h.MatchNumber < 1 {
		problems.add("match number", "must be at least 1")
	}
	if h.TeamNumber < 1 {
		problems.add("team number", "must be at least 1")
	}
	return problems.orNil()
}

// String renders the header line stored with every record, for example
// "Sam - Red 1 254 Qualification 12".
func (h MatchHeader) String() string {
	return fmt.Sprintf("%s - %s %d %d %s %d",
		strings.TrimSpace(h.Scout), h.Alliance.Label(), h.Position, h.TeamNumber, capitalise(h.MatchType), h.MatchNumber)
}

// ParseMatchHeader converts raw field text into a validated header. Problems
// with every field are collected into one *HeaderError.
func ParseMatchHeader(in HeaderInput) (MatchHeader, error) {
	problems := &HeaderError{}
	header := MatchHeader{
		Scout:     strings.TrimSpace(in.Scout),
		MatchType: strings.ToLower(strings.TrimSpace(in.MatchType)),
	}

	if alliance, ok := ParseAlliance(in.Alliance); ok {
		header.Alliance = alliance
	} else {
		problems.add("alliance", "must be red or blue")
	}
	header.Position = positiveInt(problems, "position", in.Position)
	header.MatchNumber = positiveInt(problems, "match number", in.MatchNumber)
	header.TeamNumber = positiveInt(problems, "team number", in.TeamNumber)

	if err := header.Validate(); err != nil {
		for _, p := range err.(*HeaderError).Problems {
			if _, seen := problems.Problem(p.Field); !seen {
				problems.Problems = append(problems.Problems, p)
			}
		}
	}
	if err := problems.orNil(); err != nil {
		return MatchHeader{}, err
	}
	return header, nil
}

func positiveInt(problems *HeaderError, field, raw string) int {
	text := strings.TrimSpace(raw)
	if text == "" {
		problems.add(field, "enter a %s", field)
		return 0
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		problems.add(field, "%s must be a whole number", field)
		return 0
	}
	return n
}

func validMatchType(t string) bool {
	return slices.Contains(MatchTypes, t)
}

func capitalise(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
