// Package record converts value store contents to and from the persisted
// record format: {"header": string, "responses": {<id>: <scalar>}}. Encoding
// is strict; decoding is lenient about missing keys but rejects text that is
// not a JSON object.
package record

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/goliatone/go-scouting/pkg/values"
)

// Record is the persisted unit: a caller-built summary line plus the exported
// store snapshot.
type Record struct {
	Header    string          `json:"header"`
	Responses values.Snapshot `json:"responses"`
}

// ToRecord captures the current store contents under header.
func ToRecord(header string, store *values.Store) Record {
	return Record{Header: header, Responses: store.Snapshot()}
}

// Encode serialises rec with two-space indentation.
func Encode(rec Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("record: encode: %w", err)
	}
	return data, nil
}

// DeserializationError reports persisted text that cannot be read back as a
// record. Batch callers skip the offending file.
type DeserializationError struct {
	Reason string
	Err    error
}

func (e *DeserializationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("record: %s: %v", e.Reason, e.Err)
	}
	return "record: " + e.Reason
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// FromRecord parses persisted text. A missing or null header reads as "", a
// non-string scalar header is stringified, and a missing, null, or non-object
// responses value reads as empty.
func FromRecord(data []byte) (Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Record{}, &DeserializationError{Reason: "empty input"}
	}

	var root map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &root); err != nil {
		return Record{}, &DeserializationError{Reason: "not a JSON object", Err: err}
	}
	if root == nil {
		return Record{}, &DeserializationError{Reason: "not a JSON object"}
	}

	header, err := decodeHeader(root["header"])
	if err != nil {
		return Record{}, err
	}

	var responses values.Snapshot
	if raw := bytes.TrimSpace(root["responses"]); len(raw) > 0 && raw[0] == '{' {
		if err := responses.UnmarshalJSON(raw); err != nil {
			return Record{}, &DeserializationError{Reason: "invalid responses", Err: err}
		}
	}

	return Record{Header: header, Responses: responses}, nil
}

func decodeHeader(raw json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", &DeserializationError{Reason: "invalid header", Err: err}
		}
		return s, nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(trimmed, &b); err != nil {
			return "", &DeserializationError{Reason: "invalid header", Err: err}
		}
		return strconv.FormatBool(b), nil
	case '{', '[':
		return "", &DeserializationError{Reason: "header must be a scalar"}
	default:
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return "", &DeserializationError{Reason: "invalid header", Err: err}
		}
		return n.String(), nil
	}
}
