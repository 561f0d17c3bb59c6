// Package codec maps model snapshots to and from the native JSON format.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/c4-modeller/engine/internal/diagram"
)

// Serialize encodes s as 2-space indented JSON with the canonical key order
// metadata, systems, containers, components, people, externalSystems,
// relationships and, when present, annotations.
func Serialize(s diagram.Snapshot) ([]byte, error) {
	s = s.Clone()
	s.Normalize()
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize model: %w", err)
	}
	return append(data, '\n'), nil
}

// SerializeString is Serialize for string-based blob stores.
func SerializeString(s diagram.Snapshot) (string, error) {
	data, err := Serialize(s)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Deserialize decodes native JSON. Missing collections become empty slices.
// Invalid JSON, a top level that is not an object, an unknown entity type or
// a type that does not match its collection is a *diagram.ParseError.
func Deserialize(data []byte) (diagram.Snapshot, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return diagram.Snapshot{}, &diagram.ParseError{Format: "json", Msg: "empty input"}
	}
	if trimmed[0] != '{' {
		return diagram.Snapshot{}, &diagram.ParseError{Format: "json", Msg: "top-level value must be an object"}
	}
	var s diagram.Snapshot
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return diagram.Snapshot{}, &diagram.ParseError{Format: "json", Msg: err.Error(), Err: err}
	}
	if err := checkTypes(&s); err != nil {
		return diagram.Snapshot{}, err
	}
	s.Normalize()
	return s, nil
}

// DeserializeString is Deserialize for string-based blob stores.
func DeserializeString(data string) (diagram.Snapshot, error) {
	return Deserialize([]byte(data))
}

// checkTypes sets the type tag of entities that omit it from the collection
// they were found in and rejects tags that are unknown or name another
// collection.
func checkTypes(s *diagram.Snapshot) error {
	for _, t := range diagram.EntityTypes() {
		c := *s.Collection(t)
		for i := range c {
			e := &c[i]
			if e.Type == "" {
				e.Type = t
				continue
			}
			if !e.Type.Valid() {
				err := &diagram.UnknownEntityTypeError{Type: string(e.Type)}
				return &diagram.ParseError{Format: "json", Msg: fmt.Sprintf("%s: entity %q: %v", t.Collection(), e.ID, err), Err: err}
			}
			if e.Type != t {
				return &diagram.ParseError{Format: "json", Msg: fmt.Sprintf("%s: entity %q has type %q", t.Collection(), e.ID, e.Type)}
			}
		}
	}
	return nil
}
