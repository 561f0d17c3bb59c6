package diagram

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T { return &v }

// EntityPatch is a partial entity update. Nil fields are left unchanged.
// Tags replaces the whole tag list when non-nil.
type EntityPatch struct {
	Name            *string   `json:"name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Technology      *string   `json:"technology,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	Position        *Position `json:"position,omitempty"`
	ParentSystem    *string   `json:"parentSystem,omitempty"`
	ParentContainer *string   `json:"parentContainer,omitempty"`
	Width           *float64  `json:"width,omitempty"`
	Height          *float64  `json:"height,omitempty"`
}

// Apply merges p into e.
func (p EntityPatch) Apply(e *Entity) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Technology != nil {
		e.Technology = *p.Technology
	}
	if p.Tags != nil {
		e.Tags = cloneTags(*p.Tags)
	}
	if p.Position != nil {
		e.Position = *p.Position
	}
	if p.ParentSystem != nil {
		e.ParentSystem = *p.ParentSystem
	}
	if p.ParentContainer != nil {
		e.ParentContainer = *p.ParentContainer
	}
	if p.Width != nil {
		e.Width = Ptr(*p.Width)
	}
	if p.Height != nil {
		e.Height = Ptr(*p.Height)
	}
}

// RelationshipPatch is a partial relationship update. Nil fields are left unchanged.
type RelationshipPatch struct {
	From           *string         `json:"from,omitempty"`
	To             *string         `json:"to,omitempty"`
	Description    *string         `json:"description,omitempty"`
	Technology     *string         `json:"technology,omitempty"`
	ArrowDirection *ArrowDirection `json:"arrowDirection,omitempty"`
	LineStyle      *LineStyle      `json:"lineStyle,omitempty"`
	Animated       *bool           `json:"animated,omitempty"`
}

// Apply merges p into r.
func (p RelationshipPatch) Apply(r *Relationship) {
	if p.From != nil {
		r.From = *p.From
	}
	if p.To != nil {
		r.To = *p.To
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Technology != nil {
		r.Technology = *p.Technology
	}
	if p.ArrowDirection != nil {
		r.ArrowDirection = *p.ArrowDirection
	}
	if p.LineStyle != nil {
		r.LineStyle = *p.LineStyle
	}
	if p.Animated != nil {
		r.Animated = *p.Animated
	}
}

// DecodeEntityPatch reads a JSON entity patch. Unknown fields and wrongly
// typed values are reported as *ValidationError.
func DecodeEntityPatch(r io.Reader) (EntityPatch, error) {
	var p EntityPatch
	if err := decodeStrict(r, &p); err != nil {
		return EntityPatch{}, err
	}
	return p, nil
}

// DecodeRelationshipPatch reads a JSON relationship patch.
func DecodeRelationshipPatch(r io.Reader) (RelationshipPatch, error) {
	var p RelationshipPatch
	if err := decodeStrict(r, &p); err != nil {
		return RelationshipPatch{}, err
	}
	return p, nil
}

func decodeStrict(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read patch: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &ValidationError{Field: typeErr.Field, Msg: "expected " + typeErr.Type.String() + ", got " + typeErr.Value}
		}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return &ParseError{Format: "json", Msg: syntaxErr.Error(), Err: err}
		}
		return &ValidationError{Msg: err.Error()}
	}
	return nil
}

func cloneTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
