package diagram

import (
	"math"
	"strconv"
	"strings"
)

// Validate checks the shape of an entity patch: a present name must not be
// blank, coordinates and sizes must be finite, sizes must not be negative,
// tags must be non-blank and free of commas (Structurizr joins tags with them).
// Type-specific rules live in the handler for each entity type.
func (p EntityPatch) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Msg: "must not be blank"}
	}
	if p.Position != nil {
		if !finite(p.Position.X) || !finite(p.Position.Y) {
			return &ValidationError{Field: "position", Msg: "coordinates must be finite numbers"}
		}
	}
	if p.Width != nil && (!finite(*p.Width) || *p.Width < 0) {
		return &ValidationError{Field: "width", Msg: "must be a finite, non-negative number"}
	}
	if p.Height != nil && (!finite(*p.Height) || *p.Height < 0) {
		return &ValidationError{Field: "height", Msg: "must be a finite, non-negative number"}
	}
	if p.Tags != nil {
		for i, t := range *p.Tags {
			if strings.TrimSpace(t) == "" {
				return &ValidationError{Field: "tags", Msg: "tag at index " + strconv.Itoa(i) + " is blank"}
			}
			if strings.Contains(t, ",") {
				return &ValidationError{Field: "tags", Msg: "tag at index " + strconv.Itoa(i) + " contains a comma"}
			}
		}
	}
	return nil
}

// Validate checks the enum fields of a relationship patch.
func (p RelationshipPatch) Validate() error {
	if p.ArrowDirection != nil && !p.ArrowDirection.Valid() {
		return &ValidationError{Field: "arrowDirection", Msg: "unknown direction " + quote(string(*p.ArrowDirection)) + " (want right, left, both or none)"}
	}
	if p.LineStyle != nil && !p.LineStyle.Valid() {
		return &ValidationError{Field: "lineStyle", Msg: "unknown style " + quote(string(*p.LineStyle)) + " (want solid, dashed or dotted)"}
	}
	return nil
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
