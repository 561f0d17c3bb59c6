// Package validation runs the read-only referential and complexity checks
// over a model snapshot.
package validation

import (
	"fmt"

	_ "github.com/c4-modeller/engine/internal/handler" // register handlers
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
)

// DefaultComplexityThreshold is the visible-element count above which an
// info warning suggests splitting the diagram.
const DefaultComplexityThreshold = 15

// Validate checks s as seen at level l. It never modifies s. Warnings come in
// this order: parent references (containers, then components), dangling
// relationship endpoints, complexity. threshold <= 0 selects the default.
func Validate(s *diagram.Snapshot, l diagram.Level, threshold int) []result.Warning {
	return ValidateWith(registry.Default, s, l, threshold)
}

// ValidateWith is Validate with an explicit handler registry.
func ValidateWith(reg *registry.Registry, s *diagram.Snapshot, l diagram.Level, threshold int) []result.Warning {
	if threshold <= 0 {
		threshold = DefaultComplexityThreshold
	}
	warnings := []result.Warning{}

	for _, t := range []diagram.EntityType{diagram.TypeContainer, diagram.TypeComponent} {
		h, ok := reg.Get(t)
		if !ok {
			continue
		}
		entities := s.Entities(t)
		for i := range entities {
			warnings = append(warnings, h.Validate(&entities[i], s)...)
		}
	}

	ids := make(map[string]bool, s.Len())
	for _, e := range s.AllEntities() {
		ids[e.ID] = true
	}
	for _, r := range s.Relationships {
		if !ids[r.From] {
			warnings = append(warnings, result.Warning{
				Type:       result.SeverityError,
				Message:    "Relationship references non-existent source element: " + r.From,
				ElementID:  r.ID,
				Suggestion: "Delete the relationship or reconnect its source",
			})
		}
		if !ids[r.To] {
			warnings = append(warnings, result.Warning{
				Type:       result.SeverityError,
				Message:    "Relationship references non-existent target element: " + r.To,
				ElementID:  r.ID,
				Suggestion: "Delete the relationship or reconnect its target",
			})
		}
	}

	if n := len(s.Visible(l)); n > threshold {
		warnings = append(warnings, result.Warning{
			Type:    result.SeverityInfo,
			Message: fmt.Sprintf("Current view has %d elements. Consider splitting into multiple diagrams for clarity.", n),
		})
	}
	return warnings
}
