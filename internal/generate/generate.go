// Package generate renders model snapshots as PlantUML, Mermaid, Markdown,
// HTML and HCL documents. All generators are pure and export-only.
package generate

import (
	_ "github.com/c4-modeller/engine/internal/handler" // register handlers
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/textdoc"
)

// macroOrder is the order element macros are emitted in.
var macroOrder = []diagram.EntityType{
	diagram.TypePerson,
	diagram.TypeSystem,
	diagram.TypeExternalSystem,
	diagram.TypeContainer,
	diagram.TypeComponent,
}

// detail returns the most detailed level needed to show every element of s.
func detail(s *diagram.Snapshot) diagram.Level {
	switch {
	case len(s.Components) > 0:
		return diagram.LevelComponent
	case len(s.Containers) > 0:
		return diagram.LevelContainer
	}
	return diagram.LevelContext
}

// element is an entity with its macro name.
type element struct {
	macro  string
	entity diagram.Entity
}

// elements returns the entities that have a C4 macro, in macroOrder.
func elements(s *diagram.Snapshot) []element {
	var out []element
	for _, t := range macroOrder {
		h, ok := registry.Default.Get(t)
		if !ok || h.Macro() == "" {
			continue
		}
		for _, e := range s.Entities(t) {
			out = append(out, element{macro: h.Macro(), entity: e})
		}
	}
	return out
}

// drawable returns the relationships whose endpoints are both emitted elements.
func drawable(s *diagram.Snapshot, els []element) []diagram.Relationship {
	ids := make(map[string]bool, len(els))
	for _, el := range els {
		ids[el.entity.ID] = true
	}
	var out []diagram.Relationship
	for _, r := range s.Relationships {
		if ids[r.From] && ids[r.To] {
			out = append(out, r)
		}
	}
	return out
}

// elementArgs renders the macro arguments of an element. Containers and
// components take (alias, label, techn, descr); the rest (alias, label, descr).
func elementArgs(el element) string {
	e := el.entity
	alias := textdoc.Sanitize(e.ID)
	switch e.Type {
	case diagram.TypeContainer, diagram.TypeComponent:
		return alias + `, "` + textdoc.Quote(e.Name) + `", "` + textdoc.Quote(e.Technology) + `", "` + textdoc.Quote(e.Description) + `"`
	}
	return alias + `, "` + textdoc.Quote(e.Name) + `", "` + textdoc.Quote(e.Description) + `"`
}

// relMacro picks the relationship macro for the arrow direction.
func relMacro(r diagram.Relationship) string {
	switch r.Direction() {
	case diagram.ArrowLeft:
		return "Rel_Back"
	case diagram.ArrowBoth:
		return "BiRel"
	}
	return "Rel"
}

// relStatement renders Rel(from, to, "label"[, "techn"]). Blank labels become "uses".
func relStatement(r diagram.Relationship) string {
	desc := r.Description
	if desc == "" {
		desc = "uses"
	}
	out := relMacro(r) + "(" + textdoc.Sanitize(r.From) + ", " + textdoc.Sanitize(r.To) + `, "` + textdoc.Quote(desc) + `"`
	if r.Technology != "" {
		out += `, "` + textdoc.Quote(r.Technology) + `"`
	}
	return out + ")"
}
