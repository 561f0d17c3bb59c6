package generate

import (
	"strings"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/hierarchy"
	"github.com/c4-modeller/engine/internal/textdoc"
)

// Markdown renders s as Markdown documentation: metadata, software systems
// with their containers and components, external systems, people and a
// relationship table.
func Markdown(s diagram.Snapshot) string {
	doc := MarkdownDocument(&s)
	return doc.Render()
}

// MarkdownDocument builds the statement document behind Markdown.
func MarkdownDocument(s *diagram.Snapshot) *textdoc.Document {
	doc := textdoc.New("  ")
	doc.AddHeader("# " + s.Metadata.Name)
	doc.AddHeader("")
	doc.AddHeader("**Version:** " + s.Metadata.Version)
	doc.AddHeader("**Author:** " + s.Metadata.Author)
	doc.AddHeader("")
	doc.AddHeader("---")
	doc.AddHeader("")

	tree := hierarchy.Build(s)
	if len(tree.Systems) > 0 {
		sec := doc.Section("systems")
		sec.Blank = false
		sec.Add("## Software Systems")
		sec.Add("")
		for _, n := range tree.Systems {
			describe(sec, n.Entity, true)
			if len(n.Containers) == 0 {
				continue
			}
			sec.Add("#### Containers")
			sec.Add("")
			for _, c := range n.Containers {
				sec.Add("- " + bullet(c.Entity))
				for _, k := range c.Components {
					sec.AddIndented(1, "- "+bullet(k))
				}
			}
			sec.Add("")
		}
	}

	if len(s.ExternalSystems) > 0 {
		sec := doc.Section("external")
		sec.Blank = false
		sec.Add("## External Systems")
		sec.Add("")
		for i := range s.ExternalSystems {
			describe(sec, &s.ExternalSystems[i], false)
		}
	}

	if len(s.People) > 0 {
		sec := doc.Section("people")
		sec.Blank = false
		sec.Add("## People / Actors")
		sec.Add("")
		for i := range s.People {
			describe(sec, &s.People[i], false)
		}
	}

	if len(s.Relationships) > 0 {
		sec := doc.Section("relationships")
		sec.Add("## Relationships")
		sec.Add("")
		sec.Add("| From | To | Description | Technology |")
		sec.Add("|------|-----|-------------|------------|")
		for _, r := range s.Relationships {
			sec.Add("| " + textdoc.Cell(nameOf(s, r.From)) + " | " + textdoc.Cell(nameOf(s, r.To)) + " | " +
				textdoc.Cell(r.Description) + " | " + textdoc.Cell(r.Technology) + " |")
		}
	}
	return doc
}

func describe(sec *textdoc.Section, e *diagram.Entity, withTech bool) {
	sec.Add("### " + e.Name)
	sec.Add("")
	if e.Description != "" {
		sec.Add(e.Description)
		sec.Add("")
	}
	if withTech && e.Technology != "" {
		sec.Add("**Technology:** " + e.Technology)
		sec.Add("")
	}
}

func bullet(e *diagram.Entity) string {
	var b strings.Builder
	b.WriteString("**" + e.Name + "**")
	if e.Technology != "" {
		b.WriteString(" (" + e.Technology + ")")
	}
	if e.Description != "" {
		b.WriteString(": " + e.Description)
	}
	return b.String()
}

// nameOf resolves an entity id to its name, falling back to the id.
func nameOf(s *diagram.Snapshot, id string) string {
	if e := s.EntityByID(id); e != nil && e.Type != diagram.TypeAnnotation {
		return e.Name
	}
	return id
}
