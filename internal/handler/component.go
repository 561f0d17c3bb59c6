package handler

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/textdoc"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

type componentHandler struct{}

func init() {
	registry.Default.Register(&componentHandler{})
}

func (componentHandler) EntityType() diagram.EntityType { return diagram.TypeComponent }

func (componentHandler) DefaultName() string { return defaultName(diagram.TypeComponent) }

func (componentHandler) CheckPatch(p diagram.EntityPatch) error { return checkNoSize(p) }

// Validate flags a parentContainer that names no existing container.
func (componentHandler) Validate(e *diagram.Entity, s *diagram.Snapshot) []result.Warning {
	if e.ParentContainer == "" {
		return nil
	}
	for _, c := range s.Containers {
		if c.ID == e.ParentContainer {
			return nil
		}
	}
	return []result.Warning{{
		Type:       result.SeverityWarning,
		Message:    `Component "` + e.Name + `" references non-existent parent container`,
		ElementID:  e.ID,
		Suggestion: "Set parentContainer to the id of an existing container or clear it",
	}}
}

func (componentHandler) Macro() string { return "Component" }

func (componentHandler) HCLBlock(e *diagram.Entity) *hclwrite.Block {
	block := elementBlock(e)
	body := block.Body()
	textdoc.SetAttributeStr(body, "parent_system", e.ParentSystem)
	textdoc.SetAttributeStr(body, "parent_container", e.ParentContainer)
	return block
}
