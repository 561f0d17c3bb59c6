package handler

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/textdoc"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

type containerHandler struct{}

func init() {
	registry.Default.Register(&containerHandler{})
}

func (containerHandler) EntityType() diagram.EntityType { return diagram.TypeContainer }

func (containerHandler) DefaultName() string { return defaultName(diagram.TypeContainer) }

func (containerHandler) CheckPatch(p diagram.EntityPatch) error { return checkNoSize(p) }

// Validate flags a parentSystem that names no existing system.
func (containerHandler) Validate(e *diagram.Entity, s *diagram.Snapshot) []result.Warning {
	if e.ParentSystem == "" {
		return nil
	}
	for _, sys := range s.Systems {
		if sys.ID == e.ParentSystem {
			return nil
		}
	}
	return []result.Warning{{
		Type:       result.SeverityWarning,
		Message:    `Container "` + e.Name + `" references non-existent parent system`,
		ElementID:  e.ID,
		Suggestion: "Set parentSystem to the id of an existing system or clear it",
	}}
}

func (containerHandler) Macro() string { return "Container" }

func (containerHandler) HCLBlock(e *diagram.Entity) *hclwrite.Block {
	block := elementBlock(e)
	textdoc.SetAttributeStr(block.Body(), "parent_system", e.ParentSystem)
	return block
}
