package handler

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

type systemHandler struct{}

func init() {
	registry.Default.Register(&systemHandler{})
}

func (systemHandler) EntityType() diagram.EntityType { return diagram.TypeSystem }

func (systemHandler) DefaultName() string { return defaultName(diagram.TypeSystem) }

func (systemHandler) CheckPatch(p diagram.EntityPatch) error { return checkNoSize(p) }

func (systemHandler) Validate(*diagram.Entity, *diagram.Snapshot) []result.Warning { return nil }

func (systemHandler) Macro() string { return "System" }

func (systemHandler) HCLBlock(e *diagram.Entity) *hclwrite.Block { return elementBlock(e) }
