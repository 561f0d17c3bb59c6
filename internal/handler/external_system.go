package handler

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/textdoc"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

type externalSystemHandler struct{}

func init() {
	registry.Default.Register(&externalSystemHandler{})
}

func (externalSystemHandler) EntityType() diagram.EntityType { return diagram.TypeExternalSystem }

func (externalSystemHandler) DefaultName() string { return defaultName(diagram.TypeExternalSystem) }

func (externalSystemHandler) CheckPatch(p diagram.EntityPatch) error { return checkNoSize(p) }

func (externalSystemHandler) Validate(*diagram.Entity, *diagram.Snapshot) []result.Warning {
	return nil
}

func (externalSystemHandler) Macro() string { return "System_Ext" }

func (externalSystemHandler) HCLBlock(e *diagram.Entity) *hclwrite.Block {
	block := elementBlock(e)
	textdoc.SetAttributeBool(block.Body(), "external", true)
	return block
}
