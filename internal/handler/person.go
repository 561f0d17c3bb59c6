package handler

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

type personHandler struct{}

func init() {
	registry.Default.Register(&personHandler{})
}

func (personHandler) EntityType() diagram.EntityType { return diagram.TypePerson }

func (personHandler) DefaultName() string { return defaultName(diagram.TypePerson) }

func (personHandler) CheckPatch(p diagram.EntityPatch) error { return checkNoSize(p) }

func (personHandler) Validate(*diagram.Entity, *diagram.Snapshot) []result.Warning { return nil }

func (personHandler) Macro() string { return "Person" }

func (personHandler) HCLBlock(e *diagram.Entity) *hclwrite.Block { return elementBlock(e) }
