package handler

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/textdoc"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// annotationHandler covers level-agnostic sticky notes. They have no C4 macro.
type annotationHandler struct{}

func init() {
	registry.Default.Register(&annotationHandler{})
}

func (annotationHandler) EntityType() diagram.EntityType { return diagram.TypeAnnotation }

func (annotationHandler) DefaultName() string { return defaultName(diagram.TypeAnnotation) }

func (annotationHandler) CheckPatch(diagram.EntityPatch) error { return nil }

func (annotationHandler) Validate(*diagram.Entity, *diagram.Snapshot) []result.Warning { return nil }

func (annotationHandler) Macro() string { return "" }

func (annotationHandler) HCLBlock(e *diagram.Entity) *hclwrite.Block {
	block := elementBlock(e)
	body := block.Body()
	if e.Width != nil {
		textdoc.SetAttributeNumber(body, "width", *e.Width)
	}
	if e.Height != nil {
		textdoc.SetAttributeNumber(body, "height", *e.Height)
	}
	return block
}
