package generate

import (
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/handler"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/textdoc"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// HCL renders s as HCL: a workspace block with the metadata, one block per
// entity in collection order, then one block per relationship. Relationship
// endpoints that name an entity are written as references (system.system_1).
func HCL(s diagram.Snapshot) []byte {
	ws := textdoc.HCLBlock("workspace", "")
	body := ws.Body()
	textdoc.SetAttributeStr(body, "name", s.Metadata.Name)
	textdoc.SetAttributeStr(body, "version", s.Metadata.Version)
	textdoc.SetAttributeStr(body, "author", s.Metadata.Author)

	blocks := []*hclwrite.Block{ws}
	refs := make(handler.RefMap)
	for _, t := range diagram.EntityTypes() {
		h, ok := registry.Default.Get(t)
		if !ok {
			continue
		}
		es := s.Entities(t)
		for i := range es {
			blocks = append(blocks, h.HCLBlock(&es[i]))
			if _, dup := refs[es[i].ID]; !dup {
				refs[es[i].ID] = handler.Address(&es[i])
			}
		}
	}
	for i := range s.Relationships {
		blocks = append(blocks, handler.RelationshipBlock(&s.Relationships[i], refs))
	}
	return textdoc.BlocksToBytes(blocks...)
}
