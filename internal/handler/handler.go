package handler

import (
	"strings"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/textdoc"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// RefMap maps entity ids to HCL block addresses (e.g. "system-1" -> "system.system_1").
type RefMap map[string]string

// hclKinds are the HCL block types per entity type.
var hclKinds = map[diagram.EntityType]string{
	diagram.TypeSystem:         "system",
	diagram.TypeContainer:      "container",
	diagram.TypeComponent:      "component",
	diagram.TypePerson:         "person",
	diagram.TypeExternalSystem: "external_system",
	diagram.TypeAnnotation:     "annotation",
}

// HCLKind returns the HCL block type for t.
func HCLKind(t diagram.EntityType) string {
	return hclKinds[t]
}

// Address returns the traversal address of e in the HCL export.
func Address(e *diagram.Entity) string {
	return HCLKind(e.Type) + "." + textdoc.HCLName(e.ID)
}

// refTraversal builds hcl.Traversal for an address (e.g. system.system_1).
func refTraversal(addr string) hcl.Traversal {
	var t hcl.Traversal
	for _, part := range strings.Split(addr, ".") {
		if len(t) == 0 {
			t = append(t, hcl.TraverseRoot{Name: part})
		} else {
			t = append(t, hcl.TraverseAttr{Name: part})
		}
	}
	return t
}

// defaultName is "New " + capitalized type, e.g. "New ExternalSystem".
func defaultName(t diagram.EntityType) string {
	return "New " + t.Title()
}

// checkNoSize rejects width/height on entity types other than annotations.
func checkNoSize(p diagram.EntityPatch) error {
	if p.Width != nil {
		return &diagram.ValidationError{Field: "width", Msg: "only annotations have a width"}
	}
	if p.Height != nil {
		return &diagram.ValidationError{Field: "height", Msg: "only annotations have a height"}
	}
	return nil
}

// elementBlock writes the attributes shared by every entity type.
func elementBlock(e *diagram.Entity) *hclwrite.Block {
	block := textdoc.HCLBlock(HCLKind(e.Type), textdoc.HCLName(e.ID))
	body := block.Body()
	textdoc.SetAttributeStr(body, "id", e.ID)
	textdoc.SetAttributeStr(body, "name", e.Name)
	textdoc.SetAttributeStr(body, "description", e.Description)
	textdoc.SetAttributeStr(body, "technology", e.Technology)
	textdoc.SetAttributeList(body, "tags", e.Tags)
	textdoc.SetAttributePosition(body, "position", e.Position.X, e.Position.Y)
	return block
}

// RelationshipBlock renders r as a relationship block. Endpoints present in
// refs are written as traversals, unknown endpoints as plain strings.
func RelationshipBlock(r *diagram.Relationship, refs RefMap) *hclwrite.Block {
	block := textdoc.HCLBlock("relationship", textdoc.HCLName(r.ID))
	body := block.Body()
	textdoc.SetAttributeStr(body, "id", r.ID)
	setRef(body, "from", r.From, refs)
	setRef(body, "to", r.To, refs)
	textdoc.SetAttributeStr(body, "description", r.Description)
	textdoc.SetAttributeStr(body, "technology", r.Technology)
	textdoc.SetAttributeStr(body, "arrow_direction", string(r.Direction()))
	textdoc.SetAttributeStr(body, "line_style", string(r.Style()))
	textdoc.SetAttributeBool(body, "animated", r.Animated)
	return block
}

func setRef(body *hclwrite.Body, name, id string, refs RefMap) {
	if addr, ok := refs[id]; ok {
		body.SetAttributeTraversal(name, refTraversal(addr))
		return
	}
	textdoc.SetAttributeStr(body, name, id)
}
