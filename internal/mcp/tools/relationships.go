package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/c4-modeller/engine/internal/diagram"
)

// AddRelationshipInput defines the input for the add_relationship tool.
type AddRelationshipInput struct {
	From           string  `json:"from" jsonschema:"Id of the source element"`
	To             string  `json:"to" jsonschema:"Id of the target element"`
	Description    *string `json:"description,omitempty" jsonschema:"What the relationship does, e.g. Reads orders"`
	Technology     *string `json:"technology,omitempty" jsonschema:"Protocol or technology, e.g. HTTPS"`
	ArrowDirection *string `json:"arrowDirection,omitempty" jsonschema:"right (default), left, both or none"`
	LineStyle      *string `json:"lineStyle,omitempty" jsonschema:"solid (default), dashed or dotted"`
	Animated       *bool   `json:"animated,omitempty" jsonschema:"Animate the edge in the editor"`
}

// RelationshipOutput carries one relationship.
type RelationshipOutput struct {
	Relationship diagram.Relationship `json:"relationship"`
}

// AddRelationshipTool returns the tool definition for add_relationship.
func AddRelationshipTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_relationship",
		Description: "Connect two elements with a directed relationship. Endpoints that do not exist are accepted and reported by validate_model.",
	}
}

// HandleAddRelationship handles the add_relationship tool call.
func (h *Handler) HandleAddRelationship(ctx context.Context, req *mcp.CallToolRequest, input AddRelationshipInput) (*mcp.CallToolResult, RelationshipOutput, error) {
	p := relationshipPatch(input.Description, input.Technology, input.ArrowDirection, input.LineStyle, input.Animated)
	p.From = &input.From
	p.To = &input.To
	if p.Description == nil {
		p.Description = diagram.Ptr("")
	}
	r, err := h.Store.AddRelationship(p)
	if err != nil {
		h.Logger.Error("add_relationship failed", "from", input.From, "to", input.To, "error", err)
		return nil, RelationshipOutput{}, fmt.Errorf("failed to add relationship: %w", err)
	}
	h.Logger.Info("add_relationship", "id", r.ID, "from", r.From, "to", r.To)
	return nil, RelationshipOutput{Relationship: r}, nil
}

// UpdateRelationshipInput defines the input for the update_relationship tool.
type UpdateRelationshipInput struct {
	ID             string  `json:"id" jsonschema:"Id of the relationship to update"`
	From           *string `json:"from,omitempty" jsonschema:"New source element id"`
	To             *string `json:"to,omitempty" jsonschema:"New target element id"`
	Description    *string `json:"description,omitempty" jsonschema:"What the relationship does, e.g. Reads orders"`
	Technology     *string `json:"technology,omitempty" jsonschema:"Protocol or technology, e.g. HTTPS"`
	ArrowDirection *string `json:"arrowDirection,omitempty" jsonschema:"right (default), left, both or none"`
	LineStyle      *string `json:"lineStyle,omitempty" jsonschema:"solid (default), dashed or dotted"`
	Animated       *bool   `json:"animated,omitempty" jsonschema:"Animate the edge in the editor"`
}

// UpdateRelationshipTool returns the tool definition for update_relationship.
func UpdateRelationshipTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_relationship",
		Description: "Change fields of an existing relationship. Only the fields given are changed.",
	}
}

// HandleUpdateRelationship handles the update_relationship tool call.
func (h *Handler) HandleUpdateRelationship(ctx context.Context, req *mcp.CallToolRequest, input UpdateRelationshipInput) (*mcp.CallToolResult, RelationshipOutput, error) {
	if _, err := h.Store.RelationshipByID(input.ID); err != nil {
		return nil, RelationshipOutput{}, err
	}
	p := relationshipPatch(input.Description, input.Technology, input.ArrowDirection, input.LineStyle, input.Animated)
	p.From = input.From
	p.To = input.To
	if err := h.Store.UpdateRelationship(input.ID, p); err != nil {
		h.Logger.Error("update_relationship failed", "id", input.ID, "error", err)
		return nil, RelationshipOutput{}, fmt.Errorf("failed to update relationship: %w", err)
	}
	r, err := h.Store.RelationshipByID(input.ID)
	if err != nil {
		return nil, RelationshipOutput{}, err
	}
	h.Logger.Info("update_relationship", "id", input.ID)
	return nil, RelationshipOutput{Relationship: r}, nil
}

// DeleteRelationshipInput defines the input for the delete_relationship tool.
type DeleteRelationshipInput struct {
	ID string `json:"id" jsonschema:"Id of the relationship to delete"`
}

// DeleteRelationshipTool returns the tool definition for delete_relationship.
func DeleteRelationshipTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_relationship",
		Description: "Delete a relationship by id.",
	}
}

// HandleDeleteRelationship handles the delete_relationship tool call.
func (h *Handler) HandleDeleteRelationship(ctx context.Context, req *mcp.CallToolRequest, input DeleteRelationshipInput) (*mcp.CallToolResult, DeleteOutput, error) {
	if _, err := h.Store.RelationshipByID(input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	h.Store.DeleteRelationship(input.ID)
	h.Logger.Info("delete_relationship", "id", input.ID)
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}
