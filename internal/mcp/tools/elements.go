package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/c4-modeller/engine/internal/diagram"
)

// AddElementInput defines the input for the add_element tool.
type AddElementInput struct {
	Type            string    `json:"type" jsonschema:"Element type: system, container, component, person, externalSystem or annotation"`
	Name            *string   `json:"name,omitempty" jsonschema:"Display name"`
	Description     *string   `json:"description,omitempty" jsonschema:"What the element does"`
	Technology      *string   `json:"technology,omitempty" jsonschema:"Technology, e.g. Go or PostgreSQL"`
	Tags            *[]string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	X               *float64  `json:"x,omitempty" jsonschema:"Canvas x coordinate"`
	Y               *float64  `json:"y,omitempty" jsonschema:"Canvas y coordinate"`
	ParentSystem    *string   `json:"parentSystem,omitempty" jsonschema:"Id of the owning system (containers)"`
	ParentContainer *string   `json:"parentContainer,omitempty" jsonschema:"Id of the owning container (components)"`
	Width           *float64  `json:"width,omitempty" jsonschema:"Width (annotations only)"`
	Height          *float64  `json:"height,omitempty" jsonschema:"Height (annotations only)"`
}

func (in AddElementInput) fields() elementFields {
	return elementFields{
		Name:            in.Name,
		Description:     in.Description,
		Technology:      in.Technology,
		Tags:            in.Tags,
		X:               in.X,
		Y:               in.Y,
		ParentSystem:    in.ParentSystem,
		ParentContainer: in.ParentContainer,
		Width:           in.Width,
		Height:          in.Height,
	}
}

// ElementOutput carries one element.
type ElementOutput struct {
	Element diagram.Entity `json:"element"`
}

// AddElementTool returns the tool definition for add_element.
func AddElementTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "add_element",
		Description: "Add a C4 element (system, container, component, person, externalSystem or annotation) to the model. Omitted fields get defaults: a type-specific name and a random canvas position.",
	}
}

// HandleAddElement handles the add_element tool call.
func (h *Handler) HandleAddElement(ctx context.Context, req *mcp.CallToolRequest, input AddElementInput) (*mcp.CallToolResult, ElementOutput, error) {
	t, err := diagram.ParseEntityType(input.Type)
	if err != nil {
		return nil, ElementOutput{}, err
	}
	p := input.fields().patch(diagram.Position{})
	if input.X == nil && input.Y == nil {
		p.Position = nil
	}
	e, err := h.Store.AddEntity(t, p)
	if err != nil {
		h.Logger.Error("add_element failed", "type", t, "error", err)
		return nil, ElementOutput{}, fmt.Errorf("failed to add element: %w", err)
	}
	h.Logger.Info("add_element", "type", t, "id", e.ID)
	return nil, ElementOutput{Element: e}, nil
}

// UpdateElementInput defines the input for the update_element tool.
type UpdateElementInput struct {
	Type            string    `json:"type" jsonschema:"Type of the element to update"`
	ID              string    `json:"id" jsonschema:"Id of the element to update"`
	Name            *string   `json:"name,omitempty" jsonschema:"Display name"`
	Description     *string   `json:"description,omitempty" jsonschema:"What the element does"`
	Technology      *string   `json:"technology,omitempty" jsonschema:"Technology, e.g. Go or PostgreSQL"`
	Tags            *[]string `json:"tags,omitempty" jsonschema:"Free-form tags"`
	X               *float64  `json:"x,omitempty" jsonschema:"Canvas x coordinate"`
	Y               *float64  `json:"y,omitempty" jsonschema:"Canvas y coordinate"`
	ParentSystem    *string   `json:"parentSystem,omitempty" jsonschema:"Id of the owning system (containers)"`
	ParentContainer *string   `json:"parentContainer,omitempty" jsonschema:"Id of the owning container (components)"`
	Width           *float64  `json:"width,omitempty" jsonschema:"Width (annotations only)"`
	Height          *float64  `json:"height,omitempty" jsonschema:"Height (annotations only)"`
}

func (in UpdateElementInput) fields() elementFields {
	return elementFields{
		Name:            in.Name,
		Description:     in.Description,
		Technology:      in.Technology,
		Tags:            in.Tags,
		X:               in.X,
		Y:               in.Y,
		ParentSystem:    in.ParentSystem,
		ParentContainer: in.ParentContainer,
		Width:           in.Width,
		Height:          in.Height,
	}
}

// UpdateElementTool returns the tool definition for update_element.
func UpdateElementTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "update_element",
		Description: "Change fields of an existing element. Only the fields given are changed; tags replace the whole list.",
	}
}

// HandleUpdateElement handles the update_element tool call.
func (h *Handler) HandleUpdateElement(ctx context.Context, req *mcp.CallToolRequest, input UpdateElementInput) (*mcp.CallToolResult, ElementOutput, error) {
	t, err := diagram.ParseEntityType(input.Type)
	if err != nil {
		return nil, ElementOutput{}, err
	}
	current, err := h.find(t, input.ID)
	if err != nil {
		return nil, ElementOutput{}, err
	}
	if err := h.Store.UpdateEntity(t, input.ID, input.fields().patch(current.Position)); err != nil {
		h.Logger.Error("update_element failed", "type", t, "id", input.ID, "error", err)
		return nil, ElementOutput{}, fmt.Errorf("failed to update element: %w", err)
	}
	updated, err := h.Store.EntityByID(input.ID)
	if err != nil {
		return nil, ElementOutput{}, err
	}
	h.Logger.Info("update_element", "type", t, "id", input.ID)
	return nil, ElementOutput{Element: updated}, nil
}

// DeleteElementInput defines the input for the delete_element tool.
type DeleteElementInput struct {
	Type string `json:"type" jsonschema:"Type of the element to delete"`
	ID   string `json:"id" jsonschema:"Id of the element to delete"`
}

// DeleteOutput reports a deletion.
type DeleteOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// DeleteElementTool returns the tool definition for delete_element.
func DeleteElementTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "delete_element",
		Description: "Delete an element. Relationships starting or ending at it are deleted too.",
	}
}

// HandleDeleteElement handles the delete_element tool call.
func (h *Handler) HandleDeleteElement(ctx context.Context, req *mcp.CallToolRequest, input DeleteElementInput) (*mcp.CallToolResult, DeleteOutput, error) {
	t, err := diagram.ParseEntityType(input.Type)
	if err != nil {
		return nil, DeleteOutput{}, err
	}
	if _, err := h.find(t, input.ID); err != nil {
		return nil, DeleteOutput{}, err
	}
	if err := h.Store.DeleteEntity(t, input.ID); err != nil {
		return nil, DeleteOutput{}, fmt.Errorf("failed to delete element: %w", err)
	}
	h.Logger.Info("delete_element", "type", t, "id", input.ID)
	return nil, DeleteOutput{ID: input.ID, Deleted: true}, nil
}

// find returns the element with id, which must have type t.
func (h *Handler) find(t diagram.EntityType, id string) (diagram.Entity, error) {
	e, err := h.Store.EntityByID(id)
	if err != nil {
		return diagram.Entity{}, err
	}
	if e.Type != t {
		return diagram.Entity{}, fmt.Errorf("%s %q: %w", t, id, diagram.ErrNotFound)
	}
	return e, nil
}

// ListElementsInput defines the input for the list_elements tool.
type ListElementsInput struct {
	Visible bool   `json:"visible,omitempty" jsonschema:"Only return elements visible at the current level"`
	Type    string `json:"type,omitempty" jsonschema:"Only return elements of this type"`
}

// ListElementsOutput defines the output for the list_elements tool.
type ListElementsOutput struct {
	Level         diagram.Level          `json:"level"`
	Metadata      diagram.Metadata       `json:"metadata"`
	Elements      []diagram.Entity       `json:"elements"`
	Relationships []diagram.Relationship `json:"relationships"`
}

// ListElementsTool returns the tool definition for list_elements.
func ListElementsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "list_elements",
		Description: "List the model's elements and relationships, optionally only those visible at the current C4 level or of one type.",
	}
}

// HandleListElements handles the list_elements tool call.
func (h *Handler) HandleListElements(ctx context.Context, req *mcp.CallToolRequest, input ListElementsInput) (*mcp.CallToolResult, ListElementsOutput, error) {
	var filter diagram.EntityType
	if input.Type != "" {
		t, err := diagram.ParseEntityType(input.Type)
		if err != nil {
			return nil, ListElementsOutput{}, err
		}
		filter = t
	}

	all := h.Store.AllEntities()
	if input.Visible {
		all = h.Store.VisibleEntities()
	}
	elements := make([]diagram.Entity, 0, len(all))
	for _, e := range all {
		if filter == "" || e.Type == filter {
			elements = append(elements, e)
		}
	}
	h.Logger.Debug("list_elements", "visible", input.Visible, "type", input.Type, "count", len(elements))
	return nil, ListElementsOutput{
		Level:         h.Store.CurrentLevel(),
		Metadata:      h.Store.Metadata(),
		Elements:      elements,
		Relationships: h.Store.Relationships(),
	}, nil
}
