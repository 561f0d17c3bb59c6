// Package tools implements the MCP tools that edit and export the model.
package tools

import (
	"log/slog"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/store"
)

// Handler provides the dependencies needed by tool handlers.
type Handler struct {
	Store  *store.Store
	Logger *slog.Logger
}

// NewHandler creates a Handler. A nil logger means slog.Default().
func NewHandler(s *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{Store: s, Logger: logger}
}

// elementFields are the editable fields shared by add_element and update_element.
type elementFields struct {
	Name            *string
	Description     *string
	Technology      *string
	Tags            *[]string
	X, Y            *float64
	ParentSystem    *string
	ParentContainer *string
	Width, Height   *float64
}

// patch converts f into an entity patch. When only one of x and y is given
// the other is taken from current.
func (f elementFields) patch(current diagram.Position) diagram.EntityPatch {
	p := diagram.EntityPatch{
		Name:            f.Name,
		Description:     f.Description,
		Technology:      f.Technology,
		Tags:            f.Tags,
		ParentSystem:    f.ParentSystem,
		ParentContainer: f.ParentContainer,
		Width:           f.Width,
		Height:          f.Height,
	}
	if f.X != nil || f.Y != nil {
		pos := current
		if f.X != nil {
			pos.X = *f.X
		}
		if f.Y != nil {
			pos.Y = *f.Y
		}
		p.Position = &pos
	}
	return p
}

func relationshipPatch(description, technology, arrowDirection, lineStyle *string, animated *bool) diagram.RelationshipPatch {
	p := diagram.RelationshipPatch{
		Description: description,
		Technology:  technology,
		Animated:    animated,
	}
	if arrowDirection != nil {
		p.ArrowDirection = diagram.Ptr(diagram.ArrowDirection(*arrowDirection))
	}
	if lineStyle != nil {
		p.LineStyle = diagram.Ptr(diagram.LineStyle(*lineStyle))
	}
	return p
}
