package store

import (
	"fmt"

	"github.com/c4-modeller/engine/internal/diagram"
)

// Selection is the current selection. At most one of Element and Edge is set.
// Both are copies carrying the latest field values.
type Selection struct {
	Element *diagram.Entity       `json:"selectedElement"`
	Edge    *diagram.Relationship `json:"selectedEdge"`
}

// SelectElement selects an entity and clears any selected relationship.
func (s *Store) SelectElement(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.EntityByID(id) == nil {
		return fmt.Errorf("select entity %q: %w", id, diagram.ErrNotFound)
	}
	s.selectedElement = id
	s.selectedEdge = ""
	return nil
}

// SelectEdge selects a relationship and clears any selected entity.
func (s *Store) SelectEdge(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snap.RelationshipByID(id) == nil {
		return fmt.Errorf("select relationship %q: %w", id, diagram.ErrNotFound)
	}
	s.selectedEdge = id
	s.selectedElement = ""
	return nil
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedElement = ""
	s.selectedEdge = ""
}

// Selection returns the current selection resolved against the live model.
func (s *Store) Selection() Selection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sel Selection
	if s.selectedElement != "" {
		if e := s.snap.EntityByID(s.selectedElement); e != nil {
			c := e.Clone()
			sel.Element = &c
		}
	}
	if s.selectedEdge != "" {
		if r := s.snap.RelationshipByID(s.selectedEdge); r != nil {
			c := *r
			sel.Edge = &c
		}
	}
	return sel
}
