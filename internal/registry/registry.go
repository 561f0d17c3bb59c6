package registry

import (
	"sync"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// EntityHandler carries the behaviour that differs per entity type.
type EntityHandler interface {
	EntityType() diagram.EntityType
	// DefaultName is used when an entity is added without a name.
	DefaultName() string
	// CheckPatch enforces type-specific field rules at the store boundary.
	CheckPatch(p diagram.EntityPatch) error
	// Validate reports referential problems of e within s.
	Validate(e *diagram.Entity, s *diagram.Snapshot) []result.Warning
	// Macro is the C4-PlantUML / Mermaid macro name, empty when the type has none.
	Macro() string
	// HCLBlock renders e as an HCL block.
	HCLBlock(e *diagram.Entity) *hclwrite.Block
}

// Default is the global handler registry.
var Default = New()

// Registry holds entity type handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[diagram.EntityType]EntityHandler
}

// New returns a new empty registry.
func New() *Registry {
	return &Registry{handlers: make(map[diagram.EntityType]EntityHandler)}
}

// Register adds a handler for its entity type.
func (r *Registry) Register(h EntityHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[h.EntityType()] = h
}

// Get returns the handler for the entity type, or nil and false.
func (r *Registry) Get(t diagram.EntityType) (EntityHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[t]
	return h, ok
}

// Lookup is Get with an *diagram.UnknownEntityTypeError for unregistered types.
func (r *Registry) Lookup(t diagram.EntityType) (EntityHandler, error) {
	h, ok := r.Get(t)
	if !ok {
		return nil, &diagram.UnknownEntityTypeError{Type: string(t)}
	}
	return h, nil
}
