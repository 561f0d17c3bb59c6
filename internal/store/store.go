// Package store owns the mutable C4 model: entity collections, relationships,
// level, metadata and selection. All access goes through a single mutex, so
// every operation (including cascading deletes) is atomic.
package store

import (
	"fmt"
	"log/slog"
	"sync"

	_ "github.com/c4-modeller/engine/internal/handler" // register handlers
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/validation"
)

// DefaultMetadata is the metadata of a fresh model.
var DefaultMetadata = diagram.Metadata{
	Name:    "New C4 Model",
	Version: "1.0",
	Author:  "Solution Architect",
}

// maxIDAttempts bounds retries when the id generator repeats itself.
const maxIDAttempts = 64

// Store is the model. The zero value is not usable; call New.
type Store struct {
	mu sync.RWMutex

	snap  diagram.Snapshot
	level diagram.Level

	selectedElement string
	selectedEdge    string
	warnings        []result.Warning

	issued   map[string]struct{}
	revision uint64

	threshold   int
	newID       func(prefix string) string
	newPosition func() diagram.Position
	reg         *registry.Registry
	log         *slog.Logger
}

// New returns an empty model at the context level with default metadata.
func New(opts ...Option) *Store {
	s := &Store{
		snap:        diagram.EmptySnapshot(DefaultMetadata),
		level:       diagram.LevelContext,
		warnings:    []result.Warning{},
		issued:      make(map[string]struct{}),
		threshold:   validation.DefaultComplexityThreshold,
		newID:       diagram.NewID,
		newPosition: randomPosition,
		reg:         registry.Default,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Revision increases on every successful mutation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// ComplexityThreshold returns the threshold used by ValidateModel.
func (s *Store) ComplexityThreshold() int {
	return s.threshold
}

// freshID returns an id never issued by this store and not present in the
// model. Caller holds s.mu.
func (s *Store) freshID(prefix string) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID(prefix)
		if _, seen := s.issued[id]; seen {
			continue
		}
		if s.snap.EntityByID(id) != nil || s.snap.RelationshipByID(id) != nil {
			continue
		}
		s.issued[id] = struct{}{}
		return id, nil
	}
	return "", fmt.Errorf("generate %s id: no unique id after %d attempts", prefix, maxIDAttempts)
}

func (s *Store) handlerFor(t diagram.EntityType) (registry.EntityHandler, error) {
	if !t.Valid() {
		return nil, &diagram.UnknownEntityTypeError{Type: string(t)}
	}
	return s.reg.Lookup(t)
}

// AddEntity creates an entity of type t with a fresh id. Fields in p override
// the defaults: name "New {Type}" and a pseudo-random position.
func (s *Store) AddEntity(t diagram.EntityType, p diagram.EntityPatch) (diagram.Entity, error) {
	h, err := s.handlerFor(t)
	if err != nil {
		return diagram.Entity{}, err
	}
	if err := checkEntityPatch(h, p); err != nil {
		return diagram.Entity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.freshID(string(t))
	if err != nil {
		return diagram.Entity{}, err
	}
	e := diagram.Entity{
		ID:       id,
		Type:     t,
		Name:     h.DefaultName(),
		Position: s.newPosition(),
	}
	p.Apply(&e)
	c := s.snap.Collection(t)
	*c = append(*c, e)
	s.revision++
	s.log.Debug("entity added", "type", t, "id", id)
	return e.Clone(), nil
}

// UpdateEntity merges p into the entity of type t with the given id. An id
// that matches nothing is a no-op.
func (s *Store) UpdateEntity(t diagram.EntityType, id string, p diagram.EntityPatch) error {
	h, err := s.handlerFor(t)
	if err != nil {
		return err
	}
	if err := checkEntityPatch(h, p); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := *s.snap.Collection(t)
	for i := range c {
		if c[i].ID == id {
			p.Apply(&c[i])
			s.revision++
			s.log.Debug("entity updated", "type", t, "id", id)
			return nil
		}
	}
	return nil
}

// DeleteEntity removes the entity and every relationship that starts or
// ends at it. Deleting the selected entity clears the selection.
func (s *Store) DeleteEntity(t diagram.EntityType, id string) error {
	if _, err := s.handlerFor(t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.snap.Collection(t)
	idx := -1
	for i := range *c {
		if (*c)[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	*c = append((*c)[:idx], (*c)[idx+1:]...)

	kept := s.snap.Relationships[:0]
	removed := 0
	for _, r := range s.snap.Relationships {
		if r.From == id || r.To == id {
			if r.ID == s.selectedEdge {
				s.selectedEdge = ""
			}
			removed++
			continue
		}
		kept = append(kept, r)
	}
	s.snap.Relationships = kept
	if s.selectedElement == id {
		s.selectedElement = ""
	}
	s.revision++
	s.log.Debug("entity deleted", "type", t, "id", id, "relationships_removed", removed)
	return nil
}

// AddRelationship creates a relationship with a fresh id. Arrow direction
// defaults to right and line style to solid. Endpoints are not checked;
// dangling references are reported by ValidateModel.
func (s *Store) AddRelationship(p diagram.RelationshipPatch) (diagram.Relationship, error) {
	if err := p.Validate(); err != nil {
		return diagram.Relationship{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := s.freshID("rel")
	if err != nil {
		return diagram.Relationship{}, err
	}
	r := diagram.Relationship{
		ID:             id,
		ArrowDirection: diagram.ArrowRight,
		LineStyle:      diagram.LineSolid,
	}
	p.Apply(&r)
	s.snap.Relationships = append(s.snap.Relationships, r)
	s.revision++
	s.log.Debug("relationship added", "id", id, "from", r.From, "to", r.To)
	return r, nil
}

// Connect adds a relationship between two entities the way a canvas connect
// gesture does, with the description "New relationship".
func (s *Store) Connect(from, to string) (diagram.Relationship, error) {
	return s.AddRelationship(diagram.RelationshipPatch{
		From:        &from,
		To:          &to,
		Description: diagram.Ptr("New relationship"),
	})
}

// UpdateRelationship merges p into the relationship with the given id. An
// id that matches nothing is a no-op.
func (s *Store) UpdateRelationship(id string, p diagram.RelationshipPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.snap.RelationshipByID(id)
	if r == nil {
		return nil
	}
	p.Apply(r)
	s.revision++
	s.log.Debug("relationship updated", "id", id)
	return nil
}

// DeleteRelationship removes the relationship with the given id.
func (s *Store) DeleteRelationship(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.snap.Relationships {
		if r.ID == id {
			s.snap.Relationships = append(s.snap.Relationships[:i], s.snap.Relationships[i+1:]...)
			if s.selectedEdge == id {
				s.selectedEdge = ""
			}
			s.revision++
			s.log.Debug("relationship deleted", "id", id)
			return
		}
	}
}

// AllEntities returns copies of every entity in collection order.
func (s *Store) AllEntities() []diagram.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap.AllEntities()
	for i := range out {
		out[i] = out[i].Clone()
	}
	return out
}

// VisibleEntities returns the entities shown at the current level.
func (s *Store) VisibleEntities() []diagram.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Visible(s.level)
}

// Relationships returns a copy of the relationship list.
func (s *Store) Relationships() []diagram.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]diagram.Relationship, len(s.snap.Relationships))
	copy(out, s.snap.Relationships)
	return out
}

// EntityByID returns a copy of the entity with the given id.
func (s *Store) EntityByID(id string) (diagram.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e := s.snap.EntityByID(id)
	if e == nil {
		return diagram.Entity{}, fmt.Errorf("entity %q: %w", id, diagram.ErrNotFound)
	}
	return e.Clone(), nil
}

// RelationshipByID returns a copy of the relationship with the given id.
func (s *Store) RelationshipByID(id string) (diagram.Relationship, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r := s.snap.RelationshipByID(id)
	if r == nil {
		return diagram.Relationship{}, fmt.Errorf("relationship %q: %w", id, diagram.ErrNotFound)
	}
	return *r, nil
}

// CurrentLevel returns the level driving the visibility projection.
func (s *Store) CurrentLevel() diagram.Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// SetCurrentLevel assigns the level. It never clears entities.
func (s *Store) SetCurrentLevel(l diagram.Level) error {
	if !l.Valid() {
		_, err := diagram.ParseLevel(string(l))
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.level != l {
		s.level = l
		s.revision++
		s.log.Debug("level changed", "level", l)
	}
	return nil
}

// Metadata returns the model metadata.
func (s *Store) Metadata() diagram.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Metadata
}

// SetMetadata replaces the metadata. A blank name is rejected.
func (s *Store) SetMetadata(m diagram.Metadata) error {
	if err := (diagram.EntityPatch{Name: &m.Name}).Validate(); err != nil {
		return &diagram.ValidationError{Field: "metadata.name", Msg: "must not be blank"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Metadata = m
	s.revision++
	return nil
}

// ClearAll empties every collection and the relationship list and clears
// selection and warnings. Metadata and level are kept.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = diagram.EmptySnapshot(s.snap.Metadata)
	s.selectedElement = ""
	s.selectedEdge = ""
	s.warnings = []result.Warning{}
	s.revision++
	s.log.Info("model cleared")
}

// ExportModel returns a deep copy of the model state.
func (s *Store) ExportModel() diagram.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap.Clone()
	out.Normalize()
	return out
}

// ImportModel replaces the whole model with snap. Missing collections become
// empty; zero metadata keeps the current metadata. The collection an entity
// sits in decides its type tag. Selection and warnings are cleared; the
// level is kept.
func (s *Store) ImportModel(snap diagram.Snapshot) {
	next := snap.Clone()
	next.Normalize()
	for _, t := range diagram.EntityTypes() {
		c := *next.Collection(t)
		for i := range c {
			c[i].Type = t
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if next.Metadata.IsZero() {
		next.Metadata = s.snap.Metadata
	}
	s.snap = next
	for _, e := range next.AllEntities() {
		s.issued[e.ID] = struct{}{}
	}
	for _, r := range next.Relationships {
		s.issued[r.ID] = struct{}{}
	}
	s.selectedElement = ""
	s.selectedEdge = ""
	s.warnings = []result.Warning{}
	s.revision++
	s.log.Info("model imported", "name", next.Metadata.Name, "entities", next.Len(), "relationships", len(next.Relationships))
}

// ValidateModel runs the validation engine over the model at the current
// level and remembers the result.
func (s *Store) ValidateModel() []result.Warning {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws := validation.ValidateWith(s.reg, &s.snap, s.level, s.threshold)
	s.warnings = ws
	out := make([]result.Warning, len(ws))
	copy(out, ws)
	return out
}

// Warnings returns the result of the last ValidateModel call.
func (s *Store) Warnings() []result.Warning {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]result.Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

func checkEntityPatch(h registry.EntityHandler, p diagram.EntityPatch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return h.CheckPatch(p)
}
