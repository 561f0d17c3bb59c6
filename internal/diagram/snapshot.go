package diagram

// EmptySnapshot returns a snapshot with every collection set to an empty slice.
func EmptySnapshot(meta Metadata) Snapshot {
	s := Snapshot{Metadata: meta}
	s.Normalize()
	return s
}

// Normalize replaces nil collections with empty slices and empty tag lists
// with nil, so that decoded and in-memory snapshots compare equal.
func (s *Snapshot) Normalize() {
	for _, t := range entityTypes {
		c := s.Collection(t)
		if *c == nil {
			*c = []Entity{}
		}
		for i := range *c {
			if len((*c)[i].Tags) == 0 {
				(*c)[i].Tags = nil
			}
		}
	}
	if s.Relationships == nil {
		s.Relationships = []Relationship{}
	}
}

// Collection returns a pointer to the backing slice for t, or nil for an unknown type.
func (s *Snapshot) Collection(t EntityType) *[]Entity {
	switch t {
	case TypeSystem:
		return &s.Systems
	case TypeContainer:
		return &s.Containers
	case TypeComponent:
		return &s.Components
	case TypePerson:
		return &s.People
	case TypeExternalSystem:
		return &s.ExternalSystems
	case TypeAnnotation:
		return &s.Annotations
	}
	return nil
}

// Entities returns the collection for t (nil for an unknown type).
func (s *Snapshot) Entities(t EntityType) []Entity {
	c := s.Collection(t)
	if c == nil {
		return nil
	}
	return *c
}

// AllEntities concatenates the six collections in collection order.
func (s *Snapshot) AllEntities() []Entity {
	out := make([]Entity, 0, s.Len())
	for _, t := range entityTypes {
		out = append(out, *s.Collection(t)...)
	}
	return out
}

// Len returns the number of entities across all collections.
func (s *Snapshot) Len() int {
	n := 0
	for _, t := range entityTypes {
		n += len(*s.Collection(t))
	}
	return n
}

// HasElements reports whether any system, container, component, person or
// external system exists. Annotations and relationships do not count.
func (s *Snapshot) HasElements() bool {
	return len(s.Systems)+len(s.Containers)+len(s.Components)+len(s.People)+len(s.ExternalSystems) > 0
}

// IsEmpty reports whether the snapshot holds no entities and no relationships.
func (s *Snapshot) IsEmpty() bool {
	return s.Len() == 0 && len(s.Relationships) == 0
}

// CountByType returns the number of entities per type.
func (s *Snapshot) CountByType() map[EntityType]int {
	out := make(map[EntityType]int, len(entityTypes))
	for _, t := range entityTypes {
		out[t] = len(*s.Collection(t))
	}
	return out
}

// EntityByID returns the entity with the given id, or nil.
func (s *Snapshot) EntityByID(id string) *Entity {
	for _, t := range entityTypes {
		c := *s.Collection(t)
		for i := range c {
			if c[i].ID == id {
				return &c[i]
			}
		}
	}
	return nil
}

// RelationshipByID returns the relationship with the given id, or nil.
func (s *Snapshot) RelationshipByID(id string) *Relationship {
	for i := range s.Relationships {
		if s.Relationships[i].ID == id {
			return &s.Relationships[i]
		}
	}
	return nil
}

// RelationshipsFrom returns relationships whose source is the given entity id.
func (s *Snapshot) RelationshipsFrom(id string) []Relationship {
	var out []Relationship
	for _, r := range s.Relationships {
		if r.From == id {
			out = append(out, r)
		}
	}
	return out
}

// RelationshipsTo returns relationships whose target is the given entity id.
func (s *Snapshot) RelationshipsTo(id string) []Relationship {
	var out []Relationship
	for _, r := range s.Relationships {
		if r.To == id {
			out = append(out, r)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Metadata: s.Metadata}
	for _, t := range entityTypes {
		src := *s.Collection(t)
		if src == nil {
			continue
		}
		dst := make([]Entity, len(src))
		for i := range src {
			dst[i] = src[i].Clone()
		}
		*out.Collection(t) = dst
	}
	if s.Relationships != nil {
		out.Relationships = make([]Relationship, len(s.Relationships))
		copy(out.Relationships, s.Relationships)
	}
	return out
}

// Clone returns a deep copy of e.
func (e Entity) Clone() Entity {
	e.Tags = cloneTags(e.Tags)
	if e.Width != nil {
		e.Width = Ptr(*e.Width)
	}
	if e.Height != nil {
		e.Height = Ptr(*e.Height)
	}
	return e
}

// Visible returns the entities shown at level l, in collection order:
//
//	context   -> systems, people, externalSystems, annotations
//	container -> systems, containers, people, externalSystems, annotations
//	component -> containers, components, people, annotations
//	code      -> components, annotations
func (s *Snapshot) Visible(l Level) []Entity {
	var out []Entity
	for _, t := range VisibleTypes(l) {
		for _, e := range *s.Collection(t) {
			out = append(out, e.Clone())
		}
	}
	if out == nil {
		out = []Entity{}
	}
	return out
}

// VisibleTypes returns the entity types visible at level l in collection order.
// Annotations are visible at every level; an unknown level shows only annotations.
func VisibleTypes(l Level) []EntityType {
	switch l {
	case LevelContext:
		return []EntityType{TypeSystem, TypePerson, TypeExternalSystem, TypeAnnotation}
	case LevelContainer:
		return []EntityType{TypeSystem, TypeContainer, TypePerson, TypeExternalSystem, TypeAnnotation}
	case LevelComponent:
		return []EntityType{TypeContainer, TypeComponent, TypePerson, TypeAnnotation}
	case LevelCode:
		return []EntityType{TypeComponent, TypeAnnotation}
	}
	return []EntityType{TypeAnnotation}
}
