// Package hierarchy resolves the weak parentSystem / parentContainer
// references of a snapshot into a system -> container -> component tree.
package hierarchy

import "github.com/c4-modeller/engine/internal/diagram"

// Tree is the resolved nesting. Order follows the snapshot collections.
type Tree struct {
	Systems []*SystemNode
	// OrphanContainers have no resolvable parent system.
	OrphanContainers []*ContainerNode
	// OrphanComponents have no resolvable parent container.
	OrphanComponents []*diagram.Entity
}

// SystemNode is a system with the containers that name it as parent.
type SystemNode struct {
	Entity     *diagram.Entity
	Containers []*ContainerNode
}

// ContainerNode is a container with the components that name it as parent.
type ContainerNode struct {
	Entity     *diagram.Entity
	Components []*diagram.Entity
}

// Build resolves the hierarchy of s. Entity pointers refer into s.
func Build(s *diagram.Snapshot) *Tree {
	t := &Tree{}
	systems := make(map[string]*SystemNode, len(s.Systems))
	for i := range s.Systems {
		n := &SystemNode{Entity: &s.Systems[i]}
		t.Systems = append(t.Systems, n)
		if _, dup := systems[n.Entity.ID]; !dup {
			systems[n.Entity.ID] = n
		}
	}

	containers := make(map[string]*ContainerNode, len(s.Containers))
	for i := range s.Containers {
		c := &s.Containers[i]
		n := &ContainerNode{Entity: c}
		if _, dup := containers[c.ID]; !dup {
			containers[c.ID] = n
		}
		if parent, ok := systems[c.ParentSystem]; ok && c.ParentSystem != "" {
			parent.Containers = append(parent.Containers, n)
		} else {
			t.OrphanContainers = append(t.OrphanContainers, n)
		}
	}

	for i := range s.Components {
		c := &s.Components[i]
		if parent, ok := containers[c.ParentContainer]; ok && c.ParentContainer != "" {
			parent.Components = append(parent.Components, c)
		} else {
			t.OrphanComponents = append(t.OrphanComponents, c)
		}
	}
	return t
}

// HasOrphans reports whether any container or component lacks a resolvable parent.
func (t *Tree) HasOrphans() bool {
	return len(t.OrphanContainers) > 0 || len(t.OrphanComponents) > 0
}

// Containers returns every container node, nested ones first, then orphans.
func (t *Tree) Containers() []*ContainerNode {
	var out []*ContainerNode
	for _, s := range t.Systems {
		out = append(out, s.Containers...)
	}
	return append(out, t.OrphanContainers...)
}

// ParentOf returns the id of the element that owns id in the tree, or "".
func (t *Tree) ParentOf(id string) string {
	for _, s := range t.Systems {
		for _, c := range s.Containers {
			if c.Entity.ID == id {
				return s.Entity.ID
			}
		}
	}
	for _, c := range t.Containers() {
		for _, k := range c.Components {
			if k.ID == id {
				return c.Entity.ID
			}
		}
	}
	return ""
}
