package structurizr

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/hierarchy"
)

// idMap is the per-conversion table between native and Structurizr ids.
// Structurizr ids are assigned "1", "2", ... in allocation order.
type idMap struct {
	last     int
	toRemote map[string]string
}

func newIDMap() *idMap {
	return &idMap{toRemote: make(map[string]string)}
}

// next allocates an id with no native counterpart.
func (m *idMap) next() string {
	m.last++
	return strconv.Itoa(m.last)
}

// assign allocates an id for a native element. The first element with a
// given native id owns the mapping.
func (m *idMap) assign(nativeID string) string {
	sid := m.next()
	if _, ok := m.toRemote[nativeID]; !ok {
		m.toRemote[nativeID] = sid
	}
	return sid
}

func (m *idMap) lookup(nativeID string) (string, bool) {
	sid, ok := m.toRemote[nativeID]
	return sid, ok
}

// exporter holds the state of one Export call.
type exporter struct {
	snap     diagram.Snapshot
	tree     *hierarchy.Tree
	ids      *idMap
	sids     map[*diagram.Entity]string
	bySource map[string][]Relationship
	rels     []Relationship
	detached []diagram.Relationship
	pos      map[string]ElementView

	placeholderSystem    string
	placeholderContainer string
}

// Export converts a native snapshot to a Structurizr workspace. Relationships
// are nested on their source element; containers and components without a
// resolvable parent are placed under a placeholder system or container.
// Annotations and relationships whose endpoints are not exported travel in
// workspace properties.
func Export(snap diagram.Snapshot) Workspace {
	snap = snap.Clone()
	snap.Normalize()
	x := &exporter{
		snap:     snap,
		ids:      newIDMap(),
		sids:     make(map[*diagram.Entity]string),
		bySource: make(map[string][]Relationship),
		pos:      make(map[string]ElementView),
	}
	x.tree = hierarchy.Build(&x.snap)
	x.assignIDs()
	x.groupRelationships()

	ws := Workspace{
		ID:          1,
		Name:        snap.Metadata.Name,
		Description: workspaceDescription(snap.Metadata),
		Properties:  x.workspaceProperties(),
		Model:       x.model(),
	}
	ws.Views = x.views()
	return ws
}

// ExportJSON converts snap and encodes the workspace as indented JSON.
func ExportJSON(snap diagram.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(Export(snap), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode structurizr workspace: %w", err)
	}
	return append(data, '\n'), nil
}

func workspaceDescription(m diagram.Metadata) string {
	if m.Author == "" {
		return "C4 model " + m.Name
	}
	return "C4 model " + m.Name + " by " + m.Author
}

// assignIDs allocates ids in the order people, systems, external systems,
// placeholder system, containers, placeholder container, components.
func (x *exporter) assignIDs() {
	assign := func(es []diagram.Entity) {
		for i := range es {
			e := &es[i]
			sid := x.ids.assign(e.ID)
			x.sids[e] = sid
			x.pos[sid] = ElementView{ID: sid, X: round(e.Position.X), Y: round(e.Position.Y)}
		}
	}
	assign(x.snap.People)
	assign(x.snap.Systems)
	assign(x.snap.ExternalSystems)
	if x.tree.HasOrphans() {
		x.placeholderSystem = x.ids.next()
	}
	assign(x.snap.Containers)
	if len(x.tree.OrphanComponents) > 0 {
		x.placeholderContainer = x.ids.next()
	}
	assign(x.snap.Components)
}

// groupRelationships nests each relationship under its source. Relationships
// with an endpoint that is not exported are kept aside.
func (x *exporter) groupRelationships() {
	for _, r := range x.snap.Relationships {
		from, okFrom := x.ids.lookup(r.From)
		to, okTo := x.ids.lookup(r.To)
		if !okFrom || !okTo {
			x.detached = append(x.detached, r)
			continue
		}
		rel := Relationship{
			ID:            x.ids.next(),
			SourceID:      from,
			DestinationID: to,
			Description:   r.Description,
			Technology:    r.Technology,
			Tags:          joinTags([]string{TagRelationship}, nil),
			Properties:    relationshipProperties(r),
		}
		x.bySource[r.From] = append(x.bySource[r.From], rel)
		x.rels = append(x.rels, rel)
	}
}

func relationshipProperties(r diagram.Relationship) map[string]string {
	p := map[string]string{propID: r.ID}
	if d := r.Direction(); d != diagram.ArrowRight {
		p[propArrowDirection] = string(d)
	}
	if s := r.Style(); s != diagram.LineSolid {
		p[propLineStyle] = string(s)
	}
	if r.Animated {
		p[propAnimated] = "true"
	}
	return p
}

func (x *exporter) workspaceProperties() map[string]string {
	p := make(map[string]string)
	if x.snap.Metadata.Version != "" {
		p[propVersion] = x.snap.Metadata.Version
	}
	if x.snap.Metadata.Author != "" {
		p[propAuthor] = x.snap.Metadata.Author
	}
	if len(x.snap.Annotations) > 0 {
		data, _ := json.Marshal(x.snap.Annotations)
		p[propAnnotations] = string(data)
	}
	if len(x.detached) > 0 {
		data, _ := json.Marshal(x.detached)
		p[propDetachedRelationships] = string(data)
	}
	if len(p) == 0 {
		return nil
	}
	return p
}

// element builds the shared fields of e and takes its outgoing relationships.
func (x *exporter) element(e *diagram.Entity, structural ...string) Element {
	props := map[string]string{propID: e.ID}
	if e.Technology != "" && (e.Type != diagram.TypeContainer && e.Type != diagram.TypeComponent) {
		props[propTechnology] = e.Technology
	}
	if e.ParentSystem != "" {
		props[propParentSystem] = e.ParentSystem
	}
	if e.ParentContainer != "" {
		props[propParentContainer] = e.ParentContainer
	}
	el := Element{
		ID:            x.sids[e],
		Name:          e.Name,
		Description:   e.Description,
		Tags:          joinTags(structural, e.Tags),
		Properties:    props,
		Relationships: x.bySource[e.ID],
	}
	delete(x.bySource, e.ID)
	return el
}

func (x *exporter) model() Model {
	m := Model{People: []Person{}, SoftwareSystems: []SoftwareSystem{}}
	for i := range x.snap.People {
		m.People = append(m.People, Person{Element: x.element(&x.snap.People[i], TagElement, TagPerson)})
	}
	for _, n := range x.tree.Systems {
		sys := SoftwareSystem{Element: x.element(n.Entity, TagElement, TagSoftwareSystem)}
		sys.Containers = x.containers(n.Containers)
		m.SoftwareSystems = append(m.SoftwareSystems, sys)
	}
	for i := range x.snap.ExternalSystems {
		m.SoftwareSystems = append(m.SoftwareSystems, SoftwareSystem{
			Element:  x.element(&x.snap.ExternalSystems[i], TagElement, TagSoftwareSystem, TagExternalSystem),
			Location: LocationExternal,
		})
	}
	if x.placeholderSystem != "" {
		sys := SoftwareSystem{Element: Element{
			ID:          x.placeholderSystem,
			Name:        placeholderSystemName,
			Description: placeholderDescription,
			Tags:        joinTags([]string{TagElement, TagSoftwareSystem, TagPlaceholder}, nil),
		}}
		sys.Containers = x.containers(x.tree.OrphanContainers)
		if x.placeholderContainer != "" {
			c := Container{Element: Element{
				ID:          x.placeholderContainer,
				Name:        placeholderContainerName,
				Description: placeholderDescription,
				Tags:        joinTags([]string{TagElement, TagContainer, TagPlaceholder}, nil),
			}}
			c.Components = x.components(x.tree.OrphanComponents)
			sys.Containers = append(sys.Containers, c)
		}
		m.SoftwareSystems = append(m.SoftwareSystems, sys)
	}
	return m
}

func (x *exporter) containers(nodes []*hierarchy.ContainerNode) []Container {
	var out []Container
	for _, n := range nodes {
		c := Container{
			Element:    x.element(n.Entity, TagElement, TagContainer),
			Technology: n.Entity.Technology,
		}
		c.Components = x.components(n.Components)
		out = append(out, c)
	}
	return out
}

func (x *exporter) components(es []*diagram.Entity) []Component {
	var out []Component
	for _, e := range es {
		out = append(out, Component{
			Element:    x.element(e, TagElement, TagComponent),
			Technology: e.Technology,
		})
	}
	return out
}

// containerGroup is a software system and the containers nested in it.
type containerGroup struct {
	sid   string
	name  string
	nodes []*hierarchy.ContainerNode
}

// views builds a landscape view, a context view per system, a container view
// per system with containers and a component view per container with components.
func (x *exporter) views() Views {
	v := Views{
		SystemLandscapeViews: []View{},
		SystemContextViews:   []View{},
		ContainerViews:       []View{},
		ComponentViews:       []View{},
	}

	var top []string
	for _, es := range [][]diagram.Entity{x.snap.People, x.snap.Systems, x.snap.ExternalSystems} {
		for i := range es {
			top = append(top, x.sids[&es[i]])
		}
	}
	v.SystemLandscapeViews = append(v.SystemLandscapeViews, x.view(View{Key: "Landscape", Description: "System landscape"}, top))

	topSet := toSet(top)
	for _, n := range x.tree.Systems {
		sid := x.sids[n.Entity]
		focus := []string{sid}
		v.SystemContextViews = append(v.SystemContextViews, x.view(View{
			Key:              "SystemContext-" + sid,
			SoftwareSystemID: sid,
			Description:      "System context of " + n.Entity.Name,
		}, append(focus, x.neighbours(focus, topSet)...)))
	}

	groups := make([]containerGroup, 0, len(x.tree.Systems)+1)
	for _, n := range x.tree.Systems {
		groups = append(groups, containerGroup{x.sids[n.Entity], n.Entity.Name, n.Containers})
	}
	if x.placeholderSystem != "" {
		groups = append(groups, containerGroup{x.placeholderSystem, placeholderSystemName, x.tree.OrphanContainers})
	}
	for _, s := range groups {
		if len(s.nodes) == 0 {
			continue
		}
		var focus []string
		for _, c := range s.nodes {
			focus = append(focus, x.sids[c.Entity])
		}
		v.ContainerViews = append(v.ContainerViews, x.view(View{
			Key:              "Containers-" + s.sid,
			SoftwareSystemID: s.sid,
			Description:      "Containers of " + s.name,
		}, append(focus, x.neighbours(focus, topSet)...)))

		for _, c := range s.nodes {
			x.componentView(&v, s.sid, x.sids[c.Entity], c.Entity.Name, c.Components, focus)
		}
	}
	if x.placeholderContainer != "" {
		x.componentView(&v, x.placeholderSystem, x.placeholderContainer, placeholderContainerName, x.tree.OrphanComponents, nil)
	}
	return v
}

func (x *exporter) componentView(v *Views, systemID, containerID, name string, comps []*diagram.Entity, siblings []string) {
	if len(comps) == 0 {
		return
	}
	var focus []string
	for _, k := range comps {
		focus = append(focus, x.sids[k])
	}
	v.ComponentViews = append(v.ComponentViews, x.view(View{
		Key:              "Components-" + containerID,
		SoftwareSystemID: systemID,
		ContainerID:      containerID,
		Description:      "Components of " + name,
	}, append(focus, x.neighbours(focus, toSet(siblings))...)))
}

// neighbours returns the ids in allowed that share a relationship with an id in focus.
func (x *exporter) neighbours(focus []string, allowed map[string]bool) []string {
	in := toSet(focus)
	var out []string
	seen := make(map[string]bool)
	for _, r := range x.rels {
		var other string
		switch {
		case in[r.SourceID]:
			other = r.DestinationID
		case in[r.DestinationID]:
			other = r.SourceID
		default:
			continue
		}
		if in[other] || seen[other] || !allowed[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// view fills v with the placed elements and the relationships among them.
func (x *exporter) view(v View, sids []string) View {
	v.Elements = []ElementView{}
	v.Relationships = []RelationshipView{}
	set := make(map[string]bool, len(sids))
	for _, sid := range sids {
		if set[sid] {
			continue
		}
		set[sid] = true
		if p, ok := x.pos[sid]; ok {
			v.Elements = append(v.Elements, p)
		}
	}
	for _, r := range x.rels {
		if set[r.SourceID] && set[r.DestinationID] {
			v.Relationships = append(v.Relationships, RelationshipView{ID: r.ID})
		}
	}
	return v
}

func toSet(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func round(f float64) int {
	return int(math.Round(f))
}
