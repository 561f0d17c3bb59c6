package structurizr

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/c4-modeller/engine/internal/diagram"
)

// importer holds the state of one Import call.
type importer struct {
	snap      diagram.Snapshot
	positions map[string]diagram.Position
	used      map[string]bool
	// native maps Structurizr ids to the native ids given on import.
	native map[string]string
	// renamed maps native ids found in properties to the ids actually used.
	renamed map[string]string
	pending []pendingRel
	parents []pendingParent
}

type pendingRel struct {
	owner string
	rel   Relationship
}

type pendingParent struct {
	typ    diagram.EntityType
	index  int
	system string
	cont   string
}

// Import converts a Structurizr workspace to a native snapshot. Nested
// containers and components are flattened and per-element relationships are
// collected into the flat relationship list. Missing arrays are treated as
// empty; Import never fails.
func Import(ws Workspace) diagram.Snapshot {
	imp := &importer{
		snap:      diagram.EmptySnapshot(metadata(ws)),
		positions: positions(ws.Views),
		used:      make(map[string]bool),
		native:    make(map[string]string),
		renamed:   make(map[string]string),
	}

	for _, p := range ws.Model.People {
		imp.add(diagram.TypePerson, p.Element, "", "")
	}
	for _, s := range ws.Model.SoftwareSystems {
		imp.system(s)
	}
	imp.annotations(ws.Properties[propAnnotations])
	imp.resolveParents()
	for _, p := range imp.pending {
		imp.relationship(p.owner, p.rel)
	}
	imp.detached(ws.Properties[propDetachedRelationships])
	imp.snap.Normalize()
	return imp.snap
}

// ImportJSON decodes Structurizr workspace JSON and converts it. Malformed
// JSON is a *diagram.ParseError.
func ImportJSON(data []byte) (diagram.Snapshot, error) {
	ws, err := Decode(data)
	if err != nil {
		return diagram.Snapshot{}, err
	}
	return Import(ws), nil
}

// Decode parses workspace JSON without converting it.
func Decode(data []byte) (Workspace, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Workspace{}, &diagram.ParseError{Format: "structurizr", Msg: "workspace must be a JSON object"}
	}
	var ws Workspace
	if err := json.Unmarshal(trimmed, &ws); err != nil {
		return Workspace{}, &diagram.ParseError{Format: "structurizr", Msg: err.Error(), Err: err}
	}
	return ws, nil
}

func metadata(ws Workspace) diagram.Metadata {
	return diagram.Metadata{
		Name:    ws.Name,
		Version: ws.Properties[propVersion],
		Author:  ws.Properties[propAuthor],
	}
}

// positions maps element ids to the position in the first view placing them.
func positions(v Views) map[string]diagram.Position {
	out := make(map[string]diagram.Position)
	for _, view := range v.all() {
		for _, e := range view.Elements {
			if _, ok := out[e.ID]; !ok {
				out[e.ID] = diagram.Position{X: float64(e.X), Y: float64(e.Y)}
			}
		}
	}
	return out
}

// uniqueID returns preferred when free, otherwise fallback made unique with a numeric suffix.
func (imp *importer) uniqueID(preferred, fallback string) string {
	id := preferred
	if id == "" || imp.used[id] {
		id = fallback
		for n := 2; imp.used[id]; n++ {
			id = fallback + "-" + strconv.Itoa(n)
		}
	}
	imp.used[id] = true
	if preferred != "" {
		imp.renamed[preferred] = id
	}
	return id
}

// resolve maps a native id carried through properties to the id used on import.
func (imp *importer) resolve(id string) string {
	if id == "" {
		return ""
	}
	if n, ok := imp.renamed[id]; ok {
		return n
	}
	return id
}

// add appends an entity for el and returns its native id. parentSystem and
// parentContainer are the ids of the enclosing non-placeholder elements.
func (imp *importer) add(t diagram.EntityType, el Element, parentSystem, parentContainer string) string {
	id := imp.uniqueID(el.Properties[propID], string(t)+"-"+el.ID)
	if _, ok := imp.native[el.ID]; !ok {
		imp.native[el.ID] = id
	}
	e := diagram.Entity{
		ID:          id,
		Type:        t,
		Name:        el.Name,
		Description: el.Description,
		Technology:  el.Properties[propTechnology],
		Tags:        userTags(el.Tags),
		Position:    imp.positions[el.ID],
	}
	c := imp.snap.Collection(t)
	*c = append(*c, e)

	pp := pendingParent{typ: t, index: len(*c) - 1, system: parentSystem, cont: parentContainer}
	if v, ok := el.Properties[propParentSystem]; ok {
		pp.system = v
	}
	if v, ok := el.Properties[propParentContainer]; ok {
		pp.cont = v
	}
	if pp.system != "" || pp.cont != "" {
		imp.parents = append(imp.parents, pp)
	}

	for _, r := range el.Relationships {
		imp.pending = append(imp.pending, pendingRel{owner: id, rel: r})
	}
	return id
}

func (imp *importer) system(s SoftwareSystem) {
	parent := ""
	switch {
	case hasTag(s.Tags, TagPlaceholder):
		imp.placeholder(s.Element)
	case hasTag(s.Tags, TagPerson):
		// A person cannot own containers; any nested ones become orphans.
		imp.add(diagram.TypePerson, s.Element, "", "")
	default:
		t := diagram.TypeSystem
		if hasTag(s.Tags, TagExternalSystem) || strings.EqualFold(s.Location, LocationExternal) {
			t = diagram.TypeExternalSystem
		}
		parent = imp.add(t, s.Element, "", "")
	}

	for _, c := range s.Containers {
		container := ""
		if !hasTag(c.Tags, TagPlaceholder) {
			container = imp.add(diagram.TypeContainer, c.Element, parent, "")
			imp.setTechnology(diagram.TypeContainer, c.Technology)
		} else {
			imp.placeholder(c.Element)
		}
		for _, k := range c.Components {
			imp.add(diagram.TypeComponent, k.Element, "", container)
			imp.setTechnology(diagram.TypeComponent, k.Technology)
		}
	}
}

// placeholder keeps relationships that a foreign tool may have attached to a
// placeholder element; they become detached endpoints.
func (imp *importer) placeholder(el Element) {
	for _, r := range el.Relationships {
		imp.pending = append(imp.pending, pendingRel{rel: r})
	}
}

// setTechnology sets the technology of the last entity of type t.
func (imp *importer) setTechnology(t diagram.EntityType, tech string) {
	if tech == "" {
		return
	}
	c := *imp.snap.Collection(t)
	c[len(c)-1].Technology = tech
}

func (imp *importer) resolveParents() {
	for _, p := range imp.parents {
		e := &(*imp.snap.Collection(p.typ))[p.index]
		e.ParentSystem = imp.resolve(p.system)
		e.ParentContainer = imp.resolve(p.cont)
	}
}

func (imp *importer) relationship(owner string, r Relationship) {
	from := owner
	if n, ok := imp.native[r.SourceID]; ok {
		from = n
	} else if from == "" {
		from = r.SourceID
	}
	to := r.DestinationID
	if n, ok := imp.native[r.DestinationID]; ok {
		to = n
	}
	rel := diagram.Relationship{
		ID:             imp.uniqueID(r.Properties[propID], "rel-"+r.ID),
		From:           from,
		To:             to,
		Description:    r.Description,
		Technology:     r.Technology,
		ArrowDirection: diagram.ArrowRight,
		LineStyle:      diagram.LineSolid,
		Animated:       r.Properties[propAnimated] == "true",
	}
	if d := diagram.ArrowDirection(r.Properties[propArrowDirection]); d != "" && d.Valid() {
		rel.ArrowDirection = d
	}
	if s := diagram.LineStyle(r.Properties[propLineStyle]); s != "" && s.Valid() {
		rel.LineStyle = s
	}
	imp.snap.Relationships = append(imp.snap.Relationships, rel)
}

// annotations restores annotations carried in workspace properties.
// Malformed property values are ignored.
func (imp *importer) annotations(raw string) {
	if raw == "" {
		return
	}
	var notes []diagram.Entity
	if err := json.Unmarshal([]byte(raw), &notes); err != nil {
		return
	}
	for _, n := range notes {
		n.ID = imp.uniqueID(n.ID, "annotation")
		n.Type = diagram.TypeAnnotation
		imp.snap.Annotations = append(imp.snap.Annotations, n.Clone())
	}
}

// detached restores relationships whose endpoints were not exported.
func (imp *importer) detached(raw string) {
	if raw == "" {
		return
	}
	var rels []diagram.Relationship
	if err := json.Unmarshal([]byte(raw), &rels); err != nil {
		return
	}
	for _, r := range rels {
		r.ID = imp.uniqueID(r.ID, "rel")
		r.From = imp.resolve(r.From)
		r.To = imp.resolve(r.To)
		imp.snap.Relationships = append(imp.snap.Relationships, r)
	}
}
