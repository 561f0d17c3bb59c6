package structurizr

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ecommerce() diagram.Snapshot {
	s := diagram.EmptySnapshot(diagram.Metadata{Name: "Test E-Commerce System", Version: "1.0", Author: "Test User"})
	s.Systems = []diagram.Entity{{ID: "system-1", Type: diagram.TypeSystem, Name: "E-Commerce Platform", Description: "Main e-commerce system", Technology: "Java Spring", Tags: []string{"Core"}, Position: diagram.Position{X: 100, Y: 100}}}
	s.ExternalSystems = []diagram.Entity{{ID: "externalSystem-1", Type: diagram.TypeExternalSystem, Name: "Payment Gateway", Description: "Third-party payment processor", Tags: []string{"External"}, Position: diagram.Position{X: 400, Y: 100}}}
	s.People = []diagram.Entity{{ID: "person-1", Type: diagram.TypePerson, Name: "Customer", Description: "Online shopper", Position: diagram.Position{X: 100, Y: 300}}}
	s.Relationships = []diagram.Relationship{
		{ID: "rel-1", From: "person-1", To: "system-1", Description: "Places orders", Technology: "HTTPS", ArrowDirection: diagram.ArrowRight, LineStyle: diagram.LineSolid},
		{ID: "rel-2", From: "system-1", To: "externalSystem-1", Description: "Processes payments", Technology: "REST API", ArrowDirection: diagram.ArrowRight, LineStyle: diagram.LineSolid},
	}
	return s
}

func full() diagram.Snapshot {
	s := ecommerce()
	s.Containers = []diagram.Entity{
		{ID: "container-1", Type: diagram.TypeContainer, Name: "Web App", Technology: "React", ParentSystem: "system-1", Position: diagram.Position{X: 10, Y: 20}},
		{ID: "container-2", Type: diagram.TypeContainer, Name: "Orphan DB", Technology: "Postgres", ParentSystem: "system-gone", Position: diagram.Position{X: 30, Y: 40}},
	}
	s.Components = []diagram.Entity{
		{ID: "component-1", Type: diagram.TypeComponent, Name: "Cart", Technology: "TS", ParentContainer: "container-1", ParentSystem: "system-1", Position: diagram.Position{X: 5, Y: 6}},
		{ID: "component-2", Type: diagram.TypeComponent, Name: "Loose", Position: diagram.Position{X: 7, Y: 8}},
	}
	s.Annotations = []diagram.Entity{{ID: "annotation-1", Type: diagram.TypeAnnotation, Name: "Remember PCI", Width: diagram.Ptr(200.0), Height: diagram.Ptr(90.0), Position: diagram.Position{X: 1, Y: 2}}}
	s.Relationships = append(s.Relationships,
		diagram.Relationship{ID: "rel-3", From: "container-1", To: "component-1", Description: "Renders", ArrowDirection: diagram.ArrowBoth, LineStyle: diagram.LineDashed, Animated: true},
		diagram.Relationship{ID: "rel-4", From: "annotation-1", To: "system-1", Description: "About", ArrowDirection: diagram.ArrowNone, LineStyle: diagram.LineDotted},
		diagram.Relationship{ID: "rel-5", From: "person-1", To: "ghost", Description: "Dangling", ArrowDirection: diagram.ArrowRight, LineStyle: diagram.LineSolid},
	)
	return s
}

func TestRoundTripPreservesCountsAndDescriptions(t *testing.T) {
	got := Import(Export(ecommerce()))

	assert.Len(t, got.People, 1)
	assert.Len(t, got.Systems, 1)
	assert.Len(t, got.ExternalSystems, 1)
	assert.Empty(t, got.Containers)
	assert.Empty(t, got.Components)
	require.Len(t, got.Relationships, 2)

	var descs []string
	for _, r := range got.Relationships {
		descs = append(descs, r.Description)
	}
	assert.ElementsMatch(t, []string{"Places orders", "Processes payments"}, descs)

	assert.Equal(t, "E-Commerce Platform", got.Systems[0].Name)
	assert.Equal(t, "Java Spring", got.Systems[0].Technology)
	assert.Equal(t, []string{"Core"}, got.Systems[0].Tags)
	assert.Equal(t, []string{"External"}, got.ExternalSystems[0].Tags)
	assert.Equal(t, diagram.Position{X: 400, Y: 100}, got.ExternalSystems[0].Position)
	assert.Equal(t, ecommerce().Metadata, got.Metadata)
}

func TestRoundTripFullModel(t *testing.T) {
	want := full()
	data, err := ExportJSON(want)
	require.NoError(t, err)
	got, err := ImportJSON(data)
	require.NoError(t, err)

	assert.Equal(t, want.Metadata, got.Metadata)
	for _, typ := range diagram.EntityTypes() {
		assert.ElementsMatch(t, want.Entities(typ), got.Entities(typ), typ)
	}
	assert.ElementsMatch(t, want.Relationships, got.Relationships)
}

func TestExportStructure(t *testing.T) {
	ws := Export(ecommerce())

	assert.Equal(t, "Test E-Commerce System", ws.Name)
	require.Len(t, ws.Model.People, 1)
	p := ws.Model.People[0]
	assert.Equal(t, "1", p.ID)
	assert.True(t, hasTag(p.Tags, TagPerson))
	require.Len(t, p.Relationships, 1)
	assert.Equal(t, "Places orders", p.Relationships[0].Description)
	assert.Equal(t, "1", p.Relationships[0].SourceID)
	assert.Equal(t, "2", p.Relationships[0].DestinationID)

	require.Len(t, ws.Model.SoftwareSystems, 2)
	sys, ext := ws.Model.SoftwareSystems[0], ws.Model.SoftwareSystems[1]
	assert.Equal(t, "2", sys.ID)
	assert.Equal(t, "Element,Software System,Core", sys.Tags)
	assert.Equal(t, "Java Spring", sys.Properties[propTechnology])
	require.Len(t, sys.Relationships, 1)
	assert.Equal(t, "3", sys.Relationships[0].DestinationID)

	assert.Equal(t, "3", ext.ID)
	assert.True(t, hasTag(ext.Tags, TagExternalSystem))
	assert.Equal(t, LocationExternal, ext.Location)
	assert.Empty(t, ext.Relationships)

	require.Len(t, ws.Views.SystemLandscapeViews, 1)
	assert.Len(t, ws.Views.SystemLandscapeViews[0].Elements, 3)
	assert.Len(t, ws.Views.SystemLandscapeViews[0].Relationships, 2)
	require.Len(t, ws.Views.SystemContextViews, 1)
	assert.Len(t, ws.Views.SystemContextViews[0].Elements, 3)
	assert.NotNil(t, ws.Views.ContainerViews)
	assert.Empty(t, ws.Views.ContainerViews)
	assert.NotNil(t, ws.Views.ComponentViews)
}

func TestExportPlacesOrphansUnderPlaceholder(t *testing.T) {
	ws := Export(full())

	var placeholder *SoftwareSystem
	for i := range ws.Model.SoftwareSystems {
		if hasTag(ws.Model.SoftwareSystems[i].Tags, TagPlaceholder) {
			placeholder = &ws.Model.SoftwareSystems[i]
		}
	}
	require.NotNil(t, placeholder)
	assert.Equal(t, placeholderSystemName, placeholder.Name)
	require.Len(t, placeholder.Containers, 2)
	assert.Equal(t, "Orphan DB", placeholder.Containers[0].Name)
	assert.Equal(t, placeholderContainerName, placeholder.Containers[1].Name)
	require.Len(t, placeholder.Containers[1].Components, 1)
	assert.Equal(t, "Loose", placeholder.Containers[1].Components[0].Name)

	assert.Contains(t, ws.Properties, propAnnotations)
	var detached []diagram.Relationship
	require.NoError(t, json.Unmarshal([]byte(ws.Properties[propDetachedRelationships]), &detached))
	require.Len(t, detached, 2)
	assert.Equal(t, "rel-4", detached[0].ID)
	assert.Equal(t, "rel-5", detached[1].ID)
}

func TestExportEmptyModel(t *testing.T) {
	ws := Export(diagram.EmptySnapshot(diagram.Metadata{Name: "Empty"}))
	assert.NotNil(t, ws.Model.People)
	assert.NotNil(t, ws.Model.SoftwareSystems)
	assert.Nil(t, ws.Properties)
	require.Len(t, ws.Views.SystemLandscapeViews, 1)
	assert.Empty(t, ws.Views.SystemLandscapeViews[0].Elements)

	data, err := json.Marshal(ws)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"softwareSystems":[]`)
}

func TestImportForeignWorkspace(t *testing.T) {
	raw := `{
	  "id": 42,
	  "name": "Big Bank",
	  "model": {
	    "people": [{"id": "p", "name": "Customer", "tags": "Element,Person,VIP",
	      "relationships": [{"id": "r1", "sourceId": "p", "destinationId": "ib", "description": "Uses"}]}],
	    "softwareSystems": [
	      {"id": "ib", "name": "Internet Banking", "tags": "Element,Software System",
	       "containers": [{"id": "web", "name": "Web", "technology": "Java",
	         "components": [{"id": "ctl", "name": "Controller", "technology": "Spring MVC",
	           "relationships": [{"id": "r2", "sourceId": "ctl", "destinationId": "mail", "description": "Sends"}]}]}]},
	      {"id": "mail", "name": "E-mail", "location": "External"},
	      {"id": "ops", "name": "Operator", "tags": "Element,Person,Staff"}
	    ]
	  }
	}`
	got, err := ImportJSON([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "Big Bank", got.Metadata.Name)
	require.Len(t, got.People, 2)
	assert.Equal(t, []string{"VIP"}, got.People[0].Tags)
	assert.Equal(t, "Operator", got.People[1].Name)
	assert.Equal(t, []string{"Staff"}, got.People[1].Tags)
	require.Len(t, got.Systems, 1)
	require.Len(t, got.ExternalSystems, 1)
	require.Len(t, got.Containers, 1)
	assert.Equal(t, got.Systems[0].ID, got.Containers[0].ParentSystem)
	assert.Equal(t, "Java", got.Containers[0].Technology)
	require.Len(t, got.Components, 1)
	assert.Equal(t, got.Containers[0].ID, got.Components[0].ParentContainer)
	assert.Equal(t, "Spring MVC", got.Components[0].Technology)

	require.Len(t, got.Relationships, 2)
	assert.Equal(t, got.People[0].ID, got.Relationships[0].From)
	assert.Equal(t, got.Systems[0].ID, got.Relationships[0].To)
	assert.Equal(t, got.Components[0].ID, got.Relationships[1].From)
	assert.Equal(t, got.ExternalSystems[0].ID, got.Relationships[1].To)
	assert.Equal(t, diagram.ArrowRight, got.Relationships[0].ArrowDirection)

	ids := map[string]bool{}
	for _, e := range got.AllEntities() {
		assert.False(t, ids[e.ID], e.ID)
		ids[e.ID] = true
	}
}

func TestImportToleratesMissingSections(t *testing.T) {
	got, err := ImportJSON([]byte(`{"name":"Bare"}`))
	require.NoError(t, err)
	assert.Equal(t, "Bare", got.Metadata.Name)
	assert.True(t, got.IsEmpty())
	assert.NotNil(t, got.Systems)

	got, err = ImportJSON([]byte(`{"model":{"softwareSystems":[{"id":"1","name":"S"}]},"properties":{"c4model.annotations":"not json"}}`))
	require.NoError(t, err)
	assert.Len(t, got.Systems, 1)
	assert.Empty(t, got.Annotations)
}

func TestImportJSONErrors(t *testing.T) {
	for _, in := range []string{"", "nope", "[]", `{"model": 3}`} {
		_, err := ImportJSON([]byte(in))
		assert.ErrorIs(t, err, diagram.ErrParse, in)
	}
}

func TestImportDuplicateIDsAreMadeUnique(t *testing.T) {
	raw := `{"model":{"softwareSystems":[
	  {"id":"1","name":"A","properties":{"c4model.id":"dup"}},
	  {"id":"2","name":"B","properties":{"c4model.id":"dup"}}]}}`
	got, err := ImportJSON([]byte(raw))
	require.NoError(t, err)
	require.Len(t, got.Systems, 2)
	assert.Equal(t, "dup", got.Systems[0].ID)
	assert.True(t, strings.HasPrefix(got.Systems[1].ID, "system-"))
}
