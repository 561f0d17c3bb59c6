package graphdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c4-modeller/engine/internal/diagram"
)

func model() diagram.Snapshot {
	s := diagram.EmptySnapshot(diagram.Metadata{Name: "Shop"})
	s.Systems = []diagram.Entity{{ID: "sys", Type: diagram.TypeSystem, Name: "Shop", Position: diagram.Position{X: 1, Y: 2}}}
	s.Containers = []diagram.Entity{
		{ID: "web", Type: diagram.TypeContainer, Name: "Web", Technology: "React", ParentSystem: "sys"},
		{ID: "orphan", Type: diagram.TypeContainer, Name: "Orphan", ParentSystem: "gone"},
	}
	s.Components = []diagram.Entity{{ID: "cart", Type: diagram.TypeComponent, Name: "Cart", ParentContainer: "web", Tags: []string{"core"}}}
	s.Relationships = []diagram.Relationship{
		{ID: "r1", From: "web", To: "cart", Description: "Uses", Technology: "HTTP", LineStyle: diagram.LineDashed},
		{ID: "r2", From: "web", To: "missing", Description: "Dangles"},
	}
	return s
}

func TestBuildParams(t *testing.T) {
	p := BuildParams(model())

	assert.Equal(t, "Shop", p.Model)
	assert.Equal(t, Stats{Elements: 4, Parents: 2, Relationships: 1}, p.Stats())

	sys := p.Elements[0]
	assert.Equal(t, map[string]any{
		"model": "Shop", "id": "sys", "type": "system", "name": "Shop", "x": 1.0, "y": 2.0,
	}, sys)

	cart := p.Elements[3]
	assert.Equal(t, "cart", cart["id"])
	assert.Equal(t, []string{"core"}, cart["tags"])
	assert.Equal(t, "web", cart["parentContainer"])

	assert.ElementsMatch(t, []map[string]any{
		{"child": "web", "parent": "sys"},
		{"child": "cart", "parent": "web"},
	}, p.Parents)

	require.Len(t, p.Relationships, 1)
	rel := p.Relationships[0]
	assert.Equal(t, "web", rel["from"])
	assert.Equal(t, "cart", rel["to"])
	assert.Equal(t, map[string]any{
		"id": "r1", "description": "Uses", "technology": "HTTP",
		"arrowDirection": "right", "lineStyle": "dashed", "animated": false,
	}, rel["props"])
}

func TestBuildParamsEmpty(t *testing.T) {
	p := BuildParams(diagram.EmptySnapshot(diagram.Metadata{Name: "Empty"}))
	assert.NotNil(t, p.Elements)
	assert.NotNil(t, p.Parents)
	assert.NotNil(t, p.Relationships)
	assert.Equal(t, Stats{}, p.Stats())
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "bolt://localhost:7687", cfg.URI)
	assert.Equal(t, "neo4j", cfg.Database)
}
