package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/result"
	"github.com/c4-modeller/engine/internal/validation"
)

func TestNames(t *testing.T) {
	assert.Equal(t, []Info{
		{Key: "empty", Name: "New C4 Model"},
		{Key: "flightOperations", Name: "Flight Operations System"},
		{Key: "microservices", Name: "E-Commerce Microservices Architecture"},
		{Key: "layeredArchitecture", Name: "Layered Web Application"},
	}, Names())
}

func TestGet(t *testing.T) {
	empty := Get(Empty)
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Relationships)

	flight := Get("flightOperations")
	assert.Len(t, flight.Systems, 2)
	assert.Len(t, flight.Containers, 3)
	assert.Len(t, flight.People, 2)
	assert.Len(t, flight.ExternalSystems, 1)
	assert.Len(t, flight.Relationships, 6)
	for _, e := range flight.AllEntities() {
		assert.True(t, e.Type.Valid(), e.ID)
	}

	layered := Get("layeredArchitecture")
	assert.Len(t, layered.Components, 4)
	assert.NotNil(t, layered.Containers)
}

func TestGetUnknownFallsBackToEmpty(t *testing.T) {
	assert.False(t, Has("nope"))
	assert.Equal(t, Get(Empty), Get("nope"))
}

func TestGetReturnsCopies(t *testing.T) {
	a := Get("microservices")
	a.Systems[0].Name = "changed"
	a.Containers = nil

	b := Get("microservices")
	assert.Equal(t, "E-Commerce Platform", b.Systems[0].Name)
	assert.Len(t, b.Containers, 5)
}

func TestTemplatesHaveNoDanglingReferences(t *testing.T) {
	for _, info := range Names() {
		s := Get(info.Key)
		ws := validation.Validate(&s, diagram.LevelCode, 100)
		assert.False(t, result.HasErrors(ws), info.Key)
		assert.Zero(t, result.Count(ws).Warning, info.Key)
	}
}
