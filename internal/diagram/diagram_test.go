package diagram

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	for _, typ := range EntityTypes() {
		got, err := ParseEntityType(string(typ))
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseEntityType("database")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownEntityType))
	var typeErr *UnknownEntityTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "database", typeErr.Type)
}

func TestEntityTypeTitleAndCollection(t *testing.T) {
	assert.Equal(t, "ExternalSystem", TypeExternalSystem.Title())
	assert.Equal(t, "System", TypeSystem.Title())
	assert.Equal(t, "people", TypePerson.Collection())
	assert.Equal(t, "externalSystems", TypeExternalSystem.Collection())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("component")
	require.NoError(t, err)
	assert.Equal(t, LevelComponent, l)

	_, err = ParseLevel("deployment")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewIDIsUniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		id := NewID("system")
		require.True(t, strings.HasPrefix(id, "system-"), id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	parts := strings.Split(NewID("rel"), "-")
	require.Len(t, parts, 3)
	assert.Len(t, parts[2], 12)
}

func TestEntityPatchApplyMergesOnlySetFields(t *testing.T) {
	e := Entity{ID: "system-1", Type: TypeSystem, Name: "A", Technology: "X"}
	EntityPatch{Name: Ptr("B")}.Apply(&e)
	assert.Equal(t, Entity{ID: "system-1", Type: TypeSystem, Name: "B", Technology: "X"}, e)

	EntityPatch{Tags: Ptr([]string{"core"}), Position: &Position{X: 3, Y: 4}}.Apply(&e)
	assert.Equal(t, []string{"core"}, e.Tags)
	assert.Equal(t, Position{X: 3, Y: 4}, e.Position)

	EntityPatch{Tags: Ptr([]string{})}.Apply(&e)
	assert.Nil(t, e.Tags)
}

func TestEntityPatchValidate(t *testing.T) {
	tests := []struct {
		name  string
		patch EntityPatch
		field string
	}{
		{"blank name", EntityPatch{Name: Ptr("   ")}, "name"},
		{"nan position", EntityPatch{Position: &Position{X: math.NaN()}}, "position"},
		{"negative width", EntityPatch{Width: Ptr(-1.0)}, "width"},
		{"infinite height", EntityPatch{Height: Ptr(math.Inf(1))}, "height"},
		{"blank tag", EntityPatch{Tags: Ptr([]string{"ok", " "})}, "tags"},
		{"comma in tag", EntityPatch{Tags: Ptr([]string{"ok", "a,b"})}, "tags"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
		})
	}
	assert.NoError(t, EntityPatch{Name: Ptr("Web App")}.Validate())
}

func TestRelationshipPatchValidate(t *testing.T) {
	assert.NoError(t, RelationshipPatch{ArrowDirection: Ptr(ArrowBoth), LineStyle: Ptr(LineDotted)}.Validate())
	assert.ErrorIs(t, RelationshipPatch{ArrowDirection: Ptr(ArrowDirection("up"))}.Validate(), ErrValidation)
	assert.ErrorIs(t, RelationshipPatch{LineStyle: Ptr(LineStyle("wavy"))}.Validate(), ErrValidation)
}

func TestDecodeEntityPatch(t *testing.T) {
	p, err := DecodeEntityPatch(strings.NewReader(`{"name":"API","position":{"x":1,"y":2}}`))
	require.NoError(t, err)
	assert.Equal(t, "API", *p.Name)
	assert.Nil(t, p.Technology)

	_, err = DecodeEntityPatch(strings.NewReader(`{"name":42}`))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)

	_, err = DecodeEntityPatch(strings.NewReader(`{"colour":"red"}`))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = DecodeEntityPatch(strings.NewReader(`{"name":`))
	assert.Error(t, err)

	p, err = DecodeEntityPatch(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, EntityPatch{}, p)
}

func TestSnapshotLookups(t *testing.T) {
	s := EmptySnapshot(Metadata{Name: "M"})
	s.Systems = append(s.Systems, Entity{ID: "s1", Type: TypeSystem, Name: "S"})
	s.People = append(s.People, Entity{ID: "p1", Type: TypePerson, Name: "P"})
	s.Relationships = append(s.Relationships,
		Relationship{ID: "r1", From: "p1", To: "s1"},
		Relationship{ID: "r2", From: "s1", To: "p1"},
	)

	require.NotNil(t, s.EntityByID("p1"))
	assert.Nil(t, s.EntityByID("nope"))
	assert.Len(t, s.RelationshipsFrom("p1"), 1)
	assert.Len(t, s.RelationshipsTo("p1"), 1)
	assert.Equal(t, "r2", s.RelationshipByID("r2").ID)
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.HasElements())
	assert.Equal(t, 1, s.CountByType()[TypePerson])
	assert.Equal(t, []string{"s1", "p1"}, ids(s.AllEntities()))
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := EmptySnapshot(Metadata{Name: "M"})
	s.Annotations = []Entity{{ID: "a1", Type: TypeAnnotation, Name: "note", Tags: []string{"x"}, Width: Ptr(200.0)}}
	c := s.Clone()
	c.Annotations[0].Tags[0] = "y"
	*c.Annotations[0].Width = 10
	assert.Equal(t, "x", s.Annotations[0].Tags[0])
	assert.Equal(t, 200.0, *s.Annotations[0].Width)
}

func TestVisible(t *testing.T) {
	s := EmptySnapshot(Metadata{})
	s.Systems = []Entity{{ID: "s"}}
	s.Containers = []Entity{{ID: "c"}}
	s.Components = []Entity{{ID: "k"}}
	s.People = []Entity{{ID: "p"}}
	s.ExternalSystems = []Entity{{ID: "e"}}
	s.Annotations = []Entity{{ID: "a"}}

	tests := map[Level][]string{
		LevelContext:   {"s", "p", "e", "a"},
		LevelContainer: {"s", "c", "p", "e", "a"},
		LevelComponent: {"c", "k", "p", "a"},
		LevelCode:      {"k", "a"},
	}
	for level, want := range tests {
		assert.Equal(t, want, ids(s.Visible(level)), level)
		assert.Equal(t, s.Visible(level), s.Visible(level))
	}
}

func ids(es []Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}
