package codec

import (
	"strings"
	"testing"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() diagram.Snapshot {
	s := diagram.EmptySnapshot(diagram.Metadata{Name: "Bank", Version: "1.0", Author: "Ann"})
	s.Systems = []diagram.Entity{{ID: "system-1", Type: diagram.TypeSystem, Name: "Core", Technology: "Go", Tags: []string{"core", "critical"}, Position: diagram.Position{X: 10.5, Y: 20}}}
	s.Containers = []diagram.Entity{{ID: "container-1", Type: diagram.TypeContainer, Name: "API", ParentSystem: "system-1"}}
	s.Components = []diagram.Entity{{ID: "component-1", Type: diagram.TypeComponent, Name: "Auth", ParentContainer: "container-1"}}
	s.People = []diagram.Entity{{ID: "person-1", Type: diagram.TypePerson, Name: "Customer", Description: "Banks online"}}
	s.ExternalSystems = []diagram.Entity{{ID: "externalSystem-1", Type: diagram.TypeExternalSystem, Name: "Mail"}}
	s.Relationships = []diagram.Relationship{
		{ID: "rel-1", From: "person-1", To: "system-1", Description: "Uses", ArrowDirection: diagram.ArrowBoth, LineStyle: diagram.LineDashed, Animated: true},
	}
	return s
}

func TestRoundTrip(t *testing.T) {
	for name, s := range map[string]diagram.Snapshot{
		"sample": sample(),
		"empty":  diagram.EmptySnapshot(diagram.Metadata{Name: "Empty"}),
		"annotated": func() diagram.Snapshot {
			s := sample()
			s.Annotations = []diagram.Entity{{ID: "annotation-1", Type: diagram.TypeAnnotation, Name: "Note", Width: diagram.Ptr(200.0), Height: diagram.Ptr(80.0)}}
			return s
		}(),
	} {
		t.Run(name, func(t *testing.T) {
			data, err := Serialize(s)
			require.NoError(t, err)
			got, err := Deserialize(data)
			require.NoError(t, err)
			want := s.Clone()
			want.Normalize()
			assert.Equal(t, want, got)
		})
	}
}

func TestSerializeKeyOrder(t *testing.T) {
	data, err := SerializeString(sample())
	require.NoError(t, err)
	keys := []string{`"metadata"`, `"systems"`, `"containers"`, `"components"`, `"people"`, `"externalSystems"`, `"relationships"`}
	last := -1
	for _, k := range keys {
		idx := strings.Index(data, k)
		require.Greater(t, idx, last, k)
		last = idx
	}
	assert.NotContains(t, data, `"annotations"`)
	assert.True(t, strings.HasPrefix(data, "{\n  \"metadata\""))
}

func TestSerializeAppendsAnnotations(t *testing.T) {
	s := sample()
	s.Annotations = []diagram.Entity{{ID: "a", Type: diagram.TypeAnnotation, Name: "n"}}
	data, err := SerializeString(s)
	require.NoError(t, err)
	assert.Greater(t, strings.Index(data, `"annotations"`), strings.Index(data, `"relationships"`))
}

func TestDeserializeDefaultsMissingCollections(t *testing.T) {
	s, err := DeserializeString(`{"metadata":{"name":"X"},"systems":[{"id":"s1","name":"S"}]}`)
	require.NoError(t, err)
	assert.Equal(t, "X", s.Metadata.Name)
	require.Len(t, s.Systems, 1)
	assert.Equal(t, diagram.TypeSystem, s.Systems[0].Type)
	assert.NotNil(t, s.Containers)
	assert.NotNil(t, s.Relationships)
	assert.NotNil(t, s.Annotations)
}

func TestDeserializeErrors(t *testing.T) {
	for _, in := range []string{"", "not json", "[1,2]", `{"systems": 5}`, `{"metadata":`} {
		_, err := DeserializeString(in)
		assert.ErrorIs(t, err, diagram.ErrParse, in)
	}
}

func TestDeserializeRejectsUnknownType(t *testing.T) {
	_, err := DeserializeString(`{"systems":[{"id":"s1","type":"database","name":"DB"}]}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagram.ErrParse)
	assert.ErrorIs(t, err, diagram.ErrUnknownEntityType)

	var typeErr *diagram.UnknownEntityTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "database", typeErr.Type)
}

func TestDeserializeRejectsTypeOfAnotherCollection(t *testing.T) {
	_, err := DeserializeString(`{"systems":[{"id":"s1","type":"container","name":"API","technology":"Go"}]}`)
	require.Error(t, err)
	assert.ErrorIs(t, err, diagram.ErrParse)
	assert.Contains(t, err.Error(), `"s1"`)
}

func TestDeserializeFillsMissingType(t *testing.T) {
	s, err := DeserializeString(`{"people":[{"id":"p1","name":"Pilot"}]}`)
	require.NoError(t, err)
	require.Len(t, s.People, 1)
	assert.Equal(t, diagram.TypePerson, s.People[0].Type)
}
