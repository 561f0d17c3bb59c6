package hierarchy

import (
	"testing"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	s := diagram.EmptySnapshot(diagram.Metadata{})
	s.Systems = []diagram.Entity{{ID: "s1"}, {ID: "s2"}}
	s.Containers = []diagram.Entity{
		{ID: "c1", ParentSystem: "s1"},
		{ID: "c2", ParentSystem: "s1"},
		{ID: "c3", ParentSystem: "missing"},
		{ID: "c4"},
	}
	s.Components = []diagram.Entity{
		{ID: "k1", ParentContainer: "c1"},
		{ID: "k2", ParentContainer: "c3"},
		{ID: "k3", ParentContainer: "nope"},
	}

	tree := Build(&s)
	require.Len(t, tree.Systems, 2)
	require.Len(t, tree.Systems[0].Containers, 2)
	assert.Empty(t, tree.Systems[1].Containers)
	assert.Equal(t, "c1", tree.Systems[0].Containers[0].Entity.ID)
	require.Len(t, tree.Systems[0].Containers[0].Components, 1)

	require.Len(t, tree.OrphanContainers, 2)
	assert.Equal(t, "c3", tree.OrphanContainers[0].Entity.ID)
	assert.Equal(t, "k2", tree.OrphanContainers[0].Components[0].ID)
	require.Len(t, tree.OrphanComponents, 1)
	assert.Equal(t, "k3", tree.OrphanComponents[0].ID)
	assert.True(t, tree.HasOrphans())

	assert.Len(t, tree.Containers(), 4)
	assert.Equal(t, "s1", tree.ParentOf("c2"))
	assert.Equal(t, "c3", tree.ParentOf("k2"))
	assert.Equal(t, "", tree.ParentOf("k3"))
}

func TestBuildEmpty(t *testing.T) {
	s := diagram.EmptySnapshot(diagram.Metadata{})
	tree := Build(&s)
	assert.Empty(t, tree.Systems)
	assert.False(t, tree.HasOrphans())
}
