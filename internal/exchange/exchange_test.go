package exchange

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/structurizr"
)

func sample() diagram.Snapshot {
	s := diagram.EmptySnapshot(diagram.Metadata{Name: "Flight Ops", Version: "1.0", Author: "Ops"})
	s.Systems = []diagram.Entity{{ID: "system-1", Type: diagram.TypeSystem, Name: "Scheduler"}}
	s.People = []diagram.Entity{{ID: "person-1", Type: diagram.TypePerson, Name: "Dispatcher"}}
	s.Relationships = []diagram.Relationship{{ID: "rel-1", From: "person-1", To: "system-1", Description: "Plans flights"}}
	return s
}

func TestLookup(t *testing.T) {
	for _, name := range Names() {
		f, err := Lookup(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, f.Name)
	}

	f, err := Lookup(" PUML ")
	require.NoError(t, err)
	assert.Equal(t, FormatPlantUML, f.Name)

	_, err = Lookup("svg")
	assert.True(t, errors.Is(err, diagram.ErrValidation))
}

func TestFileName(t *testing.T) {
	tests := []struct {
		model, format, want string
	}{
		{"Flight Ops", FormatJSON, "flight-ops-c4-model.json"},
		{"Flight  Ops", FormatPlantUML, "flight-ops-c4.puml"},
		{"Flight Ops", FormatMermaid, "flight-ops-c4.mmd"},
		{"Flight Ops", FormatMarkdown, "flight-ops-c4.md"},
		{"Flight Ops", FormatHTML, "flight-ops-c4-model.html"},
		{"Flight Ops", FormatStructurizr, "flight-ops-structurizr.json"},
		{"Flight Ops", FormatHCL, "flight-ops-c4.hcl"},
		{"   ", FormatJSON, "c4-model-c4-model.json"},
	}
	for _, tt := range tests {
		f, err := Lookup(tt.format)
		require.NoError(t, err)
		assert.Equal(t, tt.want, FileName(tt.model, f))
	}
}

func TestImportDetectsFormat(t *testing.T) {
	native, err := codec.Serialize(sample())
	require.NoError(t, err)
	s, format, err := Import(native)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, format)
	assert.Equal(t, "Scheduler", s.Systems[0].Name)

	ws, err := structurizr.ExportJSON(sample())
	require.NoError(t, err)
	s, format, err = Import(ws)
	require.NoError(t, err)
	assert.Equal(t, FormatStructurizr, format)
	require.Len(t, s.Systems, 1)
	assert.Equal(t, "system-1", s.Systems[0].ID)

	_, _, err = Import([]byte("{"))
	assert.True(t, errors.Is(err, diagram.ErrParse))
}

func TestImportAs(t *testing.T) {
	native, err := codec.Serialize(sample())
	require.NoError(t, err)

	_, err = ImportAs(native, "json")
	require.NoError(t, err)
	_, err = ImportAs(native, "auto")
	require.NoError(t, err)

	_, err = ImportAs(native, "plantuml")
	assert.True(t, errors.Is(err, diagram.ErrValidation))
}

func TestBundle(t *testing.T) {
	res := Bundle(sample(), Names(), DefaultOptions())
	require.True(t, res.Success, res.Errors)
	assert.Empty(t, res.Errors)

	var files []string
	for name := range res.Files {
		files = append(files, name)
	}
	sort.Strings(files)
	assert.Equal(t, []string{
		"flight-ops-c4-model.html",
		"flight-ops-c4-model.json",
		"flight-ops-c4.hcl",
		"flight-ops-c4.md",
		"flight-ops-c4.mmd",
		"flight-ops-c4.puml",
		"flight-ops-structurizr.json",
	}, files)
	assert.Contains(t, string(res.Files["flight-ops-c4.puml"]), "@startuml")
}

func TestBundleUnknownAndDuplicateFormats(t *testing.T) {
	res := Bundle(sample(), []string{"json", "svg", "json"}, Options{MaxParallel: 1})
	assert.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "svg")
	assert.Len(t, res.Files, 1)
}

func TestBundleStrict(t *testing.T) {
	s := sample()
	s.Relationships = append(s.Relationships, diagram.Relationship{ID: "rel-2", From: "system-1", To: "ghost"})

	res := Bundle(s, []string{"json"}, Options{Validate: true, Strict: true})
	assert.False(t, res.Success)
	assert.Empty(t, res.Files)
	assert.NotEmpty(t, res.Warnings)

	res = Bundle(s, []string{"json"}, Options{Validate: true})
	assert.True(t, res.Success)
	assert.Len(t, res.Files, 1)
}
