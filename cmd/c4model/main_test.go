package main

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/exchange"
	"github.com/c4-modeller/engine/internal/templates"
)

const brokenModel = `{
  "metadata": {"name": "Broken", "version": "1.0", "author": "test"},
  "systems": [{"id": "a", "type": "system", "name": "A", "position": {"x": 0, "y": 0}}],
  "relationships": [{"id": "r1", "from": "a", "to": "b", "description": "calls"}]
}`

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func stubConfirm(t *testing.T, answer bool) *int {
	t.Helper()
	calls := 0
	orig := askOneFunc
	askOneFunc = func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error {
		calls++
		*(response.(*bool)) = answer
		return nil
	}
	t.Cleanup(func() { askOneFunc = orig })
	return &calls
}

func writeTemplate(t *testing.T, key string) (string, diagram.Snapshot) {
	t.Helper()
	snap := templates.Get(key)
	data, err := codec.Serialize(snap)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), key+".json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path, snap
}

func TestTemplatesCommand(t *testing.T) {
	out, err := execute(t, "", "templates")
	require.NoError(t, err)
	for _, info := range templates.Names() {
		assert.Contains(t, out, info.Key)
	}
}

func TestNewCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	_, err := execute(t, "", "new", "--template", "microservices", "--name", "Shop", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	snap, err := codec.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, "Shop", snap.Metadata.Name)
	assert.Len(t, snap.Containers, 5)
}

func TestNewCommandUnknownTemplate(t *testing.T) {
	_, err := execute(t, "", "new", "--template", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flightOperations")
}

func TestNewCommandAsksBeforeOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	require.NoError(t, os.WriteFile(path, []byte("keep"), 0o644))
	calls := stubConfirm(t, false)

	_, err := execute(t, "", "new", "-o", path)
	require.Error(t, err)
	assert.Equal(t, 1, *calls)
	data, _ := os.ReadFile(path)
	assert.Equal(t, "keep", string(data))

	_, err = execute(t, "", "new", "-o", path, "--force")
	require.NoError(t, err)
	assert.Equal(t, 1, *calls)
}

func TestExportSingleFormatToStdout(t *testing.T) {
	path, _ := writeTemplate(t, "flightOperations")
	out, err := execute(t, "", "export", path, "--format", "plantuml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@startuml"))
	assert.Contains(t, out, "@enduml")
}

func TestExportFromStdin(t *testing.T) {
	snap := templates.Get("layeredArchitecture")
	data, err := codec.Serialize(snap)
	require.NoError(t, err)

	out, err := execute(t, string(data), "export", "-", "-f", "mermaid")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestExportAllToDirectory(t *testing.T) {
	path, snap := writeTemplate(t, "flightOperations")
	dir := filepath.Join(t.TempDir(), "out")

	_, err := execute(t, "", "export", path, "--format", "all", "-o", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var got []string
	for _, e := range entries {
		got = append(got, e.Name())
	}
	var want []string
	for _, name := range exchange.Names() {
		f, err := exchange.Lookup(name)
		require.NoError(t, err)
		want = append(want, exchange.FileName(snap.Metadata.Name, f))
	}
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestExportErrors(t *testing.T) {
	path, _ := writeTemplate(t, "flightOperations")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"export", path, "-f", "visio"}},
		{"bad level", []string{"export", path, "--level", "galaxy"}},
		{"several formats to stdout", []string{"export", path, "-f", "plantuml,mermaid"}},
		{"missing file", []string{"export", filepath.Join(t.TempDir(), "none.json")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestExportStrictRejectsBrokenModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(brokenModel), 0o644))

	_, err := execute(t, "", "export", path, "-f", "plantuml")
	require.NoError(t, err)

	_, err = execute(t, "", "export", path, "-f", "plantuml", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation errors")
}

func TestImportCommand(t *testing.T) {
	snap := templates.Get("flightOperations")
	workspace, err := exchange.Render(snap, exchange.FormatStructurizr)
	require.NoError(t, err)
	dir := t.TempDir()
	in := filepath.Join(dir, "workspace.json")
	require.NoError(t, os.WriteFile(in, workspace, 0o644))
	out := filepath.Join(dir, "model.json")

	_, err = execute(t, "", "import", in, "-o", out)
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	got, err := codec.Deserialize(data)
	require.NoError(t, err)
	assert.Equal(t, snap.Metadata.Name, got.Metadata.Name)
	assert.Len(t, got.People, len(snap.People))
	assert.Len(t, got.Containers, len(snap.Containers))
}

func TestValidateCommand(t *testing.T) {
	clean, _ := writeTemplate(t, "flightOperations")
	out, err := execute(t, "", "validate", clean)
	require.NoError(t, err)
	assert.Contains(t, out, "No issues found.")

	broken := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(broken, []byte(brokenModel), 0o644))

	out, err = execute(t, "", "validate", broken)
	require.NoError(t, err)
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "r1")

	_, err = execute(t, "", "validate", broken, "--strict")
	assert.Error(t, err)
}

func TestViewCommand(t *testing.T) {
	path, snap := writeTemplate(t, "flightOperations")

	out, err := execute(t, "", "view", path, "--level", "container")
	require.NoError(t, err)
	for _, c := range snap.Containers {
		assert.Contains(t, out, c.Name)
	}

	out, err = execute(t, "", "view", path)
	require.NoError(t, err)
	for _, c := range snap.Containers {
		assert.NotContains(t, out, c.ID)
	}
}

func TestLevelCommand(t *testing.T) {
	t.Run("declined keeps the model", func(t *testing.T) {
		path, snap := writeTemplate(t, "microservices")
		calls := stubConfirm(t, false)

		out, err := execute(t, "", "level", path, "container")
		require.NoError(t, err)
		assert.Equal(t, 1, *calls)
		assert.Contains(t, out, "Level set to container")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		got, err := codec.Deserialize(data)
		require.NoError(t, err)
		assert.Equal(t, snap.Len(), got.Len())
	})

	t.Run("yes clears without asking", func(t *testing.T) {
		path, snap := writeTemplate(t, "microservices")
		calls := stubConfirm(t, false)

		_, err := execute(t, "", "level", path, "component", "--yes")
		require.NoError(t, err)
		assert.Zero(t, *calls)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		got, err := codec.Deserialize(data)
		require.NoError(t, err)
		assert.Zero(t, got.Len())
		assert.Empty(t, got.Relationships)
		assert.Equal(t, snap.Metadata, got.Metadata)
	})

	t.Run("unknown level", func(t *testing.T) {
		path, _ := writeTemplate(t, "microservices")
		_, err := execute(t, "", "level", path, "galaxy")
		assert.Error(t, err)
	})
}

func TestRenderCommand(t *testing.T) {
	path, snap := writeTemplate(t, "flightOperations")

	out, err := execute(t, "", "render", path, "--raw")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "# "+snap.Metadata.Name))

	out, err = execute(t, "", "render", path)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestAutosaveCommands(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "autosave.json")
	snap := templates.Get("flightOperations")
	data, err := codec.Serialize(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dsn, data, 0o644))

	out, err := execute(t, "", "autosave", "show", "--store-type", "file", "--store-dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, snap.Metadata.Name)

	out, err = execute(t, "", "autosave", "clear", "--store-type", "file", "--store-dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "Autosave cleared.")
	_, err = os.Stat(dsn)
	assert.True(t, os.IsNotExist(err))

	_, err = execute(t, "", "autosave", "show", "--store-type", "file", "--store-dsn", dsn)
	assert.Error(t, err)
}

func TestPushRequiresNeo4jPassword(t *testing.T) {
	t.Setenv("C4MODEL_NEO4J_PASSWORD", "")
	path, _ := writeTemplate(t, "flightOperations")
	_, err := execute(t, "", "push", path)
	assert.Error(t, err)
}

func TestShowCommand(t *testing.T) {
	path, _ := writeTemplate(t, "flightOperations")

	out, err := execute(t, "", "show", path, "cont-web-app")
	require.NoError(t, err)
	assert.Contains(t, out, "Web Application")
	assert.Contains(t, out, "FICO (sys-fico)")
	assert.Contains(t, out, "-> API Gateway (cont-api-gateway): Makes API calls")
	assert.Contains(t, out, "<- Pilot (person-pilot): Views flight information")
	assert.Contains(t, out, "<- Flight Dispatcher (person-dispatcher): Uses to manage flights")

	_, err = execute(t, "", "show", path, "nope")
	assert.ErrorIs(t, err, diagram.ErrNotFound)
}

func TestLevelCompletion(t *testing.T) {
	out, err := execute(t, "", "__complete", "level", "model.json", "")
	require.NoError(t, err)
	for _, l := range diagram.Levels() {
		assert.Contains(t, out, string(l))
	}

	out, err = execute(t, "", "__complete", "view", "model.json", "--level", "comp")
	require.NoError(t, err)
	assert.Contains(t, out, "component")
	assert.NotContains(t, out, "container")
}
