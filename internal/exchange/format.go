// Package exchange is the registry of import/export formats and renders
// several formats of one model concurrently.
package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/c4-modeller/engine/internal/codec"
	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/generate"
	"github.com/c4-modeller/engine/internal/structurizr"
)

// Format is an export target.
type Format struct {
	Name        string
	Extension   string // appended to the model slug to build a file name
	ContentType string
	Render      func(diagram.Snapshot) ([]byte, error)
}

// Format names.
const (
	FormatJSON        = "json"
	FormatStructurizr = "structurizr"
	FormatPlantUML    = "plantuml"
	FormatMermaid     = "mermaid"
	FormatMarkdown    = "markdown"
	FormatHTML        = "html"
	FormatHCL         = "hcl"
)

var formats = []Format{
	{Name: FormatJSON, Extension: "-c4-model.json", ContentType: "application/json", Render: codec.Serialize},
	{Name: FormatStructurizr, Extension: "-structurizr.json", ContentType: "application/json", Render: structurizr.ExportJSON},
	{Name: FormatPlantUML, Extension: "-c4.puml", ContentType: "text/plain; charset=utf-8", Render: text(generate.PlantUML)},
	{Name: FormatMermaid, Extension: "-c4.mmd", ContentType: "text/plain; charset=utf-8", Render: text(generate.Mermaid)},
	{Name: FormatMarkdown, Extension: "-c4.md", ContentType: "text/markdown; charset=utf-8", Render: text(generate.Markdown)},
	{Name: FormatHTML, Extension: "-c4-model.html", ContentType: "text/html; charset=utf-8", Render: generate.HTML},
	{Name: FormatHCL, Extension: "-c4.hcl", ContentType: "text/plain; charset=utf-8", Render: func(s diagram.Snapshot) ([]byte, error) { return generate.HCL(s), nil }},
}

func text(gen func(diagram.Snapshot) string) func(diagram.Snapshot) ([]byte, error) {
	return func(s diagram.Snapshot) ([]byte, error) {
		return []byte(gen(s)), nil
	}
}

// Names returns the format names in registry order.
func Names() []string {
	out := make([]string, len(formats))
	for i, f := range formats {
		out[i] = f.Name
	}
	return out
}

// Lookup returns the format with the given name.
func Lookup(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "puml":
		name = FormatPlantUML
	case "mmd":
		name = FormatMermaid
	case "md":
		name = FormatMarkdown
	}
	for _, f := range formats {
		if f.Name == name {
			return f, nil
		}
	}
	return Format{}, &diagram.ValidationError{Field: "format", Msg: fmt.Sprintf("unknown format %q (want one of %s)", name, strings.Join(Names(), ", "))}
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug lowercases name and replaces whitespace runs with "-".
func Slug(name string) string {
	s := strings.ToLower(whitespace.ReplaceAllString(strings.TrimSpace(name), "-"))
	if s == "" {
		return "c4-model"
	}
	return s
}

// FileName returns the download name for a model exported as f.
func FileName(modelName string, f Format) string {
	return Slug(modelName) + f.Extension
}

// Render exports s in the named format.
func Render(s diagram.Snapshot, name string) ([]byte, error) {
	f, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return f.Render(s)
}

// IsStructurizr reports whether data looks like a Structurizr workspace:
// a top-level "model" object holding "people" or "softwareSystems".
func IsStructurizr(data []byte) bool {
	var probe struct {
		Model map[string]json.RawMessage `json:"model"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	_, people := probe.Model["people"]
	_, systems := probe.Model["softwareSystems"]
	return people || systems
}

// Import decodes native or Structurizr JSON, detecting which one data is.
// It returns the snapshot and the detected format name.
func Import(data []byte) (diagram.Snapshot, string, error) {
	if IsStructurizr(bytes.TrimSpace(data)) {
		s, err := structurizr.ImportJSON(data)
		return s, FormatStructurizr, err
	}
	s, err := codec.Deserialize(data)
	return s, FormatJSON, err
}

// ImportAs decodes data in the named format ("json", "structurizr" or "auto").
func ImportAs(data []byte, format string) (diagram.Snapshot, error) {
	switch strings.ToLower(format) {
	case "", "auto":
		s, _, err := Import(data)
		return s, err
	case FormatJSON:
		return codec.Deserialize(data)
	case FormatStructurizr:
		return structurizr.ImportJSON(data)
	}
	return diagram.Snapshot{}, &diagram.ValidationError{Field: "inputFormat", Msg: fmt.Sprintf("cannot import %q (want auto, json or structurizr)", format)}
}
