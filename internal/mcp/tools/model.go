package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/exchange"
	"github.com/c4-modeller/engine/internal/result"
)

// SetLevelInput defines the input for the set_level tool.
type SetLevelInput struct {
	Level string `json:"level" jsonschema:"C4 level: context, container, component or code"`
}

// LevelOutput reports the current level.
type LevelOutput struct {
	Level   diagram.Level `json:"level"`
	Visible int           `json:"visible"`
}

// SetLevelTool returns the tool definition for set_level.
func SetLevelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "set_level",
		Description: "Switch the C4 abstraction level. The level decides which element types are visible; the model itself is unchanged.",
	}
}

// HandleSetLevel handles the set_level tool call.
func (h *Handler) HandleSetLevel(ctx context.Context, req *mcp.CallToolRequest, input SetLevelInput) (*mcp.CallToolResult, LevelOutput, error) {
	l, err := diagram.ParseLevel(input.Level)
	if err != nil {
		return nil, LevelOutput{}, err
	}
	if err := h.Store.SetCurrentLevel(l); err != nil {
		return nil, LevelOutput{}, err
	}
	h.Logger.Info("set_level", "level", l)
	return nil, LevelOutput{Level: l, Visible: len(h.Store.VisibleEntities())}, nil
}

// ValidateModelInput defines the input for the validate_model tool.
type ValidateModelInput struct{}

// ValidateModelOutput defines the output for the validate_model tool.
type ValidateModelOutput struct {
	Warnings []result.Warning `json:"warnings"`
	Counts   result.Counts    `json:"counts"`
}

// ValidateModelTool returns the tool definition for validate_model.
func ValidateModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "validate_model",
		Description: "Check the model for dangling relationships, missing parents and diagrams too large to read. Findings are advisory.",
	}
}

// HandleValidateModel handles the validate_model tool call.
func (h *Handler) HandleValidateModel(ctx context.Context, req *mcp.CallToolRequest, input ValidateModelInput) (*mcp.CallToolResult, ValidateModelOutput, error) {
	ws := h.Store.ValidateModel()
	counts := result.Count(ws)
	h.Logger.Info("validate_model", "errors", counts.Error, "warnings", counts.Warning, "info", counts.Info)
	return nil, ValidateModelOutput{Warnings: ws, Counts: counts}, nil
}

// ExportModelInput defines the input for the export_model tool.
type ExportModelInput struct {
	Format string `json:"format,omitempty" jsonschema:"json (default), structurizr, plantuml, mermaid, markdown, html or hcl"`
}

// ExportModelOutput defines the output for the export_model tool.
type ExportModelOutput struct {
	Format   string `json:"format"`
	FileName string `json:"fileName"`
	Content  string `json:"content"`
}

// ExportModelTool returns the tool definition for export_model.
func ExportModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "export_model",
		Description: "Export the whole model as native JSON, Structurizr JSON, PlantUML, Mermaid, Markdown, HTML or HCL text.",
	}
}

// HandleExportModel handles the export_model tool call.
func (h *Handler) HandleExportModel(ctx context.Context, req *mcp.CallToolRequest, input ExportModelInput) (*mcp.CallToolResult, ExportModelOutput, error) {
	name := input.Format
	if name == "" {
		name = exchange.FormatJSON
	}
	f, err := exchange.Lookup(name)
	if err != nil {
		return nil, ExportModelOutput{}, err
	}
	snap := h.Store.ExportModel()
	data, err := f.Render(snap)
	if err != nil {
		h.Logger.Error("export_model failed", "format", f.Name, "error", err)
		return nil, ExportModelOutput{}, fmt.Errorf("failed to export model: %w", err)
	}
	h.Logger.Info("export_model", "format", f.Name, "bytes", len(data))
	return nil, ExportModelOutput{
		Format:   f.Name,
		FileName: exchange.FileName(snap.Metadata.Name, f),
		Content:  string(data),
	}, nil
}

// ImportModelInput defines the input for the import_model tool.
type ImportModelInput struct {
	Content string `json:"content" jsonschema:"Native or Structurizr workspace JSON"`
	Format  string `json:"format,omitempty" jsonschema:"auto (default), json or structurizr"`
}

// ImportModelOutput defines the output for the import_model tool.
type ImportModelOutput struct {
	Format        string `json:"format"`
	Name          string `json:"name"`
	Elements      int    `json:"elements"`
	Relationships int    `json:"relationships"`
}

// ImportModelTool returns the tool definition for import_model.
func ImportModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "import_model",
		Description: "Replace the model with one decoded from native or Structurizr JSON. Nothing changes if the content does not parse.",
	}
}

// HandleImportModel handles the import_model tool call.
func (h *Handler) HandleImportModel(ctx context.Context, req *mcp.CallToolRequest, input ImportModelInput) (*mcp.CallToolResult, ImportModelOutput, error) {
	data := []byte(input.Content)
	var (
		snap   diagram.Snapshot
		format = input.Format
		err    error
	)
	if format == "" || format == "auto" {
		snap, format, err = exchange.Import(data)
	} else {
		snap, err = exchange.ImportAs(data, format)
	}
	if err != nil {
		h.Logger.Error("import_model failed", "format", format, "error", err)
		return nil, ImportModelOutput{}, err
	}
	h.Store.ImportModel(snap)
	h.Logger.Info("import_model", "format", format, "elements", snap.Len())
	return nil, ImportModelOutput{
		Format:        format,
		Name:          h.Store.Metadata().Name,
		Elements:      snap.Len(),
		Relationships: len(snap.Relationships),
	}, nil
}

// ClearModelInput defines the input for the clear_model tool.
type ClearModelInput struct{}

// ClearModelOutput defines the output for the clear_model tool.
type ClearModelOutput struct {
	Cleared bool `json:"cleared"`
}

// ClearModelTool returns the tool definition for clear_model.
func ClearModelTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "clear_model",
		Description: "Remove every element and relationship. Metadata and the current level are kept.",
	}
}

// HandleClearModel handles the clear_model tool call.
func (h *Handler) HandleClearModel(ctx context.Context, req *mcp.CallToolRequest, input ClearModelInput) (*mcp.CallToolResult, ClearModelOutput, error) {
	h.Store.ClearAll()
	h.Logger.Info("clear_model")
	return nil, ClearModelOutput{Cleared: true}, nil
}
