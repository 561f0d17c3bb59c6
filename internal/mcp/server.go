// Package mcp exposes the model store as a Model Context Protocol server.
package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/c4-modeller/engine/internal/mcp/tools"
	"github.com/c4-modeller/engine/internal/store"
)

const (
	ServerName    = "c4model"
	ServerVersion = "v1.0.0"
)

// Server wraps the MCP server around a model store.
type Server struct {
	mcpServer *mcp.Server
	logger    *slog.Logger
	handler   *tools.Handler
}

// NewServer creates an MCP server editing s. A nil logger means slog.Default().
func NewServer(s *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	srv := &Server{
		mcpServer: mcpServer,
		logger:    logger,
		handler:   tools.NewHandler(s, logger),
	}
	srv.registerTools()
	return srv
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, tools.AddElementTool(), s.handler.HandleAddElement)
	mcp.AddTool(s.mcpServer, tools.UpdateElementTool(), s.handler.HandleUpdateElement)
	mcp.AddTool(s.mcpServer, tools.DeleteElementTool(), s.handler.HandleDeleteElement)
	mcp.AddTool(s.mcpServer, tools.AddRelationshipTool(), s.handler.HandleAddRelationship)
	mcp.AddTool(s.mcpServer, tools.UpdateRelationshipTool(), s.handler.HandleUpdateRelationship)
	mcp.AddTool(s.mcpServer, tools.DeleteRelationshipTool(), s.handler.HandleDeleteRelationship)
	mcp.AddTool(s.mcpServer, tools.ListElementsTool(), s.handler.HandleListElements)
	mcp.AddTool(s.mcpServer, tools.SetLevelTool(), s.handler.HandleSetLevel)
	mcp.AddTool(s.mcpServer, tools.ValidateModelTool(), s.handler.HandleValidateModel)
	mcp.AddTool(s.mcpServer, tools.ExportModelTool(), s.handler.HandleExportModel)
	mcp.AddTool(s.mcpServer, tools.ImportModelTool(), s.handler.HandleImportModel)
	mcp.AddTool(s.mcpServer, tools.ClearModelTool(), s.handler.HandleClearModel)
}

// MCPServer returns the underlying SDK server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

// HTTPHandler returns an http.Handler serving MCP over streamable HTTP.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return s.mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Logger: s.logger,
		},
	)
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("mcp server starting", "transport", "stdio")
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
