// Package mcp exposes checklist generation to MCP clients over streamable HTTP.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/mcp/tools"
)

// ServerName is reported to clients during initialize.
const ServerName = "checklist-engine"

// Server wraps the mcp-go MCPServer with the checklist tools registered.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates an MCP server and registers every checklist tool.
func NewServer(version string, deps *tools.ChecklistToolDeps, logger *zap.Logger) *Server {
	mcpServer := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	tools.RegisterHealthTool(mcpServer, version)
	tools.RegisterChecklistTools(mcpServer, deps)

	logger.Info("MCP server initialized", zap.String("version", version))

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// MCP returns the underlying MCPServer.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}
