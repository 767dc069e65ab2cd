// Package mcp wraps the mcp-go server so the marketplace actions register
// as tools callable by any MCP-speaking agent host.
package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Handler processes one tool call with already-decoded arguments.
type Handler func(ctx context.Context, args map[string]interface{}) (*mcp.CallToolResult, error)

// Server wraps the mcp-go server.
type Server struct {
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server.
func NewServer(name, version string) *Server {
	return &Server{
		mcpServer: server.NewMCPServer(name, version),
	}
}

// RegisterTool registers a tool with a raw JSON input schema. A nil schema
// registers a tool without parameters.
func (s *Server) RegisterTool(name, description string, schema json.RawMessage, handler Handler) {
	var tool mcp.Tool
	if schema != nil {
		tool = mcp.NewToolWithRawSchema(name, description, schema)
	} else {
		tool = mcp.NewTool(name, mcp.WithDescription(description))
	}

	s.mcpServer.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})
		if args == nil {
			args = map[string]interface{}{}
		}
		return handler(ctx, args)
	})
}

// ServeStdio starts the server on stdio.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeStreamableHTTP starts the Streamable HTTP server on addr.
func (s *Server) ServeStreamableHTTP(addr string) error {
	return server.NewStreamableHTTPServer(s.mcpServer).Start(addr)
}
