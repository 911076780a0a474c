// ABOUTME: MCP server setup for the baby measurement store.
// ABOUTME: Wraps the MCP server with a Store and default subject.
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/antarcticrainforest/babymeasure/internal/models"
	"github.com/antarcticrainforest/babymeasure/internal/storage"
)

// Server wraps the MCP server with storage access.
type Server struct {
	mcpServer *mcp.Server
	store     storage.Store
	subject   string
}

// NewServer creates an MCP server bound to the given store.
func NewServer(store storage.Store, defaultSubject string) (*Server, error) {
	if defaultSubject == "" {
		defaultSubject = models.DefaultSubject
	}
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "babymeasure",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		store:     store,
		subject:   defaultSubject,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
