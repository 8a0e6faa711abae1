// ABOUTME: MCP server for trainer: clients, assessments, plans and sessions over stdio.
// ABOUTME: Holds the storage Repository the tool and resource handlers read and write.
package mcp

import (
	"context"

	"github.com/harperreed/trainer/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Version is reported to MCP clients during initialization.
var Version = "dev"

const instructions = `trainer records personal-training data.
Use compute_composition for a one-off skinfold estimate; it stores nothing.
Use add_assessment to record an assessment; it also writes weight, BMI and
body-composition progress entries. Client, plan and session arguments accept
a full ID or a unique ID prefix.`

// Server exposes a Repository as MCP tools and resources.
type Server struct {
	mcpServer *mcp.Server
	repo      storage.Repository
}

// NewServer registers every tool and resource against repo.
func NewServer(repo storage.Repository) (*Server, error) {
	s := &Server{
		mcpServer: mcp.NewServer(
			&mcp.Implementation{Name: "trainer", Version: Version},
			&mcp.ServerOptions{Instructions: instructions},
		),
		repo: repo,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve runs on stdin/stdout until ctx is cancelled or the client disconnects.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}
