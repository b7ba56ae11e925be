package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/fieldindex"
)

// Version is set via ldflags at build time.
var Version = "dev"

// DictionarySource supplies dictionary artifacts. The dictionary Service
// satisfies it.
type DictionarySource interface {
	Generate(ctx context.Context, forceRefresh bool) (*dictionary.Dictionary, error)
	UnionProfile(ctx context.Context, forceRefresh bool) (*dictionary.UnionProfileSchema, error)
}

// FieldSearcher performs semantic field search. The fieldindex Index
// satisfies it.
type FieldSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]fieldindex.Match, error)
}

// Server wraps an MCP server exposing the schema dictionary to agents.
type Server struct {
	dict     DictionarySource
	searcher FieldSearcher
	mcp      *server.MCPServer
}

// NewServer creates an MCP server with the given dependencies. searcher may
// be nil when no embedder is configured; the search tool then reports that.
func NewServer(dict DictionarySource, searcher FieldSearcher) *Server {
	s := &Server{
		dict:     dict,
		searcher: searcher,
	}

	s.mcp = server.NewMCPServer(
		"pconsole",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(getSchemaDictionaryTool, s.handleGetSchemaDictionary)
	s.mcp.AddTool(searchFieldsTool, s.handleSearchFields)
	s.mcp.AddTool(getUnionProfileSchemaTool, s.handleGetUnionProfileSchema)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
