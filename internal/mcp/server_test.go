package mcp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/fieldindex"
)

type mockDict struct {
	dict  *dictionary.Dictionary
	union *dictionary.UnionProfileSchema
	err   error
}

func (m *mockDict) Generate(ctx context.Context, forceRefresh bool) (*dictionary.Dictionary, error) {
	return m.dict, m.err
}

func (m *mockDict) UnionProfile(ctx context.Context, forceRefresh bool) (*dictionary.UnionProfileSchema, error) {
	return m.union, m.err
}

type mockSearcher struct {
	matches []fieldindex.Match
	err     error
}

func (m *mockSearcher) Search(ctx context.Context, query string, limit int) ([]fieldindex.Match, error) {
	if m.err != nil {
		return nil, m.err
	}
	if limit < len(m.matches) {
		return m.matches[:limit], nil
	}
	return m.matches, nil
}

func testDict() *dictionary.Dictionary {
	return &dictionary.Dictionary{
		GeneratedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		TotalSchemas: 2,
		SchemaNames:  []string{"CRM Contacts", "Web Events"},
		Fields: []dictionary.FieldRecord{
			{Path: "person.email.address", Type: "string", Title: "Email Address", SchemaName: "CRM Contacts"},
			{Path: "person.optIn", Type: "string", SchemaName: "CRM Contacts", Enum: []string{"in", "out"}},
			{Path: "web.pageView.url", Type: "string", SchemaName: "Web Events"},
		},
	}
}

func toolText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content type %T", result.Content[0])
	}
	return text.Text
}

func TestToolDefinitions(t *testing.T) {
	tests := []struct {
		name     string
		tool     mcp.Tool
		wantName string
	}{
		{"get_schema_dictionary", getSchemaDictionaryTool, "get_schema_dictionary"},
		{"search_fields", searchFieldsTool, "search_fields"},
		{"get_union_profile_schema", getUnionProfileSchemaTool, "get_union_profile_schema"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.tool.Name != tt.wantName {
				t.Errorf("tool name = %q, want %q", tt.tool.Name, tt.wantName)
			}
			if tt.tool.Description == "" {
				t.Error("tool description should not be empty")
			}
		})
	}
}

func TestNewServer(t *testing.T) {
	dict := &mockDict{dict: testDict()}
	srv := NewServer(dict, &mockSearcher{})

	if srv == nil {
		t.Fatal("NewServer returned nil")
	}
	if srv.mcp == nil {
		t.Fatal("MCP server not initialized")
	}
	if srv.dict != dict {
		t.Error("dictionary source not set correctly")
	}
}

func TestHandleGetSchemaDictionary(t *testing.T) {
	srv := NewServer(&mockDict{dict: testDict()}, nil)
	ctx := context.Background()

	t.Run("full dictionary", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGetSchemaDictionary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := toolText(t, result)
		for _, want := range []string{"2 schemas, 3 fields", "person.email.address", "web.pageView.url", "values: in, out"} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("schema filter", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"schema": "Web Events"}

		result, err := srv.handleGetSchemaDictionary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		text := toolText(t, result)
		if !strings.Contains(text, "web.pageView.url") {
			t.Errorf("filtered field missing:\n%s", text)
		}
		if strings.Contains(text, "- person.email.address") {
			t.Errorf("other schema's field leaked:\n%s", text)
		}
	})

	t.Run("unknown schema", func(t *testing.T) {
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"schema": "Nope"}

		result, err := srv.handleGetSchemaDictionary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for unknown schema")
		}
	})

	t.Run("errored build", func(t *testing.T) {
		errored := NewServer(&mockDict{dict: &dictionary.Dictionary{Error: "registry unreachable"}}, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := errored.handleGetSchemaDictionary(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for an errored dictionary")
		}
	})
}

func TestHandleSearchFields(t *testing.T) {
	ctx := context.Background()
	matches := []fieldindex.Match{
		{Path: "person.email.address", Type: "string", Title: "Email Address", SchemaName: "CRM Contacts", Similarity: 0.91},
		{Path: "person.email.status", Type: "string", SchemaName: "CRM Contacts", Similarity: 0.72},
	}

	t.Run("basic search", func(t *testing.T) {
		srv := NewServer(&mockDict{dict: testDict()}, &mockSearcher{matches: matches})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "customer email"}

		result, err := srv.handleSearchFields(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := toolText(t, result)
		for _, want := range []string{"Found 2 field(s)", "person.email.address", "91.0%"} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("missing query", func(t *testing.T) {
		srv := NewServer(&mockDict{dict: testDict()}, &mockSearcher{matches: matches})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleSearchFields(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error for missing query")
		}
	})

	t.Run("no searcher", func(t *testing.T) {
		srv := NewServer(&mockDict{dict: testDict()}, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "email"}

		result, err := srv.handleSearchFields(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected error when no searcher is configured")
		}
	})

	t.Run("empty results", func(t *testing.T) {
		srv := NewServer(&mockDict{dict: testDict()}, &mockSearcher{})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "anything"}

		result, err := srv.handleSearchFields(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Error("empty results should not be an error")
		}
	})

	t.Run("search failure", func(t *testing.T) {
		srv := NewServer(&mockDict{dict: testDict()}, &mockSearcher{err: errors.New("index offline")})
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{"query": "email"}

		result, err := srv.handleSearchFields(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error on search failure")
		}
	})
}

func TestHandleGetUnionProfileSchema(t *testing.T) {
	ctx := context.Background()
	union := &dictionary.UnionProfileSchema{
		ExtractedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		ProfileTitle: "Customer Profile Union",
		TotalFields:  2,
		Fields: []dictionary.UnionField{
			{Path: "person.email.address", PqlPath: "person.email.address", Type: "string", SchemaName: "Customer Profile Union"},
			{Path: "workEmail.address", PqlPath: "workEmail.address", Type: "string", SchemaName: "Customer Profile Union"},
		},
		CommonAttributes: []dictionary.UnionField{
			{Path: "workEmail.address", PqlPath: "workEmail.address", Type: "string"},
		},
	}

	t.Run("success", func(t *testing.T) {
		srv := NewServer(&mockDict{union: union}, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGetUnionProfileSchema(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.IsError {
			t.Fatalf("unexpected tool error: %v", result.Content)
		}
		text := toolText(t, result)
		for _, want := range []string{"Customer Profile Union", "workEmail.address", "Commonly filtered attributes"} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
	})

	t.Run("errored extraction", func(t *testing.T) {
		srv := NewServer(&mockDict{union: &dictionary.UnionProfileSchema{Error: "no unions"}}, nil)
		req := mcp.CallToolRequest{}
		req.Params.Arguments = map[string]any{}

		result, err := srv.handleGetUnionProfileSchema(ctx, req)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.IsError {
			t.Error("expected tool error for an errored extraction")
		}
	})
}
