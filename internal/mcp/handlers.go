package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/fieldindex"
)

// maxListedFields caps unfiltered dictionary output.
const maxListedFields = 500

// handleGetSchemaDictionary returns the flattened schema dictionary.
func (s *Server) handleGetSchemaDictionary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	refresh := request.GetBool("refresh", false)
	schemaFilter := request.GetString("schema", "")

	dict, err := s.dict.Generate(ctx, refresh)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("dictionary build failed: %v", err)), nil
	}
	if dict.Error != "" {
		return mcp.NewToolResultError("dictionary build failed: " + dict.Error), nil
	}

	fields := dict.Fields
	if schemaFilter != "" {
		filtered := make([]dictionary.FieldRecord, 0, len(fields))
		for _, f := range fields {
			if f.SchemaName == schemaFilter {
				filtered = append(filtered, f)
			}
		}
		if len(filtered) == 0 {
			return mcp.NewToolResultError(fmt.Sprintf(
				"no schema named %q; known schemas: %s",
				schemaFilter, strings.Join(dict.SchemaNames, ", "),
			)), nil
		}
		fields = filtered
	}

	return mcp.NewToolResultText(formatDictionary(dict, fields, schemaFilter == "")), nil
}

// handleSearchFields performs semantic search over the field index.
func (s *Server) handleSearchFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 10)
	if limit <= 0 {
		limit = 10
	}

	if s.searcher == nil {
		return mcp.NewToolResultError("field search unavailable: no embedding provider configured"), nil
	}

	matches, err := s.searcher.Search(ctx, query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText("No matching fields. The dictionary may not be indexed yet; run `pconsole dictionary` to build it."), nil
	}

	return mcp.NewToolResultText(formatMatches(matches)), nil
}

// handleGetUnionProfileSchema returns the flattened profile union schema.
func (s *Server) handleGetUnionProfileSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	refresh := request.GetBool("refresh", false)

	union, err := s.dict.UnionProfile(ctx, refresh)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("union extraction failed: %v", err)), nil
	}
	if union.Error != "" {
		return mcp.NewToolResultError("union extraction failed: " + union.Error), nil
	}

	return mcp.NewToolResultText(formatUnion(union)), nil
}

func formatDictionary(dict *dictionary.Dictionary, fields []dictionary.FieldRecord, capped bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Schema dictionary generated at %s: %d schemas, %d fields.\n",
		dict.GeneratedAt.Format("2006-01-02 15:04:05 UTC"), dict.TotalSchemas, len(dict.Fields))
	fmt.Fprintf(&sb, "Schemas: %s\n\n", strings.Join(dict.SchemaNames, ", "))

	for i, f := range fields {
		if capped && i >= maxListedFields {
			fmt.Fprintf(&sb, "... and %d more; use the schema parameter to narrow.\n", len(fields)-i)
			break
		}
		fmt.Fprintf(&sb, "- %s (%s) [%s]", f.Path, f.Type, f.SchemaName)
		if f.Title != "" {
			fmt.Fprintf(&sb, " %s", f.Title)
		}
		if len(f.Enum) > 0 {
			fmt.Fprintf(&sb, " values: %s", strings.Join(f.Enum, ", "))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatMatches(matches []fieldindex.Match) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d field(s):\n", len(matches))
	for _, m := range matches {
		fmt.Fprintf(&sb, "\n- %s (%s) [%s]\n", m.Path, m.Type, m.SchemaName)
		if m.Title != "" {
			fmt.Fprintf(&sb, "  Title: %s\n", m.Title)
		}
		if m.Description != "" {
			fmt.Fprintf(&sb, "  Description: %s\n", m.Description)
		}
		fmt.Fprintf(&sb, "  Similarity: %.1f%%\n", m.Similarity*100)
	}
	return sb.String()
}

func formatUnion(union *dictionary.UnionProfileSchema) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Union profile schema %q extracted at %s: %d fields.\n\n",
		union.ProfileTitle, union.ExtractedAt.Format("2006-01-02 15:04:05 UTC"), union.TotalFields)

	sb.WriteString("Fields:\n")
	for _, f := range union.Fields {
		fmt.Fprintf(&sb, "- %s (%s) [%s]\n", f.PqlPath, f.Type, f.SchemaName)
	}

	if len(union.CommonAttributes) > 0 {
		sb.WriteString("\nCommonly filtered attributes:\n")
		for _, f := range union.CommonAttributes {
			fmt.Fprintf(&sb, "- %s (%s)\n", f.PqlPath, f.Type)
		}
	}
	return sb.String()
}
