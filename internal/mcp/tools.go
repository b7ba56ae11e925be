package mcp

import "github.com/mark3labs/mcp-go/mcp"

// getSchemaDictionaryTool defines the get_schema_dictionary MCP tool.
var getSchemaDictionaryTool = mcp.NewTool("get_schema_dictionary",
	mcp.WithDescription("Get the flattened schema dictionary: every field path across all tenant schemas with types, titles and schema names."),
	mcp.WithBoolean("refresh",
		mcp.Description("Force a fresh crawl instead of serving the cached dictionary"),
	),
	mcp.WithString("schema",
		mcp.Description("Only return fields belonging to this schema name"),
	),
)

// searchFieldsTool defines the search_fields MCP tool.
var searchFieldsTool = mcp.NewTool("search_fields",
	mcp.WithDescription("Search dictionary fields semantically. Returns the closest field paths with types and schema names."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 10)"),
	),
)

// getUnionProfileSchemaTool defines the get_union_profile_schema MCP tool.
var getUnionProfileSchemaTool = mcp.NewTool("get_union_profile_schema",
	mcp.WithDescription("Get the flattened profile union schema with query-expression paths and commonly filtered attributes."),
	mcp.WithBoolean("refresh",
		mcp.Description("Force a fresh extraction instead of serving the cached schema"),
	),
)
