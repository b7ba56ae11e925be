package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dviselman/pconsole/internal/embeddings"
	"github.com/dviselman/pconsole/internal/fieldindex"
	mcpserver "github.com/dviselman/pconsole/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing the schema dictionary and field search to AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		client, err := buildPlatformClient(cfg)
		if err != nil {
			return err
		}

		dictSvc := buildDictionaryService(cfg, client, nil, nil)

		// Search is optional; without an embedder the tool reports itself
		// unavailable.
		var searcher mcpserver.FieldSearcher
		if embedder := createEmbedder(cfg); embedder != nil {
			index, err := fieldindex.New(embeddings.ToChromemFunc(embedder))
			if err != nil {
				return fmt.Errorf("creating field index: %w", err)
			}
			if err := index.Load(context.Background(), cfg.Cache.Dir); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: could not load field index from %s: %v\n", cfg.Cache.Dir, err)
				fmt.Fprintf(os.Stderr, "Run `pconsole serve` or `pconsole dictionary` first to build it.\n")
			}
			searcher = index
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "pconsole MCP server started on stdio (org=%s, sandbox=%s)\n",
			cfg.API.OrgID, cfg.API.Sandbox)

		srv := mcpserver.NewServer(dictSvc, searcher)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
