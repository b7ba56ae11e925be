package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dviselman/pconsole/internal/progress"
)

var dictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Build or refresh the schema field dictionary",
	Long: `Crawls the org's schema registry, flattens every schema into dotted
field paths and caches the resulting dictionary on disk. Subsequent runs
serve the cache until it expires or --refresh is given.`,
	RunE: runDictionary,
}

func init() {
	dictionaryCmd.Flags().Bool("refresh", false, "force a fresh crawl, ignoring caches")
	dictionaryCmd.Flags().Bool("json", false, "print the full artifact as JSON")
	dictionaryCmd.Flags().Bool("union", false, "build the union profile schema instead")
	rootCmd.AddCommand(dictionaryCmd)
}

func runDictionary(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	refresh, _ := cmd.Flags().GetBool("refresh")
	asJSON, _ := cmd.Flags().GetBool("json")
	union, _ := cmd.Flags().GetBool("union")

	client, err := buildPlatformClient(cfg)
	if err != nil {
		return err
	}

	reporter := progress.NewReporter()
	started := false
	onProgress := func(done, total int) {
		if !started {
			reporter.Start(total)
			started = true
		}
		reporter.Advance(done)
	}

	svc := buildDictionaryService(cfg, client, nil, onProgress)
	ctx := context.Background()
	buildStart := time.Now()

	if union {
		schema, err := svc.UnionProfile(ctx, refresh)
		if err != nil {
			return fmt.Errorf("building union profile schema: %w", err)
		}
		if started {
			reporter.Done()
		}
		if schema.Error != "" {
			return fmt.Errorf("union extraction failed: %s", schema.Error)
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(schema)
		}
		fmt.Printf("Union profile schema %q: %d fields, %d common attributes",
			schema.ProfileTitle, schema.TotalFields, len(schema.CommonAttributes))
		if schema.Cached {
			fmt.Printf(" (cached, extracted %s)", schema.ExtractedAt.Format(time.RFC3339))
		}
		fmt.Println()
		return nil
	}

	dict, err := svc.Generate(ctx, refresh)
	if err != nil {
		return fmt.Errorf("building dictionary: %w", err)
	}
	if started {
		reporter.Done()
	}
	if dict.Error != "" {
		return fmt.Errorf("crawl failed: %s", dict.Error)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dict)
	}

	fmt.Printf("Schema dictionary: %d schemas, %d fields", dict.TotalSchemas, len(dict.Fields))
	if dict.Cached {
		fmt.Printf(" (cached, generated %s)", dict.GeneratedAt.Format(time.RFC3339))
	} else {
		fmt.Printf(" (built in %s)", time.Since(buildStart).Round(time.Millisecond))
	}
	fmt.Println()

	if verbose {
		for _, name := range dict.SchemaNames {
			fmt.Printf("  - %s\n", name)
		}
	}
	return nil
}
