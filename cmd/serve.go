package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dviselman/pconsole/internal/assistant"
	"github.com/dviselman/pconsole/internal/audit"
	"github.com/dviselman/pconsole/internal/batches"
	"github.com/dviselman/pconsole/internal/dashboard"
	"github.com/dviselman/pconsole/internal/dataflows"
	"github.com/dviselman/pconsole/internal/datasets"
	"github.com/dviselman/pconsole/internal/db"
	"github.com/dviselman/pconsole/internal/dictionary"
	"github.com/dviselman/pconsole/internal/embeddings"
	"github.com/dviselman/pconsole/internal/fieldindex"
	"github.com/dviselman/pconsole/internal/history"
	"github.com/dviselman/pconsole/internal/llm"
	"github.com/dviselman/pconsole/internal/platform"
	"github.com/dviselman/pconsole/internal/policies"
	"github.com/dviselman/pconsole/internal/profiles"
	"github.com/dviselman/pconsole/internal/segments"
	"github.com/dviselman/pconsole/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the console dashboard server",
	Long:  `Starts the pconsole HTTP server: the dashboard UI, the platform API proxies, the schema dictionary API and the assistant chat.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		client, err := buildPlatformClient(cfg)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(cfg.Cache.Dir, 0o755); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
		dbPath := filepath.Join(cfg.Cache.Dir, "pconsole.db")
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		historyStore := history.NewStore(database)
		dictSvc := buildDictionaryService(cfg, client, historyStore, nil)

		llmProvider, err := createLLMProvider(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: assistant disabled: %v\n", err)
		}

		// Field search needs an embedder; without one the index and its
		// route are simply not mounted.
		var index *fieldindex.Index
		if embedder := createEmbedder(cfg); embedder != nil {
			index, err = fieldindex.New(embeddings.ToChromemFunc(embedder))
			if err != nil {
				return fmt.Errorf("creating field index: %w", err)
			}
			if err := index.Load(context.Background(), cfg.Cache.Dir); err != nil && verbose {
				fmt.Fprintf(os.Stderr, "No persisted field index: %v\n", err)
			}
		}

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
		})

		registerAllRoutes(srv, cfg.LLM.Model, client, database, dictSvc, historyStore, llmProvider, index)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		// Warm the dictionary and the field index in the background so the
		// first dashboard request is not a cold crawl.
		if index != nil {
			go warmFieldIndex(ctx, dictSvc, index, cfg.Cache.Dir)
		}

		fmt.Fprintf(os.Stderr, "pconsole v%s starting on port %d\n", Version, cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "  Org: %s (sandbox %s)\n", cfg.API.OrgID, cfg.API.Sandbox)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)

		return srv.Start()
	},
}

// registerAllRoutes wires every feature package onto the server router.
func registerAllRoutes(
	srv *server.Server,
	model string,
	client *platform.Client,
	database *db.DB,
	dictSvc *dictionary.Service,
	historyStore *history.Store,
	llmProvider llm.Provider,
	index *fieldindex.Index,
) {
	r := srv.Router()

	// Schema dictionary and crawl history.
	dictionary.RegisterRoutes(r, dictSvc)
	history.RegisterRoutes(r, historyStore)

	// Platform API proxies.
	datasetSvc := datasets.NewService(client)
	datasets.RegisterRoutes(r, datasetSvc)

	batchSvc := batches.NewService(client)
	batches.RegisterRoutes(r, batchSvc)

	segmentSvc := segments.NewService(client)
	segments.RegisterRoutes(r, segmentSvc)

	flowSvc := dataflows.NewService(client)
	dataflows.RegisterRoutes(r, flowSvc)

	audit.RegisterRoutes(r, audit.NewService(client))
	policies.RegisterRoutes(r, policies.NewService(client))
	profiles.RegisterRoutes(r, profiles.NewService(client))

	// Assistant chat, when a provider is configured.
	var engine *assistant.Engine
	if llmProvider != nil {
		engine = assistant.NewEngine(llmProvider, assistant.NewStore(database), dictSvc, model)
		assistant.RegisterRoutes(r, engine)
	}

	// Semantic field search, when an embedder is configured.
	if index != nil {
		fieldindex.RegisterRoutes(r, index)
	}

	// Dashboard UI, overview stats and chat socket.
	dash := dashboard.New(dashboard.Sources{
		Datasets:   datasetSvc,
		Batches:    batchSvc,
		Segments:   segmentSvc,
		Dataflows:  flowSvc,
		Dictionary: dictSvc,
	}, dashboardAssistant(engine))
	dash.RegisterRoutes(r)
}

// dashboardAssistant avoids handing the dashboard a non-nil interface
// wrapping a nil *assistant.Engine.
func dashboardAssistant(engine *assistant.Engine) dashboard.Assistant {
	if engine == nil {
		return nil
	}
	return engine
}

// warmFieldIndex builds the dictionary if needed and indexes its fields.
func warmFieldIndex(ctx context.Context, dictSvc *dictionary.Service, index *fieldindex.Index, cacheDir string) {
	dict, err := dictSvc.Generate(ctx, false)
	if err != nil || dict.Error != "" {
		fmt.Fprintln(os.Stderr, "Warning: field index not warmed; dictionary unavailable")
		return
	}
	if err := index.Reindex(ctx, dict); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: field indexing failed: %v\n", err)
		return
	}
	if err := index.Persist(ctx, cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: persisting field index failed: %v\n", err)
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
