// Package cli provides the command-line interface for chatia.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/agent"
	"github.com/cleberfarias/chatia-core/internal/config"
	"github.com/cleberfarias/chatia-core/internal/db"
	"github.com/cleberfarias/chatia-core/internal/handover"
	"github.com/cleberfarias/chatia-core/internal/llm"
	"github.com/cleberfarias/chatia-core/internal/nlu"
	"github.com/cleberfarias/chatia-core/internal/orchestrator"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	// Global config and db client
	cfg      config.Config
	dbClient *db.Client
	logger   *slog.Logger
	logClose func() error
)

// localCommands run without a database connection: they are pure functions
// of their input.
var localCommands = map[string]bool{
	"version":        true,
	"help":           true,
	"extract":        true,
	"classify":       true,
	"handover-check": true,
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "chatia",
	Short: "Conversation orchestration core for live chat",
	Long: `Chatia is the conversation brain of a live chat platform: it extracts
Brazilian-format entities from messages, classifies intent, decides when a
conversation must be handed over to a human, and routes everything else to
specialized AI personas with bounded conversation memory.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()

		level := cfg.LogLevel
		if verbose {
			level = slog.LevelDebug
		}
		logger, logClose = config.SetupLogger(cfg.LogFile, level)
		slog.SetDefault(logger)

		if localCommands[cmd.Name()] {
			return nil
		}

		ctx := context.Background()
		dbCfg := db.Config{
			URL:       cfg.SurrealDBURL,
			Namespace: cfg.SurrealDBNamespace,
			Database:  cfg.SurrealDBDatabase,
			Username:  cfg.SurrealDBUser,
			Password:  cfg.SurrealDBPass,
			AuthLevel: cfg.SurrealDBAuthLevel,
		}

		var err error
		dbClient, err = db.NewClient(ctx, dbCfg, logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		if err := dbClient.InitSchema(ctx); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbClient != nil {
			if err := dbClient.Close(context.Background()); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
			}
		}
		if logClose != nil {
			_ = logClose()
		}
	},
}

// newClassifier builds the classification pipeline, with the remote strategy
// attached when LLM credentials are configured.
func newClassifier() *nlu.Classifier {
	opts := []nlu.Option{nlu.WithLogger(logger)}
	if cfg.HasLLMCredentials() {
		model, err := llm.NewModel(cfg)
		if err != nil {
			logger.Warn("remote classification unavailable", "error", err)
		} else {
			opts = append(opts, nlu.WithRemote(model))
		}
	}
	return nlu.NewClassifier(opts...)
}

// newRegistry builds the persona registry backed by the database when one is
// connected. Without a store the registry serves the builtin catalogue.
func newRegistry() (*agent.Registry, error) {
	var store agent.PersonaStore
	if dbClient != nil {
		store = dbClient.Personas()
	}
	return agent.NewRegistry(store, logger)
}

// newService wires the full orchestration pipeline. The generation backend
// is attached only when provider credentials are configured; without it the
// persona manager answers with the not-configured notice.
func newService() (*orchestrator.Service, error) {
	registry, err := newRegistry()
	if err != nil {
		return nil, fmt.Errorf("load personas: %w", err)
	}

	var gen agent.Generator
	if cfg.HasLLMCredentials() {
		model, err := llm.NewModel(cfg)
		if err != nil {
			return nil, fmt.Errorf("init model: %w", err)
		}
		gen = model
	}

	var repo handover.Repository
	var log orchestrator.MessageLog
	if dbClient != nil {
		repo = dbClient.Handovers()
		log = dbClient.Messages()
	}

	return orchestrator.NewService(
		newClassifier(),
		handover.NewEngine(repo, logger),
		registry,
		agent.NewManager(gen, logger),
		orchestrator.Options{
			MessageLog:       log,
			Logger:           logger,
			ContextMessages:  cfg.ContextMessages,
			ContextHoursBack: cfg.ContextHoursBack,
		},
	), nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(classifyCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(handoverCheckCmd)
	rootCmd.AddCommand(personasCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the chatia version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("chatia %s\n", Version)
	},
}
