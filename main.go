package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lpcraft/checklist-engine/pkg/apperrors"
	"github.com/lpcraft/checklist-engine/pkg/config"
	"github.com/lpcraft/checklist-engine/pkg/database"
	"github.com/lpcraft/checklist-engine/pkg/logging"
	"github.com/lpcraft/checklist-engine/pkg/seed"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	configPath string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "checklist-engine",
	Short:         "Landing-page content checklist API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath, Version)
		if err != nil {
			return err
		}
		logger, err = logging.NewLogger(cfg.Env, cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

var migrateDown int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations, or roll back with --down",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.OpenSQL(cfg.Database.ConnectionString())
		if err != nil {
			return err
		}
		defer db.Close()

		if migrateDown > 0 {
			return database.RollbackMigrations(db, cfg.MigrationsPath, migrateDown, logger)
		}
		return database.RunMigrations(db, cfg.MigrationsPath, logger)
	},
}

var (
	seedFile  string
	seedReset bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load a catalog fixture into an empty catalog",
	Long: `Inserts genres, regions, checklist items, compliance rules and templates
from a YAML fixture in one transaction. A catalog that already holds rows is
left untouched unless --reset is given, which truncates the catalog tables first.
Saved customizations are never touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := seed.LoadFile(seedFile)
		if err != nil {
			return err
		}

		db, err := database.NewConnection(cmd.Context(), &database.Config{
			URL:            cfg.Database.ConnectionString(),
			MaxConnections: cfg.Database.MaxConnections,
		})
		if err != nil {
			return err
		}
		defer db.Close()

		_, err = seed.NewSeeder(db, logger).Apply(cmd.Context(), catalog, seedReset)
		if errors.Is(err, apperrors.ErrCatalogSeeded) {
			return fmt.Errorf("%w (use --reset to replace it)", err)
		}
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath, "path to the YAML config file")

	migrateCmd.Flags().IntVar(&migrateDown, "down", 0, "roll back this many migrations instead of applying")

	seedCmd.Flags().StringVar(&seedFile, "file", "seeds/catalog.yaml", "catalog fixture to load")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "truncate catalog tables before seeding")

	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger != nil {
			logger.Error("Command failed", zap.String("error", logging.SanitizeError(err)))
			_ = logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
