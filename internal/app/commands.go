package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/budgetquest/budgetquest/internal/catalog"
	"github.com/budgetquest/budgetquest/internal/config"
	"github.com/budgetquest/budgetquest/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var configPath string

// NewRootCommand builds the CLI. Without a subcommand it serves the HTTP API.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "budgetquest",
		Short:         "Budgeting with badges and levels",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/application.yaml", "Path to the configuration file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the HTTP API",
		RunE:  runServe,
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE:  runMigrate,
	})

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage badges, levels and courses",
	}
	catalogCmd.AddCommand(&cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Validate and import a catalog file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCatalogImport,
	})
	root.AddCommand(catalogCmd)

	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := database.Migrate(cfg.Database); err != nil {
		return err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	return NewApplication(cfg, db).Run(ctx)
}

func runMigrate(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	return database.Migrate(cfg.Database)
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	f, err := catalog.LoadFile(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := BuildDependencies(db, cfg).CatalogImporter.Import(ctx, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d badges, %d levels and %d courses from %s\n",
		len(f.Badges), len(f.Levels), len(f.Courses), args[0])
	return nil
}
