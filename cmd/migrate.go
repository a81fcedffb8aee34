package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/Another0Noob/hearth-import/internal/hearth"
	"github.com/Another0Noob/hearth-import/internal/homeboxapi"
	"github.com/Another0Noob/hearth-import/internal/imagecompress"
	"github.com/Another0Noob/hearth-import/internal/logging"
	"github.com/Another0Noob/hearth-import/internal/migrate"
)

var (
	dryRun bool
	limit  int
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Import HomeBox item photos into matching Hearth items",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "match and compress without writing to Hearth")
	migrateCmd.Flags().IntVar(&limit, "limit", 0, "stop after this many items with images (0 for all)")
}

func runMigrate(ctx context.Context) error {
	cfg, err := loadConfig(true)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	ctx = logging.WithLogger(ctx, log)

	step("Connecting to HomeBox")
	client := homeboxapi.NewClient(cfg.HomeBox.URL, cfg.HomeBox.Token, homeboxapi.WithRate(cfg.HomeBox.Rate))
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("homebox: %w", err)
	}

	step("Connecting to Hearth")
	store, err := hearth.Open(ctx, hearth.Options{
		ProjectID:       cfg.Hearth.ProjectID,
		CredentialsFile: cfg.Hearth.Credentials,
		Collection:      cfg.Hearth.Collection,
		UserID:          cfg.Hearth.UserID,
	})
	if err != nil {
		return fmt.Errorf("hearth: %w", err)
	}
	defer store.Close()

	if dryRun {
		fmt.Println("Dry run: nothing will be written.")
	}

	step("Migrating Images")
	m := migrate.New(client, store, imagecompress.New(imagecompress.WithLogger(log)),
		migrate.WithDryRun(dryRun),
		migrate.WithLimit(limit),
	)
	stats, runErr := m.Run(ctx)

	step("Summary")
	if err := stats.Render(os.Stdout); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("migrate: %w", runErr)
	}
	return nil
}
