package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Another0Noob/hearth-import/internal/homeboxapi"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test the HomeBox connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(ctx context.Context) error {
	cfg, err := loadConfig(false)
	if err != nil {
		return err
	}
	log := newLogger(cfg)
	if ctx == nil {
		ctx = context.Background()
	}

	step("Connecting to HomeBox")
	client := homeboxapi.NewClient(cfg.HomeBox.URL, cfg.HomeBox.Token, homeboxapi.WithRate(cfg.HomeBox.Rate))
	if err := client.Ping(ctx); err != nil {
		log.Error().Err(err).Str("url", cfg.HomeBox.URL).Msg("connection failed")
		return fmt.Errorf("homebox: %w", err)
	}

	fmt.Printf("Connected to %s.\n", cfg.HomeBox.URL)
	return nil
}
