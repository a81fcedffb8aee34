package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Another0Noob/hearth-import/internal/config"
	"github.com/Another0Noob/hearth-import/internal/logging"
)

var (
	cfgFile    string
	homeboxURL string
	token      string
	userID     string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "hearth-import",
	Short: "Copy item photos from HomeBox into Hearth",
	Long: `hearth-import matches HomeBox items to Hearth items by name,
compresses each item's primary photo and stores it on the Hearth item.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"",
		"path to config file",
	)
	rootCmd.PersistentFlags().StringVar(&homeboxURL, "homebox-url", "", "HomeBox base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "HomeBox API token")
	rootCmd.PersistentFlags().StringVar(&userID, "user-id", "", "Hearth user id")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig reads .env, the config file and the flag overrides.
func loadConfig(needHearth bool) (*config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if homeboxURL != "" {
		cfg.HomeBox.URL = homeboxURL
	}
	if token != "" {
		cfg.HomeBox.Token = token
	}
	if userID != "" {
		cfg.Hearth.UserID = userID
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(needHearth); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	}).With().Str("run_id", uuid.NewString()).Logger()
}

func step(name string) {
	fmt.Printf("--- %s ---\n", name)
}
