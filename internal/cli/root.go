// Package cli wires the rockdeck subcommands: the web app plus the offline
// dataset-preparation tools.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/internal/config"
	"github.com/kpauljoseph/rockdeck/pkg/logger"
)

var (
	configPath string
	verbose    bool
	debug      bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "rockdeck",
	Short: "Rock identification flashcards and dataset tools",
	Long: `RockDeck serves a rock/mineral identification flashcard app over a static
image manifest, and ships the offline tools that prepare the dataset:
image-search downloading, manifest generation, folder filtering, and
printable study sheets.`,
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug mode with trace logging")

	RootCmd.AddCommand(serveCmd)
	RootCmd.AddCommand(manifestCmd)
	RootCmd.AddCommand(fetchCmd)
	RootCmd.AddCommand(filterCmd)
	RootCmd.AddCommand(sheetsCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

func newLogger() *logger.Logger {
	log := logger.New(logger.WithPrefix("[rockdeck] "))
	log.SetVerbose(verbose)
	if debug {
		log.SetLevel(logger.LevelTrace)
	}
	return log
}

// loadConfig falls back to defaults when the config file is absent, so every
// command works out of the box. A present-but-broken file is still an error.
func loadConfig(log *logger.Logger) (*config.Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Debug("No config file at %s, using defaults", configPath)
		return config.Default(), nil
	}
	return config.Load(configPath)
}
