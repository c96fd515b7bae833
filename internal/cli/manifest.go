package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/internal/manifest"
	"github.com/kpauljoseph/rockdeck/internal/scanner"
)

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Generate the image manifest from the dataset directory",
	Long: `Manifest walks the dataset directory tree, collects image files per
class folder, sorts filenames naturally, and writes the class-to-URLs
manifest consumed by the web app.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig(log)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if dir, _ := cmd.Flags().GetString("dataset"); dir != "" {
			cfg.DatasetDir = dir
		}
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.ManifestPath = out
		}
		if collection, _ := cmd.Flags().GetString("collection"); collection != "" {
			cfg.Collection = collection
		}

		log.Info("Scanning dataset: %s", cfg.DatasetDir)
		m, err := manifest.Build(context.Background(), scanner.New(log), cfg.DatasetDir, cfg.Collection)
		if err != nil {
			return err
		}

		if err := manifest.Write(cfg.ManifestPath, m); err != nil {
			return err
		}

		total := 0
		for _, refs := range m {
			total += len(refs)
		}
		color.Green("Manifest written to %s: %d classes, %d images", cfg.ManifestPath, len(m), total)
		return nil
	},
}

func init() {
	manifestCmd.Flags().String("dataset", "", "dataset directory (overrides config)")
	manifestCmd.Flags().String("out", "", "manifest output path (overrides config)")
	manifestCmd.Flags().String("collection", "", "public URL collection prefix (overrides config)")
}
