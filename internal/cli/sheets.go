package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/internal/deck"
	"github.com/kpauljoseph/rockdeck/internal/manifest"
	"github.com/kpauljoseph/rockdeck/internal/sheets"
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Build a printable PDF from a sampled practice deck",
	Long: `Sheets samples a practice deck from the manifest, exactly like the web
app does, and assembles the sampled images into a PDF with one image per
page for offline study.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig(log)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		out, _ := cmd.Flags().GetString("out")
		labels, _ := cmd.Flags().GetStringSlice("classes")
		if perClass, _ := cmd.Flags().GetInt("per-class"); perClass > 0 {
			cfg.DeckSize = perClass
		}

		m, err := manifest.Load(cfg.ManifestPath)
		if err != nil {
			return err
		}

		session := deck.NewSession(m, cfg.DeckSize)
		session.SetActiveSelection(labels)

		cards := session.Deck()
		if len(cards) == 0 {
			return fmt.Errorf("the sampled deck is empty; check the manifest and --classes")
		}

		builder := sheets.NewBuilder(cfg.DatasetDir, cfg.Collection, log)
		if err := builder.Build(cards, out); err != nil {
			return err
		}

		color.Green("Study sheet written to %s (%d cards)", out, len(cards))
		return nil
	},
}

func init() {
	sheetsCmd.Flags().String("out", "rockdeck-sheets.pdf", "output PDF path")
	sheetsCmd.Flags().StringSlice("classes", nil, "class filter (default: all classes)")
	sheetsCmd.Flags().Int("per-class", 0, "cards per class (default: deck size from config)")
}
