package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/internal/credits"
	"github.com/kpauljoseph/rockdeck/internal/deck"
	"github.com/kpauljoseph/rockdeck/internal/manifest"
	"github.com/kpauljoseph/rockdeck/internal/rockinfo"
	"github.com/kpauljoseph/rockdeck/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the flashcard web app",
	Long: `Serve loads the image manifest and starts the practice web app. The
manifest is required; rock definitions and credits are optional extras
that degrade to absent when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig(log)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		// The manifest gates readiness: without it the app is non-functional.
		m, err := manifest.Load(cfg.ManifestPath)
		if err != nil {
			return fmt.Errorf("cannot start without a manifest: %w", err)
		}
		log.Info("Manifest loaded: %d classes", len(m))

		catalog, err := rockinfo.Load(cfg.RockInfoPath)
		if err != nil {
			log.Warn("rock definitions unavailable: %v", err)
			catalog = nil
		} else {
			log.Info("Rock definitions loaded: %d entries", catalog.Len())
		}

		creditsTable := credits.Load(cfg.CreditsPath, log)
		if creditsTable.Len() > 0 {
			log.Info("Credits loaded: %d entries", creditsTable.Len())
		}

		if _, err := os.Stat(cfg.DatasetDir); os.IsNotExist(err) {
			log.Warn("dataset directory %s does not exist, images will 404", cfg.DatasetDir)
		}

		session := deck.NewSession(m, cfg.DeckSize)

		srv := server.New(server.Options{
			Addr:       cfg.Server.Addr,
			DatasetDir: cfg.DatasetDir,
			Collection: cfg.Collection,
			Session:    session,
			Catalog:    catalog,
			Credits:    creditsTable,
			Logger:     log,
		})
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
}
