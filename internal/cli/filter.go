package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/internal/dataset"
)

var filterCmd = &cobra.Command{
	Use:   "filter <src> <dst>",
	Short: "Copy only recognized rock/mineral class folders",
	Long: `Filter copies the top-level directories of <src> into <dst>, keeping
only folders whose normalized name (lowercased, whitespace to underscores)
is on the built-in rock/mineral allow-list. Everything else is skipped
with a log line. File contents are not transformed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		stats, err := dataset.Filter(args[0], args[1], log)
		if err != nil {
			return err
		}

		color.Green("Copied %d folders (%d files), skipped %d", stats.CopiedDirs, stats.CopiedFiles, stats.SkippedDirs)
		return nil
	},
}
