package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/pkg/updater"
	"github.com/kpauljoseph/rockdeck/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(version.GetDetailedVersionInfo())

		check, _ := cmd.Flags().GetBool("check-update")
		if !check {
			return nil
		}

		log := newLogger()
		info, err := updater.NewChecker(log).CheckForUpdates()
		if err != nil {
			log.Warn("update check failed: %v", err)
			return nil
		}
		if info != nil && info.IsAvailable {
			fmt.Printf("Update available: %s -> %s\n%s\n", info.CurrentVersion, info.LatestVersion, info.DownloadURL)
		} else {
			fmt.Println("Up to date.")
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("check-update", false, "check GitHub for a newer release")
}
