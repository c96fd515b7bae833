package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kpauljoseph/rockdeck/internal/credits"
	"github.com/kpauljoseph/rockdeck/internal/fetch"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download rock images from the image-search API",
	Long: `Fetch queries the Google Custom Search JSON API for each rock type,
downloads up to N results, converts them to PNG, and records a credits
table (CSV and JSON) mapping every saved file to its source URL.

Credentials come from GOOGLE_API_KEY and GOOGLE_CSE_CX, read from the
environment or a .env file in the working directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()

		cfg, err := loadConfig(log)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		// Matches the original workflow: a .env file beats nothing, the
		// real environment beats the .env file.
		if err := godotenv.Load(); err != nil {
			log.Debug("no .env file: %v", err)
		}

		apiKey := os.Getenv("GOOGLE_API_KEY")
		cx := os.Getenv("GOOGLE_CSE_CX")
		if apiKey == "" || cx == "" {
			return fmt.Errorf("missing GOOGLE_API_KEY or GOOGLE_CSE_CX (set them in the environment or a .env file)")
		}

		outDir, _ := cmd.Flags().GetString("out")
		if outDir == "" {
			outDir = cfg.DatasetDir
		}
		if limit, _ := cmd.Flags().GetInt("limit"); limit > 0 {
			cfg.Fetch.Limit = limit
		}
		if suffix, _ := cmd.Flags().GetString("query-suffix"); cmd.Flags().Changed("query-suffix") {
			cfg.Fetch.QuerySuffix = suffix
		}

		rockTypes := fetch.DefaultRockTypes
		if types, _ := cmd.Flags().GetStringSlice("types"); len(types) > 0 {
			rockTypes = types
		}

		rightsFlag, _ := cmd.Flags().GetString("rights")
		publicDomain, _ := cmd.Flags().GetBool("public-domain")
		if publicDomain && rightsFlag != "" {
			log.Warn("both --public-domain and --rights specified; --rights takes precedence")
		}
		if publicDomain && rightsFlag == "" {
			rightsFlag = "cc_publicdomain"
		}

		rights, invalid := fetch.ParseRights(rightsFlag)
		if len(invalid) > 0 {
			log.Warn("unknown rights tokens: %s (continuing anyway)", strings.Join(invalid, ", "))
		}

		domains, _ := cmd.Flags().GetStringSlice("domains")
		sites, _ := cmd.Flags().GetStringSlice("sites")

		opts := fetch.Options{
			OutDir:       outDir,
			Limit:        cfg.Fetch.Limit,
			QuerySuffix:  cfg.Fetch.QuerySuffix,
			Rights:       rights,
			DomainClause: fetch.BuildDomainClause(domains),
			SiteClause:   fetch.BuildSiteClause(sites),
			MaxDimension: cfg.Fetch.MaxDimension,
		}

		client := fetch.NewClient(apiKey, cx, log)
		creditsTable := credits.NewTable()
		pipeline := fetch.NewPipeline(client, creditsTable, log)

		summary, err := pipeline.Run(cmd.Context(), rockTypes, opts)
		if err != nil {
			return err
		}

		if err := creditsTable.WriteCSV(filepath.Join(outDir, "credits.csv")); err != nil {
			log.Warn("%v", err)
		}
		if err := creditsTable.WriteJSON(filepath.Join(outDir, "credits.json")); err != nil {
			log.Warn("%v", err)
		}

		types := make([]string, 0, len(summary.SavedPerType))
		for rock := range summary.SavedPerType {
			types = append(types, rock)
		}
		sort.Strings(types)
		for _, rock := range types {
			log.Info("%-14s %d saved", rock, summary.SavedPerType[rock])
		}
		color.Green("Done: %d images saved, %d skipped", summary.TotalSaved, summary.TotalSkipped)
		return nil
	},
}

func init() {
	fetchCmd.Flags().IntP("limit", "n", 0, "images per rock type (default from config)")
	fetchCmd.Flags().StringP("out", "o", "", "output root directory (default: dataset dir)")
	fetchCmd.Flags().StringSliceP("types", "t", nil, "subset of rock types to fetch")
	fetchCmd.Flags().String("query-suffix", "", "suffix appended to each rock query")
	fetchCmd.Flags().String("rights", "", "comma-separated usage rights, e.g. 'cc_publicdomain,cc_attribute'")
	fetchCmd.Flags().Bool("public-domain", false, "shortcut for --rights cc_publicdomain")
	fetchCmd.Flags().StringSlice("domains", nil, "TLD bias like '.edu,.gov' added as site: clauses")
	fetchCmd.Flags().StringSlice("sites", nil, "host bias like 'usgs.gov,si.edu' added as site: clauses")
}
