// Package fetch collects a rock image dataset from an image-search API:
// search per rock type, download each hit, normalize to PNG, and record
// where every saved file came from.
package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kpauljoseph/rockdeck/internal/credits"
	"github.com/kpauljoseph/rockdeck/pkg/logger"
	"github.com/kpauljoseph/rockdeck/pkg/models"
)

const (
	// Fixed pacing between external calls. There are no retries; a failed
	// call is skipped and the batch moves on.
	PauseBetweenAPICalls  = 600 * time.Millisecond
	PauseBetweenDownloads = 200 * time.Millisecond
)

// Options configure one pipeline run.
type Options struct {
	OutDir       string
	Limit        int
	QuerySuffix  string
	Rights       string // pipe-joined usage-rights filter, may be empty
	DomainClause string
	SiteClause   string
	MaxDimension int
}

// Summary is the end-of-run report.
type Summary struct {
	SavedPerType map[string]int
	TotalSaved   int
	TotalSkipped int
}

// Pipeline drives search, download, normalization, and credits recording.
type Pipeline struct {
	client  *Client
	logger  *logger.Logger
	credits *credits.Table
}

func NewPipeline(client *Client, creditsTable *credits.Table, log *logger.Logger) *Pipeline {
	return &Pipeline{
		client:  client,
		logger:  log,
		credits: creditsTable,
	}
}

// Run processes every rock type in order. Per-item failures (bad link,
// failed download, undecodable image, failed write) are logged and skipped;
// only filesystem setup problems or context cancellation abort the run.
func (p *Pipeline) Run(ctx context.Context, rockTypes []string, opts Options) (Summary, error) {
	summary := Summary{SavedPerType: make(map[string]int)}

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, rock := range rockTypes {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		saved, skipped, err := p.fetchType(ctx, rock, opts)
		if err != nil {
			return summary, err
		}
		summary.SavedPerType[rock] = saved
		summary.TotalSaved += saved
		summary.TotalSkipped += skipped
	}

	return summary, nil
}

func (p *Pipeline) fetchType(ctx context.Context, rock string, opts Options) (saved, skipped int, err error) {
	rockDir := filepath.Join(opts.OutDir, SafeName(rock))
	if err := os.MkdirAll(rockDir, 0755); err != nil {
		return 0, 0, fmt.Errorf("failed to create directory for %s: %w", rock, err)
	}

	query := BuildQuery(rock, opts.QuerySuffix, opts.DomainClause, opts.SiteClause)
	p.logger.Info("== %s ==", rock)
	p.logger.Info("Query: %s", query)
	if opts.Rights != "" {
		p.logger.Debug("Rights filter: %s", opts.Rights)
	}

	results := p.client.Search(ctx, query, opts.Limit, opts.Rights, PauseBetweenAPICalls)
	if len(results) == 0 {
		p.logger.Info("No results for %s", rock)
		return 0, 0, nil
	}

	seen := make(map[string]bool)

	for i, result := range results {
		if err := ctx.Err(); err != nil {
			return saved, skipped, err
		}

		link := result.DownloadURL()
		if link == "" {
			p.logger.Warn("result without a link, skipping")
			skipped++
			continue
		}

		p.logger.Debug("Fetching %s", link)
		data, err := p.client.Download(ctx, link)
		if err != nil {
			p.logger.Warn("skipping %s: %v", link, err)
			skipped++
			continue
		}

		pngData, hash, err := NormalizePNG(data, opts.MaxDimension)
		if err != nil {
			p.logger.Warn("skipping %s: %v", link, err)
			skipped++
			continue
		}

		if seen[hash] {
			p.logger.Debug("duplicate image content from %s, skipping", link)
			skipped++
			continue
		}

		filename := BuildFilename(rock, saved+1)
		dest := filepath.Join(rockDir, filename)
		if err := os.WriteFile(dest, pngData, 0644); err != nil {
			// Sequence numbers stay contiguous when a write fails.
			p.logger.Warn("failed to write %s: %v", dest, err)
			skipped++
			continue
		}

		seen[hash] = true
		saved++
		p.logger.Info("Saved %s", filepath.Join(SafeName(rock), filename))

		p.credits.Add(models.CreditRecord{
			Rock: rock,
			File: filepath.ToSlash(filepath.Join(SafeName(rock), filename)),
			URL:  link,
		})

		// Pause only between downloads, not after the last one.
		if i < len(results)-1 {
			sleepCtx(ctx, PauseBetweenDownloads)
		}
	}

	return saved, skipped, nil
}
