// Package sheets turns a sampled practice deck into a printable PDF, one
// image per page, for studying away from the browser.
package sheets

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/kpauljoseph/rockdeck/pkg/logger"
	"github.com/kpauljoseph/rockdeck/pkg/models"
)

type Builder struct {
	datasetDir string
	collection string
	logger     *logger.Logger
}

func NewBuilder(datasetDir, collection string, log *logger.Logger) *Builder {
	return &Builder{
		datasetDir: datasetDir,
		collection: collection,
		logger:     log,
	}
}

// Build resolves each card's URL ref back to a dataset file and assembles
// the PDF at outPath. Cards whose files are missing are skipped with a log
// line; Build errors only when no card resolves at all.
func (b *Builder) Build(cards []models.Card, outPath string) error {
	var files []string
	for _, card := range cards {
		path, err := b.ResolveRef(card.Ref)
		if err != nil {
			b.logger.Warn("skipping %s: %v", card.Ref, err)
			continue
		}
		if _, err := os.Stat(path); err != nil {
			b.logger.Warn("skipping %s: %v", card.Ref, err)
			continue
		}
		files = append(files, path)
	}

	if len(files) == 0 {
		return fmt.Errorf("no deck images found under %s", b.datasetDir)
	}

	b.logger.Info("Assembling %d pages into %s", len(files), outPath)
	if err := api.ImportImagesFile(files, outPath, nil, nil); err != nil {
		return fmt.Errorf("failed to assemble PDF: %w", err)
	}
	return nil
}

// ResolveRef maps a manifest URL path like /<collection>/<class>/<file>
// back to the file on disk.
func (b *Builder) ResolveRef(ref string) (string, error) {
	prefix := "/" + url.PathEscape(b.collection) + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", fmt.Errorf("ref %q is outside collection %q", ref, b.collection)
	}

	var parts []string
	for _, segment := range strings.Split(strings.TrimPrefix(ref, prefix), "/") {
		part, err := url.PathUnescape(segment)
		if err != nil {
			return "", fmt.Errorf("ref %q has a malformed segment: %w", ref, err)
		}
		if part == ".." || part == "." || part == "" {
			return "", fmt.Errorf("ref %q has an invalid path segment", ref)
		}
		parts = append(parts, part)
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("ref %q names no file", ref)
	}

	return filepath.Join(append([]string{b.datasetDir}, parts...)...), nil
}
