// Package manifest builds, writes, and loads the class-to-images mapping
// that drives the flashcard app.
package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"github.com/maruel/natural"

	"github.com/kpauljoseph/rockdeck/internal/scanner"
	"github.com/kpauljoseph/rockdeck/pkg/models"
)

// Build scans the dataset directory and produces a manifest whose values are
// public URL paths of the form /<collection>/<escaped class>/<escaped file>.
// Filenames are ordered naturally, so img_2 sorts before img_10.
func Build(ctx context.Context, sc *scanner.DirectoryScanner, datasetDir, collection string) (models.Manifest, error) {
	classes, err := sc.FindClassImages(ctx, datasetDir)
	if err != nil {
		return nil, err
	}

	m := make(models.Manifest, len(classes))
	for class, files := range classes {
		sort.Slice(files, func(i, j int) bool {
			return natural.Less(files[i], files[j])
		})

		refs := make([]string, 0, len(files))
		for _, file := range files {
			refs = append(refs, urlPath(collection, class, file))
		}
		m[class] = refs
	}

	return m, nil
}

func urlPath(collection, class, file string) string {
	segments := []string{url.PathEscape(collection), url.PathEscape(class)}
	for _, part := range strings.Split(file, "/") {
		segments = append(segments, url.PathEscape(part))
	}
	return "/" + strings.Join(segments, "/")
}

// Write marshals the manifest as indented JSON with stable key order.
func Write(path string, m models.Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// Load reads and validates a manifest file. Malformed input fails fast with
// an error naming the offending class rather than surfacing later as missing
// fields.
func Load(path string) (models.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse validates the raw manifest document shape: a JSON object mapping
// non-empty class names to arrays of non-empty URL strings.
func Parse(data []byte) (models.Manifest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("manifest root must be a JSON object: %w", err)
	}

	m := make(models.Manifest, len(raw))
	for class, entry := range raw {
		if strings.TrimSpace(class) == "" {
			return nil, fmt.Errorf("manifest contains a blank class name")
		}

		var refs []string
		if err := json.Unmarshal(entry, &refs); err != nil {
			return nil, fmt.Errorf("class %q: expected an array of URL strings: %w", class, err)
		}
		for i, ref := range refs {
			if ref == "" {
				return nil, fmt.Errorf("class %q: entry %d is empty", class, i)
			}
		}
		m[class] = refs
	}

	return m, nil
}
