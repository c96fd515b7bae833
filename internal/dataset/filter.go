// Package dataset prepares raw image dumps for serving: it keeps only the
// class folders on the known rock/mineral allow-list.
package dataset

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/rockdeck/pkg/logger"
)

// NormalizeName lowercases a folder name and collapses whitespace runs to
// single underscores, so "Rock Salt" and "rock  salt" both become
// "rock_salt".
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

type Stats struct {
	CopiedDirs  int
	SkippedDirs int
	CopiedFiles int
}

// Filter copies every allow-listed top-level directory of src into dst,
// recursively and byte-for-byte. Directories off the list are skipped with
// a log line. Top-level regular files are ignored.
func Filter(src, dst string, log *logger.Logger) (Stats, error) {
	var stats Stats

	entries, err := os.ReadDir(src)
	if err != nil {
		return stats, fmt.Errorf("failed to read source directory %s: %w", src, err)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return stats, fmt.Errorf("failed to create destination %s: %w", dst, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		if !IsAllowed(entry.Name()) {
			log.Info("Skipping %s: not a recognized rock/mineral type", entry.Name())
			stats.SkippedDirs++
			continue
		}

		copied, err := copyDir(filepath.Join(src, entry.Name()), filepath.Join(dst, entry.Name()))
		if err != nil {
			return stats, fmt.Errorf("failed to copy %s: %w", entry.Name(), err)
		}
		log.Info("Copied %s (%d files)", entry.Name(), copied)
		stats.CopiedDirs++
		stats.CopiedFiles += copied
	}

	return stats, nil
}

func copyDir(src, dst string) (int, error) {
	copied := 0

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}

		if err := copyFile(path, target); err != nil {
			return err
		}
		copied++
		return nil
	})

	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
