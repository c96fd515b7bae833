package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kpauljoseph/rockdeck/pkg/logger"
)

// imageExtensions are the filename extensions recognized as dataset images.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// IsImageFile reports whether the filename carries a recognized extension.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

type DirectoryScanner struct {
	logger *logger.Logger
}

func New(log *logger.Logger) *DirectoryScanner {
	return &DirectoryScanner{logger: log}
}

// FindClassImages walks root, treating each top-level directory as a class,
// and collects image files per class. Returned paths are relative to the
// class directory and use forward slashes. Files sitting directly at the
// root belong to no class and are skipped.
func (s *DirectoryScanner) FindClassImages(ctx context.Context, root string) (map[string][]string, error) {
	classes := make(map[string][]string)

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			return fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if info.IsDir() {
			s.logger.Debug("Scanning directory: %s", path)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("error resolving path %s: %w", path, err)
		}

		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) < 2 {
			s.logger.Debug("Skipping file outside any class directory: %s", rel)
			return nil
		}

		if !IsImageFile(path) {
			s.logger.Trace("Skipping non-image file: %s", rel)
			return nil
		}

		class := parts[0]
		classes[class] = append(classes[class], strings.Join(parts[1:], "/"))
		return nil
	})

	if err != nil {
		return nil, err
	}

	if len(classes) == 0 {
		return nil, fmt.Errorf("no image files found in %s or its subdirectories", root)
	}

	return classes, nil
}
