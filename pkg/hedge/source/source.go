// Package source collects the files to be saved into an archive.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/hedge-dev/hedgearc/pkg/hedge/archive"
	"github.com/hedge-dev/hedgearc/pkg/hedge/bundle"
	"github.com/hedge-dev/hedgearc/pkg/hedge/gens"
	"github.com/hedge-dev/hedgearc/pkg/logging"
)

// Kind names where entries were collected from.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindBundle    Kind = "bundle"
	KindArchive   Kind = "archive"
)

// Detect classifies path without reading it.
func Detect(path string) (Kind, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return KindDirectory, nil
	}
	if _, ok := bundle.DetectChain(path); ok {
		return KindBundle, nil
	}
	if isArchivePath(path) {
		return KindArchive, nil
	}
	return "", fmt.Errorf("unrecognised source %s: expected a directory, tar bundle or .ar/.arl archive", path)
}

func isArchivePath(path string) bool {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case gens.ARExt, gens.ARLExt:
		return true
	default:
		return len(ext) == 3 && ext[1] >= '0' && ext[1] <= '9' && ext[2] >= '0' && ext[2] <= '9' &&
			strings.EqualFold(filepath.Ext(strings.TrimSuffix(path, ext)), gens.ARExt)
	}
}

// Collect gathers entries from a directory's top-level files, a tar bundle,
// or an existing archive including all of its splits.
func Collect(path string, logger hclog.Logger) ([]archive.Entry, Kind, error) {
	logger = logging.OrNull(logger)

	kind, err := Detect(path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("🔍 Collecting entries", "path", path, "kind", kind)

	var entries []archive.Entry
	switch kind {
	case KindDirectory:
		entries, err = fromDirectory(path, logger)
	case KindBundle:
		entries, err = bundle.ReadFile(path, logger)
	case KindArchive:
		entries, err = gens.Load(path, true, logger)
	}
	if err != nil {
		return nil, kind, err
	}

	logger.Info("📂 Collected entries", "path", path, "kind", kind, "entries", len(entries), "bytes", archive.TotalSize(entries))
	return entries, kind, nil
}

func fromDirectory(dir string, logger hclog.Logger) ([]archive.Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory: %w", err)
	}

	var entries []archive.Entry
	for _, item := range items {
		if !item.Type().IsRegular() {
			logger.Debug("⏭️ Skipping non-file", "name", item.Name())
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, item.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", item.Name(), err)
		}
		entries = append(entries, archive.Entry{Name: item.Name(), Data: data})
	}

	archive.SortByName(entries)
	return entries, archive.Validate(entries)
}
