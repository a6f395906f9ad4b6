// Package pkg is the entry point for packing, unpacking and verifying
// archives with a set of save options.
package pkg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hedge-dev/hedgearc/pkg/hedge/archive"
	"github.com/hedge-dev/hedgearc/pkg/hedge/bundle"
	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
	"github.com/hedge-dev/hedgearc/pkg/hedge/gens"
	"github.com/hedge-dev/hedgearc/pkg/hedge/saveopts"
	"github.com/hedge-dev/hedgearc/pkg/hedge/source"
	"github.com/hedge-dev/hedgearc/pkg/logging"
)

type saveFunc func(entries []archive.Entry, cfg saveopts.Config, path string, logger hclog.Logger) (*gens.SaveResult, error)

// savers holds a writer for each variant that can be saved.
var savers = map[saveopts.Variant]saveFunc{
	saveopts.GenerationsUnleashed: gens.Save,
}

// CanSave reports whether archives of variant v can be written.
func CanSave(v saveopts.Variant) bool {
	_, ok := savers[v]
	return ok
}

// SaveArchive writes entries as an archive at outputPath using cfg.
func SaveArchive(entries []archive.Entry, cfg saveopts.Config, outputPath string, logger hclog.Logger) (*gens.SaveResult, error) {
	save, ok := savers[cfg.Variant()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", hederr.ErrUnsupportedVariant, cfg.Variant())
	}
	return save(entries, cfg, outputPath, logging.OrNull(logger))
}

// PackArchive collects entries from sourcePath and saves them at outputPath.
func PackArchive(sourcePath, outputPath string, cfg saveopts.Config, logger hclog.Logger) (*gens.SaveResult, error) {
	logger = logging.OrNull(logger)

	// Fail before reading any input.
	if !CanSave(cfg.Variant()) {
		return nil, fmt.Errorf("%w: %s", hederr.ErrUnsupportedVariant, cfg.Variant())
	}

	entries, _, err := source.Collect(sourcePath, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("📦 Packing archive",
		"output", outputPath,
		"variant", cfg.Variant().String(),
		"entries", len(entries),
	)
	result, err := SaveArchive(entries, cfg, outputPath, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("✅ Packed archive", "files", len(result.ARPaths), "arl", result.ARLPath != "", "bytes", result.Bytes)
	return result, nil
}

// UnpackResult describes what UnpackArchive produced.
type UnpackResult struct {
	Entries int
	Output  string
	Bundled bool
}

// UnpackArchive extracts the archive at archivePath. When outputPath names a
// tar bundle the entries go into it, otherwise into a directory there.
func UnpackArchive(archivePath, outputPath string, loadSplits bool, logger hclog.Logger) (*UnpackResult, error) {
	logger = logging.OrNull(logger)

	entries, err := gens.Load(archivePath, loadSplits, logger)
	if err != nil {
		return nil, err
	}

	result := &UnpackResult{Entries: len(entries), Output: outputPath}

	if _, ok := bundle.DetectChain(outputPath); ok {
		if err := bundle.WriteFile(outputPath, entries, logger); err != nil {
			return nil, err
		}
		result.Bundled = true
		logger.Info("✅ Unpacked to bundle", "path", outputPath, "entries", len(entries))
		return result, nil
	}

	if err := archive.Validate(entries); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	for _, e := range entries {
		p := filepath.Join(outputPath, e.Name)
		if err := os.WriteFile(p, e.Data, 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p, err)
		}
		logger.Trace("💾 Extracted entry", "path", p, "size", e.Size())
	}

	logger.Info("✅ Unpacked to directory", "path", outputPath, "entries", len(entries))
	return result, nil
}

// VerifyReport summarizes an archive check.
type VerifyReport struct {
	Splits     []string
	Entries    int
	ARLChecked bool
	Problems   []string
}

// OK reports whether no problems were found.
func (r *VerifyReport) OK() bool {
	return len(r.Problems) == 0
}

// VerifyArchive parses every split of the archive at path and, when an .arl
// sits beside it, checks that the list matches the splits.
func VerifyArchive(path string, logger hclog.Logger) (*VerifyReport, error) {
	logger = logging.OrNull(logger)

	paths, err := gens.ResolveSplits(path)
	if err != nil {
		return nil, err
	}
	report := &VerifyReport{Splits: paths}

	var names []string
	var sizes []uint32
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		entries, err := gens.Read([][]byte{data}, logger)
		if err != nil {
			report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", filepath.Base(p), err))
			logger.Error("❌ Split failed to parse", "path", p, "error", err)
			continue
		}
		sizes = append(sizes, uint32(len(data)))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		report.Entries += len(entries)
		logger.Debug("✓ Split valid", "path", p, "entries", len(entries))
	}

	arlPath := gens.ARLPath(gens.Stem(path))
	arlData, err := os.ReadFile(arlPath)
	switch {
	case os.IsNotExist(err):
		logger.Debug("No archive list to check", "path", arlPath)
		return report, nil
	case err != nil:
		return nil, fmt.Errorf("reading %s: %w", arlPath, err)
	}

	report.ARLChecked = true
	list, err := gens.ReadARL(arlData)
	if err != nil {
		report.Problems = append(report.Problems, fmt.Sprintf("%s: %v", filepath.Base(arlPath), err))
		return report, nil
	}

	if len(list.SplitSizes) != len(paths) {
		report.Problems = append(report.Problems,
			fmt.Sprintf("archive list names %d splits, found %d", len(list.SplitSizes), len(paths)))
	} else if len(sizes) == len(paths) {
		for i, size := range sizes {
			if list.SplitSizes[i] != size {
				report.Problems = append(report.Problems,
					fmt.Sprintf("%s is %d bytes, archive list says %d", filepath.Base(paths[i]), size, list.SplitSizes[i]))
			}
		}
	}

	if len(list.Names) != len(names) {
		report.Problems = append(report.Problems,
			fmt.Sprintf("archive list names %d entries, found %d", len(list.Names), len(names)))
	} else {
		for i := range names {
			if list.Names[i] != names[i] {
				report.Problems = append(report.Problems,
					fmt.Sprintf("entry %d is %q, archive list says %q", i, names[i], list.Names[i]))
				break
			}
		}
	}

	if report.OK() {
		logger.Info("✓ Archive list matches splits", "path", arlPath)
	}
	return report, nil
}
