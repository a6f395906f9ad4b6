package gens

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
)

// Stem strips a trailing .ar, .arl or .ar.NN from path.
func Stem(path string) string {
	if ext := filepath.Ext(path); isSplitExt(ext) {
		if base := strings.TrimSuffix(path, ext); strings.EqualFold(filepath.Ext(base), ARExt) {
			path = base
		}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ARExt, ARLExt:
		return strings.TrimSuffix(path, filepath.Ext(path))
	}
	return path
}

// SplitPath returns the path of split i, e.g. "stage.ar.03".
func SplitPath(stem string, i int) string {
	return fmt.Sprintf("%s%s.%02d", stem, ARExt, i)
}

// SinglePath returns the path of an unsplit archive.
func SinglePath(stem string) string {
	return stem + ARExt
}

// ARLPath returns the path of the archive list.
func ARLPath(stem string) string {
	return stem + ARLExt
}

func isSplitExt(ext string) bool {
	return len(ext) == 3 && ext[0] == '.' && isDigit(ext[1]) && isDigit(ext[2])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// nextSplit increments the two-digit suffix of a split path.
func nextSplit(path string) (string, bool) {
	ext := filepath.Ext(path)
	if !isSplitExt(ext) {
		return "", false
	}
	n := int(ext[1]-'0')*10 + int(ext[2]-'0') + 1
	if n >= MaxSplits {
		return "", false
	}
	return fmt.Sprintf("%s.%02d", strings.TrimSuffix(path, ext), n), true
}

// ResolveSplits finds every file belonging to the archive at path.
//
// A split path loads that split and every later one. An .arl path loads
// the matching .ar.00 chain, or the plain .ar when there are no splits. Any
// other path that does not exist is retried with a .00 suffix.
func ResolveSplits(path string) ([]string, error) {
	first := ""
	ext := filepath.Ext(path)

	switch {
	case isSplitExt(ext):
		first = path
	case strings.EqualFold(ext, ARLExt):
		stem := strings.TrimSuffix(path, ext)
		if p := SplitPath(stem, 0); exists(p) {
			first = p
		} else if p := SinglePath(stem); exists(p) {
			return []string{p}, nil
		} else {
			return nil, fmt.Errorf("%w: no .ar or .ar.00 next to %s", hederr.ErrArchiveNotFound, path)
		}
	case !exists(path):
		if p := path + ".00"; exists(p) {
			first = p
		} else {
			return nil, fmt.Errorf("%w: %s", hederr.ErrArchiveNotFound, path)
		}
	default:
		return []string{path}, nil
	}

	if !exists(first) {
		return nil, fmt.Errorf("%w: %s", hederr.ErrArchiveNotFound, first)
	}

	paths := []string{first}
	for p, ok := nextSplit(first); ok && exists(p); p, ok = nextSplit(p) {
		paths = append(paths, p)
	}
	return paths, nil
}
