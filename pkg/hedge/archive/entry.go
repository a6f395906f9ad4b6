// Package archive holds the format-independent file entries that archive
// writers consume and readers produce.
package archive

import (
	"fmt"
	"sort"
	"strings"

	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
)

// Entry is a single named file inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// Size returns the length of the entry's data.
func (e Entry) Size() int {
	return len(e.Data)
}

// ValidateName rejects names an archive cannot store: empty names, names
// holding path separators or NULs, and the relative path markers.
func ValidateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("%w: %q", hederr.ErrInvalidName, name)
	case strings.ContainsAny(name, "/\\\x00"):
		return fmt.Errorf("%w: %q", hederr.ErrInvalidName, name)
	}
	return nil
}

// Validate checks every name and rejects duplicates.
func Validate(entries []Entry) error {
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if err := ValidateName(e.Name); err != nil {
			return err
		}
		if _, dup := seen[e.Name]; dup {
			return fmt.Errorf("%w: %q", hederr.ErrDuplicateEntry, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	return nil
}

// SortByName orders entries by name in place.
func SortByName(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

// TotalSize sums the data sizes of entries.
func TotalSize(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		total += int64(len(e.Data))
	}
	return total
}
