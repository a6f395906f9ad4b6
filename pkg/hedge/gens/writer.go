package gens

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/hedge-dev/hedgearc/pkg/hedge/archive"
	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
	"github.com/hedge-dev/hedgearc/pkg/hedge/saveopts"
	"github.com/hedge-dev/hedgearc/pkg/logging"
)

// FilePerms is the mode new archive files are written with.
const FilePerms = 0o644

// Encoded is an archive serialized in memory.
type Encoded struct {
	Splits [][]byte
	ARL    []byte // nil when no list was requested
	Split  bool   // name splits .ar.NN rather than a single .ar
}

// SaveResult describes the files Save wrote.
type SaveResult struct {
	ARPaths []string
	ARLPath string
	Entries int
	Bytes   int64
}

// splitBuilder accumulates one .ar file.
type splitBuilder struct {
	buf     bytes.Buffer
	entries int
}

func newSplitBuilder(padAmount uint32) *splitBuilder {
	sb := &splitBuilder{}
	sb.buf.Write(newHeader(padAmount).Pack())
	return sb
}

// recordSize is the size the entry would take if appended at the current end.
func (sb *splitBuilder) recordSize(e archive.Entry, padAmount uint32) (uint64, uint64) {
	pos := uint64(sb.buf.Len())
	nameEnd := uint64(EntryHeaderSize + len(e.Name) + 1)
	dataOffset := nameEnd + padLen(pos+nameEnd, padAmount)
	return dataOffset, dataOffset + uint64(e.Size())
}

func (sb *splitBuilder) append(e archive.Entry, padAmount uint32) error {
	dataOffset, size := sb.recordSize(e, padAmount)
	if size > math.MaxUint32 || uint64(sb.buf.Len())+size > math.MaxUint32 {
		return fmt.Errorf("%w: %s (%d bytes)", hederr.ErrEntryTooLarge, e.Name, e.Size())
	}

	fe := FileEntry{
		EntrySize:  uint32(size),
		DataSize:   uint32(e.Size()),
		DataOffset: uint32(dataOffset),
	}
	sb.buf.Write(fe.Pack())
	sb.buf.WriteString(e.Name)
	sb.buf.WriteByte(0)
	sb.buf.Write(make([]byte, dataOffset-uint64(EntryHeaderSize+len(e.Name)+1)))
	sb.buf.Write(e.Data)
	sb.entries++
	return nil
}

// Encode serializes entries using cfg. Entries keep their given order.
//
// With splitting enabled a split is closed once the next entry would push it
// past the split size, provided the split already holds an entry, so an
// oversized entry gets a split of its own.
func Encode(entries []archive.Entry, cfg saveopts.Config, logger hclog.Logger) (*Encoded, error) {
	logger = logging.OrNull(logger)

	if cfg.Variant() != saveopts.GenerationsUnleashed {
		return nil, fmt.Errorf("%w: %s", hederr.ErrUnsupportedVariant, cfg.Variant())
	}
	if err := archive.Validate(entries); err != nil {
		return nil, err
	}

	padAmount := cfg.Padding()
	limit, splitting := cfg.SplitLimit()
	if !cfg.PaddingIsPowerOfTwo() {
		logger.Warn("⚠️ Padding is not a power of two", "padding", padAmount)
	}

	logger.Debug("📦 Encoding archive",
		"entries", len(entries),
		"padding", padAmount,
		"split", splitting,
		"split_size", limit,
		"arl", cfg.GenerateIndex(),
	)

	var splits [][]byte
	cur := newSplitBuilder(padAmount)

	for _, e := range entries {
		if splitting && cur.entries > 0 {
			_, size := cur.recordSize(e, padAmount)
			if uint64(cur.buf.Len())+size > uint64(limit) {
				logger.Trace("✂️ Closing split", "index", len(splits), "size", cur.buf.Len(), "entries", cur.entries)
				splits = append(splits, cur.buf.Bytes())
				cur = newSplitBuilder(padAmount)
			}
		}
		if len(splits) >= MaxSplits {
			return nil, fmt.Errorf("%w: more than %d splits of %d bytes", hederr.ErrTooManySplits, MaxSplits, limit)
		}

		if err := cur.append(e, padAmount); err != nil {
			return nil, err
		}
		logger.Trace("➕ Added entry", "name", e.Name, "size", e.Size(), "split", len(splits))
	}
	splits = append(splits, cur.buf.Bytes())

	enc := &Encoded{Splits: splits, Split: splitting}

	if cfg.GenerateIndex() {
		list := &ARL{SplitSizes: make([]uint32, len(splits))}
		for i, s := range splits {
			list.SplitSizes[i] = uint32(len(s))
		}
		for _, e := range entries {
			list.Names = append(list.Names, e.Name)
		}
		data, err := list.Pack()
		if err != nil {
			return nil, err
		}
		enc.ARL = data
	}

	logger.Debug("✅ Encoded archive", "splits", len(splits))
	return enc, nil
}

// Save encodes entries and writes the archive next to path. path may name
// the archive with or without its extension.
func Save(entries []archive.Entry, cfg saveopts.Config, path string, logger hclog.Logger) (*SaveResult, error) {
	logger = logging.OrNull(logger)

	enc, err := Encode(entries, cfg, logger)
	if err != nil {
		return nil, err
	}

	stem := Stem(path)
	if dir := filepath.Dir(stem); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}

	result := &SaveResult{Entries: len(entries)}
	for i, data := range enc.Splits {
		p := SinglePath(stem)
		if enc.Split {
			p = SplitPath(stem, i)
		}
		if err := os.WriteFile(p, data, FilePerms); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p, err)
		}
		logger.Info("💾 Wrote archive", "path", p, "size", len(data))
		result.ARPaths = append(result.ARPaths, p)
		result.Bytes += int64(len(data))
	}

	if enc.ARL != nil {
		p := ARLPath(stem)
		if err := os.WriteFile(p, enc.ARL, FilePerms); err != nil {
			return nil, fmt.Errorf("writing %s: %w", p, err)
		}
		logger.Info("📝 Wrote archive list", "path", p, "size", len(enc.ARL))
		result.ARLPath = p
		result.Bytes += int64(len(enc.ARL))
	}

	if err := removeStale(stem, enc, logger); err != nil {
		return nil, err
	}

	return result, nil
}

// removeStale deletes files an earlier save under stem left behind that the
// one just written does not cover, so loading never mixes the two.
func removeStale(stem string, enc *Encoded, logger hclog.Logger) error {
	var stale []string

	first := 0
	if enc.Split {
		first = len(enc.Splits)
		stale = append(stale, SinglePath(stem))
	}
	for i := first; i < MaxSplits; i++ {
		stale = append(stale, SplitPath(stem, i))
	}
	if enc.ARL == nil {
		stale = append(stale, ARLPath(stem))
	}

	for _, p := range stale {
		err := os.Remove(p)
		switch {
		case err == nil:
			logger.Debug("🧹 Removed stale archive file", "path", p)
		case os.IsNotExist(err):
		default:
			return fmt.Errorf("removing stale %s: %w", p, err)
		}
	}
	return nil
}
