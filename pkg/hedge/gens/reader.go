package gens

import (
	"bytes"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/hedge-dev/hedgearc/pkg/hedge/archive"
	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
	"github.com/hedge-dev/hedgearc/pkg/logging"
)

// Read parses the entries of every split, in split order.
func Read(splits [][]byte, logger hclog.Logger) ([]archive.Entry, error) {
	logger = logging.OrNull(logger)

	var entries []archive.Entry
	for i, data := range splits {
		h, err := UnpackHeader(data)
		if err != nil {
			return nil, fmt.Errorf("split %d: %w", i, err)
		}
		logger.Trace("📂 Reading split", "index", i, "size", len(data), "padding", h.PadAmount)

		pos := uint64(HeaderSize)
		end := uint64(len(data))
		for pos < end {
			e, size, err := readEntry(data[pos:])
			if err != nil {
				return nil, fmt.Errorf("split %d, offset 0x%x: %w", i, pos, err)
			}
			entries = append(entries, e)
			pos += size
		}
	}

	logger.Debug("✅ Read archive", "splits", len(splits), "entries", len(entries))
	return entries, nil
}

func readEntry(data []byte) (archive.Entry, uint64, error) {
	fe, err := UnpackFileEntry(data)
	if err != nil {
		return archive.Entry{}, 0, err
	}

	size := uint64(fe.EntrySize)
	dataStart := uint64(fe.DataOffset)
	dataEnd := dataStart + uint64(fe.DataSize)
	switch {
	case size <= EntryHeaderSize:
		return archive.Entry{}, 0, fmt.Errorf("%w: entry size %d", hederr.ErrTruncatedEntry, size)
	case size > uint64(len(data)):
		return archive.Entry{}, 0, fmt.Errorf("%w: entry size %d exceeds remaining %d bytes", hederr.ErrTruncatedEntry, size, len(data))
	case dataStart <= EntryHeaderSize || dataEnd > size:
		return archive.Entry{}, 0, fmt.Errorf("%w: data [%d,%d) outside entry of %d bytes", hederr.ErrTruncatedEntry, dataStart, dataEnd, size)
	}

	nameField := data[EntryHeaderSize:dataStart]
	nul := bytes.IndexByte(nameField, 0)
	if nul < 0 {
		return archive.Entry{}, 0, fmt.Errorf("%w: unterminated name", hederr.ErrTruncatedEntry)
	}

	e := archive.Entry{
		Name: string(nameField[:nul]),
		Data: bytes.Clone(data[dataStart:dataEnd]),
	}
	return e, size, nil
}

// Load reads the archive at path. With loadSplits every split belonging to
// the archive is read, see ResolveSplits; otherwise path alone is read.
func Load(path string, loadSplits bool, logger hclog.Logger) ([]archive.Entry, error) {
	logger = logging.OrNull(logger)

	paths := []string{path}
	if loadSplits {
		var err error
		if paths, err = ResolveSplits(path); err != nil {
			return nil, err
		}
	}

	splits := make([][]byte, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("%w: %s", hederr.ErrArchiveNotFound, p)
			}
			return nil, fmt.Errorf("reading %s: %w", p, err)
		}
		logger.Debug("🔍 Loaded split", "path", p, "size", len(data))
		splits = append(splits, data)
	}

	return Read(splits, logger)
}
