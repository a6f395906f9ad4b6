// Package bundle converts between archive entries and tar bundles, which may
// be compressed with any registered operation.
package bundle

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/hedge-dev/hedgearc/pkg/hedge/archive"
	"github.com/hedge-dev/hedgearc/pkg/hedge/operations"
	_ "github.com/hedge-dev/hedgearc/pkg/hedge/operations/compress"
	"github.com/hedge-dev/hedgearc/pkg/logging"
)

// MaxEntrySize caps a single bundled file.
const MaxEntrySize = 1 << 30

// suffixes maps bundle file suffixes to their compression chain.
var suffixes = []struct {
	suffix string
	chain  string
}{
	{".tar.gz", "gzip"},
	{".tgz", "gzip"},
	{".tar.bz2", "bzip2"},
	{".tbz2", "bzip2"},
	{".tar.lz4", "lz4"},
	{".tar", "raw"},
}

// DetectChain reports whether name looks like a bundle and which
// operations its contents are compressed with.
func DetectChain(name string) ([]uint8, bool) {
	lower := strings.ToLower(name)
	for _, s := range suffixes {
		if strings.HasSuffix(lower, s.suffix) {
			ops, err := operations.ParseChain(s.chain)
			if err != nil {
				return nil, false
			}
			return ops, true
		}
	}
	return nil, false
}

// Read decompresses data with ops and returns every regular file in the
// tar stream. Directory components are dropped from names.
func Read(data []byte, ops []uint8, logger hclog.Logger) ([]archive.Entry, error) {
	logger = logging.OrNull(logger)

	raw, err := operations.ReverseChain(data, ops)
	if err != nil {
		return nil, err
	}

	tr := tar.NewReader(bytes.NewReader(raw))
	var entries []archive.Entry
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar header: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			logger.Trace("⏭️ Skipping non-file tar member", "name", header.Name, "type", string(header.Typeflag))
			continue
		}
		if header.Size < 0 || header.Size > MaxEntrySize {
			return nil, fmt.Errorf("invalid file size for %s: %d", header.Name, header.Size)
		}

		name := path.Base(path.Clean(header.Name))
		if name != header.Name {
			logger.Debug("📁 Flattening bundled path", "path", header.Name, "name", name)
		}

		content := make([]byte, header.Size)
		if _, err := io.ReadFull(tr, content); err != nil {
			return nil, fmt.Errorf("reading tar data for %s: %w", header.Name, err)
		}
		entries = append(entries, archive.Entry{Name: name, Data: content})
	}

	if err := archive.Validate(entries); err != nil {
		return nil, err
	}

	logger.Debug("✅ Read bundle", "entries", len(entries), "operations", operations.ChainString(ops))
	return entries, nil
}

// Write stores entries in a tar stream and compresses it with ops.
func Write(entries []archive.Entry, ops []uint8, logger hclog.Logger) ([]byte, error) {
	logger = logging.OrNull(logger)

	if err := archive.Validate(entries); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	modTime := time.Now().UTC().Truncate(time.Second)

	for _, e := range entries {
		header := &tar.Header{
			Name:     e.Name,
			Mode:     0o644,
			Size:     int64(len(e.Data)),
			ModTime:  modTime,
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(header); err != nil {
			return nil, fmt.Errorf("writing tar header: %w", err)
		}
		if _, err := tw.Write(e.Data); err != nil {
			return nil, fmt.Errorf("writing tar data: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return nil, fmt.Errorf("closing tar writer: %w", err)
	}

	out, err := operations.ApplyChain(buf.Bytes(), ops)
	if err != nil {
		return nil, err
	}

	logger.Debug("✅ Wrote bundle", "entries", len(entries), "size", len(out), "operations", operations.ChainString(ops))
	return out, nil
}

// ReadFile reads the bundle at p, choosing the chain from its suffix.
func ReadFile(p string, logger hclog.Logger) ([]archive.Entry, error) {
	ops, ok := DetectChain(p)
	if !ok {
		return nil, fmt.Errorf("not a bundle: %s", p)
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading bundle: %w", err)
	}
	return Read(data, ops, logger)
}

// WriteFile writes entries to a bundle at p, choosing the chain from its suffix.
func WriteFile(p string, entries []archive.Entry, logger hclog.Logger) error {
	ops, ok := DetectChain(p)
	if !ok {
		return fmt.Errorf("not a bundle: %s", p)
	}
	data, err := Write(entries, ops, logger)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("writing bundle: %w", err)
	}
	return nil
}
