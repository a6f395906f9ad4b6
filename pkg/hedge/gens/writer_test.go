package gens

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"
	"github.com/hedge-dev/hedgearc/pkg/hedge/archive"
	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
	"github.com/hedge-dev/hedgearc/pkg/hedge/saveopts"
)

func testLogger(t *testing.T) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:   t.Name(),
		Level:  hclog.Trace,
		Output: os.Stderr,
	})
}

func mustBuild(t *testing.T, padding uint64, index, split bool, splitSize uint64) saveopts.Config {
	t.Helper()
	cfg, err := saveopts.Build(saveopts.GenerationsUnleashed, padding, index, split, splitSize)
	if err != nil {
		t.Fatalf("saveopts.Build failed: %v", err)
	}
	return cfg
}

func sampleEntries() []archive.Entry {
	return []archive.Entry{
		{Name: "ghz_sky.model", Data: bytes.Repeat([]byte{0xAB}, 100)},
		{Name: "ghz_sky.dds", Data: bytes.Repeat([]byte{0xCD}, 33)},
		{Name: "empty.bin", Data: []byte{}},
		{Name: "ring.material", Data: []byte("material")},
	}
}

func TestEncodeSingleLayout(t *testing.T) {
	entries := []archive.Entry{{Name: "a", Data: []byte("hello")}}
	enc, err := Encode(entries, mustBuild(t, 0x40, false, false, 0), testLogger(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(enc.Splits) != 1 || enc.Split || enc.ARL != nil {
		t.Fatalf("got %d splits, split=%v, arl=%v", len(enc.Splits), enc.Split, enc.ARL != nil)
	}

	data := enc.Splits[0]
	h, err := UnpackHeader(data)
	if err != nil {
		t.Fatalf("UnpackHeader failed: %v", err)
	}
	if h.PadAmount != 0x40 {
		t.Errorf("PadAmount = %#x, want 0x40", h.PadAmount)
	}

	// Header (0x10) + entry header (0x14) + "a\0" ends at 0x26, data aligned to 0x40.
	fe, err := UnpackFileEntry(data[HeaderSize:])
	if err != nil {
		t.Fatalf("UnpackFileEntry failed: %v", err)
	}
	want := FileEntry{EntrySize: 0x30 + 5, DataSize: 5, DataOffset: 0x30}
	if diff := cmp.Diff(want, fe); diff != "" {
		t.Errorf("entry mismatch (-want +got):\n%s", diff)
	}
	if got := data[0x40:]; !bytes.Equal(got, []byte("hello")) {
		t.Errorf("data at 0x40 = %q", got)
	}
	if !bytes.Equal(data[0x26:0x40], make([]byte, 0x1A)) {
		t.Errorf("padding is not zeroed")
	}
}

func TestEncodeDataAlignment(t *testing.T) {
	for _, padding := range []uint64{0, 1, 2, 16, 0x40, 0x60, 0x800} {
		enc, err := Encode(sampleEntries(), mustBuild(t, padding, false, false, 0), testLogger(t))
		if err != nil {
			t.Fatalf("Encode(padding=%d) failed: %v", padding, err)
		}

		data := enc.Splits[0]
		pos := uint64(HeaderSize)
		for pos < uint64(len(data)) {
			fe, err := UnpackFileEntry(data[pos:])
			if err != nil {
				t.Fatalf("UnpackFileEntry failed: %v", err)
			}
			start := pos + uint64(fe.DataOffset)
			if padding >= 2 && start%padding != 0 {
				t.Errorf("padding %d: data at %d is not aligned", padding, start)
			}
			pos += uint64(fe.EntrySize)
		}
	}
}

func TestEncodeSplits(t *testing.T) {
	entries := []archive.Entry{
		{Name: "one", Data: make([]byte, 200)},
		{Name: "two", Data: make([]byte, 200)},
		{Name: "three", Data: make([]byte, 600)},
		{Name: "four", Data: make([]byte, 10)},
	}

	enc, err := Encode(entries, mustBuild(t, 0x10, true, true, 512), testLogger(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !enc.Split {
		t.Errorf("Split = false, want true")
	}

	// one+two fit in 512, three is oversized and sits alone, four follows it.
	if len(enc.Splits) != 3 {
		t.Fatalf("got %d splits, want 3", len(enc.Splits))
	}

	var perSplit [][]string
	for _, s := range enc.Splits {
		got, err := Read([][]byte{s}, testLogger(t))
		if err != nil {
			t.Fatalf("Read failed: %v", err)
		}
		var names []string
		for _, e := range got {
			names = append(names, e.Name)
		}
		perSplit = append(perSplit, names)
	}
	want := [][]string{{"one", "two"}, {"three"}, {"four"}}
	if diff := cmp.Diff(want, perSplit); diff != "" {
		t.Errorf("split contents mismatch (-want +got):\n%s", diff)
	}

	list, err := ReadARL(enc.ARL)
	if err != nil {
		t.Fatalf("ReadARL failed: %v", err)
	}
	for i, s := range enc.Splits {
		if list.SplitSizes[i] != uint32(len(s)) {
			t.Errorf("ARL split %d size = %d, want %d", i, list.SplitSizes[i], len(s))
		}
	}
	if diff := cmp.Diff([]string{"one", "two", "three", "four"}, list.Names); diff != "" {
		t.Errorf("ARL names mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeZeroSplitSize(t *testing.T) {
	enc, err := Encode(sampleEntries(), mustBuild(t, 0x40, false, true, 0), testLogger(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(enc.Splits) != len(sampleEntries()) {
		t.Errorf("got %d splits, want one per entry", len(enc.Splits))
	}
}

func TestEncodeTooManySplits(t *testing.T) {
	var entries []archive.Entry
	for i := 0; i <= MaxSplits; i++ {
		entries = append(entries, archive.Entry{Name: string(rune('a'+i%26)) + string(rune('a'+i/26)), Data: []byte{1}})
	}

	_, err := Encode(entries, mustBuild(t, 0, false, true, 0), testLogger(t))
	if !errors.Is(err, hederr.ErrTooManySplits) {
		t.Fatalf("Encode error = %v, want ErrTooManySplits", err)
	}

	// Exactly MaxSplits entries still fit.
	if _, err := Encode(entries[:MaxSplits], mustBuild(t, 0, false, true, 0), testLogger(t)); err != nil {
		t.Fatalf("Encode with %d splits failed: %v", MaxSplits, err)
	}
}

func TestEncodeRejects(t *testing.T) {
	lw, err := saveopts.Build(saveopts.LostWorld, 0x40, true, true, saveopts.DefaultSplitSize)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := Encode(sampleEntries(), lw, testLogger(t)); !errors.Is(err, hederr.ErrUnsupportedVariant) {
		t.Errorf("Encode(LostWorld) error = %v, want ErrUnsupportedVariant", err)
	}

	dup := []archive.Entry{{Name: "x"}, {Name: "x"}}
	if _, err := Encode(dup, saveopts.Default(), testLogger(t)); !errors.Is(err, hederr.ErrDuplicateEntry) {
		t.Errorf("Encode(duplicates) error = %v, want ErrDuplicateEntry", err)
	}

	long := []archive.Entry{{Name: string(bytes.Repeat([]byte("n"), 300))}}
	if _, err := Encode(long, saveopts.Default(), testLogger(t)); !errors.Is(err, hederr.ErrInvalidName) {
		t.Errorf("Encode(long name with ARL) error = %v, want ErrInvalidName", err)
	}
	if _, err := Encode(long, mustBuild(t, 0x40, false, true, 1024), testLogger(t)); err != nil {
		t.Errorf("Encode(long name without ARL) failed: %v", err)
	}
}

func TestEncodeEmpty(t *testing.T) {
	enc, err := Encode(nil, saveopts.Default(), testLogger(t))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(enc.Splits) != 1 || len(enc.Splits[0]) != HeaderSize {
		t.Fatalf("empty archive should be a single header-only split")
	}
	if got := binary.LittleEndian.Uint32(enc.ARL[4:8]); got != 1 {
		t.Errorf("ARL split count = %d, want 1", got)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	entries := sampleEntries()

	testCases := []struct {
		name      string
		cfg       saveopts.Config
		wantFiles []string
		loadFrom  string
	}{
		{
			name:      "single_with_arl",
			cfg:       mustBuild(t, 0x40, true, false, 0),
			wantFiles: []string{"single_with_arl.ar", "single_with_arl.arl"},
			loadFrom:  "single_with_arl.arl",
		},
		{
			name:      "split_with_arl",
			cfg:       mustBuild(t, 0x40, true, true, 200),
			wantFiles: []string{"split_with_arl.ar.00", "split_with_arl.ar.01", "split_with_arl.arl"},
			loadFrom:  "split_with_arl.arl",
		},
		{
			name:      "split_no_arl",
			cfg:       mustBuild(t, 0x40, false, true, 200),
			wantFiles: []string{"split_no_arl.ar.00", "split_no_arl.ar.01"},
			loadFrom:  "split_no_arl.ar",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Save(entries, tc.cfg, filepath.Join(dir, tc.name+".ar"), testLogger(t))
			if err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if res.Entries != len(entries) {
				t.Errorf("Entries = %d, want %d", res.Entries, len(entries))
			}

			for _, f := range tc.wantFiles {
				if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
					t.Errorf("expected %s: %v", f, err)
				}
			}

			got, err := Load(filepath.Join(dir, tc.loadFrom), true, testLogger(t))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff(entries, got); diff != "" {
				t.Errorf("entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveOverwritesPreviousArchive(t *testing.T) {
	dir := t.TempDir()
	stem := filepath.Join(dir, "stage")

	three := []archive.Entry{
		{Name: "a", Data: make([]byte, 64)},
		{Name: "b", Data: make([]byte, 64)},
		{Name: "c", Data: make([]byte, 64)},
	}
	one := []archive.Entry{{Name: "z", Data: []byte("z")}}

	names := func(es []archive.Entry) []string {
		var out []string
		for _, e := range es {
			out = append(out, e.Name)
		}
		return out
	}

	testCases := []struct {
		name     string
		second   saveopts.Config
		loadFrom string
		gone     []string
	}{
		{
			name:     "fewer_splits",
			second:   mustBuild(t, 0x10, true, true, 100),
			loadFrom: ".arl",
			gone:     []string{".ar.01", ".ar.02", ".ar"},
		},
		{
			name:     "split_to_single",
			second:   mustBuild(t, 0x10, true, false, 0),
			loadFrom: ".arl",
			gone:     []string{".ar.00", ".ar.01", ".ar.02"},
		},
		{
			name:     "arl_dropped",
			second:   mustBuild(t, 0x10, false, true, 100),
			loadFrom: ".ar",
			gone:     []string{".arl", ".ar.01", ".ar.02"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Save(three, mustBuild(t, 0x10, true, true, 100), stem, testLogger(t)); err != nil {
				t.Fatalf("first Save failed: %v", err)
			}
			if _, err := Save(one, tc.second, stem, testLogger(t)); err != nil {
				t.Fatalf("second Save failed: %v", err)
			}

			for _, ext := range tc.gone {
				if _, err := os.Stat(stem + ext); !os.IsNotExist(err) {
					t.Errorf("%s left behind by the earlier save", ext)
				}
			}

			got, err := Load(stem+tc.loadFrom, true, testLogger(t))
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if diff := cmp.Diff([]string{"z"}, names(got)); diff != "" {
				t.Errorf("reloaded entries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveKeepsDottedNames(t *testing.T) {
	dir := t.TempDir()
	res, err := Save(sampleEntries(), mustBuild(t, 0x40, false, true, 1<<20), filepath.Join(dir, "release.2024.05"), testLogger(t))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	want := []string{filepath.Join(dir, "release.2024.05.ar.00")}
	if diff := cmp.Diff(want, res.ARPaths); diff != "" {
		t.Errorf("ARPaths mismatch (-want +got):\n%s", diff)
	}
}
