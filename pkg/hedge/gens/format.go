// Package gens reads and writes Sonic Generations/Unleashed archives: one or
// more .ar splits plus an optional .arl file listing their contents.
package gens

import (
	"encoding/binary"
	"fmt"

	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
)

const (
	// File extensions
	ARExt  = ".ar"
	ARLExt = ".arl"
	PFDExt = ".pfd"

	HeaderSize      = 0x10 // Archive header
	EntryHeaderSize = 0x14 // File entry header, before the name

	MaxSplits     = 100 // Two-digit split suffixes
	MaxARLNameLen = 0xFF
)

// ARLMagic opens every .arl file.
var ARLMagic = []byte("ARL2")

// Header is the 16-byte header at the start of every split.
type Header struct {
	Unknown1        uint32 // Always zero
	HeaderSize      uint32 // Always HeaderSize
	EntryHeaderSize uint32 // Always EntryHeaderSize
	PadAmount       uint32 // Alignment of entry data
}

func newHeader(padAmount uint32) Header {
	return Header{
		HeaderSize:      HeaderSize,
		EntryHeaderSize: EntryHeaderSize,
		PadAmount:       padAmount,
	}
}

// Pack serializes the header to exactly HeaderSize bytes.
func (h Header) Pack() []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], h.Unknown1)
	binary.LittleEndian.PutUint32(buf[4:8], h.HeaderSize)
	binary.LittleEndian.PutUint32(buf[8:12], h.EntryHeaderSize)
	binary.LittleEndian.PutUint32(buf[12:16], h.PadAmount)
	return buf
}

// UnpackHeader parses the header at the start of data.
func UnpackHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: need %d bytes, got %d", hederr.ErrInvalidHeader, HeaderSize, len(data))
	}
	h := Header{
		Unknown1:        binary.LittleEndian.Uint32(data[0:4]),
		HeaderSize:      binary.LittleEndian.Uint32(data[4:8]),
		EntryHeaderSize: binary.LittleEndian.Uint32(data[8:12]),
		PadAmount:       binary.LittleEndian.Uint32(data[12:16]),
	}
	if h.HeaderSize != HeaderSize || h.EntryHeaderSize != EntryHeaderSize {
		return Header{}, fmt.Errorf("%w: header size 0x%x, entry size 0x%x",
			hederr.ErrInvalidHeader, h.HeaderSize, h.EntryHeaderSize)
	}
	return h, nil
}

// FileEntry is the fixed part of each file record. The NUL-terminated name
// follows it, then padding, then DataSize bytes of data.
type FileEntry struct {
	EntrySize  uint32 // Whole record, header to end of data
	DataSize   uint32
	DataOffset uint32 // Relative to the start of the record
	Unknown1   uint32
	Unknown2   uint32
}

// Pack serializes the entry header to exactly EntryHeaderSize bytes.
func (e FileEntry) Pack() []byte {
	buf := make([]byte, EntryHeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], e.EntrySize)
	binary.LittleEndian.PutUint32(buf[4:8], e.DataSize)
	binary.LittleEndian.PutUint32(buf[8:12], e.DataOffset)
	binary.LittleEndian.PutUint32(buf[12:16], e.Unknown1)
	binary.LittleEndian.PutUint32(buf[16:20], e.Unknown2)
	return buf
}

// UnpackFileEntry parses an entry header.
func UnpackFileEntry(data []byte) (FileEntry, error) {
	if len(data) < EntryHeaderSize {
		return FileEntry{}, fmt.Errorf("%w: need %d header bytes, got %d", hederr.ErrTruncatedEntry, EntryHeaderSize, len(data))
	}
	return FileEntry{
		EntrySize:  binary.LittleEndian.Uint32(data[0:4]),
		DataSize:   binary.LittleEndian.Uint32(data[4:8]),
		DataOffset: binary.LittleEndian.Uint32(data[8:12]),
		Unknown1:   binary.LittleEndian.Uint32(data[12:16]),
		Unknown2:   binary.LittleEndian.Uint32(data[16:20]),
	}, nil
}

// padLen returns how many zero bytes bring pos up to a multiple of stride.
// Strides below 2 never pad.
func padLen(pos uint64, stride uint32) uint64 {
	if stride < 2 {
		return 0
	}
	s := uint64(stride)
	if s&(s-1) == 0 {
		return ((pos + s - 1) &^ (s - 1)) - pos
	}
	return (s - pos%s) % s
}
