package gens

import (
	"bytes"
	"encoding/binary"
	"fmt"

	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
)

// ARL lists the size of every split and the name of every entry across them.
type ARL struct {
	SplitSizes []uint32
	Names      []string
}

// Pack serializes the list.
func (a *ARL) Pack() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(ARLMagic)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], uint32(len(a.SplitSizes)))
	buf.Write(u32[:])
	for _, size := range a.SplitSizes {
		binary.LittleEndian.PutUint32(u32[:], size)
		buf.Write(u32[:])
	}

	for _, name := range a.Names {
		if len(name) > MaxARLNameLen {
			return nil, fmt.Errorf("%w: %q is longer than %d bytes", hederr.ErrInvalidName, name, MaxARLNameLen)
		}
		buf.WriteByte(byte(len(name)))
		buf.WriteString(name)
	}

	return buf.Bytes(), nil
}

// ReadARL parses an .arl file.
func ReadARL(data []byte) (*ARL, error) {
	if len(data) < 8 || !bytes.Equal(data[:4], ARLMagic) {
		return nil, fmt.Errorf("%w: bad magic", hederr.ErrInvalidARL)
	}

	count := binary.LittleEndian.Uint32(data[4:8])
	pos := 8
	if uint64(len(data)-pos) < uint64(count)*4 {
		return nil, fmt.Errorf("%w: %d split sizes do not fit in %d bytes", hederr.ErrInvalidARL, count, len(data))
	}

	a := &ARL{SplitSizes: make([]uint32, count)}
	for i := range a.SplitSizes {
		a.SplitSizes[i] = binary.LittleEndian.Uint32(data[pos : pos+4])
		pos += 4
	}

	for pos < len(data) {
		n := int(data[pos])
		pos++
		if pos+n > len(data) {
			return nil, fmt.Errorf("%w: name at offset %d runs past end of file", hederr.ErrInvalidARL, pos-1)
		}
		a.Names = append(a.Names, string(data[pos:pos+n]))
		pos += n
	}

	return a, nil
}
