// Package saveopts holds the validated options an archive is saved with.
//
// A Config is a snapshot taken when the user confirms their choices. It is
// built once, handed to an archive writer, and never changes afterwards.
package saveopts

import (
	"encoding/json"
	"math"
	"math/bits"

	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
)

const (
	DefaultVariant       = GenerationsUnleashed
	DefaultPadding       = 0x40
	DefaultGenerateIndex = true
	DefaultSplit         = true
	DefaultSplitSize     = 10 * 1024 * 1024 // 10 MiB
)

// Config is an immutable, validated set of save options.
type Config struct {
	variant       Variant
	padding       uint32
	generateIndex bool
	split         bool
	splitSize     uint32
}

// Build validates the raw option values and returns a Config.
//
// splitSize is stored even when split is false; writers ignore it then.
func Build(variant Variant, padding uint64, generateIndex, split bool, splitSize uint64) (Config, error) {
	if !variant.Valid() {
		return Config{}, &ValidationError{Field: "variant", Value: uint8(variant), Err: hederr.ErrInvalidVariant}
	}
	if padding > math.MaxUint32 {
		return Config{}, &ValidationError{Field: "padding", Value: padding, Err: hederr.ErrOutOfRange}
	}
	if splitSize > math.MaxUint32 {
		return Config{}, &ValidationError{Field: "split_size", Value: splitSize, Err: hederr.ErrOutOfRange}
	}

	return Config{
		variant:       variant,
		padding:       uint32(padding),
		generateIndex: generateIndex,
		split:         split,
		splitSize:     uint32(splitSize),
	}, nil
}

// Default returns the options the save dialog starts with.
func Default() Config {
	return Config{
		variant:       DefaultVariant,
		padding:       DefaultPadding,
		generateIndex: DefaultGenerateIndex,
		split:         DefaultSplit,
		splitSize:     DefaultSplitSize,
	}
}

func (c Config) Variant() Variant { return c.variant }
func (c Config) Padding() uint32 { return c.padding }
func (c Config) GenerateIndex() bool { return c.generateIndex }
func (c Config) Split() bool { return c.split }
func (c Config) SplitSize() uint32 { return c.splitSize }

// SplitLimit is the threshold writers split at. Zero with ok == false means
// output goes to a single file.
func (c Config) SplitLimit() (limit uint32, ok bool) {
	if !c.split {
		return 0, false
	}
	return c.splitSize, true
}

// PaddingIsPowerOfTwo reports whether padding follows the recommended shape.
// Zero counts, since it disables padding.
func (c Config) PaddingIsPowerOfTwo() bool {
	return c.padding == 0 || bits.OnesCount32(c.padding) == 1
}

// Input returns the raw values c was built from.
func (c Config) Input() Input {
	return Input{
		Variant:       c.variant.Key(),
		Padding:       uint64(c.padding),
		GenerateIndex: c.generateIndex,
		Split:         c.split,
		SplitSize:     uint64(c.splitSize),
	}
}

// MarshalJSON renders the options using the preset file layout.
func (c Config) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Input())
}
