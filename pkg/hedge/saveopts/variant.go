package saveopts

import (
	"fmt"
	"strings"

	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
)

// Variant identifies the game-engine archive format family to save as.
type Variant uint8

const (
	GenerationsUnleashed Variant = iota // .ar/.arl (Sonic Generations, Sonic Unleashed)
	LostWorld                           // .pac (Sonic Lost World)
	StoryBooks                          // .one (Secret Rings, Black Knight)
	HeroesShadow                        // .one (Sonic Heroes, Shadow the Hedgehog)

	variantCount
)

var variantNames = [variantCount]string{
	"Generations/Unleashed",
	"Lost World",
	"Story Books",
	"Heroes/Shadow",
}

var variantKeys = [variantCount]string{
	"gens",
	"lostworld",
	"storybooks",
	"heroes",
}

// Variants returns all variants in dropdown order.
func Variants() []Variant {
	out := make([]Variant, 0, variantCount)
	for v := Variant(0); v < variantCount; v++ {
		out = append(out, v)
	}
	return out
}

// Valid reports whether v is one of the enumerated variants.
func (v Variant) Valid() bool {
	return v < variantCount
}

// String returns the display name.
func (v Variant) String() string {
	if !v.Valid() {
		return fmt.Sprintf("Variant(%d)", uint8(v))
	}
	return variantNames[v]
}

// Key returns the short command-line name.
func (v Variant) Key() string {
	if !v.Valid() {
		return ""
	}
	return variantKeys[v]
}

// ParseVariant accepts a display name or key, case-insensitively.
func ParseVariant(s string) (Variant, error) {
	needle := strings.TrimSpace(s)
	for v := Variant(0); v < variantCount; v++ {
		if strings.EqualFold(needle, variantNames[v]) || strings.EqualFold(needle, variantKeys[v]) {
			return v, nil
		}
	}
	return 0, &ValidationError{Field: "variant", Value: s, Err: hederr.ErrInvalidVariant}
}

// VariantFromIndex maps a dropdown selection index to a variant.
func VariantFromIndex(i int) (Variant, error) {
	if i < 0 || i >= int(variantCount) {
		return 0, &ValidationError{Field: "variant", Value: i, Err: hederr.ErrInvalidVariant}
	}
	return Variant(i), nil
}

// MarshalText renders the key so variants round-trip through JSON and flags.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, &ValidationError{Field: "variant", Value: uint8(v), Err: hederr.ErrInvalidVariant}
	}
	return []byte(v.Key()), nil
}

// UnmarshalText parses a key or display name.
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
