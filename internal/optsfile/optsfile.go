// Package optsfile loads save option presets and environment overrides.
package optsfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	hederr "github.com/hedge-dev/hedgearc/pkg/hedge/errors"
	"github.com/hedge-dev/hedgearc/pkg/hedge/saveopts"
	"github.com/hedge-dev/hedgearc/pkg/logging"
)

// Environment variables read by FromEnv
const (
	EnvVariant     = "HEDGEARC_VARIANT"
	EnvPadding     = "HEDGEARC_PADDING"
	EnvGenerateARL = "HEDGEARC_GENERATE_ARL"
	EnvSplit       = "HEDGEARC_SPLIT"
	EnvSplitSize   = "HEDGEARC_SPLIT_SIZE"
)

// Preset is a partial set of options. Unset fields leave the value beneath
// them untouched.
type Preset struct {
	Variant     *string `json:"variant,omitempty"`
	Padding     *uint64 `json:"padding,omitempty"`
	GenerateARL *bool   `json:"generate_arl,omitempty"`
	Split       *bool   `json:"split,omitempty"`
	SplitSize   *uint64 `json:"split_size,omitempty"`
}

// Apply overlays the set fields of p onto in.
func (p *Preset) Apply(in *saveopts.Input) {
	if p == nil {
		return
	}
	if p.Variant != nil {
		in.Variant = *p.Variant
	}
	if p.Padding != nil {
		in.Padding = *p.Padding
	}
	if p.GenerateARL != nil {
		in.GenerateIndex = *p.GenerateARL
	}
	if p.Split != nil {
		in.Split = *p.Split
	}
	if p.SplitSize != nil {
		in.SplitSize = *p.SplitSize
	}
}

// Load reads a preset file.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preset: %w", err)
	}

	var p Preset
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing preset %s: %w", path, err)
	}
	return &p, nil
}

// Save writes cfg as a complete preset.
func Save(path string, cfg saveopts.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// FromEnv builds a preset from the HEDGEARC_* variables that are set.
func FromEnv() (*Preset, error) {
	p := &Preset{}

	if v := os.Getenv(EnvVariant); v != "" {
		p.Variant = &v
	}

	var err error
	if p.Padding, err = envUint(EnvPadding); err != nil {
		return nil, err
	}
	if p.SplitSize, err = envUint(EnvSplitSize); err != nil {
		return nil, err
	}
	if p.GenerateARL, err = envBool(EnvGenerateARL); err != nil {
		return nil, err
	}
	if p.Split, err = envBool(EnvSplit); err != nil {
		return nil, err
	}

	return p, nil
}

// ParseUint accepts decimal, 0x hex, 0o octal and 0b binary.
func ParseUint(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %s", hederr.ErrOutOfRange, s)
	}
	return n, err
}

func envUint(key string) (*uint64, error) {
	val := os.Getenv(key)
	if val == "" {
		return nil, nil
	}
	n, err := ParseUint(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &n, nil
}

// envBool accepts on/off and yes/no besides strconv.ParseBool's forms.
func envBool(key string) (*bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return nil, nil
	}

	var b bool
	switch strings.ToLower(val) {
	case "on", "yes":
		b = true
	case "off", "no":
		b = false
	default:
		parsed, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", key, val)
		}
		b = parsed
	}
	return &b, nil
}

// Resolve layers defaults, the preset file (if any), the environment and
// finally flags, then validates the result.
func Resolve(presetPath string, flags *Preset, logger hclog.Logger) (saveopts.Config, error) {
	logger = logging.OrNull(logger)

	in := saveopts.DefaultInput()

	if presetPath != "" {
		preset, err := Load(presetPath)
		if err != nil {
			return saveopts.Config{}, err
		}
		preset.Apply(&in)
		logger.Debug("⚙️ Applied preset", "path", presetPath)
	}

	env, err := FromEnv()
	if err != nil {
		return saveopts.Config{}, err
	}
	env.Apply(&in)
	flags.Apply(&in)

	cfg, err := in.Build()
	if err != nil {
		return saveopts.Config{}, err
	}

	if !cfg.PaddingIsPowerOfTwo() {
		logger.Warn("⚠️ Padding is not a power of two", "padding", cfg.Padding())
	}
	logger.Debug("⚙️ Resolved save options",
		"variant", cfg.Variant().String(),
		"padding", cfg.Padding(),
		"arl", cfg.GenerateIndex(),
		"split", cfg.Split(),
		"split_size", cfg.SplitSize(),
	)
	return cfg, nil
}
