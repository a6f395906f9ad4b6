package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hedge-dev/hedgearc/internal/optsfile"
	"github.com/hedge-dev/hedgearc/pkg/hedge/saveopts"
)

// saveFlags are the command-line forms of the save dialog's controls.
type saveFlags struct {
	preset      string
	variant     string
	padding     string
	generateARL bool
	split       bool
	splitSize   string
}

func (f *saveFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.preset, "preset", "", "JSON preset with save options")
	fs.StringVar(&f.variant, "variant", "", "Archive type (gens, lostworld, storybooks, heroes)")
	fs.StringVar(&f.padding, "padding", "", fmt.Sprintf("Entry data alignment in bytes (default %#x)", saveopts.DefaultPadding))
	fs.BoolVar(&f.generateARL, "arl", saveopts.DefaultGenerateIndex, "Generate an .arl file")
	fs.BoolVar(&f.split, "split", saveopts.DefaultSplit, "Split output into multiple files")
	fs.StringVar(&f.splitSize, "split-size", "", fmt.Sprintf("Split size in bytes (default %d)", saveopts.DefaultSplitSize))
}

// overrides returns a preset holding only the flags the user set.
func (f *saveFlags) overrides(cmd *cobra.Command) (*optsfile.Preset, error) {
	p := &optsfile.Preset{}
	fs := cmd.Flags()

	if fs.Changed("variant") {
		p.Variant = &f.variant
	}
	if fs.Changed("padding") {
		n, err := optsfile.ParseUint(f.padding)
		if err != nil {
			return nil, fmt.Errorf("--padding: %w", err)
		}
		p.Padding = &n
	}
	if fs.Changed("arl") {
		p.GenerateARL = &f.generateARL
	}
	if fs.Changed("split") {
		p.Split = &f.split
	}
	if fs.Changed("split-size") {
		n, err := optsfile.ParseUint(f.splitSize)
		if err != nil {
			return nil, fmt.Errorf("--split-size: %w", err)
		}
		p.SplitSize = &n
	}
	return p, nil
}

func (f *saveFlags) resolve(cmd *cobra.Command) (saveopts.Config, error) {
	p, err := f.overrides(cmd)
	if err != nil {
		return saveopts.Config{}, err
	}
	return optsfile.Resolve(f.preset, p, newLogger())
}

func newOptionsCmd() *cobra.Command {
	var flags saveFlags
	var writePath string

	cmd := &cobra.Command{
		Use:   "options",
		Short: "Print the resolved save options",
		Long:  `Resolve defaults, preset, HEDGEARC_* environment variables and flags, validate them, and print the result as JSON.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			if writePath != "" {
				if err := optsfile.Save(writePath, cfg); err != nil {
					return fmt.Errorf("writing preset: %w", err)
				}
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&writePath, "write", "", "Also save the resolved options as a preset")
	return cmd
}
