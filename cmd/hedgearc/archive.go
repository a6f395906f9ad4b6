package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hedge-dev/hedgearc/pkg"
)

func newPackCmd() *cobra.Command {
	var flags saveFlags

	cmd := &cobra.Command{
		Use:   "pack <source> <output>",
		Short: "Pack a directory, tar bundle or existing archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}

			logger := newLogger()
			logger.Info("🦔 hedgearc pack", "version", version)

			result, err := pkg.PackArchive(args[0], args[1], cfg, logger)
			if err != nil {
				return err
			}
			for _, p := range result.ARPaths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			if result.ARLPath != "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.ARLPath)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newUnpackCmd() *cobra.Command {
	var singleSplit bool

	cmd := &cobra.Command{
		Use:   "unpack <archive> <output>",
		Short: "Extract an archive to a directory or tar bundle",
		Long:  `Extract an archive. An output ending in .tar, .tar.gz, .tgz, .tar.bz2, .tbz2 or .tar.lz4 is written as a bundle, anything else as a directory.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pkg.UnpackArchive(args[0], args[1], !singleSplit, newLogger())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries -> %s\n", result.Entries, result.Output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&singleSplit, "single-split", false, "Read only the given file instead of every split")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <archive>",
		Short: "Check every split and the archive list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := pkg.VerifyArchive(args[0], newLogger())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "splits: %d, entries: %d, arl checked: %v\n", len(report.Splits), report.Entries, report.ARLChecked)
			if !report.OK() {
				for _, p := range report.Problems {
					fmt.Fprintf(out, "  ❌ %s\n", p)
				}
				return fmt.Errorf("verification failed: %s", strings.Join(report.Problems, "; "))
			}
			fmt.Fprintln(out, "✅ archive OK")
			return nil
		},
	}
}
