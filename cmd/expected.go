package cmd

import (
	"beakermatrix/internal/check"
	"beakermatrix/internal/formatting"
	"beakermatrix/internal/matrix"

	"github.com/spf13/cobra"
)

var (
	expectedVersions  []string
	expectedFIPSSplit bool
)

func newExpectedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expected [DIR]",
		Short: "Print the acceptance matrix a component could run",
		Long: `Expand the discovered suites and nodesets of the component in DIR into every
suite, nodeset, platform version and security mode permutation.

Platform versions come from --platform-version, then from the configuration,
then from the versions the component's pipeline already uses.

Examples:
  beakermatrix expected
  beakermatrix expected ../pupmod-simp-foo --platform-version 7,8
  beakermatrix expected --fips-split=false -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runExpected,
	}

	cmd.Flags().StringSliceVar(&expectedVersions, "platform-version", nil, "Platform versions to expand (repeatable or comma separated)")
	cmd.Flags().BoolVar(&expectedFIPSSplit, "fips-split", true, "Expand every permutation with FIPS enabled and disabled")
	return cmd
}

func runExpected(cmd *cobra.Command, args []string) error {
	dir, err := componentDirArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadComponentConfig(dir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("platform-version") {
		cfg.PlatformVersions = expectedVersions
	}
	if cmd.Flags().Changed("fips-split") {
		cfg.FIPSSplit = &expectedFIPSSplit
	}
	f, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	info, err := check.Discover(dir, cfg)
	if err != nil {
		return err
	}

	versions := cfg.PlatformVersions
	if len(versions) == 0 {
		actual, err := check.Actual(info, cfg)
		if err != nil {
			return err
		}
		versions = check.Versions(cfg, actual)
	}

	return f.FormatMatrix(formatting.MatrixView{
		Component:        info.Component,
		PlatformVersions: versions,
		Entries:          matrix.Expand(info, versions, cfg.FIPSSplitEnabled()),
		Warnings:         warningStrings(info.Warnings),
	})
}
