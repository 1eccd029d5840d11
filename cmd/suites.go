package cmd

import (
	"beakermatrix/internal/check"

	"github.com/spf13/cobra"
)

func newSuitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suites [DIR]",
		Short: "List the acceptance suites and nodesets of a component",
		Long: `List the acceptance test suites of the component in DIR (default: the
current directory) together with the nodesets each suite can run on.
Aliased nodesets are shown as alias->target.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSuites,
	}
}

func runSuites(cmd *cobra.Command, args []string) error {
	dir, err := componentDirArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadComponentConfig(dir)
	if err != nil {
		return err
	}
	f, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	info, err := check.Discover(dir, cfg)
	if err != nil {
		return err
	}
	return f.FormatSuites(info)
}
