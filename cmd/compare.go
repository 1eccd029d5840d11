package cmd

import (
	"fmt"
	"time"

	"beakermatrix/internal/check"
	"beakermatrix/internal/component"
	"beakermatrix/internal/formatting"
	"beakermatrix/internal/reconcile"
	"beakermatrix/pkg/logging"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	compareAll          bool
	compareFailOnAbsent bool
	compareParallel     int
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [DIR...]",
		Short: "Compare expected and actual acceptance matrices",
		Long: `Reconcile the acceptance matrix each component could run with the one its
pipeline declares. Every expected permutation is reported as present,
present-via-default-job or absent; pipeline entries matching nothing are
listed as unexpected.

With --all, each DIR is a parent directory whose SIMP components (Puppet
modules named simp-* or packages with a single build/*.spec) are compared.

Examples:
  beakermatrix compare
  beakermatrix compare --all ~/src/simp-core/src/puppet/modules --fail-on-absent
  beakermatrix compare a b c -o json`,
		RunE: runCompare,
	}

	cmd.Flags().BoolVar(&compareAll, "all", false, "Treat each DIR as a parent directory and compare every component in it")
	cmd.Flags().BoolVar(&compareFailOnAbsent, "fail-on-absent", false, "Exit with code 2 when expected permutations are absent")
	cmd.Flags().IntVar(&compareParallel, "parallel", 0, "Number of components compared at once (default from configuration)")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	base, err := loadBaseConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("parallel") {
		if compareParallel < 1 {
			return fmt.Errorf("--parallel must be at least 1")
		}
		base.Parallel = compareParallel
	}
	f, err := newFormatter(cmd, base)
	if err != nil {
		return err
	}

	dirs, err := compareDirs(args)
	if err != nil {
		return err
	}
	if len(dirs) == 0 {
		return fmt.Errorf("no components found")
	}

	var s *spinner.Spinner
	if !quiet && len(dirs) > 1 {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
		s.Suffix = fmt.Sprintf(" Comparing %d components...", len(dirs))
		s.Start()
	}

	outcomes, err := check.Components(cmd.Context(), dirs, base, func(done, total int, name string) {
		logging.Debug("Reconcile", "Compared %s (%d/%d)", name, done, total)
		if s != nil {
			s.Lock()
			s.Suffix = fmt.Sprintf(" Compared %d/%d components (%s)", done, total, name)
			s.Unlock()
		}
	})

	if s != nil {
		s.Stop()
	}
	if err != nil {
		return err
	}

	reports := make([]reconcile.Report, 0, len(outcomes))
	for _, o := range outcomes {
		reports = append(reports, o.Report)
	}
	run := formatting.NewRun(reports)
	if err := f.FormatReports(run); err != nil {
		return err
	}

	if compareFailOnAbsent && run.HasGaps() {
		return &CoverageGapsError{Components: run.ComponentsWithGaps(), Total: len(run.Reports)}
	}
	return nil
}

// compareDirs resolves the component directories named by args.
func compareDirs(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var dirs []string
	for _, arg := range args {
		dir, err := componentDirArg([]string{arg})
		if err != nil {
			return nil, err
		}
		if !compareAll {
			dirs = append(dirs, dir)
			continue
		}

		found, err := component.Scan(dir)
		if err != nil {
			return nil, err
		}
		for _, c := range found {
			dirs = append(dirs, c.Dir)
		}
	}
	return dirs, nil
}
