package check

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"

	"beakermatrix/internal/component"
	"beakermatrix/internal/config"
	"beakermatrix/internal/matrix"
	"beakermatrix/internal/pipeline"
	"beakermatrix/internal/reconcile"
	"beakermatrix/internal/suites"
	"beakermatrix/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// Outcome is everything learned about one component.
type Outcome struct {
	Component string                    `json:"component"`
	Dir       string                    `json:"dir"`
	Info      *suites.ComponentTestInfo `json:"info"`
	Versions  []string                  `json:"platformVersions"`
	Expected  []matrix.Entry            `json:"expected"`
	Actual    pipeline.Result           `json:"actual"`
	Report    reconcile.Report          `json:"report"`
}

// ProgressFunc is called after each component of a multi-component check
// completes. Calls are serialized.
type ProgressFunc func(done, total int, component string)

// Name returns the component name of dir: the simp module name when dir is
// a module, else the directory's base name.
func Name(dir string) string {
	c, ok, err := component.Detect(dir)
	if err != nil {
		logging.Warn("Component", "Cannot identify %s: %v", dir, err)
	}
	if ok {
		return c.Name
	}
	return filepath.Base(filepath.Clean(dir))
}

func discoveryOptions(name string, cfg config.Config) []suites.Option {
	return []suites.Option{
		suites.WithComponent(name),
		suites.WithSuitesDir(cfg.SuitesDir),
		suites.WithNodesetsDir(cfg.NodesetsDir),
	}
}

// Discover runs suite and nodeset discovery on dir with cfg's layout.
func Discover(dir string, cfg config.Config) (*suites.ComponentTestInfo, error) {
	info, err := suites.Discover(dir, discoveryOptions(Name(dir), cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to discover suites of %s: %w", dir, err)
	}
	return info, nil
}

// LoadPipeline reads the pipeline of the component in dir. A missing file
// yields a nil document and no error.
func LoadPipeline(dir string, cfg config.Config) (*pipeline.Document, error) {
	doc, err := pipeline.Load(filepath.Join(dir, cfg.PipelineFile))
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("Pipeline", "No %s in %s", cfg.PipelineFile, dir)
		return nil, nil
	}
	return doc, err
}

// Actual extracts the matrix declared by the pipeline of info's component.
func Actual(info *suites.ComponentTestInfo, cfg config.Config) (pipeline.Result, error) {
	doc, err := LoadPipeline(info.Root, cfg)
	if err != nil {
		return pipeline.Result{}, err
	}
	return pipeline.Extract(doc, info,
		pipeline.WithStage(cfg.AcceptanceStage),
		pipeline.WithDiscoveryOptions(discoveryOptions(info.Component, cfg)...),
	), nil
}

// Versions picks the version axis of the expected matrix: the configured
// versions, else the ones the pipeline uses.
func Versions(cfg config.Config, actual pipeline.Result) []string {
	if len(cfg.PlatformVersions) > 0 {
		return append([]string(nil), cfg.PlatformVersions...)
	}
	return append([]string(nil), actual.PlatformVersions...)
}

// Component checks the component in dir. base is layered with the
// component's own configuration first.
func Component(dir string, base config.Config) (*Outcome, error) {
	cfg, err := config.ForComponent(base, dir)
	if err != nil {
		return nil, err
	}

	info, err := Discover(dir, cfg)
	if err != nil {
		return nil, err
	}
	actual, err := Actual(info, cfg)
	if err != nil {
		return nil, err
	}

	versions := Versions(cfg, actual)
	expected := matrix.Expand(info, versions, cfg.FIPSSplitEnabled())
	report := reconcile.Reconcile(info.Component, expected, actual.Entries)

	logging.Info("Reconcile", "%s: %d expected, %d absent, %d unexpected",
		info.Component, report.Summary.Total, report.Summary.Absent, report.Summary.Unexpected)

	return &Outcome{
		Component: info.Component,
		Dir:       dir,
		Info:      info,
		Versions:  versions,
		Expected:  expected,
		Actual:    actual,
		Report:    report,
	}, nil
}

// Components checks every dir with at most base.Parallel checks running at
// once. Outcomes keep the order of dirs. The first failure cancels the
// remaining checks.
func Components(ctx context.Context, dirs []string, base config.Config, progress ProgressFunc) ([]*Outcome, error) {
	outcomes := make([]*Outcome, len(dirs))

	var mu sync.Mutex
	done := 0

	g, gCtx := errgroup.WithContext(ctx)
	if base.Parallel > 0 {
		g.SetLimit(base.Parallel)
	}

	for i, dir := range dirs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			outcome, err := Component(dir, base)
			if err != nil {
				return fmt.Errorf("%s: %w", dir, err)
			}
			outcomes[i] = outcome

			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(dirs), outcome.Component)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
