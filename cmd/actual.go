package cmd

import (
	"beakermatrix/internal/check"
	"beakermatrix/internal/formatting"

	"github.com/spf13/cobra"
)

var (
	actualPipeline string
	actualStage    string
)

func newActualCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actual [DIR]",
		Short: "Print the acceptance matrix a component's pipeline runs",
		Long: `Extract the acceptance matrix declared by the GitLab CI pipeline of the
component in DIR. Every acceptance job invoking beaker:suites contributes
one entry per invocation. Problems found in the pipeline are reported as
warnings below the matrix.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runActual,
	}

	cmd.Flags().StringVar(&actualPipeline, "pipeline", "", "Pipeline file relative to DIR (default from configuration)")
	cmd.Flags().StringVar(&actualStage, "stage", "", "Stage of acceptance jobs (default from configuration)")
	return cmd
}

func runActual(cmd *cobra.Command, args []string) error {
	dir, err := componentDirArg(args)
	if err != nil {
		return err
	}
	cfg, err := loadComponentConfig(dir)
	if err != nil {
		return err
	}
	if actualPipeline != "" {
		cfg.PipelineFile = actualPipeline
	}
	if actualStage != "" {
		cfg.AcceptanceStage = actualStage
	}
	f, err := newFormatter(cmd, cfg)
	if err != nil {
		return err
	}

	info, err := check.Discover(dir, cfg)
	if err != nil {
		return err
	}
	result, err := check.Actual(info, cfg)
	if err != nil {
		return err
	}

	return f.FormatMatrix(formatting.MatrixView{
		Component:        info.Component,
		PlatformVersions: result.PlatformVersions,
		Entries:          result.Entries,
		Warnings:         warningStrings(result.Warnings),
	})
}
