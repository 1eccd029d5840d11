package config

const (
	// DefaultPipelineFile is the GitLab CI file at the root of a component.
	DefaultPipelineFile = ".gitlab-ci.yml"

	// DefaultAcceptanceStage is the stage name used by SIMP pipelines.
	DefaultAcceptanceStage = "acceptance"

	// DefaultParallel is the number of components checked at once.
	DefaultParallel = 4
)

// GetDefaultConfig returns the default configuration.
func GetDefaultConfig() Config {
	fipsSplit := true
	return Config{
		PipelineFile:    DefaultPipelineFile,
		AcceptanceStage: DefaultAcceptanceStage,
		FIPSSplit:       &fipsSplit,
		SuitesDir:       "spec/acceptance/suites",
		NodesetsDir:     "spec/acceptance/nodesets",
		Output:          OutputTable,
		Parallel:        DefaultParallel,
	}
}
