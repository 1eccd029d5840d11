package config

// Config is the top-level configuration structure for beakermatrix.
type Config struct {
	// PipelineFile is the pipeline specification, relative to a component.
	PipelineFile string `yaml:"pipelineFile,omitempty"`

	// AcceptanceStage is the pipeline stage of acceptance-test jobs.
	AcceptanceStage string `yaml:"acceptanceStage,omitempty"`

	// PlatformVersions, when set, replaces the versions found in the
	// pipeline as the version axis of the expected matrix.
	PlatformVersions []string `yaml:"platformVersions,omitempty"`

	// FIPSSplit adds a FIPS-enabled twin to every expected entry.
	FIPSSplit *bool `yaml:"fipsSplit,omitempty"`

	// SuitesDir and NodesetsDir override the acceptance layout, relative to
	// a component.
	SuitesDir   string `yaml:"suitesDir,omitempty"`
	NodesetsDir string `yaml:"nodesetsDir,omitempty"`

	// Output is the default output format.
	Output string `yaml:"output,omitempty"`

	// Parallel bounds the number of components checked concurrently.
	Parallel int `yaml:"parallel,omitempty"`
}

// FIPSSplitEnabled reports the effective FIPS split setting.
func (c Config) FIPSSplitEnabled() bool {
	return c.FIPSSplit == nil || *c.FIPSSplit
}

const (
	OutputTable    = "table"
	OutputConsole  = "console"
	OutputJSON     = "json"
	OutputYAML     = "yaml"
	OutputTemplate = "template"
)

// OutputFormats lists the accepted values of Config.Output.
var OutputFormats = []string{OutputTable, OutputConsole, OutputJSON, OutputYAML, OutputTemplate}
