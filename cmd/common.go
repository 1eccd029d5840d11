package cmd

import (
	"fmt"
	"path/filepath"

	"beakermatrix/internal/config"
	"beakermatrix/internal/formatting"
	"beakermatrix/pkg/logging"

	"github.com/spf13/cobra"
)

// loadBaseConfig loads the user configuration selected by --config-path.
func loadBaseConfig() (config.Config, error) {
	path := configPath
	if path == "" {
		defaultPath, err := config.GetDefaultConfigPath()
		if err != nil {
			logging.Debug("Config", "Using built-in defaults: %v", err)
			return config.GetDefaultConfig(), nil
		}
		path = defaultPath
	}
	return config.LoadConfig(path)
}

// loadComponentConfig loads the configuration effective for the component
// in dir.
func loadComponentConfig(dir string) (config.Config, error) {
	base, err := loadBaseConfig()
	if err != nil {
		return config.Config{}, err
	}
	return config.ForComponent(base, dir)
}

// newFormatter creates the formatter selected by --output, falling back to
// the configured format.
func newFormatter(cmd *cobra.Command, cfg config.Config) (formatting.Formatter, error) {
	format := outputFormat
	if format == "" {
		format = cfg.Output
	}
	return formatting.New(formatting.Options{
		Format:   formatting.OutputFormat(format),
		Quiet:    quiet,
		Template: outputTemplate,
	}, cmd.OutOrStdout())
}

// componentDirArg returns the component directory named by args, or the
// working directory.
func componentDirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	return abs, nil
}

func warningStrings[W fmt.Stringer](warnings []W) []string {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
