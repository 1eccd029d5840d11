package formatting

import (
	"fmt"
	"io"

	"beakermatrix/internal/suites"

	"sigs.k8s.io/yaml"
)

// YAMLFormatter provides YAML output formatting. Documents follow the JSON
// field names of the formatted values.
type YAMLFormatter struct {
	options Options
	out     io.Writer
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options, out io.Writer) Formatter {
	return &YAMLFormatter{
		options: options,
		out:     out,
	}
}

func (f *YAMLFormatter) FormatSuites(info *suites.ComponentTestInfo) error {
	return f.write(info)
}

func (f *YAMLFormatter) FormatMatrix(view MatrixView) error {
	return f.write(view)
}

func (f *YAMLFormatter) FormatReports(run Run) error {
	return f.write(run)
}

func (f *YAMLFormatter) write(data interface{}) error {
	b, err := yaml.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = f.out.Write(b)
	return err
}
