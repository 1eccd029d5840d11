// Package formatting renders discovery results, matrices and reconciliation
// reports in the output formats of the command line: rich tables, plain
// console tables, JSON, YAML and user-supplied templates.
package formatting

import (
	"fmt"
	"io"

	"beakermatrix/internal/suites"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"  // Plain kubectl-style tables
	FormatJSON     OutputFormat = "json"     // JSON output
	FormatYAML     OutputFormat = "yaml"     // YAML output
	FormatTable    OutputFormat = "table"    // Rich table output
	FormatTemplate OutputFormat = "template" // text/template with sprig functions
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements

	// Template is the template source used by FormatTemplate.
	Template string
}

// Formatter renders beakermatrix results to a writer.
type Formatter interface {
	FormatSuites(info *suites.ComponentTestInfo) error
	FormatMatrix(view MatrixView) error
	FormatReports(run Run) error
}

// New creates the formatter for options.Format writing to w.
func New(options Options, w io.Writer) (Formatter, error) {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options, w), nil
	case FormatYAML:
		return NewYAMLFormatter(options, w), nil
	case FormatTemplate:
		return NewTemplateFormatter(options, w)
	case FormatConsole:
		return NewConsoleFormatter(options, w), nil
	case FormatTable, "":
		return NewTableFormatter(options, w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", options.Format)
	}
}
