package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"beakermatrix/internal/suites"
)

// JSONFormatter provides JSON output formatting
type JSONFormatter struct {
	options Options
	out     io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options, out io.Writer) Formatter {
	return &JSONFormatter{
		options: options,
		out:     out,
	}
}

func (f *JSONFormatter) FormatSuites(info *suites.ComponentTestInfo) error {
	return f.write(info)
}

func (f *JSONFormatter) FormatMatrix(view MatrixView) error {
	return f.write(view)
}

func (f *JSONFormatter) FormatReports(run Run) error {
	return f.write(run)
}

// write encodes data, compact in quiet mode and indented otherwise
func (f *JSONFormatter) write(data interface{}) error {
	var (
		b   []byte
		err error
	)
	if f.options.Quiet {
		b, err = json.Marshal(data)
	} else {
		b, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to format JSON: %w", err)
	}
	_, err = fmt.Fprintln(f.out, string(b))
	return err
}
