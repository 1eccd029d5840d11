package formatting

import (
	"fmt"
	"io"

	"beakermatrix/internal/suites"
)

// ConsoleFormatter provides plain console output formatting
type ConsoleFormatter struct {
	options Options
	out     io.Writer
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options, out io.Writer) Formatter {
	return &ConsoleFormatter{
		options: options,
		out:     out,
	}
}

// FormatSuites prints the discovered suites
func (f *ConsoleFormatter) FormatSuites(info *suites.ComponentTestInfo) error {
	f.render(suitesSection(info))
	return nil
}

// FormatMatrix prints a matrix
func (f *ConsoleFormatter) FormatMatrix(view MatrixView) error {
	f.render(matrixSection(view))
	return nil
}

// FormatReports prints one table per component.
func (f *ConsoleFormatter) FormatReports(run Run) error {
	for _, report := range run.Reports {
		f.render(reportSection(report))
	}
	if !f.options.Quiet {
		fmt.Fprintln(f.out, runSummary(run))
	}
	return nil
}

func (f *ConsoleFormatter) render(s section) {
	if !f.options.Quiet {
		fmt.Fprintf(f.out, "%s:\n", s.title)
	}

	w := NewPlainTableWriter(f.out)
	w.SetHeaders(s.headers)
	w.SetNoHeaders(f.options.Quiet)
	for _, row := range s.rows {
		w.AppendRow(row)
	}
	w.Render()

	for _, note := range s.notes {
		fmt.Fprintln(f.out, note)
	}
	if !f.options.Quiet {
		fmt.Fprintln(f.out)
	}
}
