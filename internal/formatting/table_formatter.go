package formatting

import (
	"fmt"
	"io"

	"beakermatrix/internal/reconcile"
	"beakermatrix/internal/suites"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// maxCellWidth is the width at which long cells, such as a suite's nodeset
// list, are wrapped.
const maxCellWidth = 60

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
	out     io.Writer
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options, out io.Writer) Formatter {
	return &TableFormatter{
		options: options,
		out:     out,
	}
}

// FormatSuites renders the discovered suites as a table
func (f *TableFormatter) FormatSuites(info *suites.ComponentTestInfo) error {
	f.render(suitesSection(info))
	return nil
}

// FormatMatrix renders a matrix as a table
func (f *TableFormatter) FormatMatrix(view MatrixView) error {
	f.render(matrixSection(view))
	return nil
}

// FormatReports renders one table per component
func (f *TableFormatter) FormatReports(run Run) error {
	for _, report := range run.Reports {
		f.render(reportSection(report))
	}
	if !f.options.Quiet {
		fmt.Fprintf(f.out, "%s\n", text.FgHiBlue.Sprint(runSummary(run)))
	}
	return nil
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetStyle(table.StyleRounded)
	return t
}

func (f *TableFormatter) render(s section) {
	t := f.createTable()
	if !f.options.Quiet {
		t.SetTitle(s.title)
	}

	t.Style().Color.Header = text.Colors{text.FgHiCyan}

	configs := make([]table.ColumnConfig, 0, len(s.headers))
	for i := range s.headers {
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			WidthMax:         maxCellWidth,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	t.SetColumnConfigs(configs)

	header := make(table.Row, 0, len(s.headers))
	for _, h := range s.headers {
		header = append(header, h)
	}
	t.AppendHeader(header)

	for _, cells := range s.rows {
		row := make(table.Row, 0, len(cells))
		for i, cell := range cells {
			if i == s.statusColumn {
				row = append(row, statusColor(cell).Sprint(cell))
				continue
			}
			row = append(row, cell)
		}
		t.AppendRow(row)
	}
	t.Render()

	for _, note := range s.notes {
		fmt.Fprintf(f.out, "%s\n", text.FgYellow.Sprint(note))
	}
	fmt.Fprintln(f.out)
}

func statusColor(status string) text.Colors {
	switch status {
	case reconcile.Present.String():
		return text.Colors{text.FgGreen}
	case reconcile.PresentViaDefaultJob.String():
		return text.Colors{text.FgCyan}
	default:
		return text.Colors{text.FgRed, text.Bold}
	}
}
