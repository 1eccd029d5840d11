package formatting

import (
	"fmt"
	"strings"

	"beakermatrix/internal/matrix"
	"beakermatrix/internal/reconcile"
	"beakermatrix/internal/suites"
)

// section is one table with optional title and trailing notes. The table
// and console formatters differ only in how they render sections.
type section struct {
	title   string
	headers []string
	rows    [][]string
	notes   []string

	// statusColumn is the index of the STATUS column, or -1.
	statusColumn int
}

func suitesSection(info *suites.ComponentTestInfo) section {
	s := section{
		title:        fmt.Sprintf("Acceptance suites of %s", info.Component),
		headers:      []string{"Suite", "Nodesets", "Default Run"},
		statusColumn: -1,
	}
	for _, suite := range info.Suites {
		s.rows = append(s.rows, []string{
			suite.Name,
			joinOrNone(suite.NodesetLabels()),
			yesNo(suite.DefaultRun || suite.Name == suites.DefaultSuite),
		})
	}
	if len(info.Suites) == 0 {
		s.notes = append(s.notes, "No acceptance suites found")
	}
	for _, w := range info.Warnings {
		s.notes = append(s.notes, "Warning: "+w.String())
	}
	return s
}

func matrixSection(view MatrixView) section {
	s := section{
		title:        fmt.Sprintf("Matrix of %s", view.Component),
		headers:      []string{"Suite", "Nodeset", "Platform Version", "Security Mode"},
		statusColumn: -1,
	}
	if len(view.PlatformVersions) > 0 {
		s.title += fmt.Sprintf(" (platform versions: %s)", strings.Join(view.PlatformVersions, ", "))
	}
	for _, e := range view.Entries {
		s.rows = append(s.rows, entryCells(e))
	}
	for _, w := range view.Warnings {
		s.notes = append(s.notes, "Warning: "+w)
	}
	return s
}

func reportSection(report reconcile.Report) section {
	s := section{
		title:        fmt.Sprintf("Coverage of %s", report.Component),
		headers:      []string{"Suite", "Nodeset", "Platform Version", "Security Mode", "Status"},
		statusColumn: 4,
	}
	for _, res := range report.Results {
		s.rows = append(s.rows, append(entryCells(res.Entry), res.Status.String()))
	}
	sum := report.Summary
	s.notes = append(s.notes, fmt.Sprintf("%d expected: %d present, %d via default job, %d absent, %d unexpected",
		sum.Total, sum.Present, sum.PresentViaDefaultJob, sum.Absent, sum.Unexpected))
	for _, e := range report.Unexpected {
		s.notes = append(s.notes, "Unexpected: "+e.String())
	}
	return s
}

func runSummary(run Run) string {
	return fmt.Sprintf("Run %s: %d components, %d with gaps", run.RunID, len(run.Reports), run.ComponentsWithGaps())
}

func entryCells(e matrix.Entry) []string {
	return []string{e.Suite.String(), e.Nodeset, e.PlatformVersion, string(e.SecurityMode)}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
