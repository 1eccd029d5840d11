package formatting

import (
	"beakermatrix/internal/matrix"
	"beakermatrix/internal/reconcile"

	"github.com/google/uuid"
)

// MatrixView is an expected or actual matrix of one component.
type MatrixView struct {
	Component        string         `json:"component"`
	PlatformVersions []string       `json:"platformVersions,omitempty"`
	Entries          []matrix.Entry `json:"entries"`
	Warnings         []string       `json:"warnings,omitempty"`
}

// Run is the result of one compare invocation.
type Run struct {
	RunID   string             `json:"runId"`
	Reports []reconcile.Report `json:"reports"`
}

// NewRun wraps reports with a fresh run ID.
func NewRun(reports []reconcile.Report) Run {
	return Run{
		RunID:   uuid.NewString(),
		Reports: reports,
	}
}

// HasGaps reports whether any component misses expected entries.
func (r Run) HasGaps() bool {
	for _, report := range r.Reports {
		if report.HasGaps() {
			return true
		}
	}
	return false
}

// ComponentsWithGaps counts the reports with absent entries.
func (r Run) ComponentsWithGaps() int {
	n := 0
	for _, report := range r.Reports {
		if report.HasGaps() {
			n++
		}
	}
	return n
}
