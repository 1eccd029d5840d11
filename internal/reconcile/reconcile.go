package reconcile

import (
	"encoding/json"
	"fmt"

	"beakermatrix/internal/matrix"
	"beakermatrix/pkg/logging"
)

// Status is the classification of one expected matrix entry.
type Status int

const (
	// Absent means no pipeline job runs the entry.
	Absent Status = iota
	// Present means a pipeline job runs exactly the entry.
	Present
	// PresentViaDefaultJob means an argument-less pipeline job covers the
	// entry through the default suite or a default_run suite.
	PresentViaDefaultJob
)

func (s Status) String() string {
	switch s {
	case Present:
		return "present"
	case PresentViaDefaultJob:
		return "present-via-default-job"
	case Absent:
		return "absent"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// MarshalJSON encodes the status by name.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status name written by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for _, candidate := range []Status{Absent, Present, PresentViaDefaultJob} {
		if candidate.String() == name {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", name)
}

// Classify decides whether expected is run by any of the actual entries.
func Classify(expected matrix.Entry, actual []matrix.Entry) Status {
	status := Absent
	for _, a := range actual {
		if a.Equal(expected) {
			return Present
		}
		if coversViaDefaultJob(a, expected) {
			status = PresentViaDefaultJob
		}
	}
	return status
}

// coversViaDefaultJob reports whether a set-valued actual entry includes the
// expected suite and matches on every other field.
func coversViaDefaultJob(actual, expected matrix.Entry) bool {
	if !actual.Suite.IsSet() || expected.Suite.IsSet() {
		return false
	}
	return actual.Suite.Contains(expected.Suite.Name()) &&
		actual.Component == expected.Component &&
		actual.Nodeset == expected.Nodeset &&
		actual.PlatformVersion == expected.PlatformVersion &&
		actual.SecurityMode == expected.SecurityMode
}

// Result is the classification of one expected entry.
type Result struct {
	Entry  matrix.Entry `json:"entry"`
	Status Status       `json:"status"`
}

// Summary counts results per status.
type Summary struct {
	Total                int `json:"total"`
	Present              int `json:"present"`
	PresentViaDefaultJob int `json:"presentViaDefaultJob"`
	Absent               int `json:"absent"`
	Unexpected           int `json:"unexpected"`
}

// Report is the reconciliation of one component.
type Report struct {
	Component string   `json:"component"`
	Results   []Result `json:"results"`

	// Unexpected lists single-suite pipeline entries that match no expected
	// entry, e.g. a job running a removed suite or an unlisted version.
	Unexpected []matrix.Entry `json:"unexpected,omitempty"`

	Summary Summary `json:"summary"`
}

// HasGaps reports whether any expected entry is absent from the pipeline.
func (r Report) HasGaps() bool {
	return r.Summary.Absent > 0
}

// Gaps returns the absent entries in order.
func (r Report) Gaps() []matrix.Entry {
	var gaps []matrix.Entry
	for _, res := range r.Results {
		if res.Status == Absent {
			gaps = append(gaps, res.Entry)
		}
	}
	return gaps
}

// Reconcile classifies every expected entry, in order, against the actual
// matrix.
func Reconcile(component string, expected, actual []matrix.Entry) Report {
	report := Report{
		Component: component,
		Results:   make([]Result, 0, len(expected)),
	}

	for _, e := range expected {
		status := Classify(e, actual)
		report.Results = append(report.Results, Result{Entry: e, Status: status})

		switch status {
		case Present:
			report.Summary.Present++
		case PresentViaDefaultJob:
			report.Summary.PresentViaDefaultJob++
		default:
			report.Summary.Absent++
		}
	}
	report.Summary.Total = len(report.Results)

	for _, a := range actual {
		if a.Suite.IsSet() || a.IsSentinel() || containsEntry(expected, a) {
			continue
		}
		report.Unexpected = append(report.Unexpected, a)
	}
	report.Summary.Unexpected = len(report.Unexpected)

	logging.Debug("Reconcile", "%s: %d present, %d via default job, %d absent, %d unexpected",
		component, report.Summary.Present, report.Summary.PresentViaDefaultJob,
		report.Summary.Absent, report.Summary.Unexpected)
	return report
}

func containsEntry(entries []matrix.Entry, e matrix.Entry) bool {
	for _, x := range entries {
		if x.Equal(e) {
			return true
		}
	}
	return false
}
