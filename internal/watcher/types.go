package watcher

import "time"

// ChangeKind tells which input of a check changed.
type ChangeKind string

const (
	ChangeSuites   ChangeKind = "Suites"
	ChangeNodesets ChangeKind = "Nodesets"
	ChangePipeline ChangeKind = "Pipeline"
	ChangeConfig   ChangeKind = "Config"
)

// ChangeOperation represents the type of change detected.
type ChangeOperation string

const (
	// OperationCreate indicates a new file or directory was created.
	OperationCreate ChangeOperation = "Create"

	// OperationUpdate indicates an existing file was modified.
	OperationUpdate ChangeOperation = "Update"

	// OperationDelete indicates a file or directory was removed or renamed.
	OperationDelete ChangeOperation = "Delete"
)

// ChangeEvent is one debounced change of a watched path.
type ChangeEvent struct {
	Kind      ChangeKind
	Operation ChangeOperation
	Path      string
	Timestamp time.Time
}

// Batch is the set of changes seen during one quiet period, ordered by path.
type Batch []ChangeEvent

// Kinds returns the distinct kinds of the batch in order of appearance.
func (b Batch) Kinds() []ChangeKind {
	seen := make(map[ChangeKind]bool)
	var kinds []ChangeKind
	for _, e := range b {
		if !seen[e.Kind] {
			seen[e.Kind] = true
			kinds = append(kinds, e.Kind)
		}
	}
	return kinds
}
