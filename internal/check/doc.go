// Package check runs the full acceptance matrix check of a component:
// discovery, pipeline extraction, expansion and reconciliation, with the
// component's configuration applied.
package check
