// Package logging provides the structured logging facade used across
// beakermatrix.
//
// The package wraps Go's standard slog package behind a small set of
// subsystem-tagged functions so that call sites stay short and every record
// carries the component that produced it.
//
// # Log Levels
//   - **Debug**: discovery and parsing details (skipped files, dropped aliases)
//   - **Info**: progress of a command (components checked, files loaded)
//   - **Warn**: conditions the user should look at (malformed invocations)
//   - **Error**: failures that abort a command
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Discovery", "found %d suites in %s", n, dir)
//	logging.Debug("Pipeline", "job %s skipped: stage %q", name, stage)
//	logging.Error("Compare", err, "failed to check %s", component)
//
// JSON output, useful when the tool runs inside CI and logs are collected:
//
//	logging.Init(logging.FormatJSON, logging.LevelDebug, os.Stderr)
//
// # Subsystems
//
//   - **Config**: configuration loading and validation
//   - **Discovery**: suite and nodeset scanning
//   - **Pipeline**: CI document parsing and matrix extraction
//   - **Reconcile**: expected/actual comparison
//   - **Component**: component detection
//   - **Watcher**: filesystem change detection
//
// Until Init or InitForCLI is called, all log calls are discarded. Library
// callers (and tests) therefore get no output unless they opt in.
//
// The logger is safe for concurrent use.
package logging
