// Package config provides configuration management for beakermatrix.
//
// Configuration is layered. Defaults come first, then the user file
// beakermatrix.yaml in the configuration directory (~/.config/beakermatrix
// unless --config-path is given), then a beakermatrix.yaml at the root of
// each component being checked. Keys missing from a layer keep the value of
// the layer below.
//
// # Configuration File
//
//	pipelineFile: .gitlab-ci.yml
//	acceptanceStage: acceptance
//	platformVersions: ["7", "8"]
//	fipsSplit: true
//	suitesDir: spec/acceptance/suites
//	nodesetsDir: spec/acceptance/nodesets
//	output: table
//	parallel: 4
//
// When platformVersions is empty the versions declared by the pipeline's
// acceptance jobs are used as the version axis of the expected matrix.
//
// # Errors
//
// Unreadable or malformed files are reported as ConfigurationError values
// carrying the file, the layer and suggestions for the user. Semantic
// problems are reported together as ValidationErrors.
package config
