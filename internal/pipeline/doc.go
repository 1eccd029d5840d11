// Package pipeline extracts the acceptance-test matrix a GitLab CI pipeline
// declares.
//
// Parse reads the pipeline document. Only the keys the matrix logic needs
// are decoded: stage, script, variables and extends. YAML anchors and merge
// keys are handled by the decoder; GitLab's extends is resolved by Parse.
//
// Extract walks the jobs of the acceptance stage and looks for script lines
// calling the beaker:suites rake task:
//
//	bundle exec rake beaker:suites[compliance,oel]   # suite compliance, nodeset oel
//	bundle exec rake beaker:suites[compliance]       # nodeset defaults to "default" (warning)
//	bundle exec rake beaker:suites                   # default suite plus default_run suites
//
// A job runs in FIPS mode when one of its script lines contains
// BEAKER_fips=yes or its variables set BEAKER_fips to yes. The platform
// version of a job is its PUPPET_VERSION variable.
//
// Problems with individual jobs never abort extraction; they are returned as
// Warnings next to the matrix.
package pipeline
