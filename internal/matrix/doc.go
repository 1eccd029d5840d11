// Package matrix defines acceptance-test matrix entries and expands the
// expected matrix of a component.
//
// An Entry is the tuple (component, suite, nodeset, platform version,
// security mode). Expected entries always carry a single suite. Entries
// extracted from a pipeline may instead carry the set of suites run by a
// job that invokes the runner without arguments; SuiteRef models both
// variants explicitly.
//
// A component with nothing to test is represented by its Sentinel entry,
// (component, "NONE", "N/A", "N/A", "N/A"), so that both sides of a
// comparison are never empty.
package matrix
