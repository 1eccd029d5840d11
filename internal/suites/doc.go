// Package suites discovers the acceptance-test suites and nodesets a
// component provides on disk.
//
// The expected layout of a component is:
//
//	spec/acceptance/
//	├── nodesets/              # global nodesets, used by suites without their own
//	│   ├── default.yml
//	│   └── oel.yml -> centos.yml
//	└── suites/
//	    ├── default/
//	    │   └── nodesets/      # optional, replaces the global set
//	    └── compliance/
//	        └── metadata.yml   # default_run: true
//
// # Nodeset Aliases
//
// A symlinked nodeset definition is an alias of the file it points to. The
// alias does not add an entry of its own; it rewrites the canonical entry of
// its target into the composite label "alias->real". This label is what
// matrix entries carry, so a pipeline job that names the alias compares
// equal to the discovered nodeset (see ResolveNodesetAlias).
//
// An alias whose target is not a canonical nodeset in the same directory is
// dropped. Only the first alias (in lexical order) of a given target is
// applied.
//
// # Default Run
//
// Suites other than "default" may declare default_run: true in their
// metadata.yml. Such suites are run by a pipeline job that invokes the
// acceptance runner without naming a suite.
package suites
