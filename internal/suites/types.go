package suites

import "fmt"

const (
	// DefaultSuite is the suite that runs when the acceptance runner is
	// invoked without arguments.
	DefaultSuite = "default"

	// DefaultNodeset is used whenever a nodeset is not named explicitly.
	DefaultNodeset = "default"

	// AliasSeparator joins an alias and its real nodeset in a label.
	AliasSeparator = "->"
)

// NodesetRef names a nodeset available to a suite. Alias is set when the
// nodeset was reached through a symlinked definition file.
type NodesetRef struct {
	Name  string `json:"name" yaml:"name"`
	Alias string `json:"alias,omitempty" yaml:"alias,omitempty"`
}

// Label returns the nodeset as it appears in a matrix entry:
// "alias->real" for aliased nodesets, the plain name otherwise.
func (n NodesetRef) Label() string {
	if n.Alias == "" {
		return n.Name
	}
	return AliasLabel(n.Alias, n.Name)
}

// AliasLabel builds the composite label for an aliased nodeset.
func AliasLabel(alias, realName string) string {
	return alias + AliasSeparator + realName
}

// Suite is one acceptance-test suite directory.
type Suite struct {
	Name     string       `json:"name" yaml:"name"`
	Nodesets []NodesetRef `json:"nodesets" yaml:"nodesets"`

	// DefaultRun is true when the suite's metadata asks for it to be
	// appended to the default run. Never set for DefaultSuite.
	DefaultRun bool `json:"defaultRun,omitempty" yaml:"defaultRun,omitempty"`
}

// NodesetLabels returns the labels of the suite's nodesets in order.
func (s Suite) NodesetLabels() []string {
	labels := make([]string, 0, len(s.Nodesets))
	for _, n := range s.Nodesets {
		labels = append(labels, n.Label())
	}
	return labels
}

// ComponentTestInfo is the discovery result for one component.
type ComponentTestInfo struct {
	Component string `json:"component" yaml:"component"`
	Root      string `json:"root" yaml:"root"`

	// Suites is sorted by name.
	Suites []Suite `json:"suites" yaml:"suites"`

	Warnings []Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Suite returns the named suite, if discovered.
func (c *ComponentTestInfo) Suite(name string) (Suite, bool) {
	if c == nil {
		return Suite{}, false
	}
	for _, s := range c.Suites {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

// suiteNames returns all suite names in order.
func (c *ComponentTestInfo) suiteNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, 0, len(c.Suites))
	for _, s := range c.Suites {
		names = append(names, s.Name)
	}
	return names
}

// DefaultRunSuites returns the names of suites flagged to join the default
// run, in order.
func (c *ComponentTestInfo) DefaultRunSuites() []string {
	if c == nil {
		return nil
	}
	var names []string
	for _, s := range c.Suites {
		if s.DefaultRun {
			names = append(names, s.Name)
		}
	}
	return names
}

// WarningKind classifies a non-fatal discovery problem.
type WarningKind string

const (
	WarningInvalidMetadata WarningKind = "InvalidMetadata"
	WarningUnreadableDir   WarningKind = "UnreadableDirectory"
)

// Warning describes a discovery problem that did not stop the scan.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Path    string      `json:"path" yaml:"path"`
	Message string      `json:"message" yaml:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Path, w.Message)
}
