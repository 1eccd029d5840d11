package matrix

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// NotApplicable fills fields of a sentinel entry.
const NotApplicable = "N/A"

// NoSuite is the suite of a sentinel entry.
const NoSuite = "NONE"

// SecurityMode records whether a run enables FIPS mode.
type SecurityMode string

const (
	SecurityEnabled       SecurityMode = "enabled"
	SecurityDisabled      SecurityMode = "disabled"
	SecurityNotApplicable SecurityMode = NotApplicable
)

// SuiteRef is either a single suite name or the set of suites implied by a
// default run (the default suite plus suites that opted into it).
type SuiteRef struct {
	names    []string
	multiple bool
}

// Single refers to exactly one suite.
func Single(name string) SuiteRef {
	return SuiteRef{names: []string{name}}
}

// DefaultPlusAdditions refers to the set of suites run by a job that does
// not name one. Names are deduplicated and sorted.
func DefaultPlusAdditions(names ...string) SuiteRef {
	set := make(map[string]struct{}, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := set[n]; ok {
			continue
		}
		set[n] = struct{}{}
		unique = append(unique, n)
	}
	sort.Strings(unique)
	return SuiteRef{names: unique, multiple: true}
}

// IsSet reports whether the reference is the set-valued variant.
func (s SuiteRef) IsSet() bool {
	return s.multiple
}

// Name returns the suite name of a single reference, or "" for a set.
func (s SuiteRef) Name() string {
	if s.multiple || len(s.names) == 0 {
		return ""
	}
	return s.names[0]
}

// Names returns a copy of the referenced suite names.
func (s SuiteRef) Names() []string {
	return append([]string(nil), s.names...)
}

// Contains reports whether name is one of the referenced suites.
func (s SuiteRef) Contains(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// Equal reports whether both references are the same variant with the same
// names.
func (s SuiteRef) Equal(other SuiteRef) bool {
	if s.multiple != other.multiple || len(s.names) != len(other.names) {
		return false
	}
	for i := range s.names {
		if s.names[i] != other.names[i] {
			return false
		}
	}
	return true
}

func (s SuiteRef) String() string {
	if !s.multiple {
		return s.Name()
	}
	return "[" + strings.Join(s.names, ", ") + "]"
}

// MarshalJSON encodes a single reference as a string and a set as an array.
func (s SuiteRef) MarshalJSON() ([]byte, error) {
	if s.multiple {
		return json.Marshal(s.names)
	}
	return json.Marshal(s.Name())
}

// UnmarshalJSON accepts the forms produced by MarshalJSON.
func (s *SuiteRef) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = Single(name)
		return nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return fmt.Errorf("suite must be a string or a list of strings: %w", err)
	}
	*s = DefaultPlusAdditions(names...)
	return nil
}

// Entry is one permutation of the acceptance-test matrix.
type Entry struct {
	Component       string       `json:"component"`
	Suite           SuiteRef     `json:"suite"`
	Nodeset         string       `json:"nodeset"`
	PlatformVersion string       `json:"platformVersion"`
	SecurityMode    SecurityMode `json:"securityMode"`
}

// Sentinel is the entry standing for "no tests" of a component.
func Sentinel(component string) Entry {
	return Entry{
		Component:       component,
		Suite:           Single(NoSuite),
		Nodeset:         NotApplicable,
		PlatformVersion: NotApplicable,
		SecurityMode:    SecurityNotApplicable,
	}
}

// IsSentinel reports whether e is a sentinel entry.
func (e Entry) IsSentinel() bool {
	return e.Equal(Sentinel(e.Component))
}

// Equal compares all fields, including the suite variant.
func (e Entry) Equal(other Entry) bool {
	return e.Component == other.Component &&
		e.Suite.Equal(other.Suite) &&
		e.Nodeset == other.Nodeset &&
		e.PlatformVersion == other.PlatformVersion &&
		e.SecurityMode == other.SecurityMode
}

// String is the canonical form used for ordering and display.
func (e Entry) String() string {
	return strings.Join([]string{
		e.Component,
		e.Suite.String(),
		e.Nodeset,
		e.PlatformVersion,
		string(e.SecurityMode),
	}, " | ")
}

// Sort returns a copy of entries ordered by their canonical string form.
func Sort(entries []Entry) []Entry {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].String() < sorted[j].String()
	})
	return sorted
}

// Dedupe returns the sorted entries with duplicates removed.
func Dedupe(entries []Entry) []Entry {
	sorted := Sort(entries)
	out := sorted[:0]
	for i, e := range sorted {
		if i > 0 && e.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, e)
	}
	return out
}
