package matrix

import (
	"beakermatrix/internal/suites"
	"beakermatrix/pkg/logging"
)

// Expand builds the expected matrix of a component: every suite, nodeset and
// platform version, with security mode disabled and, when fipsSplit is set,
// an enabled twin of each entry.
//
// A component without suites, or an empty version list, yields exactly the
// sentinel entry. The result is deduplicated and sorted.
func Expand(info *suites.ComponentTestInfo, platformVersions []string, fipsSplit bool) []Entry {
	component := ""
	if info != nil {
		component = info.Component
	}
	if info == nil || len(info.Suites) == 0 || len(platformVersions) == 0 {
		return []Entry{Sentinel(component)}
	}

	modes := []SecurityMode{SecurityDisabled}
	if fipsSplit {
		modes = append(modes, SecurityEnabled)
	}

	var entries []Entry
	for _, suite := range info.Suites {
		for _, nodeset := range suite.Nodesets {
			for _, version := range platformVersions {
				for _, mode := range modes {
					entries = append(entries, Entry{
						Component:       component,
						Suite:           Single(suite.Name),
						Nodeset:         nodeset.Label(),
						PlatformVersion: version,
						SecurityMode:    mode,
					})
				}
			}
		}
	}

	if len(entries) == 0 {
		// Suites exist but none has a nodeset.
		return []Entry{Sentinel(component)}
	}

	result := Dedupe(entries)
	logging.Debug("Matrix", "Expanded %d entries for %s", len(result), component)
	return result
}
