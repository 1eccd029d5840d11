package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"beakermatrix/internal/matrix"
	"beakermatrix/internal/suites"
	"beakermatrix/pkg/logging"
)

const (
	// RunnerMarker identifies a script line invoking the acceptance runner.
	RunnerMarker = "beaker:suites"

	// FIPSMarker in any script line enables FIPS mode for the job.
	FIPSMarker = "BEAKER_fips=yes"

	// DefaultStage is the pipeline stage running acceptance tests.
	DefaultStage = "acceptance"

	platformVersionVariable = "PUPPET_VERSION"
	fipsVariable            = "BEAKER_fips"
)

// argumentPattern matches a suite or nodeset argument. Hyphens are allowed
// since directory names may contain them.
var argumentPattern = regexp.MustCompile(`^[\w-]+$`)

// WarningKind classifies a non-fatal extraction problem.
type WarningKind string

const (
	WarningMalformedInvocation WarningKind = "MalformedInvocation"
	WarningMissingNodeset      WarningKind = "MissingNodeset"
	WarningStructuralMismatch  WarningKind = "StructuralMismatch"
)

// Warning is reported alongside the extracted matrix.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Job     string      `json:"job"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: job %s: %s", w.Kind, w.Job, w.Message)
}

// Result is the matrix a pipeline declares.
type Result struct {
	// PlatformVersions is the sorted set of versions used by relevant jobs.
	PlatformVersions []string `json:"platformVersions"`
	// Entries is sorted and deduplicated; never empty.
	Entries  []matrix.Entry `json:"entries"`
	Warnings []Warning      `json:"warnings,omitempty"`
}

type extractOptions struct {
	stage     string
	discovery []suites.Option
}

// Option customizes extraction.
type Option func(*extractOptions)

// WithStage sets the stage name of acceptance-test jobs.
func WithStage(stage string) Option {
	return func(o *extractOptions) {
		if stage != "" {
			o.stage = stage
		}
	}
}

// WithDiscoveryOptions passes layout options to nodeset alias lookups.
func WithDiscoveryOptions(opts ...suites.Option) Option {
	return func(o *extractOptions) {
		o.discovery = append(o.discovery, opts...)
	}
}

// Extract recovers the matrix declared by the acceptance jobs of doc.
//
// info is the discovery result of the same component; it supplies the
// component name, the suites implied by argument-less invocations and the
// directory used to resolve nodeset aliases. A nil doc stands for a missing
// pipeline and yields the sentinel entry.
func Extract(doc *Document, info *suites.ComponentTestInfo, opts ...Option) Result {
	o := extractOptions{stage: DefaultStage}
	for _, opt := range opts {
		opt(&o)
	}

	component := ""
	if info != nil {
		component = info.Component
	}

	sentinel := Result{
		PlatformVersions: []string{},
		Entries:          []matrix.Entry{matrix.Sentinel(component)},
	}
	if doc == nil {
		logging.Debug("Pipeline", "No pipeline document for %s", component)
		return sentinel
	}

	warnings := append([]Warning(nil), doc.Warnings...)
	versions := make(map[string]struct{})
	var entries []matrix.Entry
	relevant := 0

	for _, job := range doc.Jobs {
		if job.Hidden || len(job.Script) == 0 || job.Stage != o.stage {
			continue
		}
		relevant++

		version := job.Variable(platformVersionVariable)
		if version == "" {
			version = matrix.NotApplicable
		}
		versions[version] = struct{}{}
		mode := securityMode(job)

		for _, line := range job.Script {
			inv, warning, ok := parseInvocation(line)
			if warning != nil {
				warning.Job = job.Name
				warnings = append(warnings, *warning)
			}
			if !ok {
				continue
			}

			suite := matrix.Single(inv.suite)
			aliasSuite := inv.suite
			if !inv.explicit {
				suite = defaultRunSuites(info)
				aliasSuite = suites.DefaultSuite
			}

			entries = append(entries, matrix.Entry{
				Component:       component,
				Suite:           suite,
				Nodeset:         resolveNodeset(info, aliasSuite, inv.nodeset, o.discovery),
				PlatformVersion: version,
				SecurityMode:    mode,
			})
		}
	}

	if relevant == 0 {
		logging.Debug("Pipeline", "No %s jobs for %s", o.stage, component)
		sentinel.Warnings = warnings
		return sentinel
	}

	result := Result{
		PlatformVersions: sortedKeys(versions),
		Warnings:         warnings,
	}
	if len(entries) == 0 {
		result.Entries = []matrix.Entry{matrix.Sentinel(component)}
	} else {
		result.Entries = matrix.Dedupe(entries)
	}

	logging.Debug("Pipeline", "Extracted %d entries from %d jobs for %s", len(result.Entries), relevant, component)
	return result
}

// invocation is a parsed acceptance runner call.
type invocation struct {
	suite    string
	nodeset  string
	explicit bool
}

// parseInvocation recognizes `beaker:suites`, `beaker:suites[suite]` and
// `beaker:suites[suite,nodeset]`. ok is false for lines that do not invoke
// the runner or whose suite argument cannot be parsed.
func parseInvocation(line string) (inv invocation, warning *Warning, ok bool) {
	idx := strings.Index(line, RunnerMarker)
	if idx < 0 {
		return invocation{}, nil, false
	}
	rest := line[idx+len(RunnerMarker):]

	// beaker:suites_foo or beaker:suites:bar is some other task.
	if rest != "" && (isWordByte(rest[0]) || rest[0] == ':') {
		return invocation{}, nil, false
	}

	inv = invocation{nodeset: suites.DefaultNodeset}
	if !strings.HasPrefix(rest, "[") {
		return inv, nil, true
	}

	args := rest[1:]
	end := strings.IndexByte(args, ']')
	if end < 0 {
		return invocation{}, &Warning{
			Kind:    WarningMalformedInvocation,
			Message: fmt.Sprintf("unterminated arguments in %q", strings.TrimSpace(line)),
		}, false
	}

	parts := strings.SplitN(args[:end], ",", 2)
	suite := strings.TrimSpace(parts[0])
	if !argumentPattern.MatchString(suite) {
		return invocation{}, &Warning{
			Kind:    WarningMalformedInvocation,
			Message: fmt.Sprintf("cannot parse suite argument in %q", strings.TrimSpace(line)),
		}, false
	}
	inv.suite = suite
	inv.explicit = true

	if len(parts) == 1 {
		return inv, &Warning{
			Kind:    WarningMissingNodeset,
			Message: fmt.Sprintf("no nodeset given for suite %s, assuming %s", suite, suites.DefaultNodeset),
		}, true
	}

	nodeset := strings.TrimSpace(parts[1])
	if !argumentPattern.MatchString(nodeset) {
		return inv, &Warning{
			Kind:    WarningMalformedInvocation,
			Message: fmt.Sprintf("cannot parse nodeset argument %q for suite %s, assuming %s", nodeset, suite, suites.DefaultNodeset),
		}, true
	}
	inv.nodeset = nodeset
	return inv, nil, true
}

func isWordByte(b byte) bool {
	return b == '_' || b == '-' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// securityMode is enabled when any script line or the job's variables turn
// FIPS mode on.
func securityMode(job Job) matrix.SecurityMode {
	if strings.EqualFold(job.Variable(fipsVariable), "yes") {
		return matrix.SecurityEnabled
	}
	for _, line := range job.Script {
		if strings.Contains(line, FIPSMarker) {
			return matrix.SecurityEnabled
		}
	}
	return matrix.SecurityDisabled
}

// defaultRunSuites is the suite set covered by an argument-less invocation.
func defaultRunSuites(info *suites.ComponentTestInfo) matrix.SuiteRef {
	if info == nil || len(info.Suites) <= 1 {
		return matrix.Single(suites.DefaultSuite)
	}
	names := append([]string{suites.DefaultSuite}, info.DefaultRunSuites()...)
	return matrix.DefaultPlusAdditions(names...)
}

func resolveNodeset(info *suites.ComponentTestInfo, suite, nodeset string, opts []suites.Option) string {
	if info == nil || info.Root == "" {
		return nodeset
	}
	return suites.ResolveNodesetAlias(info.Root, suite, nodeset, opts...)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
