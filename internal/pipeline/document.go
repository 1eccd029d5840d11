package pipeline

import (
	"fmt"
	"os"
	"strings"

	"beakermatrix/pkg/logging"

	"gopkg.in/yaml.v3"
)

// reservedKeywords are top-level GitLab CI keys that never name a job.
var reservedKeywords = map[string]bool{
	"stages":        true,
	"variables":     true,
	"default":       true,
	"include":       true,
	"workflow":      true,
	"image":         true,
	"services":      true,
	"cache":         true,
	"before_script": true,
	"after_script":  true,
	"types":         true,
}

// Job is one job of a pipeline document, after extends resolution.
type Job struct {
	Name      string
	Stage     string
	Script    []string
	Variables map[string]string
	Extends   []string

	// Hidden jobs (names starting with ".") are templates and never run.
	Hidden bool

	hasStage  bool
	hasScript bool
}

// Variable returns a job variable, or "" if unset.
func (j Job) Variable(name string) string {
	return j.Variables[name]
}

// Document is a parsed pipeline specification. Jobs keep document order.
type Document struct {
	Jobs []Job

	// Warnings holds jobs that could not be decoded and extends problems.
	Warnings []Warning
}

// job returns the named job.
func (d *Document) job(name string) (Job, bool) {
	if d == nil {
		return Job{}, false
	}
	for _, j := range d.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return Job{}, false
}

// Load reads and parses a pipeline file. A missing file yields an error
// matching fs.ErrNotExist.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing pipeline %s: %w", path, err)
	}
	logging.Debug("Pipeline", "Loaded %d jobs from %s", len(doc.Jobs), path)
	return doc, nil
}

// Parse decodes a GitLab CI document. Anchors, aliases and merge keys are
// resolved by the YAML decoder; extends is resolved afterwards.
func Parse(data []byte) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	doc := &Document{}
	if root.Kind == 0 || len(root.Content) == 0 {
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("pipeline document must be a mapping, got %s", kindName(top.Kind))
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		name := top.Content[i].Value
		value := resolveAlias(top.Content[i+1])
		if reservedKeywords[name] || name == "<<" || value.Kind != yaml.MappingNode {
			continue
		}

		var raw rawJob
		if err := value.Decode(&raw); err != nil {
			doc.Warnings = append(doc.Warnings, Warning{
				Kind:    WarningStructuralMismatch,
				Job:     name,
				Message: err.Error(),
			})
			continue
		}
		doc.Jobs = append(doc.Jobs, raw.job(name))
	}

	doc.resolveExtends()
	return doc, nil
}

// rawJob mirrors the fields of a job the matrix logic reads.
type rawJob struct {
	Stage     *string             `yaml:"stage"`
	Script    *stringList         `yaml:"script"`
	Variables map[string]variable `yaml:"variables"`
	Extends   stringList          `yaml:"extends"`
}

func (r rawJob) job(name string) Job {
	j := Job{
		Name:      name,
		Variables: make(map[string]string, len(r.Variables)),
		Extends:   []string(r.Extends),
		Hidden:    strings.HasPrefix(name, "."),
	}
	if r.Stage != nil {
		j.Stage = *r.Stage
		j.hasStage = true
	}
	if r.Script != nil {
		j.Script = []string(*r.Script)
		j.hasScript = true
	}
	for k, v := range r.Variables {
		j.Variables[k] = string(v)
	}
	return j
}

// stringList accepts a scalar or a (possibly nested) sequence of scalars.
// Nested sequences appear when script anchors are spliced into a list.
type stringList []string

func (l *stringList) UnmarshalYAML(n *yaml.Node) error {
	items, err := flattenScalars(n)
	if err != nil {
		return err
	}
	*l = items
	return nil
}

func flattenScalars(n *yaml.Node) ([]string, error) {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return []string{}, nil
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		items := []string{}
		for _, child := range n.Content {
			sub, err := flattenScalars(child)
			if err != nil {
				return nil, err
			}
			items = append(items, sub...)
		}
		return items, nil
	default:
		return nil, fmt.Errorf("line %d: expected a string or a list of strings, got %s", n.Line, kindName(n.Kind))
	}
}

// variable accepts both `NAME: value` and `NAME: {value: ..., description: ...}`.
type variable string

func (v *variable) UnmarshalYAML(n *yaml.Node) error {
	n = resolveAlias(n)
	switch n.Kind {
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			*v = ""
			return nil
		}
		*v = variable(n.Value)
		return nil
	case yaml.MappingNode:
		var expanded struct {
			Value string `yaml:"value"`
		}
		if err := n.Decode(&expanded); err != nil {
			return err
		}
		*v = variable(expanded.Value)
		return nil
	default:
		return fmt.Errorf("line %d: variable must be a scalar or a mapping with a value, got %s", n.Line, kindName(n.Kind))
	}
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "empty node"
	}
}

// resolveExtends applies GitLab's extends inheritance: parents are merged
// in order (later parents win), then the job's own keys win. Variables are
// merged key by key; stage and script are inherited only when absent.
func (d *Document) resolveExtends() {
	index := make(map[string]int, len(d.Jobs))
	for i, j := range d.Jobs {
		index[j.Name] = i
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(d.Jobs))

	var resolve func(i int)
	resolve = func(i int) {
		if state[i] != unvisited {
			return
		}
		state[i] = visiting

		job := d.Jobs[i]
		merged := Job{Variables: map[string]string{}}
		for _, parentName := range job.Extends {
			p, ok := index[parentName]
			if !ok {
				d.Warnings = append(d.Warnings, Warning{
					Kind:    WarningStructuralMismatch,
					Job:     job.Name,
					Message: fmt.Sprintf("extends unknown job %q", parentName),
				})
				continue
			}
			if state[p] == visiting {
				d.Warnings = append(d.Warnings, Warning{
					Kind:    WarningStructuralMismatch,
					Job:     job.Name,
					Message: fmt.Sprintf("extends cycle through %q", parentName),
				})
				continue
			}
			resolve(p)
			merged = overlay(merged, d.Jobs[p])
		}
		resolvedJob := overlay(merged, job)
		resolvedJob.Name = job.Name
		resolvedJob.Hidden = job.Hidden
		resolvedJob.Extends = job.Extends
		d.Jobs[i] = resolvedJob

		state[i] = done
	}

	for i := range d.Jobs {
		resolve(i)
	}
}

// overlay returns base with the keys set in over applied on top.
func overlay(base, over Job) Job {
	out := base
	out.Variables = make(map[string]string, len(base.Variables)+len(over.Variables))
	for k, v := range base.Variables {
		out.Variables[k] = v
	}
	for k, v := range over.Variables {
		out.Variables[k] = v
	}
	if over.hasStage {
		out.Stage = over.Stage
		out.hasStage = true
	}
	if over.hasScript {
		out.Script = append([]string(nil), over.Script...)
		out.hasScript = true
	}
	return out
}
