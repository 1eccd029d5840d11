package suites

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"beakermatrix/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSuitesDir is the suites root relative to a component.
	DefaultSuitesDir = "spec/acceptance/suites"
	// DefaultNodesetsDir is the component-global nodesets directory.
	DefaultNodesetsDir = "spec/acceptance/nodesets"

	suiteNodesetsDir  = "nodesets"
	suiteMetadataFile = "metadata.yml"
)

// nodesetExtensions lists the accepted nodeset definition file extensions,
// in lookup order.
var nodesetExtensions = []string{".yml", ".yaml"}

// layout holds the relative directory layout of a component.
type layout struct {
	component   string
	suitesDir   string
	nodesetsDir string
}

// Option customizes discovery.
type Option func(*layout)

// WithComponent overrides the component identifier, which otherwise is the
// base name of the component directory.
func WithComponent(name string) Option {
	return func(l *layout) {
		if name != "" {
			l.component = name
		}
	}
}

// WithSuitesDir overrides the suites root, relative to the component.
func WithSuitesDir(dir string) Option {
	return func(l *layout) {
		if dir != "" {
			l.suitesDir = dir
		}
	}
}

// WithNodesetsDir overrides the global nodesets directory, relative to the
// component.
func WithNodesetsDir(dir string) Option {
	return func(l *layout) {
		if dir != "" {
			l.nodesetsDir = dir
		}
	}
}

func newLayout(componentDir string, opts []Option) layout {
	l := layout{
		component:   filepath.Base(filepath.Clean(componentDir)),
		suitesDir:   DefaultSuitesDir,
		nodesetsDir: DefaultNodesetsDir,
	}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

// Discover scans the acceptance-test tree of the component rooted at
// componentDir.
//
// A component without a suites directory yields an empty result, not an
// error. Errors are only returned when an existing directory cannot be read.
func Discover(componentDir string, opts ...Option) (*ComponentTestInfo, error) {
	l := newLayout(componentDir, opts)
	info := &ComponentTestInfo{
		Component: l.component,
		Root:      componentDir,
	}

	suitesRoot := filepath.Join(componentDir, l.suitesDir)
	entries, err := os.ReadDir(suitesRoot)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Debug("Discovery", "No suites directory at %s", suitesRoot)
			return info, nil
		}
		return nil, fmt.Errorf("reading suites directory %s: %w", suitesRoot, err)
	}

	globalDir := filepath.Join(componentDir, l.nodesetsDir)
	var global []NodesetRef
	globalScanned := false

	for _, entry := range entries {
		suiteDir := filepath.Join(suitesRoot, entry.Name())
		if !isDir(suiteDir, entry) {
			continue
		}

		suite := Suite{Name: entry.Name()}

		local, err := scanNodesetDir(filepath.Join(suiteDir, suiteNodesetsDir))
		if err != nil {
			return nil, err
		}
		if len(local) > 0 {
			suite.Nodesets = resolveAliases(local)
		} else {
			if !globalScanned {
				files, err := scanNodesetDir(globalDir)
				if err != nil {
					return nil, err
				}
				global = resolveAliases(files)
				globalScanned = true
			}
			suite.Nodesets = append([]NodesetRef(nil), global...)
		}

		if suite.Name != DefaultSuite {
			metadataPath := filepath.Join(suiteDir, suiteMetadataFile)
			defaultRun, warning := readDefaultRun(metadataPath)
			suite.DefaultRun = defaultRun
			if warning != nil {
				info.Warnings = append(info.Warnings, *warning)
			}
		}

		info.Suites = append(info.Suites, suite)
	}

	sort.Slice(info.Suites, func(i, j int) bool {
		return info.Suites[i].Name < info.Suites[j].Name
	})

	logging.Debug("Discovery", "Found %d suites for %s: %s", len(info.Suites), info.Component, strings.Join(info.suiteNames(), ", "))
	return info, nil
}

// isDir reports whether a directory entry is a directory, following
// symlinked suite directories.
func isDir(path string, entry fs.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

// nodesetFile is one nodeset definition found on disk. Target is the base
// name (extension stripped) of the symlink target, empty for regular files.
type nodesetFile struct {
	Name   string
	Target string
}

func (f nodesetFile) isAlias() bool {
	return f.Target != ""
}

// scanNodesetDir lists nodeset definition files in dir. A missing directory
// yields no files.
func scanNodesetDir(dir string) ([]nodesetFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading nodesets directory %s: %w", dir, err)
	}

	var files []nodesetFile
	for _, entry := range entries {
		if entry.IsDir() || !isNodesetFile(entry.Name()) {
			continue
		}

		file := nodesetFile{Name: trimExt(entry.Name())}
		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := os.Readlink(filepath.Join(dir, entry.Name()))
			if err != nil {
				return nil, fmt.Errorf("reading nodeset link %s: %w", filepath.Join(dir, entry.Name()), err)
			}
			file.Target = trimExt(filepath.Base(target))
		}
		files = append(files, file)
	}
	return files, nil
}

// resolveAliases turns scanned files into nodeset references. Each regular
// file is a canonical entry; each symlink rewrites the canonical entry of
// its target into an aliased one. Aliases without an unclaimed canonical
// target are dropped.
func resolveAliases(files []nodesetFile) []NodesetRef {
	var canonical []NodesetRef
	var aliases []nodesetFile
	for _, f := range files {
		if f.isAlias() {
			aliases = append(aliases, f)
			continue
		}
		canonical = append(canonical, NodesetRef{Name: f.Name})
	}

	sort.Slice(canonical, func(i, j int) bool { return canonical[i].Name < canonical[j].Name })
	sort.Slice(aliases, func(i, j int) bool { return aliases[i].Name < aliases[j].Name })

	index := make(map[string]int, len(canonical))
	for i, n := range canonical {
		index[n.Name] = i
	}

	for _, a := range aliases {
		i, ok := index[a.Target]
		if !ok || canonical[i].Alias != "" {
			logging.Debug("Discovery", "Dropping nodeset alias %s: no canonical nodeset %s", a.Name, a.Target)
			continue
		}
		canonical[i].Alias = a.Name
	}

	sort.SliceStable(canonical, func(i, j int) bool {
		return canonical[i].Label() < canonical[j].Label()
	})
	return canonical
}

type suiteMetadata struct {
	DefaultRun interface{} `yaml:"default_run"`
}

// readDefaultRun reads the default_run flag from a suite metadata file.
// A missing file means false.
func readDefaultRun(path string) (bool, *Warning) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, &Warning{Kind: WarningInvalidMetadata, Path: path, Message: err.Error()}
	}

	var meta suiteMetadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return false, &Warning{Kind: WarningInvalidMetadata, Path: path, Message: err.Error()}
	}

	switch v := meta.DefaultRun.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "on":
			return true, nil
		case "false", "no", "off", "":
			return false, nil
		}
	}
	return false, &Warning{
		Kind:    WarningInvalidMetadata,
		Path:    path,
		Message: fmt.Sprintf("default_run must be a boolean, got %v", meta.DefaultRun),
	}
}

// ResolveNodesetAlias returns the label a nodeset named in a pipeline job
// should carry. The suite's own nodesets directory is consulted first, then
// the global one. If the first definition file found is a symlink, the
// composite "nodeset->real" label is returned; otherwise nodeset unchanged.
func ResolveNodesetAlias(componentDir, suite, nodeset string, opts ...Option) string {
	l := newLayout(componentDir, opts)
	dirs := []string{
		filepath.Join(componentDir, l.suitesDir, suite, suiteNodesetsDir),
		filepath.Join(componentDir, l.nodesetsDir),
	}

	for _, dir := range dirs {
		for _, ext := range nodesetExtensions {
			path := filepath.Join(dir, nodeset+ext)
			fi, err := os.Lstat(path)
			if err != nil {
				continue
			}
			if fi.Mode()&fs.ModeSymlink == 0 {
				return nodeset
			}
			target, err := os.Readlink(path)
			if err != nil {
				logging.Debug("Discovery", "Cannot read nodeset link %s: %v", path, err)
				return nodeset
			}
			return AliasLabel(nodeset, trimExt(filepath.Base(target)))
		}
	}
	return nodeset
}

func isNodesetFile(name string) bool {
	ext := filepath.Ext(name)
	for _, e := range nodesetExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
