package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	suitesDir   = "spec/acceptance/suites"
	nodesetsDir = "spec/acceptance/nodesets"

	// PipelineFile is the pipeline file name written by Pipeline.
	PipelineFile = ".gitlab-ci.yml"
)

// nodesetBody is a minimal beaker nodeset definition.
const nodesetBody = `HOSTS:
  server:
    roles:
      - default
    platform: el-8-x86_64
    box: generic/centos8
CONFIG:
  type: aio
`

// Component builds a component directory tree inside a test's temporary
// directory. All methods fail the test on I/O errors.
type Component struct {
	t    testing.TB
	root string
}

// NewComponent creates an empty component directory named name.
func NewComponent(t testing.TB, name string) *Component {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(root, 0755))
	return &Component{t: t, root: root}
}

// Root returns the component directory.
func (c *Component) Root() string {
	return c.root
}

// Suite creates an empty suite directory.
func (c *Component) Suite(name string) *Component {
	c.t.Helper()
	c.mkdir(filepath.Join(suitesDir, name))
	return c
}

// SuiteMetadata writes the suite's metadata.yml.
func (c *Component) SuiteMetadata(suite, content string) *Component {
	c.t.Helper()
	return c.File(filepath.Join(suitesDir, suite, "metadata.yml"), content)
}

// DefaultRunSuite creates a suite flagged with default_run: true.
func (c *Component) DefaultRunSuite(name string) *Component {
	c.t.Helper()
	return c.Suite(name).SuiteMetadata(name, "default_run: true\n")
}

// GlobalNodesets writes nodeset definitions to the global nodesets directory.
func (c *Component) GlobalNodesets(names ...string) *Component {
	c.t.Helper()
	for _, name := range names {
		c.File(filepath.Join(nodesetsDir, name+".yml"), nodesetBody)
	}
	return c
}

// SuiteNodesets writes nodeset definitions to a suite's own nodesets
// directory.
func (c *Component) SuiteNodesets(suite string, names ...string) *Component {
	c.t.Helper()
	for _, name := range names {
		c.File(filepath.Join(suitesDir, suite, "nodesets", name+".yml"), nodesetBody)
	}
	return c
}

// GlobalNodesetLink creates alias.yml -> target.yml in the global nodesets
// directory.
func (c *Component) GlobalNodesetLink(alias, target string) *Component {
	c.t.Helper()
	return c.link(nodesetsDir, alias, target)
}

// SuiteNodesetLink creates alias.yml -> target.yml in a suite's nodesets
// directory.
func (c *Component) SuiteNodesetLink(suite, alias, target string) *Component {
	c.t.Helper()
	return c.link(filepath.Join(suitesDir, suite, "nodesets"), alias, target)
}

// Pipeline writes the component's .gitlab-ci.yml.
func (c *Component) Pipeline(content string) *Component {
	c.t.Helper()
	return c.File(PipelineFile, content)
}

// File writes content to a path relative to the component root.
func (c *Component) File(rel, content string) *Component {
	c.t.Helper()
	path := filepath.Join(c.root, rel)
	require.NoError(c.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(c.t, os.WriteFile(path, []byte(content), 0644))
	return c
}

func (c *Component) link(dir, alias, target string) *Component {
	c.t.Helper()
	c.mkdir(dir)
	// Relative targets, as committed in real repositories.
	require.NoError(c.t, os.Symlink(target+".yml", filepath.Join(c.root, dir, alias+".yml")))
	return c
}

func (c *Component) mkdir(rel string) {
	c.t.Helper()
	require.NoError(c.t, os.MkdirAll(filepath.Join(c.root, rel), 0755))
}
