package suites

import (
	"testing"

	"beakermatrix/internal/testing/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscover_NoSuitesDirectory(t *testing.T) {
	c := fixtures.NewComponent(t, "pupmod-simp-empty")

	info, err := Discover(c.Root())
	require.NoError(t, err)
	assert.Equal(t, "pupmod-simp-empty", info.Component)
	assert.Empty(t, info.Suites)
}

func TestDiscover_GlobalNodesetFallback(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		Suite("extra").
		SuiteNodesets("extra", "local").
		GlobalNodesets("default", "centos")

	info, err := Discover(c.Root())
	require.NoError(t, err)
	require.Len(t, info.Suites, 2)

	def, ok := info.Suite("default")
	require.True(t, ok)
	assert.Equal(t, []string{"centos", "default"}, def.NodesetLabels(), "suite without local nodesets gets the global set")

	extra, ok := info.Suite("extra")
	require.True(t, ok)
	assert.Equal(t, []string{"local"}, extra.NodesetLabels(), "local nodesets replace the global set")
}

func TestDiscover_EmptyLocalNodesetsDirFallsBack(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		File("spec/acceptance/suites/default/nodesets/README.md", "not a nodeset").
		GlobalNodesets("default")

	info, err := Discover(c.Root())
	require.NoError(t, err)

	def, _ := info.Suite("default")
	assert.Equal(t, []string{"default"}, def.NodesetLabels())
}

func TestDiscover_AliasRewritesCanonicalEntry(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		GlobalNodesets("centos", "default").
		GlobalNodesetLink("oel", "centos")

	info, err := Discover(c.Root())
	require.NoError(t, err)

	def, _ := info.Suite("default")
	assert.Equal(t, []string{"default", "oel->centos"}, def.NodesetLabels())
	assert.NotContains(t, def.NodesetLabels(), "centos", "the canonical entry is rewritten, not duplicated")
	assert.NotContains(t, def.NodesetLabels(), "oel", "a symlink never becomes a canonical entry")
}

func TestDiscover_DanglingAliasDropped(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		SuiteNodesets("default", "default").
		SuiteNodesetLink("default", "oel", "missing")

	info, err := Discover(c.Root())
	require.NoError(t, err)

	def, _ := info.Suite("default")
	assert.Equal(t, []string{"default"}, def.NodesetLabels())
}

func TestDiscover_LocalLinksIntoGlobalDirYieldNoNodesets(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		Suite("linked").
		GlobalNodesets("centos", "default").
		SuiteNodesetLink("linked", "oel", "../../../nodesets/centos").
		SuiteNodesetLink("linked", "default", "../../../nodesets/default")

	info, err := Discover(c.Root())
	require.NoError(t, err)
	require.Len(t, info.Suites, 2)

	linked, ok := info.Suite("linked")
	require.True(t, ok)
	assert.Empty(t, linked.Nodesets, "links into the global directory are dropped and do not trigger the global fallback")
	assert.Empty(t, info.Warnings)

	def, _ := info.Suite("default")
	assert.Equal(t, []string{"centos", "default"}, def.NodesetLabels())
}

func TestDiscover_DefaultRunFlag(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		SuiteMetadata("default", "default_run: true\n").
		DefaultRunSuite("fips_check").
		Suite("manual").
		SuiteMetadata("manual", "default_run: false\n").
		Suite("yes-string").
		SuiteMetadata("yes-string", "default_run: 'yes'\n").
		GlobalNodesets("default")

	info, err := Discover(c.Root())
	require.NoError(t, err)

	def, _ := info.Suite("default")
	assert.False(t, def.DefaultRun, "the default suite is never flagged")

	assert.Equal(t, []string{"fips_check", "yes-string"}, info.DefaultRunSuites())
	assert.Empty(t, info.Warnings)
}

func TestDiscover_InvalidMetadataWarns(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("broken").
		SuiteMetadata("broken", "default_run: [true\n").
		Suite("odd").
		SuiteMetadata("odd", "default_run: 3\n").
		GlobalNodesets("default")

	info, err := Discover(c.Root())
	require.NoError(t, err)
	require.Len(t, info.Suites, 2)
	assert.Empty(t, info.DefaultRunSuites())
	require.Len(t, info.Warnings, 2)
	for _, w := range info.Warnings {
		assert.Equal(t, WarningInvalidMetadata, w.Kind)
	}
}

func TestDiscover_SortedAndDeterministic(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("zeta").
		Suite("alpha").
		Suite("default").
		GlobalNodesets("oel8", "centos7", "default")

	first, err := Discover(c.Root())
	require.NoError(t, err)
	second, err := Discover(c.Root())
	require.NoError(t, err)

	assert.Equal(t, []string{"alpha", "default", "zeta"}, first.suiteNames())
	assert.Equal(t, first, second)
}

func TestDiscover_Options(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		File("acceptance/suites/default/.keep", "").
		File("acceptance/nodesets/custom.yml", "HOSTS: {}\n")

	info, err := Discover(c.Root(),
		WithComponent("simp-foo"),
		WithSuitesDir("acceptance/suites"),
		WithNodesetsDir("acceptance/nodesets"),
	)
	require.NoError(t, err)
	assert.Equal(t, "simp-foo", info.Component)
	require.Len(t, info.Suites, 1)
	assert.Equal(t, []string{"custom"}, info.Suites[0].NodesetLabels())
}

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		name     string
		files    []nodesetFile
		expected []string
	}{
		{
			name:     "canonical only",
			files:    []nodesetFile{{Name: "b"}, {Name: "a"}},
			expected: []string{"a", "b"},
		},
		{
			name:     "alias rewrites target",
			files:    []nodesetFile{{Name: "a"}, {Name: "b", Target: "a"}},
			expected: []string{"b->a"},
		},
		{
			name:     "second alias of same target is dropped",
			files:    []nodesetFile{{Name: "a"}, {Name: "c", Target: "a"}, {Name: "b", Target: "a"}},
			expected: []string{"b->a"},
		},
		{
			name:     "alias to alias is dropped",
			files:    []nodesetFile{{Name: "a"}, {Name: "b", Target: "a"}, {Name: "c", Target: "b"}},
			expected: []string{"b->a"},
		},
		{
			name:     "no files",
			files:    nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suite{Nodesets: resolveAliases(tt.files)}.NodesetLabels()
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveNodesetAlias(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		Suite("local").
		SuiteNodesets("local", "centos", "oel").
		GlobalNodesets("default", "centos").
		GlobalNodesetLink("oel", "centos")

	tests := []struct {
		name     string
		suite    string
		nodeset  string
		expected string
	}{
		{"global alias", "default", "oel", "oel->centos"},
		{"global canonical", "default", "centos", "centos"},
		{"suite file shadows global alias", "local", "oel", "oel"},
		{"unknown nodeset unchanged", "default", "missing", "missing"},
		{"unknown suite falls back to global", "nope", "oel", "oel->centos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveNodesetAlias(c.Root(), tt.suite, tt.nodeset))
		})
	}
}

func TestNodesetRef_Label(t *testing.T) {
	assert.Equal(t, "default", NodesetRef{Name: "default"}.Label())
	assert.Equal(t, "oel->centos", NodesetRef{Name: "centos", Alias: "oel"}.Label())
}
