package matrix

import (
	"encoding/json"
	"testing"

	"beakermatrix/internal/suites"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func componentInfo(component string, suiteNodesets map[string][]string) *suites.ComponentTestInfo {
	info := &suites.ComponentTestInfo{Component: component}
	for name, nodesets := range suiteNodesets {
		s := suites.Suite{Name: name}
		for _, n := range nodesets {
			s.Nodesets = append(s.Nodesets, suites.NodesetRef{Name: n})
		}
		info.Suites = append(info.Suites, s)
	}
	return info
}

func TestExpand_SentinelTotality(t *testing.T) {
	tests := []struct {
		name     string
		info     *suites.ComponentTestInfo
		versions []string
	}{
		{"no suites", componentInfo("c", nil), []string{"6", "7"}},
		{"no versions", componentInfo("c", map[string][]string{"s1": {"n1"}}), nil},
		{"empty versions", componentInfo("c", map[string][]string{"s1": {"n1"}}), []string{}},
		{"suites without nodesets", componentInfo("c", map[string][]string{"s1": nil}), []string{"6"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Expand(tt.info, tt.versions, true)
			assert.Equal(t, []Entry{Sentinel("c")}, got)
		})
	}
}

func TestExpand_NilInfo(t *testing.T) {
	assert.Equal(t, []Entry{Sentinel("")}, Expand(nil, []string{"7"}, false))
}

func TestExpand_CartesianCompleteness(t *testing.T) {
	info := componentInfo("c", map[string][]string{"s1": {"n1", "n2"}})

	got := Expand(info, []string{"6", "7"}, true)
	require.Len(t, got, 8)

	seen := make(map[string]bool)
	for _, e := range got {
		assert.False(t, seen[e.String()], "duplicate entry %s", e)
		seen[e.String()] = true
		assert.False(t, e.Suite.IsSet(), "expected entries never carry a suite set")
	}

	assert.Contains(t, got, Entry{
		Component: "c", Suite: Single("s1"), Nodeset: "n2", PlatformVersion: "7", SecurityMode: SecurityEnabled,
	})
}

func TestExpand_WithoutFIPSSplit(t *testing.T) {
	info := componentInfo("c", map[string][]string{"s1": {"n1"}})

	got := Expand(info, []string{"6"}, false)
	assert.Equal(t, []Entry{
		{Component: "c", Suite: Single("s1"), Nodeset: "n1", PlatformVersion: "6", SecurityMode: SecurityDisabled},
	}, got)
}

func TestExpand_AliasLabels(t *testing.T) {
	info := &suites.ComponentTestInfo{
		Component: "c",
		Suites: []suites.Suite{{
			Name:     "default",
			Nodesets: []suites.NodesetRef{{Name: "centos", Alias: "oel"}},
		}},
	}

	got := Expand(info, []string{"7"}, false)
	require.Len(t, got, 1)
	assert.Equal(t, "oel->centos", got[0].Nodeset)
}

func TestExpand_IdempotentAndSorted(t *testing.T) {
	info := componentInfo("c", map[string][]string{
		"zeta":    {"b", "a"},
		"alpha":   {"x"},
		"default": {"default"},
	})
	versions := []string{"7", "6"}

	first := Expand(info, versions, true)
	second := Expand(info, versions, true)
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].String(), first[i].String())
	}
}

func TestSuiteRef(t *testing.T) {
	single := Single("default")
	assert.False(t, single.IsSet())
	assert.Equal(t, "default", single.Name())
	assert.Equal(t, "default", single.String())
	assert.True(t, single.Contains("default"))

	set := DefaultPlusAdditions("fips_check", "default", "fips_check")
	assert.True(t, set.IsSet())
	assert.Equal(t, "", set.Name())
	assert.Equal(t, []string{"default", "fips_check"}, set.Names())
	assert.Equal(t, "[default, fips_check]", set.String())
	assert.True(t, set.Contains("fips_check"))
	assert.False(t, set.Contains("other"))

	assert.False(t, Single("default").Equal(DefaultPlusAdditions("default")), "variants never compare equal")
	assert.True(t, set.Equal(DefaultPlusAdditions("default", "fips_check")))
}

func TestSuiteRef_JSON(t *testing.T) {
	entry := Entry{
		Component:       "foo",
		Suite:           DefaultPlusAdditions("default", "extra"),
		Nodeset:         "default",
		PlatformVersion: "7",
		SecurityMode:    SecurityDisabled,
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"component":"foo","suite":["default","extra"],"nodeset":"default","platformVersion":"7","securityMode":"disabled"}`, string(data))

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, entry.Equal(decoded))

	require.NoError(t, json.Unmarshal([]byte(`{"suite":"default"}`), &decoded))
	assert.Equal(t, Single("default"), decoded.Suite)

	assert.Error(t, json.Unmarshal([]byte(`{"suite":3}`), &decoded))
}

func TestSentinel(t *testing.T) {
	s := Sentinel("foo")
	assert.True(t, s.IsSentinel())
	assert.Equal(t, "foo | NONE | N/A | N/A | N/A", s.String())

	notSentinel := s
	notSentinel.PlatformVersion = "7"
	assert.False(t, notSentinel.IsSentinel())
}

func TestDedupe(t *testing.T) {
	a := Entry{Component: "c", Suite: Single("a"), Nodeset: "n", PlatformVersion: "6", SecurityMode: SecurityDisabled}
	b := Entry{Component: "c", Suite: Single("b"), Nodeset: "n", PlatformVersion: "6", SecurityMode: SecurityDisabled}

	assert.Equal(t, []Entry{a, b}, Dedupe([]Entry{b, a, b, a}))
	assert.Empty(t, Dedupe(nil))
}
