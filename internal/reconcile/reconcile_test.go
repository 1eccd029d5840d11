package reconcile

import (
	"encoding/json"
	"testing"

	"beakermatrix/internal/matrix"
	"beakermatrix/internal/pipeline"
	"beakermatrix/internal/suites"
	"beakermatrix/internal/testing/fixtures"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(component string, suite matrix.SuiteRef, nodeset, version string, mode matrix.SecurityMode) matrix.Entry {
	return matrix.Entry{
		Component:       component,
		Suite:           suite,
		Nodeset:         nodeset,
		PlatformVersion: version,
		SecurityMode:    mode,
	}
}

func TestClassify(t *testing.T) {
	expected := entry("c", matrix.Single("extra"), "default", "6", matrix.SecurityDisabled)
	defaultJob := entry("c", matrix.DefaultPlusAdditions("default", "extra"), "default", "6", matrix.SecurityDisabled)

	tests := []struct {
		name     string
		expected matrix.Entry
		actual   []matrix.Entry
		want     Status
	}{
		{
			name:     "exact match",
			expected: expected,
			actual:   []matrix.Entry{expected},
			want:     Present,
		},
		{
			name:     "exact match wins over default job",
			expected: expected,
			actual:   []matrix.Entry{defaultJob, expected},
			want:     Present,
		},
		{
			name:     "covered by default job",
			expected: expected,
			actual:   []matrix.Entry{defaultJob},
			want:     PresentViaDefaultJob,
		},
		{
			name:     "default job on other version",
			expected: expected,
			actual:   []matrix.Entry{entry("c", matrix.DefaultPlusAdditions("default", "extra"), "default", "7", matrix.SecurityDisabled)},
			want:     Absent,
		},
		{
			name:     "default job in other security mode",
			expected: expected,
			actual:   []matrix.Entry{entry("c", matrix.DefaultPlusAdditions("default", "extra"), "default", "6", matrix.SecurityEnabled)},
			want:     Absent,
		},
		{
			name:     "default job without the suite",
			expected: expected,
			actual:   []matrix.Entry{entry("c", matrix.DefaultPlusAdditions("default"), "default", "6", matrix.SecurityDisabled)},
			want:     Absent,
		},
		{
			name:     "other component",
			expected: expected,
			actual:   []matrix.Entry{entry("d", matrix.Single("extra"), "default", "6", matrix.SecurityDisabled)},
			want:     Absent,
		},
		{
			name:     "absence",
			expected: entry("c", matrix.Single("s3"), "n1", "6", matrix.SecurityEnabled),
			actual:   []matrix.Entry{entry("c", matrix.Single("s3"), "n1", "6", matrix.SecurityDisabled)},
			want:     Absent,
		},
		{
			name:     "empty actual",
			expected: expected,
			actual:   nil,
			want:     Absent,
		},
		{
			name:     "sentinel against sentinel",
			expected: matrix.Sentinel("c"),
			actual:   []matrix.Entry{matrix.Sentinel("c")},
			want:     Present,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.expected, tt.actual))
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "present", Present.String())
	assert.Equal(t, "present-via-default-job", PresentViaDefaultJob.String())
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "Status(9)", Status(9).String())

	data, err := json.Marshal(Result{Entry: matrix.Sentinel("c"), Status: PresentViaDefaultJob})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"present-via-default-job"`)

	var decoded Result
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, PresentViaDefaultJob, decoded.Status)

	var status Status
	assert.Error(t, json.Unmarshal([]byte(`"missing"`), &status))
}

func TestReconcile_SummaryAndUnexpected(t *testing.T) {
	present := entry("c", matrix.Single("default"), "default", "7", matrix.SecurityDisabled)
	absent := entry("c", matrix.Single("default"), "default", "7", matrix.SecurityEnabled)
	stale := entry("c", matrix.Single("removed"), "default", "7", matrix.SecurityDisabled)

	report := Reconcile("c", []matrix.Entry{absent, present}, []matrix.Entry{present, stale})

	require.Len(t, report.Results, 2)
	assert.Equal(t, absent, report.Results[0].Entry, "results keep expected order")
	assert.Equal(t, Absent, report.Results[0].Status)
	assert.Equal(t, Present, report.Results[1].Status)

	assert.Equal(t, Summary{Total: 2, Present: 1, Absent: 1, Unexpected: 1}, report.Summary)
	assert.Equal(t, []matrix.Entry{stale}, report.Unexpected)
	assert.True(t, report.HasGaps())
	assert.Equal(t, []matrix.Entry{absent}, report.Gaps())
}

func TestReconcile_AliasSymmetry(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		GlobalNodesets("a").
		GlobalNodesetLink("b", "a")

	info, err := suites.Discover(c.Root())
	require.NoError(t, err)
	def, _ := info.Suite("default")
	require.Equal(t, []string{"b->a"}, def.NodesetLabels())

	doc, err := pipeline.Parse([]byte(`
acc:
  stage: acceptance
  variables:
    PUPPET_VERSION: "7"
  script: bundle exec rake beaker:suites[default,b]
`))
	require.NoError(t, err)
	actual := pipeline.Extract(doc, info)
	require.Len(t, actual.Entries, 1)
	assert.Equal(t, "b->a", actual.Entries[0].Nodeset)

	expected := entry("foo", matrix.Single("default"), "b->a", "7", matrix.SecurityDisabled)
	assert.Equal(t, Present, Classify(expected, actual.Entries))
}

func TestReconcile_DefaultJobCoverage(t *testing.T) {
	c := fixtures.NewComponent(t, "component").
		Suite("default").
		DefaultRunSuite("extra").
		GlobalNodesets("default")

	info, err := suites.Discover(c.Root())
	require.NoError(t, err)

	doc, err := pipeline.Parse([]byte(`
acc:
  stage: acceptance
  variables:
    PUPPET_VERSION: "6"
  script:
    - bundle exec rake beaker:suites
`))
	require.NoError(t, err)
	actual := pipeline.Extract(doc, info)

	expected := entry("component", matrix.Single("extra"), "default", "6", matrix.SecurityDisabled)
	assert.Equal(t, PresentViaDefaultJob, Classify(expected, actual.Entries))
}

func TestReconcile_EndToEnd(t *testing.T) {
	c := fixtures.NewComponent(t, "foo").
		Suite("default").
		SuiteNodesets("default", "default").
		DefaultRunSuite("fips_check").
		SuiteNodesets("fips_check", "default").
		Pipeline(`
stages:
  - acceptance
pup7:
  stage: acceptance
  variables:
    PUPPET_VERSION: "7"
  script:
    - bundle exec rake beaker:suites
`)

	info, err := suites.Discover(c.Root())
	require.NoError(t, err)
	doc, err := pipeline.Load(c.Root() + "/" + fixtures.PipelineFile)
	require.NoError(t, err)

	actual := pipeline.Extract(doc, info)
	assert.Equal(t, []string{"7"}, actual.PlatformVersions)

	expected := matrix.Expand(info, []string{"7"}, true)
	require.Len(t, expected, 4, "2 suites x 1 nodeset x 1 version x 2 modes")

	report := Reconcile("foo", expected, actual.Entries)
	for _, res := range report.Results {
		switch res.Entry.SecurityMode {
		case matrix.SecurityDisabled:
			assert.Equal(t, PresentViaDefaultJob, res.Status, "entry %s", res.Entry)
		case matrix.SecurityEnabled:
			assert.Equal(t, Absent, res.Status, "entry %s", res.Entry)
		default:
			t.Fatalf("unexpected security mode in %s", res.Entry)
		}
	}
	assert.Equal(t, Summary{Total: 4, PresentViaDefaultJob: 2, Absent: 2}, report.Summary)
	assert.Empty(t, report.Unexpected)
}
