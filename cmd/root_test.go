package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"beakermatrix/internal/config"
	"beakermatrix/pkg/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of c and its subcommands to its default so
// that tests can execute rootCmd repeatedly.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs rootCmd with args and returns what it wrote to stdout
// and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		logging.Reset()
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestSetVersion(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "beakermatrix", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"version", "suites", "expected", "actual", "compare", "watch"} {
		assert.True(t, found[name], "subcommand %s should be registered", name)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{
			name: "generic error",
			err:  errors.New("boom"),
			want: ExitCodeError,
		},
		{
			name: "coverage gaps",
			err:  &CoverageGapsError{Components: 1, Total: 2},
			want: ExitCodeCoverageGaps,
		},
		{
			name: "wrapped coverage gaps",
			err:  fmt.Errorf("compare: %w", &CoverageGapsError{Components: 1, Total: 1}),
			want: ExitCodeCoverageGaps,
		},
		{
			name: "configuration error",
			err:  config.NewConfigurationError("/x/beakermatrix.yaml", "beakermatrix.yaml", "user", "parse", "malformed configuration"),
			want: ExitCodeConfigError,
		},
		{
			name: "validation errors",
			err:  config.ValidationErrors{{Field: "output", Message: "must be one of: table"}},
			want: ExitCodeConfigError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}

func TestCoverageGapsError(t *testing.T) {
	err := &CoverageGapsError{Components: 2, Total: 5}
	assert.Equal(t, "coverage gaps in 2 of 5 components", err.Error())
}

func TestInvalidLogFlags(t *testing.T) {
	_, _, err := executeCommand(t, "version", "--log-level", "verbose")
	assert.Error(t, err)

	_, _, err = executeCommand(t, "version", "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported log format")
}

func TestVersionFlag(t *testing.T) {
	original := GetVersion()
	defer SetVersion(original)
	SetVersion("1.0.0")
	rootCmd.SetVersionTemplate(`{{printf "beakermatrix version %s\n" .Version}}`)

	stdout, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "beakermatrix version 1.0.0\n", stdout)
}
