package cmd

import (
	"errors"
	"fmt"
	"os"

	"beakermatrix/internal/config"
	"beakermatrix/pkg/logging"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeCoverageGaps indicates that expected acceptance permutations
	// are missing from a pipeline and --fail-on-absent was given.
	ExitCodeCoverageGaps = 2
	// ExitCodeConfigError indicates an unreadable or invalid configuration.
	ExitCodeConfigError = 3
)

// Global flags shared by all subcommands.
var (
	configPath     string
	logLevel       string
	logFormat      string
	outputFormat   string
	outputTemplate string
	quiet          bool
)

// rootCmd represents the base command for the beakermatrix application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "beakermatrix",
	Short: "Cross-check acceptance test suites against CI pipelines",
	Long: `beakermatrix discovers the beaker acceptance suites and nodesets of SIMP
components, expands them into the full matrix of permutations that could run
and compares that matrix with the acceptance jobs declared in each component's
GitLab CI pipeline, reporting permutations that are never exercised.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

// CoverageGapsError is returned by compare --fail-on-absent when expected
// entries are absent from the pipelines.
type CoverageGapsError struct {
	Components int
	Total      int
}

func (e *CoverageGapsError) Error() string {
	return fmt.Sprintf("coverage gaps in %d of %d components", e.Components, e.Total)
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// This function is called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "beakermatrix version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var gaps *CoverageGapsError
	if errors.As(err, &gaps) {
		return ExitCodeCoverageGaps
	}

	var cfgErr config.ConfigurationError
	if errors.As(err, &cfgErr) {
		return ExitCodeConfigError
	}

	var validationErrs config.ValidationErrors
	if errors.As(err, &validationErrs) {
		return ExitCodeConfigError
	}

	return ExitCodeError
}

// initLogging configures the logging facade from the global flags.
func initLogging(cmd *cobra.Command, args []string) error {
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	switch logging.Format(logFormat) {
	case logging.FormatText:
		logging.InitForCLI(level, cmd.ErrOrStderr())
	case logging.FormatJSON:
		logging.Init(logging.FormatJSON, level, cmd.ErrOrStderr())
	default:
		return fmt.Errorf("unsupported log format %q", logFormat)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSuitesCmd())
	rootCmd.AddCommand(newExpectedCmd())
	rootCmd.AddCommand(newActualCmd())
	rootCmd.AddCommand(newCompareCmd())
	rootCmd.AddCommand(newWatchCmd())

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config-path", "", "Configuration directory (default is $HOME/.config/beakermatrix)")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", string(logging.FormatText), "Log format (text, json)")
	flags.StringVarP(&outputFormat, "output", "o", "", "Output format (table, console, json, yaml, template); defaults to the configured format")
	flags.StringVar(&outputTemplate, "template", "", "Go template used by --output template, with sprig functions")
	flags.BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
}
