package cli

import (
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"scalectl/internal/config"
	"scalectl/pkg/logging"
)

// DefaultLogLevel keeps the CLI silent apart from warnings and errors.
const DefaultLogLevel = "warn"

// CommandFlags holds the flag values shared by all commands that talk to the
// Scalelite API.
type CommandFlags struct {
	// OutputFormat specifies the desired output format (text, json, yaml)
	OutputFormat string
	// NoHeaders suppresses the header row in table output
	NoHeaders bool
	// Quiet suppresses progress indicators and non-essential output
	Quiet bool
	// Debug enables debug logging, including every API request
	Debug bool
	// LogLevel is the minimum level of log messages; --debug overrides it
	LogLevel string
	// NoColor disables colored output
	NoColor bool
	// ShowSecrets prints server secrets instead of redacting them
	ShowSecrets bool
	// Timeout is the per-request timeout
	Timeout time.Duration
	// APIURL is the base URL of the Scalelite API
	APIURL string
	// APISecret is the secret used to sign API requests
	APISecret string
}

// RegisterCommonFlags registers the flags used by every API command.
//
// The registered flags are:
//   - --output/-o: Output format (text, json, yaml), default: "text"
//   - --no-headers: Suppress header row in table output
//   - --quiet/-q: Suppress non-essential output
//   - --debug: Enable debug logging
//   - --log-level: Minimum log level (debug, info, warn, error), default: "warn"
//   - --no-color: Disable colored output
//   - --show-secrets: Print server secrets
//   - --timeout: Per-request timeout
//   - --api-url: Scalelite API base URL (env: SCALECTL_API_URL)
//   - --api-secret: Scalelite API secret (env: SCALECTL_API_SECRET)
func RegisterCommonFlags(cmd *cobra.Command, flags *CommandFlags) {
	cmd.Flags().StringVarP(&flags.OutputFormat, "output", "o", string(OutputFormatText), "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&flags.NoHeaders, "no-headers", false, "Suppress header row in table output")
	cmd.Flags().BoolVarP(&flags.Quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.Flags().BoolVar(&flags.Debug, "debug", false, "Enable debug logging (show API requests)")
	cmd.Flags().StringVar(&flags.LogLevel, "log-level", DefaultLogLevel, "Minimum log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.NoColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&flags.ShowSecrets, "show-secrets", false, "Print server secrets instead of redacting them")
	cmd.Flags().DurationVar(&flags.Timeout, "timeout", config.DefaultTimeout, "Timeout of each API request")
	cmd.Flags().StringVar(&flags.APIURL, "api-url", "", fmt.Sprintf("Scalelite API base URL (env: %s)", config.EnvAPIURL))
	cmd.Flags().StringVar(&flags.APISecret, "api-secret", "", fmt.Sprintf("Scalelite API secret (env: %s)", config.EnvAPISecret))
}

// Validate checks flag values that cobra cannot check by itself.
func (f *CommandFlags) Validate() error {
	if err := ValidateOutputFormat(f.OutputFormat); err != nil {
		return err
	}
	_, err := logging.ParseLevel(f.LogLevel)
	return err
}

// Setup initializes logging and colors according to the flags. Logs go to
// the command's error stream.
func (f *CommandFlags) Setup(cmd *cobra.Command) {
	level := f.logLevel()
	logging.InitForCLI(level, cmd.ErrOrStderr())

	if f.NoColor {
		text.DisableColors()
	}
}

// logLevel resolves the effective log level. An unparsable level falls back
// to warnings, Validate reports it.
func (f *CommandFlags) logLevel() logging.LogLevel {
	if f.Debug {
		return logging.LevelDebug
	}
	level, err := logging.ParseLevel(f.LogLevel)
	if err != nil || f.LogLevel == "" {
		return logging.LevelWarn
	}
	return level
}

// Overrides returns the API settings that were set on the command line.
func (f *CommandFlags) Overrides(cmd *cobra.Command) config.Overrides {
	var o config.Overrides
	if cmd.Flags().Changed("api-url") {
		o.APIURL = &f.APIURL
	}
	if cmd.Flags().Changed("api-secret") {
		o.APISecret = &f.APISecret
	}
	if cmd.Flags().Changed("timeout") {
		o.Timeout = &f.Timeout
	}
	return o
}

// Printer returns a Printer writing to the command's output stream.
func (f *CommandFlags) Printer(cmd *cobra.Command) *Printer {
	return &Printer{
		Out:         cmd.OutOrStdout(),
		Format:      OutputFormat(f.OutputFormat),
		NoHeaders:   f.NoHeaders,
		ShowSecrets: f.ShowSecrets,
	}
}

// Progress starts a spinner on the command's error stream unless quiet.
func (f *CommandFlags) Progress(cmd *cobra.Command, message string) *Progress {
	return StartProgress(cmd.ErrOrStderr(), f.Quiet, message)
}
