package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"scalectl/internal/cli"
	"scalectl/internal/config"
	"scalectl/internal/reconciler"
)

// Exit codes for CLI commands.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error, including every API or network failure.
	ExitCodeError = 1
	// ExitCodePrecondition indicates the desired state cannot be reached from the current one.
	ExitCodePrecondition = 2
	// ExitCodeConfig indicates invalid configuration, detected before any API call.
	ExitCodeConfig = 3
)

// rootCmd represents the base command for the scalectl application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "scalectl",
	Short: "Manage BigBlueButton server registrations in Scalelite",
	Long: `scalectl keeps the registration of a BigBlueButton server in a Scalelite
load balancer in line with its desired state. It registers, enables, disables,
cordons, panics or removes the server, and updates its secret and load
multiplier, making only the API calls needed to converge.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors that are handled by the application.
	SilenceUsage: true,
	// Errors are printed by Execute so they can be explained.
	SilenceErrors: true,
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
// The command context is cancelled on SIGINT and SIGTERM.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "scalectl version %s\n" .Version}}`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", text.FgRed.Sprint("Error:"), cli.Describe(err))
		os.Exit(getExitCode(err))
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}

	var preconditionErr *reconciler.PreconditionError
	if errors.As(err, &preconditionErr) {
		return ExitCodePrecondition
	}

	if config.IsConfigurationError(err) {
		return ExitCodeConfig
	}

	var validationErr *reconciler.ValidationError
	if errors.As(err, &validationErr) {
		return ExitCodeConfig
	}

	return ExitCodeError
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newGetCmd())
}
