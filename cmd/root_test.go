package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scalectl/internal/config"
	"scalectl/internal/reconciler"
	"scalectl/internal/scalelite"
)

func TestSetVersion(t *testing.T) {
	originalVersion := rootCmd.Version
	defer func() { rootCmd.Version = originalVersion }()

	SetVersion("1.2.3-test")
	assert.Equal(t, "1.2.3-test", rootCmd.Version)
	assert.Equal(t, "1.2.3-test", GetVersion())
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "scalectl", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.True(t, rootCmd.SilenceUsage)
	assert.True(t, rootCmd.SilenceErrors)
}

func TestSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		found[cmd.Name()] = true
	}

	for _, expected := range []string{"version", "apply", "watch", "list", "get"} {
		assert.True(t, found[expected], "expected subcommand %s to be registered", expected)
	}
}

func TestSubcommandsSilenceUsageOnError(t *testing.T) {
	for _, cmd := range []*cobra.Command{newApplyCmd(), newWatchCmd(), newListCmd(), newGetCmd()} {
		assert.True(t, cmd.SilenceUsage, "%s prints usage on error", cmd.Name())
		assert.True(t, cmd.SilenceErrors, "%s prints errors itself", cmd.Name())
	}
}

func TestRootCommandHelp(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--help"})
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "scalectl")
	assert.Contains(t, buf.String(), "apply")
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"plain error", errors.New("boom"), ExitCodeError},
		{
			"api error",
			fmt.Errorf("failed to list servers: %w", &scalelite.APIError{Method: http.MethodGet, Endpoint: scalelite.EndpointGetServers, StatusCode: http.StatusBadGateway}),
			ExitCodeError,
		},
		{"server not found", fmt.Errorf("%w: bbb1.example.org", scalelite.ErrServerNotFound), ExitCodeError},
		{
			"precondition",
			&reconciler.PreconditionError{Identity: "bbb1.example.org", Target: reconciler.TargetCordoned, Reason: "server must exist"},
			ExitCodePrecondition,
		},
		{"single configuration error", config.ConfigurationError{ErrorType: config.ErrorTypeParse, Message: "bad yaml"}, ExitCodeConfig},
		{"configuration error collection", config.Validate(config.Config{}), ExitCodeConfig},
		{"validation error", &reconciler.ValidationError{Field: "url", Message: "has no host"}, ExitCodeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, getExitCode(tt.err))
		})
	}
}
