package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"scalectl/internal/config"
	"scalectl/internal/testing/scalelitemock"
)

const (
	testAPISecret = "api-secret"
	bbbURL        = "https://bbb1.example.org/bigbluebutton/api"
	bbbID         = "bbb1.example.org"
)

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestAPI starts a fake Scalelite API and points the environment at it.
func newTestAPI(t *testing.T) *scalelitemock.Server {
	t.Helper()
	api := scalelitemock.NewServer(t, testAPISecret)
	t.Setenv(config.EnvAPIURL, api.URL())
	t.Setenv(config.EnvAPISecret, testAPISecret)
	return api
}

// runCommand executes cmd with args and returns what it wrote to stdout and
// stderr.
func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	return runCommandContext(context.Background(), cmd, args...)
}

func runCommandContext(ctx context.Context, cmd *cobra.Command, args ...string) (string, string, error) {
	var stdout, stderr syncBuffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func writeDesiredState(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func desiredStatePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "bbb1.yaml")
}
