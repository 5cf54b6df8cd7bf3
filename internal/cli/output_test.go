package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"scalectl/internal/reconciler"
	"scalectl/internal/scalelite"
)

func TestMain(m *testing.M) {
	text.DisableColors()
	os.Exit(m.Run())
}

func testServers() []scalelite.Server {
	return []scalelite.Server{
		{
			ID:             "bbb1.example.org",
			URL:            "https://bbb1.example.org/bigbluebutton/api",
			Secret:         "0123456789abcdef",
			State:          scalelite.StateEnabled,
			Load:           "12.0",
			LoadMultiplier: "1.0",
			Online:         "true",
		},
		{
			ID:             "bbb2.example.org",
			URL:            "https://bbb2.example.org/bigbluebutton/api",
			Secret:         "s2",
			State:          scalelite.StateCordoned,
			LoadMultiplier: "2.5",
			Online:         "false",
		},
	}
}

func newPrinter(format OutputFormat) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return &Printer{Out: &buf, Format: format}, &buf
}

func TestValidateOutputFormat(t *testing.T) {
	for _, format := range ValidOutputFormats {
		assert.NoError(t, ValidateOutputFormat(string(format)))
	}

	for _, format := range []string{"", "table", "wide", "JSON"} {
		err := ValidateOutputFormat(format)
		require.Error(t, err, "format %q", format)
		assert.Contains(t, err.Error(), "unsupported output format")
	}
}

func TestPrintResult_JSON(t *testing.T) {
	p, buf := newPrinter(OutputFormatJSON)

	err := p.PrintResult(reconciler.Result{
		Identity: "bbb1.example.org",
		Action:   reconciler.ActionUpdate,
		Changed:  true,
		Fields:   []string{"state"},
		Response: json.RawMessage(`{"id":"bbb1.example.org","state":"enabled","secret":"0123456789abcdef"}`),
	})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, true, out["changed"])
	assert.Equal(t, "update", out["action"])
	assert.Equal(t, "bbb1.example.org", out["id"])
	assert.Equal(t, []interface{}{"state"}, out["fields"])
	assert.NotContains(t, out, "check_mode")

	response := out["response"].(map[string]interface{})
	assert.Equal(t, "enabled", response["state"])
	assert.Equal(t, "0123****", response["secret"])
}

func TestPrintResult_JSONNoResponse(t *testing.T) {
	p, buf := newPrinter(OutputFormatJSON)

	require.NoError(t, p.PrintResult(reconciler.Result{Identity: "bbb1.example.org", Action: reconciler.ActionNoOp}))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, false, out["changed"])
	assert.Contains(t, out, "response")
	assert.Nil(t, out["response"])
}

func TestPrintResult_YAML(t *testing.T) {
	p, buf := newPrinter(OutputFormatYAML)
	p.ShowSecrets = true

	err := p.PrintResult(reconciler.Result{
		Identity:  "bbb1.example.org",
		Action:    reconciler.ActionDelete,
		Changed:   true,
		CheckMode: true,
		Response:  json.RawMessage(`{"success":"Server id=bbb1.example.org was destroyed"}`),
	})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "delete", out["action"])
	assert.Equal(t, true, out["check_mode"])
	assert.Equal(t, map[string]interface{}{"success": "Server id=bbb1.example.org was destroyed"}, out["response"])
}

func TestPrintResult_Text(t *testing.T) {
	tests := []struct {
		name   string
		result reconciler.Result
		want   string
	}{
		{
			name:   "no change",
			result: reconciler.Result{Identity: "bbb1.example.org", Action: reconciler.ActionNoOp},
			want:   "ok: bbb1.example.org up to date",
		},
		{
			name:   "update",
			result: reconciler.Result{Identity: "bbb1.example.org", Action: reconciler.ActionUpdate, Changed: true, Fields: []string{"state", "secret"}},
			want:   "changed: bbb1.example.org updated (state, secret)",
		},
		{
			name:   "create in check mode",
			result: reconciler.Result{Identity: "bbb1.example.org", Action: reconciler.ActionCreate, Changed: true, CheckMode: true},
			want:   "changed [check mode]: bbb1.example.org would be registered",
		},
		{
			name:   "panic",
			result: reconciler.Result{Identity: "bbb1.example.org", Action: reconciler.ActionPanic, Changed: true},
			want:   "changed: bbb1.example.org panicked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, buf := newPrinter(OutputFormatText)
			require.NoError(t, p.PrintResult(tt.result))
			assert.Equal(t, tt.want+"\n", buf.String())
		})
	}
}

func TestPrintServers_Text(t *testing.T) {
	p, buf := newPrinter(OutputFormatText)
	require.NoError(t, p.PrintServers(testServers()))

	lines := splitLines(buf.String())
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"ID", "STATE", "ONLINE", "LOAD", "MULTIPLIER", "URL"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"bbb1.example.org", "enabled", "true", "12.0", "1.0", "https://bbb1.example.org/bigbluebutton/api"}, strings.Fields(lines[1]))
	assert.NotContains(t, buf.String(), "0123456789abcdef")
}

func TestPrintServers_NoHeaders(t *testing.T) {
	p, buf := newPrinter(OutputFormatText)
	p.NoHeaders = true
	require.NoError(t, p.PrintServers(testServers()))
	assert.Len(t, splitLines(buf.String()), 2)

	buf.Reset()
	require.NoError(t, p.PrintServers(nil))
	assert.Empty(t, buf.String())
}

func TestPrintServers_Empty(t *testing.T) {
	p, buf := newPrinter(OutputFormatText)
	require.NoError(t, p.PrintServers([]scalelite.Server{}))
	assert.Equal(t, "No servers registered\n", buf.String())

	p, buf = newPrinter(OutputFormatJSON)
	require.NoError(t, p.PrintServers([]scalelite.Server{}))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrintServers_JSONRedactsSecrets(t *testing.T) {
	servers := testServers()
	p, buf := newPrinter(OutputFormatJSON)
	require.NoError(t, p.PrintServers(servers))

	var out []scalelite.Server
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "0123****", out[0].Secret)
	assert.Equal(t, "****", out[1].Secret)
	assert.Equal(t, "0123456789abcdef", servers[0].Secret, "input is left untouched")

	buf.Reset()
	p.ShowSecrets = true
	require.NoError(t, p.PrintServers(servers))
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "0123456789abcdef", out[0].Secret)
}

func TestPrintServers_YAML(t *testing.T) {
	p, buf := newPrinter(OutputFormatYAML)
	require.NoError(t, p.PrintServers(testServers()))

	var out []map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "bbb2.example.org", out[1]["id"])
	assert.Equal(t, "2.5", out[1]["load_multiplier"])
}

func TestPrintServer_Text(t *testing.T) {
	p, buf := newPrinter(OutputFormatText)
	require.NoError(t, p.PrintServer(testServers()[0]))

	output := buf.String()
	assert.Contains(t, output, "bbb1.example.org")
	assert.Contains(t, output, "Load multiplier")
	assert.Contains(t, output, "enabled")
	assert.Contains(t, output, "0123****")
	assert.NotContains(t, output, "0123456789abcdef")
	assert.Contains(t, output, "╭", "rounded table style")
}

func TestPrintServer_JSON(t *testing.T) {
	p, buf := newPrinter(OutputFormatJSON)
	require.NoError(t, p.PrintServer(testServers()[1]))

	var out scalelite.Server
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, scalelite.StateCordoned, out.State)
	assert.Equal(t, scalelite.FlexString("false"), out.Online)
}

func TestPrinter_UnsupportedFormat(t *testing.T) {
	p, _ := newPrinter("table")
	assert.Error(t, p.PrintResult(reconciler.Result{}))
	assert.Error(t, p.PrintServers(nil))
	assert.Error(t, p.PrintServer(scalelite.Server{}))
}
