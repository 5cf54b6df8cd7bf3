package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"

	"scalectl/internal/reconciler"
	"scalectl/internal/scalelite"
	"scalectl/pkg/logging"
)

// OutputFormat represents the supported output formats for CLI commands.
type OutputFormat string

const (
	// OutputFormatText formats output for humans
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON formats output as indented JSON
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML formats output as YAML
	OutputFormatYAML OutputFormat = "yaml"
)

// ValidOutputFormats contains all valid output format values.
var ValidOutputFormats = []OutputFormat{
	OutputFormatText,
	OutputFormatJSON,
	OutputFormatYAML,
}

// ValidateOutputFormat validates that the given format string is a supported output format.
func ValidateOutputFormat(format string) error {
	switch OutputFormat(format) {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return nil
	default:
		return fmt.Errorf("unsupported output format %q: must be one of text, json, yaml", format)
	}
}

// Printer writes command output in the selected format.
type Printer struct {
	Out         io.Writer
	Format      OutputFormat
	NoHeaders   bool
	ShowSecrets bool
}

// resultView is the printed form of a reconciliation result. The raw API
// response is decoded so that it renders natively in YAML.
type resultView struct {
	Changed   bool        `json:"changed" yaml:"changed"`
	Action    string      `json:"action" yaml:"action"`
	ID        string      `json:"id" yaml:"id"`
	Fields    []string    `json:"fields,omitempty" yaml:"fields,omitempty"`
	CheckMode bool        `json:"check_mode,omitempty" yaml:"check_mode,omitempty"`
	Response  interface{} `json:"response" yaml:"response"`
}

// PrintResult prints the outcome of one reconciliation.
func (p *Printer) PrintResult(result reconciler.Result) error {
	view := resultView{
		Changed:   result.Changed,
		Action:    string(result.Action),
		ID:        result.Identity,
		Fields:    result.Fields,
		CheckMode: result.CheckMode,
	}
	if len(result.Response) > 0 {
		if err := json.Unmarshal(result.Response, &view.Response); err != nil {
			// Not JSON; keep the payload readable
			view.Response = string(result.Response)
		}
		view.Response = p.redactResponse(view.Response)
	}

	switch p.Format {
	case OutputFormatJSON:
		return p.writeJSON(view)
	case OutputFormatYAML:
		return p.writeYAML(view)
	case OutputFormatText, "":
		fmt.Fprintln(p.Out, summarize(result))
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}
}

// summarize renders a result as a single colored line.
func summarize(result reconciler.Result) string {
	var what string
	switch result.Action {
	case reconciler.ActionCreate:
		what = "registered"
	case reconciler.ActionUpdate:
		what = "updated"
	case reconciler.ActionDelete:
		what = "deleted"
	case reconciler.ActionPanic:
		what = "panicked"
	default:
		what = "up to date"
	}
	if len(result.Fields) > 0 {
		what += " (" + strings.Join(result.Fields, ", ") + ")"
	}

	status := text.FgGreen.Sprint("ok")
	if result.Changed {
		status = text.FgYellow.Sprint("changed")
	}
	if result.CheckMode {
		status += text.FgHiBlack.Sprint(" [check mode]")
		if result.Changed {
			what = "would be " + what
		}
	}

	return fmt.Sprintf("%s: %s %s", status, result.Identity, what)
}

// PrintServers prints a list of servers.
func (p *Printer) PrintServers(servers []scalelite.Server) error {
	servers = p.redactServers(servers)

	switch p.Format {
	case OutputFormatJSON:
		return p.writeJSON(servers)
	case OutputFormatYAML:
		return p.writeYAML(servers)
	case OutputFormatText, "":
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}

	if len(servers) == 0 {
		if !p.NoHeaders {
			fmt.Fprintln(p.Out, "No servers registered")
		}
		return nil
	}

	tw := NewPlainTableWriter(p.Out)
	tw.SetHeaders([]string{"id", "state", "online", "load", "multiplier", "url"})
	tw.SetNoHeaders(p.NoHeaders)
	for _, s := range servers {
		tw.AppendRow([]string{
			s.ID,
			colorState(s.State),
			s.Online.String(),
			s.Load.String(),
			s.LoadMultiplier.String(),
			s.URL,
		})
	}
	tw.Render()
	return nil
}

// PrintServer prints the details of one server.
func (p *Printer) PrintServer(server scalelite.Server) error {
	server = p.redactServers([]scalelite.Server{server})[0]

	switch p.Format {
	case OutputFormatJSON:
		return p.writeJSON(server)
	case OutputFormatYAML:
		return p.writeYAML(server)
	case OutputFormatText, "":
	default:
		return fmt.Errorf("unsupported output format: %s", p.Format)
	}

	t := table.NewWriter()
	t.SetOutputMirror(p.Out)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{text.FgHiCyan.Sprint("FIELD"), text.FgHiCyan.Sprint("VALUE")})

	rows := []struct {
		key   string
		value string
	}{
		{"ID", server.ID},
		{"URL", server.URL},
		{"State", colorState(server.State)},
		{"Online", server.Online.String()},
		{"Load", server.Load.String()},
		{"Load multiplier", server.LoadMultiplier.String()},
		{"Secret", server.Secret},
	}
	for _, row := range rows {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(row.key), row.value})
	}

	t.Render()
	return nil
}

func (p *Printer) redactServers(servers []scalelite.Server) []scalelite.Server {
	if p.ShowSecrets {
		return servers
	}
	redacted := make([]scalelite.Server, len(servers))
	for i, s := range servers {
		s.Secret = logging.Redact(s.Secret)
		redacted[i] = s
	}
	return redacted
}

// redactResponse hides the secret of a server record echoed by the API.
func (p *Printer) redactResponse(v interface{}) interface{} {
	if p.ShowSecrets {
		return v
	}
	if m, ok := v.(map[string]interface{}); ok {
		if secret, ok := m["secret"].(string); ok {
			m["secret"] = logging.Redact(secret)
		}
	}
	return v
}

func (p *Printer) writeJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(p.Out, string(data))
	return err
}

func (p *Printer) writeYAML(v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	_, err = p.Out.Write(data)
	return err
}

// colorState colors a server state by how much traffic it accepts.
func colorState(state scalelite.State) string {
	switch state {
	case scalelite.StateEnabled:
		return text.FgGreen.Sprint(state)
	case scalelite.StateCordoned:
		return text.FgYellow.Sprint(state)
	case scalelite.StateDisabled:
		return text.FgRed.Sprint(state)
	default:
		return string(state)
	}
}
