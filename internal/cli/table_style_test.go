package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	reset  = "\x1b[0m"
)

var listHeaders = []string{"id", "state", "online", "load", "multiplier", "url"}

// serverListing builds the table `scalectl list` renders for three servers,
// two of them with colored states.
func serverListing(buf *bytes.Buffer) *PlainTableWriter {
	tw := NewPlainTableWriter(buf)
	tw.SetHeaders(listHeaders)
	tw.AppendRow([]string{"bbb1.example.org", green + "enabled" + reset, "online", "3", "1.0", "https://bbb1.example.org/bigbluebutton/api"})
	tw.AppendRow([]string{"bbb10.example.org", "disabled", "offline", "", "2.5", "https://bbb10.example.org/bigbluebutton/api"})
	tw.AppendRow([]string{"bbb2.example.org", yellow + "cordoned" + reset, "online", "12", "1.0", "https://bbb2.example.org/bigbluebutton/api"})
	return tw
}

func TestPlainTableWriter_ServerListing(t *testing.T) {
	var buf bytes.Buffer
	serverListing(&buf).Render()

	assert.Equal(t, []string{
		"ID                  STATE      ONLINE    LOAD   MULTIPLIER   URL",
		"bbb1.example.org    " + green + "enabled" + reset + "    online    3      1.0          https://bbb1.example.org/bigbluebutton/api",
		"bbb10.example.org   disabled   offline          2.5          https://bbb10.example.org/bigbluebutton/api",
		"bbb2.example.org    " + yellow + "cordoned" + reset + "   online    12     1.0          https://bbb2.example.org/bigbluebutton/api",
	}, splitLines(buf.String()))
}

func TestPlainTableWriter_ColumnWidthsIgnoreColor(t *testing.T) {
	var buf bytes.Buffer
	tw := serverListing(&buf)

	// "cordoned" and "disabled" are 8 wide, escape sequences included or not.
	assert.Equal(t, []int{17, 8, 7, 4, 10, 43}, tw.columnWidths)
}

func TestPlainTableWriter_ColumnsLineUp(t *testing.T) {
	var buf bytes.Buffer
	serverListing(&buf).Render()

	lines := splitLines(stripColor(buf.String()))
	require.Len(t, lines, 4)

	urlColumn := strings.Index(lines[0], "URL")
	require.Positive(t, urlColumn)
	for _, line := range lines[1:] {
		assert.Equal(t, urlColumn, strings.Index(line, "https://"), line)
		assert.Equal(t, line, strings.TrimRight(line, " "))
	}
}

func TestPlainTableWriter_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	tw := serverListing(&buf)
	tw.SetNoHeaders(true)
	tw.Render()

	lines := splitLines(buf.String())
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "bbb1.example.org    "))
	assert.NotContains(t, buf.String(), "MULTIPLIER")
}

func TestPlainTableWriter_EmptyListing(t *testing.T) {
	t.Run("headers only", func(t *testing.T) {
		var buf bytes.Buffer
		tw := NewPlainTableWriter(&buf)
		tw.SetHeaders(listHeaders)
		tw.Render()

		assert.Equal(t, "ID   STATE   ONLINE   LOAD   MULTIPLIER   URL\n", buf.String())
	})

	t.Run("nothing without headers", func(t *testing.T) {
		var buf bytes.Buffer
		tw := NewPlainTableWriter(&buf)
		tw.SetHeaders(listHeaders)
		tw.SetNoHeaders(true)
		tw.Render()

		assert.Empty(t, buf.String())
	})
}

func TestPlainTableWriter_ShortRowsArePadded(t *testing.T) {
	var buf bytes.Buffer
	tw := NewPlainTableWriter(&buf)
	tw.SetHeaders(listHeaders)

	// A record from an older API without load or online columns.
	tw.AppendRow([]string{"bbb1.example.org", "enabled"})

	require.Len(t, tw.rows, 1)
	assert.Equal(t, []string{"bbb1.example.org", "enabled", "", "", "", ""}, tw.rows[0])
}

// splitLines splits output into lines, dropping empty ones.
func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func stripColor(s string) string {
	for _, seq := range []string{green, yellow, reset} {
		s = strings.ReplaceAll(s, seq, "")
	}
	return s
}
