package cli

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_Quiet(t *testing.T) {
	var buf bytes.Buffer
	p := StartProgress(&buf, true, "Listing servers...")
	p.Stop()
	p.Fail("failed")
	assert.Empty(t, buf.String())
}

func TestProgress_NilIsInert(t *testing.T) {
	var p *Progress
	assert.NotPanics(t, func() {
		p.Stop()
		p.Fail("failed")
	})
}

func TestProgress_NonFileWriterGetsNoSpinner(t *testing.T) {
	var buf bytes.Buffer
	p := StartProgress(&buf, false, "Listing servers...")
	require.NotNil(t, p)
	assert.Nil(t, p.s)

	p.Fail("failed")
	assert.Empty(t, buf.String())
}

func TestProgress_RedirectedFileStaysClean(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stderr")
	require.NoError(t, err)
	defer f.Close()

	p := StartProgress(f, false, "Listing servers...")
	require.NotNil(t, p.s)
	assert.Same(t, f, p.s.WriterFile)

	time.Sleep(250 * time.Millisecond)
	p.Fail("failed")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Empty(t, data, "a regular file is not a terminal")
}
