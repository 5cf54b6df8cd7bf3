package cli

import (
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Progress is a spinner shown while waiting for the API. The zero value and
// a nil *Progress are inert.
type Progress struct {
	s *spinner.Spinner
}

// StartProgress starts a spinner on w with the given message. Nothing is
// shown in quiet mode or when w is not a terminal. Writers that are not
// files, such as buffers, never get a spinner.
func StartProgress(w io.Writer, quiet bool, message string) *Progress {
	if quiet {
		return &Progress{}
	}

	f, ok := w.(*os.File)
	if !ok {
		return &Progress{}
	}

	// The spinner checks f itself, so redirecting stderr to a file keeps
	// spinner frames out of it.
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriterFile(f))
	s.Suffix = " " + message
	s.Start()
	return &Progress{s: s}
}

// Stop removes the spinner.
func (p *Progress) Stop() {
	if p == nil || p.s == nil {
		return
	}
	p.s.Stop()
}

// Fail stops the spinner, leaving msg in its place.
func (p *Progress) Fail(msg string) {
	if p == nil || p.s == nil {
		return
	}
	p.s.FinalMSG = text.FgRed.Sprint(msg) + "\n"
	p.s.Stop()
}
