package whoosh

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/rcarmo/go-whoosh/pkg/core"
)

// lineReader yields input lines without their line terminator and io.EOF
// once input is exhausted.
type lineReader interface {
	ReadLine() (string, error)
}

// bufferedReader reads from a pipe, a file or a dumb terminal. The prompt
// and the batch echo go to the session stdout as it is at read time.
type bufferedReader struct {
	s      *Session
	r      *bufio.Reader
	prompt string
	echo   bool
}

func (b *bufferedReader) ReadLine() (string, error) {
	if b.prompt != "" {
		b.s.Stdio.Print(b.prompt)
	}
	line, err := b.r.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	if b.echo {
		b.s.Stdio.Println(line)
	}
	return line, nil
}

// terminalReader gives interactive sessions line editing and history. The
// terminal is raw only while a line is being read.
type terminalReader struct {
	term *term.Terminal
	raw  func() (restore func(), err error)
}

func newTerminalReader(in, out *os.File, prompt string) *terminalReader {
	rw := struct {
		io.Reader
		io.Writer
	}{in, out}
	fd := int(in.Fd())
	return &terminalReader{
		term: term.NewTerminal(rw, prompt),
		raw: func() (func(), error) {
			state, err := term.MakeRaw(fd)
			if err != nil {
				return nil, err
			}
			return func() { _ = term.Restore(fd, state) }, nil
		},
	}
}

func (t *terminalReader) ReadLine() (string, error) {
	restore, err := t.raw()
	if err != nil {
		return "", err
	}
	defer restore()

	line, err := t.term.ReadLine()
	// a pasted line is still a line
	if errors.Is(err, term.ErrPasteIndicator) {
		err = nil
	}
	return line, err
}

// newLineReader picks a reader for the session input.
func (s *Session) newLineReader() lineReader {
	if s.Batch {
		return &bufferedReader{s: s, r: bufio.NewReader(s.Stdio.In), echo: true}
	}
	if s.config.LineEditing && isTerminal(s.Stdio.In) && isTerminal(s.Stdio.Out) {
		in, _ := core.File(s.Stdio.In)
		out, _ := core.File(s.Stdio.Out)
		return newTerminalReader(in, out, s.config.Prompt)
	}
	return &bufferedReader{s: s, r: bufio.NewReader(s.Stdio.In), prompt: s.config.Prompt}
}

func isTerminal(stream any) bool {
	f, ok := core.File(stream)
	return ok && term.IsTerminal(int(f.Fd()))
}
