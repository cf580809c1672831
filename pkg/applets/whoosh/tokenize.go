package whoosh

import (
	"fmt"
	"strings"
)

// Command is one parsed input line.
type Command struct {
	Args []string
	// Target is the redirection base name; output goes to Target+".out"
	// and Target+".err".
	Target     string
	Redirect   bool
	Background bool
}

// Name returns the program or builtin name.
func (c *Command) Name() string {
	return c.Args[0]
}

// parseLine turns a line into a Command. It returns nil, nil for lines that
// contain nothing but whitespace.
func parseLine(line string) (*Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	cmd := &Command{}
	head := line
	if idx := strings.IndexByte(line, '>'); idx >= 0 {
		cmd.Redirect = true
		head = line[:idx]
		tail := line[idx+1:]
		if strings.IndexByte(tail, '>') >= 0 {
			return nil, fmt.Errorf("%w: more than one '>'", ErrRedirect)
		}
		for _, tok := range splitFields(tail) {
			if tok == "&" {
				cmd.Background = true
				continue
			}
			if cmd.Target != "" {
				return nil, fmt.Errorf("%w: more than one target", ErrRedirect)
			}
			cmd.Target = tok
		}
		if cmd.Target == "" {
			return nil, fmt.Errorf("%w: missing target", ErrRedirect)
		}
	}

	cmd.Args = splitFields(head)
	if n := len(cmd.Args); n > 0 && cmd.Args[n-1] == "&" {
		cmd.Background = true
		cmd.Args = cmd.Args[:n-1]
	}
	if len(cmd.Args) == 0 {
		if cmd.Redirect {
			return nil, fmt.Errorf("%w: missing command", ErrRedirect)
		}
		// a lone '&'
		return nil, nil
	}
	return cmd, nil
}

// splitFields splits on runs of spaces and tabs, keeping order.
func splitFields(s string) []string {
	var tokens []string
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' {
			if buf.Len() > 0 {
				tokens = append(tokens, buf.String())
				buf.Reset()
			}
			continue
		}
		buf.WriteByte(c)
	}
	if buf.Len() > 0 {
		tokens = append(tokens, buf.String())
	}
	return tokens
}
