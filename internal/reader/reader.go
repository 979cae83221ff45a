// Package reader provides the kiosk's line-oriented input sources. The card
// reader is a keyboard wedge: swipes arrive as typed lines on stdin, so card
// input is read without echo (raw track data must never land on screen)
// while enrollment prompts use ordinary echoed reads.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// LineSource delivers one line of input per call. Implementations block
// indefinitely — the kiosk waits for a human, there is no read timeout.
type LineSource interface {
	ReadLine(prompt string) (string, error)
}

// Terminal reads echoed lines from stdin, for enrollment prompts.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(os.Stdin), out: out}
}

func (t *Terminal) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(t.out, prompt)
	}
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}

// SecretTerminal reads lines from the controlling terminal without echo,
// for card swipes.
type SecretTerminal struct {
	fd  int
	out io.Writer
}

func NewSecretTerminal(out io.Writer) *SecretTerminal {
	return &SecretTerminal{fd: int(os.Stdin.Fd()), out: out}
}

func (t *SecretTerminal) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(t.out, prompt)
	}
	b, err := term.ReadPassword(t.fd)
	// ReadPassword swallows the newline; restore it for the operator.
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("read card input: %w", err)
	}
	return string(b), nil
}

// Script replays a fixed sequence of lines, then returns io.EOF. For tests
// and scripted runs.
type Script struct {
	lines []string
	next  int
}

func NewScript(lines ...string) *Script {
	return &Script{lines: lines}
}

func (s *Script) ReadLine(string) (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}
