package iocli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Stdio implements IO over a reader and a writer.
type Stdio struct {
	in  *bufio.Reader
	out io.Writer
	// interactive is true when input is a terminal
	interactive bool
}

// NewStdio creates IO over the process stdin and stdout.
func NewStdio() IO {
	return New(os.Stdin, os.Stdout)
}

// New creates IO over in and out. Prompts are shown only when in is a terminal.
func New(in io.Reader, out io.Writer) *Stdio {
	interactive := false
	if f, ok := in.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}

	return &Stdio{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

func (s *Stdio) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Stdio) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Stdio) ReadInput(prompt string) (string, error) {
	if s.interactive {
		s.Printf("%s", prompt)
	}
	input, err := s.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

func (s *Stdio) ReadText(prompt string) (string, error) {
	if s.interactive {
		s.Printf("%s (Ctrl-D to finish)\n", prompt)
	}
	data, err := io.ReadAll(s.in)
	if err != nil {
		return "", err
	}
	// Один завершающий перевод строки добавляет терминал или echo
	return strings.TrimSuffix(string(data), "\n"), nil
}
