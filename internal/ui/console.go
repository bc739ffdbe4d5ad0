// Package ui provides the terminal input/output abstraction for the
// interactive shell. The IO interface decouples the shell loop from real
// terminals so it can be driven by a Mock in tests.
package ui

import (
	"bufio"
	"fmt"
	"io"
)

// IO is the terminal surface the shell loop talks to.
type IO interface {
	Print(a ...any)
	Println(a ...any)
	Printf(format string, a ...any)

	// Scan advances to the next input line, returning false at EOF.
	Scan() bool

	// Text returns the line read by the last successful Scan.
	Text() string
}

// Console implements IO over real reader/writer pairs.
type Console struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewConsole creates a Console. A nil reader produces a console that
// immediately reports EOF; a nil writer discards output.
func NewConsole(in io.Reader, out io.Writer) *Console {
	var scanner *bufio.Scanner
	if in != nil {
		scanner = bufio.NewScanner(in)
	}
	if out == nil {
		out = io.Discard
	}
	return &Console{scanner: scanner, out: out}
}

func (c *Console) Print(a ...any) {
	fmt.Fprint(c.out, a...)
}

func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

func (c *Console) Printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func (c *Console) Scan() bool {
	if c.scanner == nil {
		return false
	}
	return c.scanner.Scan()
}

func (c *Console) Text() string {
	if c.scanner == nil {
		return ""
	}
	return c.scanner.Text()
}
