package ui

import (
	"fmt"
	"io"
	"strings"
)

const fieldWidth = 16

// Printer writes status lines to a stream.
type Printer struct {
	out   io.Writer
	theme Theme
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{out: w, theme: NewTheme(w)}
}

// Writer returns the underlying stream.
func (p *Printer) Writer() io.Writer { return p.out }

// Theme returns the styles bound to the stream.
func (p *Printer) Theme() Theme { return p.theme }

func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// Success prints a line prefixed with a check mark.
func (p *Printer) Success(format string, a ...any) {
	p.Println(p.theme.Success.Render("✓") + " " + fmt.Sprintf(format, a...))
}

// Warn prints a warning line.
func (p *Printer) Warn(format string, a ...any) {
	p.Println(p.theme.Warning.Render("!") + " " + fmt.Sprintf(format, a...))
}

// Failure prints an error line.
func (p *Printer) Failure(format string, a ...any) {
	p.Println(p.theme.Error.Render("✗") + " " + fmt.Sprintf(format, a...))
}

// Field prints an aligned "key: value" line.
func (p *Printer) Field(key string, value any) {
	label := key + ":"
	pad := ""
	if n := fieldWidth - len(label); n > 0 {
		pad = strings.Repeat(" ", n)
	}
	p.Printf("%s%s %v\n", p.theme.Key.Render(label), pad, value)
}
