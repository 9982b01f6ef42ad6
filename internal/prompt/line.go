package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/core"
)

// Line reads answers line by line. It is used when stdin is not a terminal,
// e.g. when answers are piped in. End of input aborts, and so does
// cancelling the context while a read is blocked.
type Line struct {
	r   *bufio.Reader
	out io.Writer
	// pending holds a read left running by a cancelled prompt.
	pending chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewLine creates a line prompter reading from in and printing questions to
// out.
func NewLine(in io.Reader, out io.Writer) *Line {
	return &Line{r: bufio.NewReader(in), out: out}
}

func (l *Line) Input(ctx context.Context, q core.Question) (string, error) {
	for {
		title := q.Title
		if q.HasDefault {
			title += " [" + q.Default + "]"
		}
		reply, err := l.ask(ctx, title+": ")
		if err != nil {
			return "", err
		}
		if value, ok := answer(q, reply); ok {
			return value, nil
		}
		_, _ = fmt.Fprintln(l.out, "Error: a value is required")
	}
}

func (l *Line) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	suffix := " [y/N]: "
	if def {
		suffix = " [Y/n]: "
	}
	for {
		reply, err := l.ask(ctx, title+suffix)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(reply) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		_, _ = fmt.Fprintln(l.out, "Error: invalid input")
	}
}

func (l *Line) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, _ = fmt.Fprint(l.out, prompt)

	if l.pending == nil {
		ch := make(chan readResult, 1)
		go func() {
			line, err := l.r.ReadString('\n')
			ch <- readResult{line: line, err: err}
		}()
		l.pending = ch
	}

	var res readResult
	select {
	case res = <-l.pending:
		l.pending = nil
	case <-ctx.Done():
		_, _ = fmt.Fprintln(l.out)
		return "", ctx.Err()
	}

	line, err := res.line, res.err
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}
		_, _ = fmt.Fprintln(l.out)
		if err == io.EOF {
			return "", core.ErrAborted
		}
		return "", errors.Wrap(err, "reading answer")
	}
	return strings.TrimSpace(line), nil
}
