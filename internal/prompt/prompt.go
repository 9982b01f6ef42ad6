// Package prompt provides the interactive Prompter implementations used by
// the CLI.
package prompt

import (
	"io"

	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/razzo04/rhasspy-skills/internal/ui"
)

// New picks a Prompter for the given streams: accept-defaults when assumeYes
// is set, huh forms when both ends are terminals, a line reader otherwise.
func New(in io.Reader, out io.Writer, assumeYes bool) core.Prompter {
	if assumeYes {
		return Defaults{}
	}
	if ui.IsTerminal(in) && ui.IsTerminal(out) {
		return &Huh{In: in, Out: out}
	}
	return NewLine(in, out)
}

// answer applies q's default to an empty reply. ok is false when q is
// required and nothing usable was given.
func answer(q core.Question, reply string) (value string, ok bool) {
	switch {
	case reply != "":
		return reply, true
	case q.HasDefault:
		return q.Default, true
	}
	return "", !q.Required
}
