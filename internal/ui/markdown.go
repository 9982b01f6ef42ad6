package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

// RenderMarkdown renders md for a terminal of the given width. With styled
// unset the plain "notty" style is used.
func RenderMarkdown(md string, width int, styled bool) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if styled {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", errors.Wrap(err, "creating markdown renderer")
	}
	out, err := r.Render(md)
	if err != nil {
		return "", errors.Wrap(err, "rendering markdown")
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
