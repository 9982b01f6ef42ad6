package prompt

import (
	"context"
	"io"

	"github.com/charmbracelet/huh"
	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/core"
)

// Huh prompts with charmbracelet/huh forms.
type Huh struct {
	In  io.Reader
	Out io.Writer
}

func (h *Huh) Input(ctx context.Context, q core.Question) (string, error) {
	value := ""
	if q.HasDefault {
		value = q.Default
	}

	field := huh.NewInput().
		Title(q.Title).
		Value(&value)
	if q.Required {
		field = field.Validate(func(s string) error {
			if _, ok := answer(q, s); !ok {
				return errors.New("a value is required")
			}
			return nil
		})
	}

	if err := h.run(ctx, huh.NewForm(huh.NewGroup(field))); err != nil {
		return "", err
	}
	value, _ = answer(q, value)
	return value, nil
}

func (h *Huh) Confirm(ctx context.Context, title string, def bool) (bool, error) {
	value := def
	field := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	if err := h.run(ctx, huh.NewForm(huh.NewGroup(field))); err != nil {
		return false, err
	}
	return value, nil
}

func (h *Huh) run(ctx context.Context, form *huh.Form) error {
	if h.In != nil {
		form = form.WithInput(h.In)
	}
	if h.Out != nil {
		form = form.WithOutput(h.Out)
	}
	err := form.RunWithContext(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, huh.ErrUserAborted):
		return core.ErrAborted
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return errors.Wrap(err, "prompt")
	}
}
