package prompt

import (
	"context"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/core"
)

// Defaults answers every question with its default. Questions that require
// an answer but have no default fail.
type Defaults struct{}

func (Defaults) Input(_ context.Context, q core.Question) (string, error) {
	if q.HasDefault {
		return q.Default, nil
	}
	if q.Required {
		return "", errors.Errorf("%s: no default value, run without --yes to answer it", q.Title)
	}
	return "", nil
}

func (Defaults) Confirm(_ context.Context, _ string, def bool) (bool, error) {
	return def, nil
}
