package prompt

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	assert.IsType(t, Defaults{}, New(strings.NewReader(""), &bytes.Buffer{}, true))
	assert.IsType(t, &Line{}, New(strings.NewReader(""), &bytes.Buffer{}, false))
}

func TestHuhStreams(t *testing.T) {
	in, out := strings.NewReader(""), &bytes.Buffer{}
	var p core.Prompter = &Huh{In: in, Out: out}
	h := p.(*Huh)
	assert.Same(t, in, h.In)
	assert.Same(t, out, h.Out)
}

func TestLineInput(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("\n  typed  \n\nlast"), &out)
	ctx := context.Background()

	got, err := p.Input(ctx, core.Question{Title: "slug", Default: "my_skill", HasDefault: true})
	require.NoError(t, err)
	assert.Equal(t, "my_skill", got)

	got, err = p.Input(ctx, core.Question{Title: "name"})
	require.NoError(t, err)
	assert.Equal(t, "typed", got)

	got, err = p.Input(ctx, core.Question{Title: "city", Required: true})
	require.NoError(t, err)
	assert.Equal(t, "last", got, "required questions are asked again")

	_, err = p.Input(ctx, core.Question{Title: "more"})
	assert.True(t, errors.Is(err, core.ErrAborted))

	assert.Contains(t, out.String(), "slug [my_skill]: ")
	assert.Contains(t, out.String(), "Error: a value is required")
}

func TestLineConfirm(t *testing.T) {
	var out bytes.Buffer
	p := NewLine(strings.NewReader("\nmaybe\nY\nno\n"), &out)
	ctx := context.Background()

	got, err := p.Confirm(ctx, "need options?", true)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = p.Confirm(ctx, "internet?", false)
	require.NoError(t, err)
	assert.True(t, got)

	got, err = p.Confirm(ctx, "again?", true)
	require.NoError(t, err)
	assert.False(t, got)

	_, err = p.Confirm(ctx, "eof?", false)
	assert.True(t, errors.Is(err, core.ErrAborted))

	assert.Contains(t, out.String(), "need options? [Y/n]: ")
	assert.Contains(t, out.String(), "internet? [y/N]: ")
	assert.Contains(t, out.String(), "Error: invalid input")
}

func TestLineCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLine(strings.NewReader("x\n"), &bytes.Buffer{}).Input(ctx, core.Question{Title: "q"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestLineCancelledWhileReading(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	p := NewLine(pr, &bytes.Buffer{})
	errc := make(chan error, 1)
	go func() {
		_, err := p.Input(ctx, core.Question{Title: "name of new skill", Required: true})
		errc <- err
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Input did not return after cancel")
	}
}

func TestLineKeepsPendingRead(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	p := NewLine(pr, &bytes.Buffer{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Input(ctx, core.Question{Title: "first"})
	require.True(t, errors.Is(err, context.DeadlineExceeded))

	go func() {
		_, _ = io.WriteString(pw, "kitchen\n")
	}()
	got, err := p.Input(context.Background(), core.Question{Title: "second"})
	require.NoError(t, err)
	assert.Equal(t, "kitchen", got, "the line read for the cancelled prompt is not lost")
}

func TestAnswer(t *testing.T) {
	tests := []struct {
		name  string
		q     core.Question
		reply string
		want  string
		ok    bool
	}{
		{"typed", core.Question{Required: true}, "x", "x", true},
		{"cleared default", core.Question{Required: true, Default: "lamp", HasDefault: true}, "", "lamp", true},
		{"optional empty", core.Question{}, "", "", true},
		{"required empty", core.Question{Required: true}, "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := answer(tt.q, tt.reply)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	p := Defaults{}

	got, err := p.Input(ctx, core.Question{Title: "slug", Default: "a", HasDefault: true, Required: true})
	require.NoError(t, err)
	assert.Equal(t, "a", got)

	got, err = p.Input(ctx, core.Question{Title: "optional"})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = p.Input(ctx, core.Question{Title: "skill require token", Required: true})
	assert.ErrorContains(t, err, "skill require token")

	ok, err := p.Confirm(ctx, "sure?", true)
	require.NoError(t, err)
	assert.True(t, ok)
}
