package core

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const gitTimeout = 60 * time.Second

// Cloner materializes repositories on disk.
type Cloner interface {
	// Clone clones url into dest, which must not exist.
	Clone(ctx context.Context, url, dest string) error
	// Update refreshes an existing clone.
	Update(ctx context.Context, dir string) error
}

// GitCloner runs the git binary. Prompts for credentials are disabled.
type GitCloner struct {
	Timeout time.Duration
}

// NewGitCloner returns a GitCloner with the default 60s timeout.
func NewGitCloner() *GitCloner {
	return &GitCloner{Timeout: gitTimeout}
}

func (g *GitCloner) Clone(ctx context.Context, url, dest string) error {
	args := []string{"clone", "--depth", "1", url, dest}
	output, err := g.run(ctx, "", args...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ClassifyCloneError(url, "git clone "+url, output)
	}
	return nil
}

func (g *GitCloner) Update(ctx context.Context, dir string) error {
	output, err := g.run(ctx, dir, "pull", "--ff-only")
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		remote, _ := g.run(ctx, dir, "remote", "get-url", "origin")
		return ClassifyCloneError(strings.TrimSpace(remote), "git pull --ff-only", output)
	}
	return nil
}

func (g *GitCloner) run(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := g.Timeout
	if timeout <= 0 {
		timeout = gitTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	output, err := cmd.CombinedOutput()
	if runCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return fmt.Sprintf("command timed out after %s", timeout), errors.Wrap(runCtx.Err(), "git "+args[0])
	}
	return string(output), err
}
