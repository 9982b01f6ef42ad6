package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/cmd/rhasspy-skills/cmd"
	"github.com/razzo04/rhasspy-skills/internal/core"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, core.ErrAborted), errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Aborted!")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}
