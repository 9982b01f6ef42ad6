package cmd

import (
	"context"
	"io"

	"github.com/razzo04/rhasspy-skills/internal/api"
	"github.com/razzo04/rhasspy-skills/internal/config"
	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/razzo04/rhasspy-skills/internal/logger"
	"github.com/razzo04/rhasspy-skills/internal/prompt"
	"github.com/razzo04/rhasspy-skills/internal/ui"
	"github.com/spf13/cobra"
)

// deps holds shared dependencies for CLI commands.
type deps struct {
	settings *config.Settings
	client   *api.Client
	out      *ui.Printer
	errs     *ui.Printer
	in       io.Reader
	errOut   io.Writer
}

// newDeps loads settings and builds the service client. Called lazily by
// commands that need them.
func newDeps(cmd *cobra.Command) (*deps, error) {
	configFile, _ := cmd.Flags().GetString("config")
	settings, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	if settings.File != "" {
		logger.G(cmd.Context()).WithField("path", settings.File).Debug("loaded settings")
	}

	client, err := api.NewClient(settings.Host)
	if err != nil {
		return nil, err
	}

	return &deps{
		settings: settings,
		client:   client,
		out:      ui.NewPrinter(cmd.OutOrStdout()),
		errs:     ui.NewPrinter(cmd.ErrOrStderr()),
		in:       cmd.InOrStdin(),
		errOut:   cmd.ErrOrStderr(),
	}, nil
}

// prompter asks on stdin, printing questions to stderr.
func (d *deps) prompter(assumeYes bool) core.Prompter {
	return prompt.New(d.in, d.errOut, assumeYes)
}

// openCache prepares the clone cache. Callers must Close it.
func (d *deps) openCache(keep bool) (*core.Cache, error) {
	root := d.settings.CacheDir
	if root == "" {
		var err error
		if root, err = core.DefaultCacheRoot(); err != nil {
			return nil, err
		}
	}
	return core.OpenCache(root, keep)
}

// closeCache releases cache, logging rather than failing on errors so that
// the command's own result is preserved.
func closeCache(ctx context.Context, cache *core.Cache) {
	if err := cache.Close(); err != nil {
		logger.G(ctx).WithError(err).WithField("path", cache.Root()).Warn("failed to remove cache")
	}
}

// spin shows title while fn runs.
func (d *deps) spin(ctx context.Context, title string, fn func(ctx context.Context) error) error {
	return ui.Spin(ctx, d.out.Writer(), title, fn)
}

// printCloneHints prints remediation hints to stderr when err came from git.
func (d *deps) printCloneHints(err error) {
	ce, ok := core.AsCloneError(err)
	if !ok {
		return
	}
	for _, h := range ce.Hints {
		d.errs.Warn("%s", h)
	}
}
