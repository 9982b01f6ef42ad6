package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/api"
	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/razzo04/rhasspy-skills/internal/logger"
	"github.com/razzo04/rhasspy-skills/internal/ui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install <path-or-name> [repositories...]",
	Short: "Install a skill from a folder, an archive or a repository",
	Long: `Install a skill on the skills service.

The source is checked in this order:
  ./path/to/skill         Local skill folder (config.json is collected first)
  ./skill.tar             Pre-built tar archive, sent as is
  skill_name              Folder name searched in the repositories

Repositories are scanned in the order given; the first one containing the
skill wins. Without repositories on the command line, the configured ones
are used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		source := args[0]
		keep, _ := cmd.Flags().GetBool("cache")
		force, _ := cmd.Flags().GetBool("force")
		startOnBoot, _ := cmd.Flags().GetBool("run-at-startup")
		assumeYes, _ := cmd.Flags().GetBool("yes")
		excludes, _ := cmd.Flags().GetStringArray("exclude")

		archiver, err := core.NewArchiver(excludes...)
		if err != nil {
			return err
		}
		inst := &installer{
			deps:     d,
			archiver: archiver,
			asker:    d.prompter(assumeYes),
			opts:     api.SubmitOptions{Force: force, StartOnBoot: startOnBoot},
		}

		ctx := cmd.Context()
		info, statErr := os.Stat(source)
		switch {
		case statErr == nil && info.IsDir():
			name, err := folderName(source)
			if err != nil {
				return err
			}
			return inst.installFolder(ctx, source, name)
		case statErr == nil:
			return inst.installArchive(ctx, source)
		}

		repositories := args[1:]
		if len(repositories) == 0 {
			repositories = d.settings.Repositories
		}
		return inst.installFromRepositories(ctx, source, repositories, keep)
	},
}

type installer struct {
	*deps
	archiver *core.Archiver
	asker    core.Prompter
	opts     api.SubmitOptions
}

func (i *installer) installFolder(ctx context.Context, dir, name string) error {
	if _, err := core.WriteSkillConfig(ctx, dir, i.asker); err != nil {
		return err
	}

	var data []byte
	err := i.spin(ctx, "Compressing folder", func(context.Context) error {
		var err error
		data, err = i.archiver.ArchiveDir(dir)
		return err
	})
	if err != nil {
		return err
	}
	return i.submit(ctx, data, name+".tar", name)
}

func (i *installer) installArchive(ctx context.Context, path string) error {
	data, err := core.ReadArchive(path)
	if err != nil {
		return err
	}
	return i.submit(ctx, data, filepath.Base(path), filepath.Base(path))
}

func (i *installer) installFromRepositories(ctx context.Context, name string, repositories []string, keep bool) error {
	cache, err := i.openCache(keep)
	if err != nil {
		return err
	}
	defer closeCache(ctx, cache)

	logger.G(ctx).WithField("cache", cache.Root()).WithField("repositories", len(repositories)).Debug("resolving skill")
	resolver := core.NewResolver(cache, core.NewGitCloner())

	var (
		path  string
		found bool
	)
	err = i.spin(ctx, "Search "+name, func(ctx context.Context) error {
		var err error
		path, found, err = resolver.Resolve(ctx, name, repositories)
		return err
	})
	if err != nil {
		i.printCloneHints(err)
		return err
	}
	if !found {
		return errors.Errorf("Skill %s not found", name)
	}

	i.out.Println("Skill found")
	return i.installFolder(ctx, path, name)
}

func (i *installer) submit(ctx context.Context, data []byte, fileName, name string) error {
	err := i.spin(ctx, "Sending request", func(ctx context.Context) error {
		return i.client.Submit(ctx, data, fileName, i.opts)
	})
	if err != nil {
		return err
	}
	i.out.Success("Skill %s installed (%s)", name, ui.FormatSize(len(data)))
	return nil
}

func init() {
	installCmd.Flags().Bool("cache", false, "Keep the repository cache for later installs")
	installCmd.Flags().BoolP("force", "f", false, "Replace the skill if it is already installed")
	installCmd.Flags().BoolP("run-at-startup", "b", false, "Start the skill when the service starts")
	installCmd.Flags().BoolP("yes", "y", false, "Accept default values for the skill configuration")
	installCmd.Flags().StringArray("exclude", nil, "Glob of files to leave out of the archive (repeatable)")
	installCmd.Flags().String("cache-dir", "", "Repository cache directory")
	rootCmd.AddCommand(installCmd)
}
