package cmd

import (
	"context"

	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:   "create [dest]",
	Short: "Scaffold a new skill",
	Long: `Create <dest>/<slug> with a manifest.json and, unless the template is
"none", the files of a template skill from the template repository.

Missing fields are asked for. With --interactive every field is asked and
configuration options can be declared. An existing <dest>/<slug> is replaced.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		opts := core.CreateOptions{Dest: "."}
		if len(args) == 1 {
			opts.Dest = args[0]
		}
		flags := cmd.Flags()
		opts.Name, _ = flags.GetString("name")
		opts.Slug, _ = flags.GetString("slug")
		opts.Version, _ = flags.GetString("version")
		opts.Description, _ = flags.GetString("description")
		opts.InternetAccess, _ = flags.GetBool("internet-access")
		opts.Languages, _ = flags.GetString("languages")
		opts.Interactive, _ = flags.GetBool("interactive")
		opts.Template, _ = flags.GetString("template")
		opts.TemplateRepository = d.settings.TemplateRepository

		ctx := cmd.Context()
		opts, err = core.CollectCreateOptions(ctx, d.prompter(false), opts)
		if err != nil {
			return err
		}

		var templates core.TemplateResolver
		if opts.UsesTemplate() {
			cache, err := d.openCache(false)
			if err != nil {
				return err
			}
			defer closeCache(ctx, cache)
			templates = &spinningResolver{deps: d, resolver: core.NewResolver(cache, core.NewGitCloner())}
		}

		result, err := core.CreateSkill(ctx, opts, templates)
		if err != nil {
			d.printCloneHints(err)
			return err
		}
		if opts.UsesTemplate() && result.TemplatePath == "" {
			d.out.Warn("Template %s not found", opts.Template)
		}
		d.out.Success("Skill %s created in %s", result.Manifest.Name, result.Path)
		return nil
	},
}

// spinningResolver shows progress while templates are fetched.
type spinningResolver struct {
	*deps
	resolver *core.Resolver
}

func (s *spinningResolver) Resolve(ctx context.Context, name string, repositories []string) (string, bool, error) {
	var (
		path  string
		found bool
	)
	err := s.spin(ctx, "Downloading template "+name, func(ctx context.Context) error {
		var err error
		path, found, err = s.resolver.Resolve(ctx, name, repositories)
		return err
	})
	return path, found, err
}

func init() {
	createCmd.Flags().String("name", "", "Name of the new skill")
	createCmd.Flags().String("slug", "", "Slug of the new skill (default derived from the name)")
	createCmd.Flags().String("version", core.DefaultVersion, "Version of the new skill")
	createCmd.Flags().String("description", "", "Description of the new skill")
	createCmd.Flags().Bool("internet-access", false, "The skill requires internet access")
	createCmd.Flags().String("languages", core.DefaultLanguages, "Comma separated list of supported languages")
	createCmd.Flags().BoolP("interactive", "i", false, "Ask for every field and declare options")
	createCmd.Flags().String("template", core.DefaultTemplate, `Template skill to copy, or "none"`)
	createCmd.Flags().String("template-repository", core.DefaultRepository, "Repository holding the templates")
	createCmd.Flags().String("cache-dir", "", "Repository cache directory")
	rootCmd.AddCommand(createCmd)
}
