package core

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/logger"
)

const (
	DefaultVersion     = "0.1.0"
	DefaultDescription = "Fantastic new skill"
	DefaultLanguages   = "en"
	DefaultTemplate    = "time_skill"
	DefaultRepository  = "https://github.com/razzo04/rhasspy-skills-examples.git"

	// NoTemplate generates only the manifest.
	NoTemplate = "none"
)

// CreateOptions describes a skill to scaffold. Empty string fields are
// prompted for by CollectCreateOptions.
type CreateOptions struct {
	Dest           string
	Name           string
	Slug           string
	Version        string
	Description    string
	InternetAccess bool
	// Languages is a comma separated list of locale tags.
	Languages   string
	Interactive bool
	Options     []OptionSpec

	Template           string
	TemplateRepository string
}

// OptionSpec is a configuration option declared while creating a skill. It
// becomes a string leaf of the manifest's schema_config.
type OptionSpec struct {
	Name       string
	Default    string
	HasDefault bool
}

// CreateResult reports what CreateSkill produced.
type CreateResult struct {
	Path     string
	Manifest *Manifest
	// TemplatePath is the resolved template folder, empty when no template
	// was used or it could not be found.
	TemplatePath string
}

// TemplateResolver finds a template folder by name.
type TemplateResolver interface {
	Resolve(ctx context.Context, name string, repositories []string) (string, bool, error)
}

// UsesTemplate reports whether opts name a template to copy.
func (o CreateOptions) UsesTemplate() bool {
	t := strings.TrimSpace(o.Template)
	return t != "" && !strings.EqualFold(t, NoTemplate)
}

// Manifest builds the manifest described by opts.
func (o CreateOptions) Manifest() *Manifest {
	m := &Manifest{
		Name:           o.Name,
		Slug:           o.Slug,
		Version:        o.Version,
		Description:    o.Description,
		InternetAccess: o.InternetAccess,
		Languages:      ParseLanguages(o.Languages),
		AutoTrain:      true,
		DefaultConfig:  map[string]any{},
		SchemaConfig:   &Schema{},
	}
	for _, opt := range o.Options {
		m.SchemaConfig.Set(SchemaField{Key: opt.Name, Type: "string"})
		if opt.HasDefault {
			m.DefaultConfig[opt.Name] = opt.Default
		}
	}
	return m
}

// CollectCreateOptions prompts for the missing fields of opts. In
// interactive mode every field is asked, pre-filled with its current value,
// and configuration options may be declared.
func CollectCreateOptions(ctx context.Context, p Prompter, opts CreateOptions) (CreateOptions, error) {
	var err error
	ask := func(current *string, title, def string, always bool) {
		if err != nil || (*current != "" && !always) {
			return
		}
		q := Question{Title: title, Required: true}
		switch {
		case *current != "":
			q.Default, q.HasDefault = *current, true
		case def != "":
			q.Default, q.HasDefault = def, true
		}
		*current, err = p.Input(ctx, q)
	}

	ask(&opts.Name, "name of new skill", "", false)
	if err == nil {
		ask(&opts.Slug, "slug of new skill", Slugify(opts.Name), false)
	}
	ask(&opts.Version, "version of new skill", DefaultVersion, opts.Interactive)
	ask(&opts.Description, "description of new skill", DefaultDescription, false)
	if err != nil {
		return opts, err
	}

	if opts.Interactive {
		opts.InternetAccess, err = p.Confirm(ctx, "the skill require internet access", opts.InternetAccess)
		if err != nil {
			return opts, err
		}
	}
	ask(&opts.Languages, "list of languages supported", DefaultLanguages, opts.Interactive)
	if err != nil {
		return opts, err
	}

	if opts.Interactive {
		options, err := collectOptions(ctx, p)
		if err != nil {
			return opts, err
		}
		opts.Options = append(opts.Options, options...)

		q := Question{Title: "chose which template to use, type none to only generate the manifest"}
		q.Default, q.HasDefault = DefaultTemplate, true
		if opts.Template != "" {
			q.Default = opts.Template
		}
		if opts.Template, err = p.Input(ctx, q); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// collectOptions asks for option names until an empty name or an abort.
func collectOptions(ctx context.Context, p Prompter) ([]OptionSpec, error) {
	want, err := p.Confirm(ctx, "Your skill need options?", false)
	if err != nil || !want {
		return nil, err
	}

	var options []OptionSpec
	for {
		name, err := p.Input(ctx, Question{Title: "name of new option (empty to finish)"})
		if errors.Is(err, ErrAborted) {
			return options, nil
		}
		if err != nil {
			return nil, err
		}
		name = Slugify(name)
		if name == "" {
			return options, nil
		}

		def, err := p.Input(ctx, Question{Title: "default value for " + name})
		if errors.Is(err, ErrAborted) {
			return options, nil
		}
		if err != nil {
			return nil, err
		}
		options = append(options, OptionSpec{Name: name, Default: def, HasDefault: def != ""})
	}
}

// CreateSkill scaffolds <opts.Dest>/<opts.Slug>. The folder is recreated from
// scratch, the template (if any) is copied in without its .git folder and the
// manifest is written last. resolver may be nil when opts use no template.
func CreateSkill(ctx context.Context, opts CreateOptions, resolver TemplateResolver) (*CreateResult, error) {
	manifest := opts.Manifest()
	if err := manifest.Validate(); err != nil {
		return nil, err
	}

	dest := opts.Dest
	if dest == "" {
		dest = "."
	}
	skillDir := filepath.Join(dest, manifest.Slug)
	if err := removeAllForce(skillDir); err != nil {
		return nil, errors.Wrapf(err, "removing %s", skillDir)
	}
	if err := os.MkdirAll(skillDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", skillDir)
	}

	result := &CreateResult{Path: skillDir, Manifest: manifest}
	log := logger.G(ctx).WithField("path", skillDir)

	if opts.UsesTemplate() {
		if resolver == nil {
			return nil, errors.New("no template resolver")
		}
		repo := opts.TemplateRepository
		if repo == "" {
			repo = DefaultRepository
		}
		templateDir, found, err := resolver.Resolve(ctx, opts.Template, []string{repo})
		if err != nil {
			return nil, errors.Wrapf(err, "resolving template %s", opts.Template)
		}
		if found {
			if err := copyDirectory(templateDir, skillDir, map[string]bool{".git": true}); err != nil {
				return nil, errors.Wrapf(err, "copying template %s", opts.Template)
			}
			result.TemplatePath = templateDir
			log.WithField("template", opts.Template).Debug("template copied")
		}
	}

	if err := manifest.Save(skillDir); err != nil {
		return nil, err
	}
	log.Debug("skill created")
	return result, nil
}
