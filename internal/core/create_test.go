package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTemplates struct {
	path  string
	found bool
	err   error
	asked []string
}

func (s *stubTemplates) Resolve(_ context.Context, name string, repositories []string) (string, bool, error) {
	s.asked = append(s.asked, name)
	return s.path, s.found, s.err
}

func TestCollectCreateOptions_Defaults(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"My Skill", "", ""}}

	opts, err := CollectCreateOptions(context.Background(), p, CreateOptions{
		Version:   DefaultVersion,
		Languages: DefaultLanguages,
		Template:  DefaultTemplate,
	})
	require.NoError(t, err)

	assert.Equal(t, "My Skill", opts.Name)
	assert.Equal(t, "my_skill", opts.Slug)
	assert.Equal(t, DefaultDescription, opts.Description)
	assert.Equal(t, DefaultTemplate, opts.Template)
	assert.Len(t, p.asked, 3)
	assert.Empty(t, p.titles, "confirmations are interactive only")
}

func TestCollectCreateOptions_Interactive(t *testing.T) {
	p := &scriptedPrompter{
		answers: []string{
			"",          // slug
			"2.0.0",     // version
			"",          // description
			"en,it",     // languages
			"City Name", // option name
			"Rome",      // default
			"units",     // option name
			"",          // no default
			"",          // empty name ends the loop
			"none",      // template
		},
		confirms: []bool{true, true},
	}

	opts, err := CollectCreateOptions(context.Background(), p, CreateOptions{
		Name:        "Weather",
		Version:     DefaultVersion,
		Languages:   DefaultLanguages,
		Template:    DefaultTemplate,
		Interactive: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "weather", opts.Slug)
	assert.Equal(t, "2.0.0", opts.Version)
	assert.True(t, opts.InternetAccess)
	assert.Equal(t, "en,it", opts.Languages)
	assert.Equal(t, []OptionSpec{
		{Name: "city_name", Default: "Rome", HasDefault: true},
		{Name: "units"},
	}, opts.Options)
	assert.False(t, opts.UsesTemplate())
	assert.Equal(t, []string{"the skill require internet access", "Your skill need options?"}, p.titles)
}

func TestCollectOptions_AbortEndsLoop(t *testing.T) {
	p := &scriptedPrompter{answers: []string{"color", "red", "size"}, confirms: []bool{true}}

	options, err := collectOptions(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, []OptionSpec{{Name: "color", Default: "red", HasDefault: true}}, options)
}

func TestCollectOptions_Declined(t *testing.T) {
	p := &scriptedPrompter{confirms: []bool{false}}

	options, err := collectOptions(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, options)
	assert.Empty(t, p.asked)
}

func TestCreateSkill_ManifestOnly(t *testing.T) {
	dest := t.TempDir()
	stale := filepath.Join(dest, "lamp", "old.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, nil, 0o644))

	res, err := CreateSkill(context.Background(), CreateOptions{
		Dest:        dest,
		Name:        "Lamp",
		Slug:        "lamp",
		Version:     "0.1.0",
		Description: DefaultDescription,
		Languages:   "en",
		Template:    "None",
		Options:     []OptionSpec{{Name: "room", Default: "kitchen", HasDefault: true}},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dest, "lamp"), res.Path)
	assert.NoFileExists(t, stale)

	m, err := LoadManifest(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", m.Name)
	assert.True(t, m.AutoTrain)
	assert.Equal(t, []string{"en"}, m.Languages)
	assert.Equal(t, []string{"room"}, m.SchemaConfig.Keys())
	assert.Equal(t, map[string]any{"room": "kitchen"}, m.DefaultConfig)
}

func TestCreateSkill_Template(t *testing.T) {
	template := t.TempDir()
	writeTree(t, template, map[string]string{
		"app.py":        "print('hi')",
		"manifest.json": `{"name":"template"}`,
		".git/HEAD":     "ref",
	})
	templates := &stubTemplates{path: template, found: true}
	dest := t.TempDir()

	res, err := CreateSkill(context.Background(), CreateOptions{
		Dest:     dest,
		Name:     "Clock",
		Slug:     "clock",
		Version:  "1.0.0",
		Template: "time_skill",
	}, templates)
	require.NoError(t, err)

	assert.Equal(t, template, res.TemplatePath)
	assert.Equal(t, []string{"time_skill"}, templates.asked)
	assert.FileExists(t, filepath.Join(res.Path, "app.py"))
	assert.NoDirExists(t, filepath.Join(res.Path, ".git"))

	m, err := LoadManifest(res.Path)
	require.NoError(t, err)
	assert.Equal(t, "Clock", m.Name, "the generated manifest replaces the template's")
}

func TestCreateSkill_TemplateNotFound(t *testing.T) {
	res, err := CreateSkill(context.Background(), CreateOptions{
		Dest:     t.TempDir(),
		Name:     "Clock",
		Slug:     "clock",
		Version:  "1.0.0",
		Template: "nope",
	}, &stubTemplates{})
	require.NoError(t, err)
	assert.Empty(t, res.TemplatePath)
	assert.FileExists(t, filepath.Join(res.Path, ManifestFileName))
}

func TestCreateSkill_InvalidSlug(t *testing.T) {
	dest := t.TempDir()
	_, err := CreateSkill(context.Background(), CreateOptions{
		Dest:    dest,
		Name:    "Bad",
		Slug:    "../escape",
		Version: "1.0.0",
	}, nil)
	require.Error(t, err)

	entries, err := os.ReadDir(dest)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
