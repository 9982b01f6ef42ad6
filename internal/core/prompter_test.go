package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPrompter answers questions from a fixed list and records what was
// asked. An answer of "" accepts the default. Running out of answers aborts.
type scriptedPrompter struct {
	answers  []string
	confirms []bool
	asked    []Question
	titles   []string
}

func (s *scriptedPrompter) Input(_ context.Context, q Question) (string, error) {
	s.asked = append(s.asked, q)
	if len(s.answers) == 0 {
		return "", ErrAborted
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	if a == "" && q.HasDefault {
		return q.Default, nil
	}
	return a, nil
}

func (s *scriptedPrompter) Confirm(_ context.Context, title string, def bool) (bool, error) {
	s.titles = append(s.titles, title)
	if len(s.confirms) == 0 {
		return def, nil
	}
	c := s.confirms[0]
	s.confirms = s.confirms[1:]
	return c, nil
}

func mustSchema(t *testing.T, raw string) *Schema {
	t.Helper()
	var s Schema
	require.NoError(t, json.Unmarshal([]byte(raw), &s))
	return &s
}

func TestCollectConfig(t *testing.T) {
	schema := mustSchema(t, `{"a":"string","n":{"b":"string","c":["string"]}}`)
	defaults := map[string]any{"a": "x", "n": map[string]any{"c": []any{"1", "2"}}}
	p := &scriptedPrompter{answers: []string{"", "y", "z"}}

	config, err := CollectConfig(context.Background(), p, schema, defaults)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"a": "x",
		"n": map[string]any{"b": "y", "c": "z"},
	}, config)

	require.Len(t, p.asked, 3)
	assert.Equal(t, "skill require a", p.asked[0].Title)
	assert.True(t, p.asked[0].HasDefault)
	assert.Equal(t, "skill require b", p.asked[1].Title)
	assert.False(t, p.asked[1].HasDefault)
	assert.Equal(t, `["1","2"]`, p.asked[2].Default)
}

func TestCollectConfig_EmptySchema(t *testing.T) {
	p := &scriptedPrompter{}

	config, err := CollectConfig(context.Background(), p, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, config)

	config, err = CollectConfig(context.Background(), p, &Schema{}, nil)
	require.NoError(t, err)
	assert.Empty(t, config)
	assert.Empty(t, p.asked)
}

func TestCollectConfig_Aborted(t *testing.T) {
	schema := mustSchema(t, `{"a":"string","b":"string"}`)
	p := &scriptedPrompter{answers: []string{"one"}}

	_, err := CollectConfig(context.Background(), p, schema, nil)
	assert.True(t, errors.Is(err, ErrAborted))
}

func TestWriteSkillConfig(t *testing.T) {
	dir := t.TempDir()
	manifest := `{"name":"s","slug":"s","version":"1.0.0","schema_config":{"city":"string"},"default_config":{"city":"Rome"}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(manifest), 0o644))

	config, err := WriteSkillConfig(context.Background(), dir, &scriptedPrompter{answers: []string{""}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"city": "Rome"}, config)

	data, err := os.ReadFile(filepath.Join(dir, ConfigFileName))
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Rome"}`, string(data))
}

func TestWriteSkillConfig_NoManifest(t *testing.T) {
	_, err := WriteSkillConfig(context.Background(), t.TempDir(), &scriptedPrompter{})
	assert.True(t, errors.Is(err, ErrNoManifest))
}

func TestWriteSkillConfig_InvalidManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ManifestFileName), []byte(`{"name":"x"}`), 0o644))

	_, err := WriteSkillConfig(context.Background(), dir, &scriptedPrompter{})
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	_, statErr := os.Stat(filepath.Join(dir, ConfigFileName))
	assert.True(t, os.IsNotExist(statErr))
}
