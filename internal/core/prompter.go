package core

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/logger"
)

// Question is a single free-text prompt.
type Question struct {
	Title string
	// Default pre-fills the answer when HasDefault is set.
	Default    string
	HasDefault bool
	// Required rejects empty answers when there is no default.
	Required bool
}

// Prompter asks the user for values. Implementations return ErrAborted when
// the user cancels.
type Prompter interface {
	Input(ctx context.Context, q Question) (string, error)
	Confirm(ctx context.Context, title string, def bool) (bool, error)
}

// CollectConfig walks schema depth-first and prompts for every leaf,
// pre-filling answers from the matching path in defaults. The result mirrors
// the schema's shape. A nil or empty schema yields an empty map without
// prompting.
func CollectConfig(ctx context.Context, p Prompter, schema *Schema, defaults map[string]any) (map[string]any, error) {
	config := make(map[string]any, schema.Len())
	if schema.Len() == 0 {
		return config, nil
	}

	for _, f := range schema.Fields {
		if !f.IsLeaf() {
			nestedDefaults, _ := defaults[f.Key].(map[string]any)
			nested, err := CollectConfig(ctx, p, f.Nested, nestedDefaults)
			if err != nil {
				return nil, err
			}
			config[f.Key] = nested
			continue
		}

		// List options are collected as a single string until structured
		// list input exists.
		q := Question{Title: "skill require " + f.Key, Required: true}
		if def, ok := defaults[f.Key]; ok && def != nil {
			q.Default = formatDefault(def)
			q.HasDefault = true
		}
		answer, err := p.Input(ctx, q)
		if err != nil {
			return nil, err
		}
		config[f.Key] = answer
	}
	return config, nil
}

// WriteSkillConfig loads the manifest in dir, collects its configuration and
// writes <dir>/config.json.
func WriteSkillConfig(ctx context.Context, dir string, p Prompter) (map[string]any, error) {
	manifest, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	config, err := CollectConfig(ctx, p, manifest.SchemaConfig, manifest.DefaultConfig)
	if err != nil {
		return nil, err
	}

	data, err := marshalIndent(config)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling config")
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.Wrapf(err, "writing %s", path)
	}
	logger.G(ctx).WithField("path", path).WithField("keys", len(config)).Debug("wrote skill config")
	return config, nil
}

func formatDefault(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
