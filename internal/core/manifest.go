package core

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
)

var (
	slugPattern    = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)
	versionPattern = regexp.MustCompile(`^\d+(\.\d+){0,2}([-+][0-9A-Za-z.+-]+)?$`)
)

// UnmarshalJSON decodes a manifest, defaulting auto_train to true when the
// key is absent.
func (m *Manifest) UnmarshalJSON(data []byte) error {
	type plain Manifest
	p := plain{AutoTrain: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = Manifest(p)
	return nil
}

// Validate checks the required fields and the slug and version formats.
func (m *Manifest) Validate() error {
	var problems []string
	if strings.TrimSpace(m.Name) == "" {
		problems = append(problems, "name is required")
	}
	switch {
	case m.Slug == "":
		problems = append(problems, "slug is required")
	case !slugPattern.MatchString(m.Slug):
		problems = append(problems, "slug "+quote(m.Slug)+" may only contain letters, digits, '_', '-' and '.'")
	}
	switch {
	case m.Version == "":
		problems = append(problems, "version is required")
	case !versionPattern.MatchString(m.Version):
		problems = append(problems, "version "+quote(m.Version)+" is not a semantic version")
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ParseManifest decodes and validates manifest JSON. Comments and trailing
// commas are accepted.
func ParseManifest(data []byte) (*Manifest, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	var m Manifest
	if err := json.Unmarshal(std, &m); err != nil {
		return nil, &ValidationError{Problems: []string{err.Error()}}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads <dir>/manifest.json.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNoManifest, dir)
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return ParseManifest(data)
}

// Save writes the manifest as indented JSON to <dir>/manifest.json.
func (m *Manifest) Save(dir string) error {
	data, err := marshalIndent(m)
	if err != nil {
		return errors.Wrap(err, "marshaling manifest")
	}
	path := filepath.Join(dir, ManifestFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// Slugify derives a slug from a display name: trimmed, lower-cased, spaces
// replaced with underscores.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// ParseLanguages splits a comma separated list of locale tags.
func ParseLanguages(list string) []string {
	var langs []string
	for _, l := range strings.Split(list, ",") {
		if l = strings.TrimSpace(l); l != "" {
			langs = append(langs, l)
		}
	}
	return langs
}

// marshalIndent encodes v as two-space indented JSON with a trailing newline
// and without HTML escaping.
func marshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
