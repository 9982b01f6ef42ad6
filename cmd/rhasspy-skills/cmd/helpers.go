package cmd

import (
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/razzo04/rhasspy-skills/internal/ui"
)

// trimBody drops surrounding whitespace from a service response.
func trimBody(body string) string {
	return strings.TrimSpace(body)
}

// folderName returns the last element of dir's absolute path, so that "."
// names the current folder.
func folderName(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", dir)
	}
	return filepath.Base(abs), nil
}

// printManifest prints the summary lines shared by validate and info.
func printManifest(p *ui.Printer, m *core.Manifest) {
	p.Field("name", m.Name)
	p.Field("slug", m.Slug)
	p.Field("version", m.Version)
	if m.Description != "" {
		p.Field("description", m.Description)
	}
	if len(m.Languages) > 0 {
		p.Field("languages", strings.Join(m.Languages, ", "))
	}
	p.Field("internet access", m.InternetAccess)
	p.Field("auto train", m.AutoTrain)
	if keys := m.SchemaConfig.Keys(); len(keys) > 0 {
		p.Field("options", strings.Join(keys, ", "))
	}
}
