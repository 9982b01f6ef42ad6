package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/razzo04/rhasspy-skills/internal/api"
)

// NoSkillsMessage is printed by ls when nothing is installed.
const NoSkillsMessage = "no skill installed"

// FormatSkillList renders one skill per line. Extra fields reported by the
// service are appended muted, sorted by key, and each line is truncated to
// width (0 disables truncation).
func FormatSkillList(theme Theme, records []api.SkillRecord, width int) string {
	if len(records) == 0 {
		return NoSkillsMessage + "\n"
	}

	var b strings.Builder
	for _, r := range records {
		line := theme.Key.Render(r.Name)
		if extra := formatExtra(r.Extra); extra != "" {
			line += "  " + theme.Muted.Render(extra)
		}
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatExtra(extra map[string]any) string {
	if len(extra) == 0 {
		return ""
	}
	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, extra[k])
	}
	return strings.Join(parts, " ")
}

// FormatSize renders a byte count, e.g. "10 kB".
func FormatSize(n int) string {
	if n < 0 {
		n = 0
	}
	return humanize.Bytes(uint64(n))
}
