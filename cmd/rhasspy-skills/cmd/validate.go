package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/razzo04/rhasspy-skills/internal/ui"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Check a skill folder's manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := core.LoadManifest(args[0])
		if err != nil {
			return err
		}
		p := ui.NewPrinter(cmd.OutOrStdout())
		printManifest(p, m)
		p.Success("%s is valid", core.ManifestFileName)
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <dir>",
	Short: "Describe a skill folder and render its README",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		m, err := core.LoadManifest(dir)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		p := ui.NewPrinter(w)
		printManifest(p, m)

		readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading README.md")
		}
		rendered, err := ui.RenderMarkdown(string(readme), ui.Width(w, 80), ui.IsTerminal(w))
		if err != nil {
			return err
		}
		p.Println()
		fmt.Fprint(w, rendered)
		return nil
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of manifest.json",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(core.ManifestJSONSchema(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "encoding schema")
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(schemaCmd)
}
