package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/razzo04/rhasspy-skills/internal/core"
	"github.com/razzo04/rhasspy-skills/internal/ui"
	"github.com/spf13/cobra"
)

var packCmd = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Write a skill folder to a tar archive",
	Long: `Write the archive install would send for <dir> to a file, without
collecting the configuration. The archive can be installed later with
"install <file>".`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]
		output, _ := cmd.Flags().GetString("output")
		excludes, _ := cmd.Flags().GetStringArray("exclude")

		m, err := core.LoadManifest(dir)
		if err != nil {
			return err
		}
		if output == "" {
			output = m.Slug + ".tar"
		}

		archiver, err := core.NewArchiver(excludes...)
		if err != nil {
			return err
		}
		data, err := archiver.ArchiveDir(dir)
		if err != nil {
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", output)
		}

		ui.NewPrinter(cmd.OutOrStdout()).Success("Wrote %s (%s)", output, ui.FormatSize(len(data)))
		return nil
	},
}

func init() {
	packCmd.Flags().StringP("output", "o", "", "Archive file (default <slug>.tar)")
	packCmd.Flags().StringArray("exclude", nil, "Glob of files to leave out of the archive (repeatable)")
	rootCmd.AddCommand(packCmd)
}
