package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/razzo04/rhasspy-skills/internal/ui"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Show installed skills",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		output, _ := cmd.Flags().GetString("output")

		records, err := d.client.List(cmd.Context())
		if err != nil {
			return err
		}

		fields := make([]map[string]any, len(records))
		for i, r := range records {
			fields[i] = r.Fields()
		}

		w := cmd.OutOrStdout()
		switch output {
		case "text", "":
			fmt.Fprint(w, ui.FormatSkillList(d.out.Theme(), records, ui.Width(w, 0)))
		case "json":
			data, err := json.MarshalIndent(fields, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(data))
		case "yaml":
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(fields); err != nil {
				return err
			}
			return enc.Close()
		default:
			return fmt.Errorf("unknown output format %q (want text, json or yaml)", output)
		}
		return nil
	},
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <name>",
	Short: "Remove an installed skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		body, err := d.client.Uninstall(cmd.Context(), args[0], force)
		if err != nil {
			return err
		}
		printResponse(d, body)
		return nil
	},
}

var startCmd = &cobra.Command{
	Use:   "start <name>",
	Short: "Start an installed skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}

		body, err := d.client.Start(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printResponse(d, body)
		return nil
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop <name>",
	Short: "Stop a running skill",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := newDeps(cmd)
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		body, err := d.client.Stop(cmd.Context(), args[0], force)
		if err != nil {
			return err
		}
		printResponse(d, body)
		return nil
	},
}

func printResponse(d *deps, body string) {
	d.out.Printf("Response: %s\n", trimBody(body))
}

func init() {
	listCmd.Flags().StringP("output", "o", "text", "Output format (text, json, yaml)")
	uninstallCmd.Flags().BoolP("force", "f", false, "Remove the skill even if it is running")
	stopCmd.Flags().BoolP("force", "f", false, "Kill the skill if it does not stop")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
}
