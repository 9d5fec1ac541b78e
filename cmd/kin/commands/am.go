package commands

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/kin/am"
	"github.com/teranos/kin/display"
	"github.com/teranos/kin/errors"
	"github.com/teranos/kin/sym"
)

func newAmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "am",
		Short: sym.Config + " Manage kin configuration",
		Long: sym.Config + ` am - Manage kin configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (KIN_* prefix, e.g. KIN_SERVER_RATE_LIMIT)
3. Project config (kin.toml, searched from the working directory upwards)
4. User config (~/.kin/am.toml)
5. System config (/etc/kin/config.toml)
6. Default values`,
		Example: `  kin am show               # Show current configuration as TOML
  kin am show --sources     # Show where each setting came from
  kin am init               # Write defaults to ~/.kin/am.toml
  kin am get server.rate_limit
  kin am validate`,
	}
	cmd.AddCommand(newAmShowCmd(), newAmInitCmd(), newAmGetCmd(), newAmValidateCmd())
	return cmd
}

func newAmShowCmd() *cobra.Command {
	var sources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective kin configuration from all sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sources {
				return showSources(cmd)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return display.Output(cmd, cfg, func(w io.Writer) error {
				fmt.Fprintln(w, "# kin configuration")
				return am.Show(w, cfg)
			})
		},
	}
	cmd.Flags().BoolVar(&sources, "sources", false, "Show the source of each setting")
	return cmd
}

func showSources(cmd *cobra.Command) error {
	settings, err := am.Introspect()
	if err != nil {
		return errors.Wrap(err, "failed to get config introspection")
	}

	return display.Output(cmd, settings, func(w io.Writer) error {
		data := pterm.TableData{{"Setting", "Value", "Source", "From"}}
		for _, s := range settings {
			value := fmt.Sprintf("%v", s.Value)
			// Truncate long values
			if len(value) > 50 {
				value = value[:47] + "..."
			}
			data = append(data, []string{s.Key, value, string(s.Source), s.SourcePath})
		}
		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, table)
		return err
	})
}

func newAmInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the default configuration to a file",
		Long: `Write the built-in defaults as TOML, to ~/.kin/am.toml unless a path is given.
An existing file is kept unless --force is set, in which case it is rotated
into .back1 to .back3 first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := am.UserConfigPath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.WithHint(errors.New("no home directory"), "pass a path: kin am init ./kin.toml")
			}
			if err := am.WriteDefault(path, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote default configuration to %s\n", sym.Config, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file, keeping backups")
	return cmd
}

func newAmGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a specific configuration value",
		Long:  "Get a specific configuration value using dot notation (e.g., server.rate_limit, graph.label_width)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			v := am.GetViper()
			if !v.IsSet(key) {
				return errors.Newf("configuration key %q not found", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
			return nil
		},
	}
}

func newAmValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate current configuration",
		Long:  "Validate that the current kin configuration is valid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return errors.Wrap(err, "configuration validation failed")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	}
}
