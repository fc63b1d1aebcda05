package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/settings"
	"github.com/spf13/cobra"
)

type settingsClient interface {
	SettingsDocument() (map[string]any, error)
	GetSetting(key string) (any, bool, error)
	SetSetting(key string, value any) error
	ResetSettings() error
}

const settingsCommandLong = `Manage ccasp settings.

USAGE:
    ccasp settings <subcommand>

SUBCOMMANDS:
    show                 Display current settings
    get <key>            Print one value (dotted keys reach nested values)
    set <key> <value>    Change one value
    reset                Restore the defaults

EXAMPLES:
    # Plan before editing
    ccasp settings set permissions_mode plan

    # Skip the startup update check
    ccasp settings set update_check_defaults.check_on_startup false`

// NewSettingsCmd creates the settings command with explicit dependencies.
func NewSettingsCmd(client settingsClient) *cobra.Command {
	if client == nil {
		panic("NewSettingsCmd: client dependency cannot be nil")
	}
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage settings",
		Long:  settingsCommandLong,
	}
	settingsCmd.AddCommand(
		newSettingsShowCmd(client),
		newSettingsGetCmd(client),
		newSettingsSetCmd(client),
		newSettingsResetCmd(client),
	)
	return settingsCmd
}

func newSettingsShowCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := client.SettingsDocument()
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal settings: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newSettingsGetCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, ok, err := client.GetSetting(args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("unknown setting %q", args[0])
			}
			if s, isString := value.(string); isString {
				fmt.Fprintln(cmd.OutOrStdout(), s)
				return nil
			}
			data, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal %s: %w", args[0], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

func newSettingsSetCmd(client settingsClient) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Long: `Change one setting. The value is read as JSON when it parses
(true, 3, {"a":1}) and as a plain string otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.SetSetting(args[0], settings.ParseValue(args[1])); err != nil {
				return fmt.Errorf("failed to set %s: %w", args[0], err)
			}
			colors.Success(fmt.Sprintf("%s updated", args[0]))
			return nil
		},
	}
}

func newSettingsResetCmd(client settingsClient) *cobra.Command {
	var force bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset settings to defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && os.Getenv("CI") == "" {
				if !confirmReset(cmd.InOrStdin(), cmd.OutOrStdout()) {
					colors.Info("Operation cancelled")
					return nil
				}
			}
			if err := client.ResetSettings(); err != nil {
				return fmt.Errorf("failed to reset settings: %w", err)
			}
			colors.Success("Settings reset to defaults")
			return nil
		},
	}
	resetCmd.Flags().BoolVar(&force, "force", false, "Reset without confirmation")
	return resetCmd
}

// confirmReset asks the user for confirmation before resetting settings.
func confirmReset(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Are you sure you want to reset all settings to defaults? (y/N): ")
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "y" || answer == "yes"
}
