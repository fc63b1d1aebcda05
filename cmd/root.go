// Package cmd implements the ccasp command line.
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/config"
	"github.com/ccasp/ccasp/internal/logging"
	"github.com/ccasp/ccasp/internal/version"
	"github.com/spf13/cobra"
)

// RootCmd is the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:           "ccasp",
	Short:         "Panels and slash commands for Claude Code inside tmux.",
	Long:          `Panels and slash commands for Claude Code inside tmux.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.Load()
		colors.SetDebug(config.GetBool("debug", false))
		colors.SetQuiet(config.GetBool("quiet", false))
		if err := logging.InitGlobal(cmd.Name()); err != nil {
			colors.Warning(fmt.Sprintf("logging disabled: %v", err))
		}
		colors.StructuredInfo("cli", cmd.Name(), "started", nil, map[string]any{"args": len(args)})
		return nil
	},
}

// app backs every subcommand registered on RootCmd.
var app = newAppClient()

// Execute runs the root command and releases the facade and logger.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		colors.Error(err.Error())
	}
	closeErr := app.Release()
	_ = logging.ShutdownGlobal()
	return errors.Join(err, closeErr)
}

func init() {
	RootCmd.Version = version.String()
	RootCmd.CompletionOptions.HiddenDefaultCmd = true
	RootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != RootCmd {
			fmt.Fprint(cmd.OutOrStdout(), cmd.UsageString())
			return
		}
		fmt.Fprint(cmd.OutOrStdout(), helpText(cmd))
	})

	RootCmd.AddCommand(
		NewOpenCmd(app),
		NewCloseCmd(app),
		NewToggleCmd(app),
		NewFocusCmd(app),
		NewRunCmd(app),
		NewRepeatCmd(app),
		NewListCmd(app),
		NewSearchCmd(app),
		NewShowCmd(app),
		NewSettingsCmd(app),
		NewSnapshotCmd(app),
		NewWatchCmd(app),
		NewVersionCmd(app),
	)
}

var commandOrder = []string{
	"open",
	"close",
	"toggle",
	"focus",
	"run",
	"repeat",
	"list",
	"search",
	"show",
	"settings",
	"snapshot",
	"watch",
	"version",
}

func helpText(root *cobra.Command) string {
	var lines []string
	for _, name := range commandOrder {
		for _, c := range root.Commands() {
			if c.Name() == name {
				lines = append(lines, fmt.Sprintf("    %-22s %s", c.Use, c.Short))
				break
			}
		}
	}
	return fmt.Sprintf(`ccasp %s

%s

USAGE:
    ccasp [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    -h, --help      Show help message
    -v, --version   Show version
`, version.String(), root.Short, strings.Join(lines, "\n"))
}
