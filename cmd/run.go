package cmd

import (
	"fmt"
	"strings"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/spf13/cobra"
)

type runClient interface {
	Command(name string) (commands.Command, error)
	Pick(title string, opts []parser.Option) (map[string]string, bool, error)
	Configure(name string, values map[string]string) error
	RunCommand(name string) error
}

type repeatClient interface {
	RepeatLast() error
}

const runCommandLong = `Send a slash command to the terminal.

USAGE:
    ccasp run <command> [OPTIONS]

OPTIONS:
    --pick             Choose the command's options interactively
    --set key=value    Set an option value (repeatable)

EXAMPLES:
    # Send /menu
    ccasp run menu

    # Choose options for /deploy-full before sending it
    ccasp run deploy-full --pick

    # Send /deploy-full --dry-run --env=staging
    ccasp run deploy-full --set dry-run=true --set env=staging`

// NewRunCmd creates the run command.
func NewRunCmd(client runClient) *cobra.Command {
	if client == nil {
		panic("NewRunCmd: client dependency cannot be nil")
	}
	var pick bool
	var sets []string

	runCmd := &cobra.Command{
		Use:   "run <command>",
		Short: "Send a command to the terminal",
		Long:  runCommandLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			values, err := parseSets(sets)
			if err != nil {
				return err
			}
			if pick && name != "" {
				c, err := client.Command(name)
				if err != nil {
					return err
				}
				picked, ok, err := client.Pick("/"+c.Name, c.Options)
				if err != nil {
					return fmt.Errorf("option picker: %w", err)
				}
				if !ok {
					colors.Info("Operation cancelled")
					return nil
				}
				for k, v := range values {
					picked[k] = v
				}
				values = picked
			}
			if len(values) > 0 {
				if err := client.Configure(name, values); err != nil {
					return err
				}
			}
			return client.RunCommand(name)
		},
	}
	runCmd.Flags().BoolVar(&pick, "pick", false, "Choose options interactively")
	runCmd.Flags().StringArrayVar(&sets, "set", nil, "Set an option value (key=value)")
	return runCmd
}

func parseSets(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", s)
		}
		if !ok {
			v = "true"
		}
		values[k] = v
	}
	return values, nil
}

// NewRepeatCmd creates the repeat command.
func NewRepeatCmd(client repeatClient) *cobra.Command {
	if client == nil {
		panic("NewRepeatCmd: client dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "repeat",
		Short: "Send the last command again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.RepeatLast()
		},
	}
}
