package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ccasp/ccasp/internal/assets"
	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/render"
	"github.com/ccasp/ccasp/internal/search"
	"github.com/spf13/cobra"
)

type listClient interface {
	Commands() ([]commands.Command, error)
	Sections() ([]commands.Section, error)
	Assets() ([]assets.Asset, error)
}

type showClient interface {
	Command(name string) (commands.Command, error)
}

// terminalWidth reads $COLUMNS, falling back to 80.
func terminalWidth() int {
	if n, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && n > 0 {
		return n
	}
	return 80
}

// NewListCmd creates the list command.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}
	var sections, withAssets bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			width := terminalWidth()
			cmds, err := client.Commands()
			if err != nil {
				return err
			}
			if sections {
				secs, err := client.Sections()
				if err != nil {
					return err
				}
				fmt.Fprintln(out, render.Sections(secs, cmds, width))
			} else if len(cmds) > 0 {
				fmt.Fprintln(out, render.Commands(cmds, width))
			}
			if withAssets {
				list, err := client.Assets()
				if err != nil {
					return err
				}
				if len(list) > 0 {
					fmt.Fprintln(out)
					fmt.Fprintln(out, render.Assets(list, width))
				}
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&sections, "sections", false, "Group commands by section")
	listCmd.Flags().BoolVar(&withAssets, "assets", false, "Also list agents, hooks and skills")
	return listCmd
}

// NewSearchCmd creates the search command.
func NewSearchCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewSearchCmd: client dependency cannot be nil")
	}
	var regex, tokens bool

	searchCmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search commands by name and description",
		RunE: func(cmd *cobra.Command, args []string) error {
			if regex && tokens {
				return fmt.Errorf("--regex and --tokens are mutually exclusive")
			}
			query := strings.Join(args, " ")
			provider := search.New("substring")
			switch {
			case regex:
				provider = search.NewRegexProvider()
				if err := provider.(*search.RegexProvider).Valid(query); err != nil {
					return fmt.Errorf("invalid pattern: %w", err)
				}
			case tokens:
				provider = search.NewTokenProvider()
			}

			cmds, err := client.Commands()
			if err != nil {
				return err
			}
			found := search.Filter(provider, cmds, query)
			if len(found) == 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "No matching commands")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Commands(found, terminalWidth()))
			return nil
		},
	}
	searchCmd.Flags().BoolVar(&regex, "regex", false, "Treat the query as a regular expression")
	searchCmd.Flags().BoolVar(&tokens, "tokens", false, "Require every word of the query to match")
	return searchCmd
}

// NewShowCmd creates the show command.
func NewShowCmd(client showClient) *cobra.Command {
	if client == nil {
		panic("NewShowCmd: client dependency cannot be nil")
	}
	var raw bool

	showCmd := &cobra.Command{
		Use:   "show <command>",
		Short: "Render a command's markdown and options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.Command(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(c.Path)
			if err != nil {
				return fmt.Errorf("read %s: %w", c.Path, err)
			}
			out := cmd.OutOrStdout()
			body := string(data)
			if !raw {
				if rendered, err := render.Markdown(body, terminalWidth()); err == nil {
					body = rendered
				}
			}
			fmt.Fprintln(out, body)
			if len(c.Options) > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, render.Options(c.Options))
			}
			return nil
		},
	}
	showCmd.Flags().BoolVar(&raw, "raw", false, "Print the markdown source")
	return showCmd
}
