package cmd

import (
	"fmt"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/layout"
	"github.com/spf13/cobra"
)

type layoutClient interface {
	Open() error
	Close() error
	OpenSurface(name string) error
	CloseSurface(name string) error
	Toggle(name string) (bool, error)
	Focus(name string) (string, error)
}

// NewOpenCmd creates the open command.
func NewOpenCmd(client layoutClient) *cobra.Command {
	if client == nil {
		panic("NewOpenCmd: client dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "open [surface]",
		Short: "Open every panel, or one surface",
		Long: `Open the ccasp panels.

Without arguments every surface is opened: header, footer, icon rail,
flyout, sidebar and terminal. A terminal opened this way is started with
the configured terminal command.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return client.OpenSurface(args[0])
			}
			if err := client.Open(); err != nil {
				return err
			}
			colors.Success("Panels open")
			return nil
		},
	}
}

// NewCloseCmd creates the close command.
func NewCloseCmd(client layoutClient) *cobra.Command {
	if client == nil {
		panic("NewCloseCmd: client dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "close [surface]",
		Short: "Close every panel, or one surface",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return client.CloseSurface(args[0])
			}
			if err := client.Close(); err != nil {
				return err
			}
			colors.Success("Panels closed")
			return nil
		},
	}
}

// NewToggleCmd creates the toggle command.
func NewToggleCmd(client layoutClient) *cobra.Command {
	if client == nil {
		panic("NewToggleCmd: client dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "toggle [surface]",
		Short: "Toggle a surface (sidebar by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := layout.Sidebar
			if len(args) == 1 {
				name = args[0]
			}
			open, err := client.Toggle(name)
			if err != nil {
				return err
			}
			state := "closed"
			if open {
				state = "open"
			}
			colors.Info(fmt.Sprintf("%s %s", name, state))
			return nil
		},
	}
}

// NewFocusCmd creates the focus command.
func NewFocusCmd(client layoutClient) *cobra.Command {
	if client == nil {
		panic("NewFocusCmd: client dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "focus [surface]",
		Short: "Focus a surface, or switch terminal and sidebar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			focused, err := client.Focus(name)
			if err != nil {
				return err
			}
			colors.Debug("focused " + focused)
			return nil
		},
	}
}
