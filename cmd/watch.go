package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/watch"
	"github.com/spf13/cobra"
)

type watchClient interface {
	ProjectDir() string
	WatchPatterns() ([]string, error)
	HandleFileSaved(path string) (bool, error)
}

// NewWatchCmd creates the watch command.
func NewWatchCmd(client watchClient) *cobra.Command {
	if client == nil {
		panic("NewWatchCmd: client dependency cannot be nil")
	}
	return &cobra.Command{
		Use:   "watch",
		Short: "Reload commands and assets as their files are saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patterns, err := client.WatchPatterns()
			if err != nil {
				return err
			}
			w, err := watch.New(client.ProjectDir(), patterns)
			if err != nil {
				return fmt.Errorf("watch %s: %w", client.ProjectDir(), err)
			}
			w.Start()
			defer w.Stop()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			colors.Info(fmt.Sprintf("Watching %s (ctrl+c to stop)", client.ProjectDir()))
			return watchLoop(ctx, w.Events(), client, cmd.OutOrStdout())
		},
	}
}

// watchLoop is the single consumer of watcher events; facade calls only
// happen here.
func watchLoop(ctx context.Context, events <-chan watch.Event, client watchClient, out io.Writer) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			handled, err := client.HandleFileSaved(ev.Path)
			if err != nil {
				return err
			}
			if handled {
				fmt.Fprintf(out, "reloaded after saving %s\n", ev.Path)
			}
		}
	}
}
