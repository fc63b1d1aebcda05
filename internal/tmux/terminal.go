package tmux

import (
	"fmt"
)

// Terminal types commands into a pane.
type Terminal struct {
	client TmuxClient
	target func() (string, bool)
}

// NewTerminal returns a terminal with no target pane.
func NewTerminal(client TmuxClient) *Terminal {
	if client == nil {
		panic("tmux.NewTerminal: client dependency cannot be nil")
	}
	return &Terminal{client: client}
}

// SetTarget sets how the pane to type into is resolved on each Send.
func (t *Terminal) SetTarget(target func() (string, bool)) {
	t.target = target
}

// Send types text literally into the target pane and presses Enter.
func (t *Terminal) Send(text string) error {
	if t.target == nil {
		return ErrPaneNotFound
	}
	pane, ok := t.target()
	if !ok || pane == "" {
		return ErrPaneNotFound
	}
	if _, _, err := t.client.Run("send-keys", "-t", pane, "-l", text); err != nil {
		return fmt.Errorf("send keys to %s: %w", pane, err)
	}
	if _, _, err := t.client.Run("send-keys", "-t", pane, "Enter"); err != nil {
		return fmt.Errorf("send enter to %s: %w", pane, err)
	}
	return nil
}
