// Package tmux runs ccasp's surfaces as tmux panes and drives the
// terminal pane with send-keys.
package tmux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/ccasp/ccasp/internal/colors"
)

// TmuxClient is the subset of tmux that ccasp uses.
type TmuxClient interface {
	// HasSession checks if tmux server is running.
	HasSession() (bool, error)

	// CurrentPane returns the pane ccasp was started from.
	CurrentPane() (string, error)

	// Run executes a tmux command with the given arguments.
	Run(args ...string) (string, string, error)
}

var (
	// ErrTmuxNotRunning means no tmux server answered.
	ErrTmuxNotRunning = errors.New("tmux server is not running")

	// ErrPaneNotFound means a pane id was empty or tmux did not print one.
	ErrPaneNotFound = errors.New("tmux pane not found")
)

// commandTimeout bounds every tmux invocation.
const commandTimeout = 5 * time.Second

// DefaultClient runs the tmux binary.
type DefaultClient struct {
	socketPath string
	timeout    time.Duration
}

// ClientOption configures a DefaultClient.
type ClientOption func(*DefaultClient)

// WithSocketPath talks to the server on the named socket (tmux -L).
func WithSocketPath(socketPath string) ClientOption {
	return func(c *DefaultClient) {
		c.socketPath = socketPath
	}
}

// NewDefaultClient returns a client for the default tmux server.
func NewDefaultClient(opts ...ClientOption) *DefaultClient {
	c := &DefaultClient{timeout: commandTimeout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *DefaultClient) runCommand(args ...string) (string, string, error) {
	start := time.Now()
	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	cmdArgs := []string{}
	if c.socketPath != "" {
		cmdArgs = append(cmdArgs, "-L", c.socketPath)
	}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.CommandContext(ctx, "tmux", cmdArgs...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	fields := map[string]any{"command": command, "args_count": len(args), "duration_seconds": time.Since(start).Seconds()}
	if err != nil {
		colors.StructuredError("tmux", "run", "failed", err, fields)
	} else {
		colors.StructuredDebug("tmux", "run", "completed", nil, fields)
	}
	return stdout.String(), stderr.String(), err
}

// Run executes a tmux command with the given arguments.
// It returns stdout, stderr, and any error that occurred.
func (c *DefaultClient) Run(args ...string) (string, string, error) {
	stdout, stderr, err := c.runCommand(args...)
	if err != nil {
		return stdout, stderr, fmt.Errorf("tmux command %v failed: %w", args, err)
	}
	return stdout, stderr, nil
}

// HasSession checks if tmux server is running.
func (c *DefaultClient) HasSession() (bool, error) {
	_, stderr, err := c.Run("has-session")
	if err != nil {
		if stderr != "" {
			colors.Debug("stderr: " + stderr)
		}
		return false, ErrTmuxNotRunning
	}
	return true, nil
}

// CurrentPane returns $TMUX_PANE, or asks tmux for the active pane.
func (c *DefaultClient) CurrentPane() (string, error) {
	if pane := os.Getenv("TMUX_PANE"); pane != "" {
		return pane, nil
	}
	stdout, _, err := c.Run("display-message", "-p", "#{pane_id}")
	if err != nil {
		return "", ErrTmuxNotRunning
	}
	pane := strings.TrimSpace(stdout)
	if pane == "" {
		return "", ErrPaneNotFound
	}
	return pane, nil
}
