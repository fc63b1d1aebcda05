package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/ccasp/ccasp/internal/watch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLoop(t *testing.T) {
	events := make(chan watch.Event, 2)
	events <- watch.Event{Path: ".claude/commands/menu.md"}
	events <- watch.Event{Path: ".claude/skills/x/SKILL.md"}
	close(events)

	f := &fakeClient{handled: true}
	var out bytes.Buffer
	require.NoError(t, watchLoop(context.Background(), events, f, &out))
	assert.Equal(t, []string{
		"saved .claude/commands/menu.md",
		"saved .claude/skills/x/SKILL.md",
	}, f.calls)
	assert.Contains(t, out.String(), "reloaded after saving .claude/commands/menu.md")
}

func TestWatchLoopUnhandled(t *testing.T) {
	events := make(chan watch.Event, 1)
	events <- watch.Event{Path: "notes.md"}
	close(events)

	var out bytes.Buffer
	require.NoError(t, watchLoop(context.Background(), events, &fakeClient{}, &out))
	assert.Empty(t, out.String())
}

func TestWatchLoopError(t *testing.T) {
	events := make(chan watch.Event, 1)
	events <- watch.Event{Path: "a.md"}

	f := &fakeClient{err: errFake}
	err := watchLoop(context.Background(), events, f, &bytes.Buffer{})
	assert.ErrorIs(t, err, errFake)
}

func TestWatchLoopCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := watchLoop(ctx, make(chan watch.Event), &fakeClient{}, &bytes.Buffer{})
	assert.NoError(t, err)
}
