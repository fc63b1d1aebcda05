package errors

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockColorOutput records the last message per level.
type mockColorOutput struct {
	mu    sync.Mutex
	calls map[string]string
}

func newMockColorOutput() *mockColorOutput {
	return &mockColorOutput{calls: make(map[string]string)}
}

func (m *mockColorOutput) set(level string, msgs []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(msgs) > 0 {
		m.calls[level] = msgs[0]
	}
}

func (m *mockColorOutput) Error(msgs ...string)   { m.set("error", msgs) }
func (m *mockColorOutput) Warning(msgs ...string) { m.set("warning", msgs) }
func (m *mockColorOutput) Info(msgs ...string)    { m.set("info", msgs) }
func (m *mockColorOutput) Success(msgs ...string) { m.set("success", msgs) }

func TestCLIHandlerDelegates(t *testing.T) {
	out := newMockColorOutput()
	h := NewCLIHandler(out)

	h.Error("e")
	h.Warning("w")
	h.Info("i")
	h.Success("s")

	assert.Equal(t, map[string]string{"error": "e", "warning": "w", "info": "i", "success": "s"}, out.calls)
}

func TestCLIHandlerConcurrentUse(t *testing.T) {
	out := newMockColorOutput()
	h := NewCLIHandler(out)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.Error("concurrent")
		}()
	}
	wg.Wait()
	assert.Equal(t, "concurrent", out.calls["error"])
}

func TestRecorder(t *testing.T) {
	var seen []Message
	r := NewRecorder(func(msg Message) { seen = append(seen, msg) })

	_, ok := r.Latest()
	assert.False(t, ok)

	r.Info("no previous command to repeat")
	r.Error("window refused")

	latest, ok := r.Latest()
	require.True(t, ok)
	assert.Equal(t, "window refused", latest.Text)
	assert.Equal(t, MessageTypeError, latest.Type)
	assert.Len(t, r.All(), 2)
	assert.Len(t, seen, 2)
	assert.Equal(t, "info", r.All()[0].Type.String())

	r.Clear()
	assert.Empty(t, r.All())
}
