// Package errors routes user-facing notices (the non-fatal error class) to
// the console or to an in-memory recorder.
package errors

import (
	"sync"

	"github.com/ccasp/ccasp/internal/colors"
)

// ErrorHandler receives notices by severity.
type ErrorHandler interface {
	Error(msg string)
	Warning(msg string)
	Info(msg string)
	Success(msg string)
}

// ColorOutput is the console surface a CLIHandler prints through.
type ColorOutput interface {
	Error(msgs ...string)
	Warning(msgs ...string)
	Info(msgs ...string)
	Success(msgs ...string)
}

// CLIHandler prints notices one at a time.
type CLIHandler struct {
	colors ColorOutput
	mu     sync.Mutex
}

// NewCLIHandler creates a handler printing through the given output.
func NewCLIHandler(colors ColorOutput) *CLIHandler {
	return &CLIHandler{colors: colors}
}

func (h *CLIHandler) Error(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.colors.Error(msg)
}

func (h *CLIHandler) Warning(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.colors.Warning(msg)
}

func (h *CLIHandler) Info(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.colors.Info(msg)
}

func (h *CLIHandler) Success(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.colors.Success(msg)
}

// console prints through the colors package.
type console struct{}

func (console) Error(msgs ...string)   { colors.Error(msgs...) }
func (console) Warning(msgs ...string) { colors.Warning(msgs...) }
func (console) Info(msgs ...string)    { colors.Info(msgs...) }
func (console) Success(msgs ...string) { colors.Success(msgs...) }

// NewDefaultCLIHandler prints notices to the console.
func NewDefaultCLIHandler() *CLIHandler {
	return NewCLIHandler(console{})
}
