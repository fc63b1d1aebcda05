// Package hooks runs user scripts at lifecycle points of the facade.
//
// Scripts live in <dir>/<point>/ and run in name order when they are
// executable. Each receives CCASP_HOOK_POINT, CCASP_HOOK_TIMESTAMP,
// CCASP_BINARY and the variables passed to Run.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/ccasp/ccasp/internal/config"
	"github.com/ccasp/ccasp/internal/logging"
)

// Hook points.
const (
	PostOpen  = "post-open"
	PostClose = "post-close"
	PreSend   = "pre-send"
	PostSend  = "post-send"
)

// Failure modes.
const (
	FailAbort  = "abort"
	FailWarn   = "warn"
	FailIgnore = "ignore"
)

const (
	defaultTimeout  = 30 * time.Second
	defaultMaxAsync = 10
)

// Option configures a Runner.
type Option func(*Runner)

// WithFailureMode sets what a failing script does: abort stops the run and
// returns the error, warn reports it, ignore drops it.
func WithFailureMode(mode string) Option {
	return func(r *Runner) {
		switch mode {
		case FailAbort, FailWarn, FailIgnore:
			r.failureMode = mode
		}
	}
}

// WithAsync starts scripts without waiting for them, killing any that
// outlive timeout.
func WithAsync(timeout time.Duration) Option {
	return func(r *Runner) {
		r.async = true
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// WithMaxAsync bounds the number of scripts running in the background.
func WithMaxAsync(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxAsync = n
		}
	}
}

// WithOutput sets where script output and warnings go.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		if w != nil {
			r.out = w
		}
	}
}

// WithLogger sets the runner logger.
func WithLogger(l logging.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// Runner executes hook scripts.
type Runner struct {
	dir         string
	failureMode string
	async       bool
	timeout     time.Duration
	maxAsync    int
	out         io.Writer
	logger      logging.Logger

	mu      sync.Mutex
	pending int
	wg      sync.WaitGroup
}

// New returns a runner for scripts under dir.
func New(dir string, opts ...Option) *Runner {
	r := &Runner{
		dir:         dir,
		failureMode: FailWarn,
		timeout:     defaultTimeout,
		maxAsync:    defaultMaxAsync,
		out:         os.Stderr,
		logger:      logging.GetGlobal(),
	}
	for _, o := range opts {
		o(r)
	}
	r.logger = r.logger.With("component", "hooks")
	return r
}

// FromConfig builds a runner from the lifecycle_hooks_dir and hooks_*
// config keys.
func FromConfig(opts ...Option) *Runner {
	base := []Option{
		WithFailureMode(config.Get("hooks_failure_mode", FailWarn)),
		WithMaxAsync(config.GetInt("hooks_max_async", defaultMaxAsync)),
	}
	if config.GetBool("hooks_async", false) {
		seconds := config.GetInt("hooks_async_timeout", int(defaultTimeout/time.Second))
		base = append(base, WithAsync(time.Duration(seconds)*time.Second))
	}
	return New(config.Get("lifecycle_hooks_dir", ""), append(base, opts...)...)
}

// Dir returns the hooks root.
func (r *Runner) Dir() string { return r.dir }

// Scripts lists the executable scripts of point in run order.
func (r *Runner) Scripts(point string) []string {
	if r.dir == "" {
		return nil
	}
	dir := filepath.Join(r.dir, point)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, filepath.Join(dir, e.Name()))
	}
	sort.Strings(scripts)
	return scripts
}

// Run executes the scripts of point with env added to the environment.
// Only the abort failure mode returns an error, and only for
// synchronous runs.
func (r *Runner) Run(point string, env map[string]string) error {
	scripts := r.Scripts(point)
	if len(scripts) == 0 {
		return nil
	}
	environ := r.environ(point, env)
	r.logger.Debug("hooks.run", "point", point, "scripts", len(scripts), "async", r.async)

	for _, script := range scripts {
		if r.async {
			r.start(script, environ)
			continue
		}
		if err := r.runSync(script, environ); err != nil {
			return err
		}
	}
	return nil
}

// Wait blocks until every background script has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Pending reports how many background scripts are running.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}

func (r *Runner) environ(point string, env map[string]string) []string {
	environ := append(os.Environ(),
		"CCASP_HOOK_POINT="+point,
		"CCASP_HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
	)
	if exe, err := os.Executable(); err == nil {
		environ = append(environ, "CCASP_BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		environ = append(environ, k+"="+env[k])
	}
	return environ
}

func (r *Runner) runSync(script string, environ []string) error {
	name := filepath.Base(script)
	start := time.Now()
	cmd := exec.Command(script)
	cmd.Env = environ
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		_, _ = r.out.Write(output)
	}
	if err == nil {
		r.logger.Debug("hooks.done", "script", name, "duration", time.Since(start).String())
		return nil
	}
	r.logger.Warn("hooks.failed", "script", name, "error", err)
	switch r.failureMode {
	case FailAbort:
		return fmt.Errorf("hook %s failed: %w", name, err)
	case FailWarn:
		fmt.Fprintf(r.out, "warning: hook %s failed: %v\n", name, err)
	}
	return nil
}

func (r *Runner) start(script string, environ []string) {
	name := filepath.Base(script)

	r.mu.Lock()
	if r.pending >= r.maxAsync {
		r.mu.Unlock()
		fmt.Fprintf(r.out, "warning: too many hooks pending (max: %d), skipping %s\n", r.maxAsync, name)
		return
	}
	r.pending++
	r.wg.Add(1)
	r.mu.Unlock()

	done := func() {
		r.mu.Lock()
		r.pending--
		r.mu.Unlock()
		r.wg.Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	cmd := exec.CommandContext(ctx, script)
	cmd.Env = environ
	cmd.Stdout = r.out
	cmd.Stderr = r.out
	cmd.WaitDelay = time.Second
	if err := cmd.Start(); err != nil {
		cancel()
		done()
		if r.failureMode != FailIgnore {
			fmt.Fprintf(r.out, "warning: hook %s failed to start: %v\n", name, err)
		}
		return
	}

	go func() {
		defer done()
		defer cancel()
		err := cmd.Wait()
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(r.out, "warning: hook %s timed out after %s\n", name, r.timeout)
		} else if err != nil && r.failureMode != FailIgnore {
			fmt.Fprintf(r.out, "warning: hook %s failed: %v\n", name, err)
		}
	}()
}
