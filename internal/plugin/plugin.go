// Package plugin is the facade that owns every ccasp component: the
// settings store, the command registry, the asset catalog, the layout
// manager and the terminal the commands are typed into.
package plugin

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/ccasp/ccasp/internal/assets"
	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/errors"
	"github.com/ccasp/ccasp/internal/history"
	"github.com/ccasp/ccasp/internal/hooks"
	"github.com/ccasp/ccasp/internal/host"
	"github.com/ccasp/ccasp/internal/layout"
	"github.com/ccasp/ccasp/internal/logging"
	"github.com/ccasp/ccasp/internal/settings"
)

var (
	// ErrNoLastCommand means nothing has been sent yet.
	ErrNoLastCommand = stderrors.New("no previous command to repeat")

	// ErrNoCommand means RunCommand was called without a name.
	ErrNoCommand = stderrors.New("no command selected")
)

// Terminal receives the command lines the facade builds.
type Terminal interface {
	Send(text string) error
}

// SetupOption configures collaborators of Setup.
type SetupOption func(*Plugin)

// WithNotices routes user notices to h instead of the console.
func WithNotices(h errors.ErrorHandler) SetupOption {
	return func(p *Plugin) {
		if h != nil {
			p.notices = h
		}
	}
}

// WithLogger sets the facade logger; components inherit it.
func WithLogger(l logging.Logger) SetupOption {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithHistory uses an already opened history store.
func WithHistory(s *history.Store) SetupOption {
	return func(p *Plugin) {
		p.history = s
		p.ownsHistory = false
	}
}

// WithHooks runs lifecycle scripts from r. A failing pre-send script in
// abort mode stops the command from being sent.
func WithHooks(r *hooks.Runner) SetupOption {
	return func(p *Plugin) {
		p.hooks = r
	}
}

// Plugin is the ccasp facade.
type Plugin struct {
	opts        Options
	settings    *settings.Store
	registry    *commands.Registry
	assets      *assets.Catalog
	layout      *layout.Manager
	terminal    Terminal
	history     *history.Store
	ownsHistory bool
	hooks       *hooks.Runner
	notices     errors.ErrorHandler
	logger      logging.Logger

	values   map[string]map[string]string
	last     string
	focused  string
	keymap   map[string]Action
	autocmds []Autocmd
}

// Setup merges opts over the defaults, builds every component and
// re-attaches windows left open by an earlier process.
func Setup(opts Options, h host.Host, term Terminal, setupOpts ...SetupOption) (*Plugin, error) {
	if h == nil {
		return nil, fmt.Errorf("setup: host cannot be nil")
	}
	if term == nil {
		return nil, fmt.Errorf("setup: terminal cannot be nil")
	}
	opts = opts.merge()

	p := &Plugin{
		opts:        opts,
		terminal:    term,
		notices:     errors.NewDefaultCLIHandler(),
		logger:      logging.GetGlobal(),
		ownsHistory: true,
		values:      make(map[string]map[string]string),
		keymap:      DefaultKeymap(),
		autocmds:    dirAutocmds(opts),
	}
	for _, o := range setupOpts {
		o(p)
	}
	for k, a := range opts.Keymap {
		p.keymap[k] = a
	}

	p.settings = settings.NewStore(opts.SettingsPath, settings.WithLogger(p.logger))
	p.registry = commands.NewRegistry(opts.CommandsDir,
		commands.WithInternalPrefix(opts.InternalPrefix),
		commands.WithDescriptionLength(opts.DescriptionLength),
		commands.WithLogger(p.logger),
	)
	p.assets = assets.NewCatalog(map[assets.Kind]string{
		assets.KindAgent: opts.AgentsDir,
		assets.KindHook:  opts.HooksDir,
		assets.KindSkill: opts.SkillsDir,
	}, opts.InternalPrefix, opts.DescriptionLength, p.logger)
	p.layout = layout.NewManager(h, opts.Surfaces,
		layout.WithOwner(opts.Owner),
		layout.WithLogger(p.logger),
	)

	if p.history == nil && opts.HistoryEnabled && opts.HistoryPath != "" {
		store, err := history.Open(opts.HistoryPath)
		if err != nil {
			p.logger.Warn("plugin.history_unavailable", "path", opts.HistoryPath, "error", err)
		} else {
			p.history = store
		}
	}

	if n, err := p.layout.Adopt(); err != nil {
		p.logger.Warn("plugin.adopt_failed", "error", err)
	} else if n > 0 {
		p.logger.Info("plugin.adopted", "windows", n)
	}
	p.logger.Debug("plugin.setup", "commands_dir", opts.CommandsDir, "owner", opts.Owner)
	return p, nil
}

// Settings returns the settings store.
func (p *Plugin) Settings() *settings.Store { return p.settings }

// Registry returns the command registry.
func (p *Plugin) Registry() *commands.Registry { return p.registry }

// Assets returns the asset catalog.
func (p *Plugin) Assets() *assets.Catalog { return p.assets }

// Layout returns the layout manager.
func (p *Plugin) Layout() *layout.Manager { return p.layout }

// History returns the history store, nil when history is disabled.
func (p *Plugin) History() *history.Store { return p.history }

// Options returns the merged options.
func (p *Plugin) Options() Options { return p.opts }

// Open shows every surface. A terminal opened by this call is started
// with the launch command. The post-open hook runs only when the call
// opened at least one surface.
func (p *Plugin) Open() error {
	fresh := !p.layout.IsOpen(layout.Terminal)
	before := len(p.layout.OpenSurfaces())
	err := p.layout.OpenAll()
	if fresh && p.layout.IsOpen(layout.Terminal) {
		if lerr := p.launch(); lerr != nil {
			err = stderrors.Join(err, lerr)
		}
	}
	if err != nil {
		p.notices.Warning(fmt.Sprintf("Some panels could not be opened: %v", err))
	}
	if len(p.layout.OpenSurfaces()) > before {
		_ = p.runHook(hooks.PostOpen, map[string]string{"CCASP_SURFACE": allSurfaces})
	}
	return err
}

// Close hides every surface.
func (p *Plugin) Close() error {
	p.focused = ""
	if err := p.layout.CloseAll(); err != nil {
		return err
	}
	_ = p.runHook(hooks.PostClose, map[string]string{"CCASP_SURFACE": allSurfaces})
	return nil
}

// OpenSurface shows one surface.
func (p *Plugin) OpenSurface(name string) error {
	fresh := !p.layout.IsOpen(name)
	if _, err := p.layout.Open(name); err != nil {
		p.notices.Warning(fmt.Sprintf("Could not open %s: %v", name, err))
		return err
	}
	if !fresh {
		return nil
	}
	if name == layout.Terminal {
		if err := p.launch(); err != nil {
			return err
		}
	}
	_ = p.runHook(hooks.PostOpen, map[string]string{"CCASP_SURFACE": name})
	return nil
}

// CloseSurface hides one surface.
func (p *Plugin) CloseSurface(name string) error {
	if p.focused == name {
		p.focused = ""
	}
	open := p.layout.IsOpen(name)
	if err := p.layout.Close(name); err != nil {
		return err
	}
	if open {
		_ = p.runHook(hooks.PostClose, map[string]string{"CCASP_SURFACE": name})
	}
	return nil
}

// Toggle flips one surface and reports whether it is now open.
func (p *Plugin) Toggle(name string) (bool, error) {
	if p.layout.IsOpen(name) {
		return false, p.CloseSurface(name)
	}
	if err := p.OpenSurface(name); err != nil {
		return false, err
	}
	return true, nil
}

// ToggleSidebar flips the command sidebar.
func (p *Plugin) ToggleSidebar() (bool, error) {
	return p.Toggle(layout.Sidebar)
}

// ToggleFocus moves focus between the terminal and the sidebar, opening
// the target first when needed. It returns the focused surface.
func (p *Plugin) ToggleFocus() (string, error) {
	target := layout.Terminal
	if p.focused == layout.Terminal {
		target = layout.Sidebar
	}
	return target, p.Focus(target)
}

// Focus gives focus to a surface, opening it first when needed.
func (p *Plugin) Focus(name string) error {
	if !p.layout.IsOpen(name) {
		if err := p.OpenSurface(name); err != nil {
			return err
		}
	}
	if err := p.layout.Focus(name); err != nil {
		return err
	}
	p.focused = name
	return nil
}

// Focused returns the surface focused through the facade, or "".
func (p *Plugin) Focused() string { return p.focused }

func (p *Plugin) launch() error {
	line := LaunchCommand(p.opts.TerminalCommand, p.settings.Get().PermissionsMode)
	p.logger.Info("plugin.launch", "line", line)
	if err := p.terminal.Send(line); err != nil {
		return fmt.Errorf("launch terminal: %w", err)
	}
	return nil
}

// Configure stores option values used by the next RunCommand of name.
func (p *Plugin) Configure(name string, values map[string]string) error {
	cmd, err := p.registry.Lookup(name)
	if err != nil {
		return err
	}
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	p.values[cmd.Name] = copied
	return nil
}

// CommandLine returns the line RunCommand would send for name.
func (p *Plugin) CommandLine(name string) (string, error) {
	cmd, err := p.registry.Lookup(name)
	if err != nil {
		return "", err
	}
	return CommandLine(cmd.Name, p.values[cmd.Name]), nil
}

// RunCommand sends a registered command with its configured options to
// the terminal, opening the terminal first when it is closed.
func (p *Plugin) RunCommand(name string) error {
	name = strings.TrimSpace(name)
	if strings.TrimPrefix(name, "/") == "" {
		p.notices.Info(capitalize(ErrNoCommand.Error()))
		return nil
	}
	line, err := p.CommandLine(name)
	if err != nil {
		p.notices.Warning(fmt.Sprintf("Unknown command: %s", name))
		return err
	}
	return p.send(strings.TrimPrefix(name, "/"), line)
}

// RepeatLast re-sends the last command line. With nothing to repeat it
// posts a notice and does nothing.
func (p *Plugin) RepeatLast() error {
	line, err := p.LastCommand()
	if stderrors.Is(err, ErrNoLastCommand) {
		p.notices.Info(capitalize(ErrNoLastCommand.Error()))
		return nil
	}
	if err != nil {
		return err
	}
	name := strings.TrimPrefix(strings.Fields(line)[0], "/")
	return p.send(name, line)
}

// LastCommand returns the last line sent, falling back to the history
// store so repeats work across processes. A blank stored line counts as
// no command.
func (p *Plugin) LastCommand() (string, error) {
	if strings.TrimSpace(p.last) != "" {
		return p.last, nil
	}
	if p.history != nil {
		entry, err := p.history.Last()
		if err == nil && strings.TrimSpace(entry.Line) != "" {
			return entry.Line, nil
		}
		if err == nil {
			return "", ErrNoLastCommand
		}
		if !stderrors.Is(err, history.ErrNotFound) {
			return "", err
		}
	}
	return "", ErrNoLastCommand
}

func (p *Plugin) send(name, line string) error {
	if !p.layout.IsOpen(layout.Terminal) {
		if err := p.OpenSurface(layout.Terminal); err != nil {
			return err
		}
	}
	env := map[string]string{"CCASP_COMMAND": name, "CCASP_COMMAND_LINE": line}
	if err := p.runHook(hooks.PreSend, env); err != nil {
		p.notices.Warning(fmt.Sprintf("Hook blocked %s: %v", line, err))
		return err
	}
	if err := p.terminal.Send(line); err != nil {
		p.notices.Error(fmt.Sprintf("Failed to send %s: %v", line, err))
		return fmt.Errorf("send %s: %w", name, err)
	}
	p.last = line
	if p.history != nil {
		if err := p.history.Record(name, line); err != nil {
			p.logger.Warn("plugin.history_record", "error", err)
		}
	}
	p.logger.Info("plugin.run", "command", name, "line", line)
	_ = p.runHook(hooks.PostSend, env)
	return nil
}

// allSurfaces is the CCASP_SURFACE value for whole-layout hooks.
const allSurfaces = "all"

// runHook runs the scripts of point. Only pre-send acts on the error.
func (p *Plugin) runHook(point string, env map[string]string) error {
	if p.hooks == nil {
		return nil
	}
	err := p.hooks.Run(point, env)
	if err != nil {
		p.logger.Warn("plugin.hook_failed", "point", point, "error", err)
	}
	return err
}

// ReloadCommands rescans the command directory.
func (p *Plugin) ReloadCommands() []commands.Command {
	return p.registry.Reload()
}

// ReloadAssets rescans the agents, hooks and skills directories.
func (p *Plugin) ReloadAssets() []assets.Asset {
	return p.assets.Reload()
}

// Detach releases process resources and leaves windows open for the next
// invocation.
func (p *Plugin) Detach() error {
	if p.hooks != nil {
		p.hooks.Wait()
	}
	if p.history == nil || !p.ownsHistory {
		return nil
	}
	err := p.history.Close()
	p.history = nil
	return err
}

// Shutdown closes every surface and releases process resources.
func (p *Plugin) Shutdown() error {
	return stderrors.Join(p.Close(), p.Detach())
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
