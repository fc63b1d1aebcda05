package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ccasp/ccasp/internal/assets"
	"github.com/ccasp/ccasp/internal/colors"
	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/config"
	"github.com/ccasp/ccasp/internal/hooks"
	"github.com/ccasp/ccasp/internal/host"
	"github.com/ccasp/ccasp/internal/layout"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/ccasp/ccasp/internal/picker"
	"github.com/ccasp/ccasp/internal/plugin"
	"github.com/ccasp/ccasp/internal/tmux"
	"github.com/ccasp/ccasp/internal/version"
)

// Host backends selectable with the host config key.
const (
	hostAuto   = "auto"
	hostTmux   = "tmux"
	hostMemory = "memory"
)

const (
	fallbackColumns = 160
	fallbackLines   = 48
)

var errHistoryDisabled = errors.New("history is disabled")

// backend is a host plus the terminal that types into it.
type backend struct {
	host     host.Host
	terminal plugin.Terminal
	columns  int
	lines    int
	// attach runs once the facade exists.
	attach func(p *plugin.Plugin)
}

// printTerminal stands in for a real terminal by echoing command lines.
type printTerminal struct {
	out io.Writer
}

func (t printTerminal) Send(text string) error {
	_, err := fmt.Fprintf(t.out, "> %s\n", text)
	return err
}

func selectBackend(kind string, out io.Writer) (backend, error) {
	switch kind {
	case hostMemory:
		return memoryBackend(out), nil
	case hostTmux:
		return tmuxBackend()
	default:
		if os.Getenv("TMUX") == "" {
			return memoryBackend(out), nil
		}
		b, err := tmuxBackend()
		if tmux.IsNotRunning(err) {
			colors.Debug("tmux not reachable, using the in-memory host")
			return memoryBackend(out), nil
		}
		return b, err
	}
}

func memoryBackend(out io.Writer) backend {
	return backend{
		host:     host.NewMemoryHost(fallbackColumns, fallbackLines),
		terminal: printTerminal{out: out},
		columns:  fallbackColumns,
		lines:    fallbackLines,
		attach:   func(*plugin.Plugin) {},
	}
}

func tmuxBackend() (backend, error) {
	var opts []tmux.ClientOption
	if socket := config.Get("tmux_socket", ""); socket != "" {
		opts = append(opts, tmux.WithSocketPath(socket))
	}
	client := tmux.NewDefaultClient(opts...)
	if running, err := client.HasSession(); err != nil || !running {
		return backend{}, tmux.ErrTmuxNotRunning
	}
	anchor, err := client.CurrentPane()
	if err != nil {
		return backend{}, fmt.Errorf("find current pane: %w", err)
	}

	h := tmux.NewHost(client, anchor)
	columns, lines, err := h.Size()
	if err != nil {
		colors.Debug(fmt.Sprintf("window size unavailable: %v", err))
		columns, lines = fallbackColumns, fallbackLines
	}
	term := tmux.NewTerminal(client)
	return backend{
		host:     h,
		terminal: term,
		columns:  columns,
		lines:    lines,
		attach: func(p *plugin.Plugin) {
			term.SetTarget(func() (string, bool) {
				handle, ok := p.Layout().Handle(layout.Terminal)
				return string(handle), ok
			})
		},
	}, nil
}

// appClient builds the facade on first use and serves every subcommand.
type appClient struct {
	out    io.Writer
	runner picker.Runner
	// selectBackend is replaced in tests.
	selectBackend func(kind string, out io.Writer) (backend, error)

	plugin *plugin.Plugin
	err    error
	built  bool
}

func newAppClient() *appClient {
	return &appClient{
		out:           os.Stdout,
		runner:        picker.ProgramRunner{},
		selectBackend: selectBackend,
	}
}

func (a *appClient) facade() (*plugin.Plugin, error) {
	if a.built {
		return a.plugin, a.err
	}
	a.built = true

	b, err := a.selectBackend(config.Get("host", hostAuto), a.out)
	if err != nil {
		a.err = err
		return nil, err
	}
	opts := plugin.OptionsFromConfig()
	opts.Columns, opts.Lines = b.columns, b.lines

	p, err := plugin.Setup(opts, b.host, b.terminal, plugin.WithHooks(hooks.FromConfig()))
	if err != nil {
		a.err = err
		return nil, err
	}
	b.attach(p)
	a.plugin = p
	return p, nil
}

// Release detaches the facade, leaving windows open for the next run.
func (a *appClient) Release() error {
	if a.plugin == nil {
		return nil
	}
	err := a.plugin.Detach()
	a.plugin, a.built, a.err = nil, false, nil
	return err
}

func (a *appClient) Open() error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.Open()
}

func (a *appClient) Close() error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.Close()
}

func (a *appClient) OpenSurface(name string) error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.OpenSurface(name)
}

func (a *appClient) CloseSurface(name string) error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.CloseSurface(name)
}

func (a *appClient) Toggle(name string) (bool, error) {
	p, err := a.facade()
	if err != nil {
		return false, err
	}
	return p.Toggle(name)
}

func (a *appClient) Focus(name string) (string, error) {
	p, err := a.facade()
	if err != nil {
		return "", err
	}
	if name == "" {
		return p.ToggleFocus()
	}
	return name, p.Focus(name)
}

func (a *appClient) Command(name string) (commands.Command, error) {
	p, err := a.facade()
	if err != nil {
		return commands.Command{}, err
	}
	return p.Registry().Lookup(name)
}

func (a *appClient) Pick(title string, opts []parser.Option) (map[string]string, bool, error) {
	sel, ok, err := picker.Pick(a.runner, title, opts)
	if err != nil || !ok {
		return nil, ok, err
	}
	return sel.Values(), true, nil
}

func (a *appClient) Configure(name string, values map[string]string) error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.Configure(name, values)
}

func (a *appClient) RunCommand(name string) error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.RunCommand(name)
}

func (a *appClient) RepeatLast() error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.RepeatLast()
}

func (a *appClient) Commands() ([]commands.Command, error) {
	p, err := a.facade()
	if err != nil {
		return nil, err
	}
	return p.Registry().All(), nil
}

func (a *appClient) Sections() ([]commands.Section, error) {
	p, err := a.facade()
	if err != nil {
		return nil, err
	}
	return p.Registry().Sections(), nil
}

func (a *appClient) Assets() ([]assets.Asset, error) {
	p, err := a.facade()
	if err != nil {
		return nil, err
	}
	return p.Assets().All(), nil
}

func (a *appClient) SettingsDocument() (map[string]any, error) {
	p, err := a.facade()
	if err != nil {
		return nil, err
	}
	return p.Settings().Document(), nil
}

func (a *appClient) GetSetting(key string) (any, bool, error) {
	p, err := a.facade()
	if err != nil {
		return nil, false, err
	}
	v, ok := p.Settings().GetValue(key)
	return v, ok, nil
}

func (a *appClient) SetSetting(key string, value any) error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.Settings().Set(key, value)
}

func (a *appClient) ResetSettings() error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	return p.Settings().Reset()
}

func (a *appClient) Snapshot() (string, error) {
	p, err := a.facade()
	if err != nil {
		return "", err
	}
	return p.Layout().Snapshot(), nil
}

func (a *appClient) SaveSnapshot(name, body string) error {
	p, err := a.facade()
	if err != nil {
		return err
	}
	if p.History() == nil {
		return errHistoryDisabled
	}
	return p.History().SaveSnapshot(name, body)
}

func (a *appClient) LoadSnapshot(name string) (string, error) {
	p, err := a.facade()
	if err != nil {
		return "", err
	}
	if p.History() == nil {
		return "", errHistoryDisabled
	}
	return p.History().Snapshot(name)
}

func (a *appClient) ProjectDir() string {
	return config.Get("project_dir", ".")
}

func (a *appClient) WatchPatterns() ([]string, error) {
	p, err := a.facade()
	if err != nil {
		return nil, err
	}
	return p.WatchPatterns(), nil
}

func (a *appClient) HandleFileSaved(path string) (bool, error) {
	p, err := a.facade()
	if err != nil {
		return false, err
	}
	return p.HandleFileSaved(path), nil
}

func (a *appClient) Version() string {
	return version.String()
}
