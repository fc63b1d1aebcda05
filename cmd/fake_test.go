package cmd

import (
	"bytes"
	"errors"

	"github.com/ccasp/ccasp/internal/assets"
	"github.com/ccasp/ccasp/internal/commands"
	"github.com/ccasp/ccasp/internal/parser"
	"github.com/spf13/cobra"
)

var errFake = errors.New("boom")

// fakeClient records calls and serves canned data to every command.
type fakeClient struct {
	calls []string
	err   error

	cmds     []commands.Command
	sections []commands.Section
	assets   []assets.Asset

	picked    map[string]string
	pickOK    bool
	pickTitle string
	config    map[string]string

	doc      map[string]any
	setKey   string
	setValue any

	snapshot  string
	snapshots map[string]string

	toggled bool
	focused string
	handled bool
}

func (f *fakeClient) record(call string) error {
	f.calls = append(f.calls, call)
	return f.err
}

func (f *fakeClient) Open() error                    { return f.record("open") }
func (f *fakeClient) Close() error                   { return f.record("close") }
func (f *fakeClient) OpenSurface(name string) error  { return f.record("open " + name) }
func (f *fakeClient) CloseSurface(name string) error { return f.record("close " + name) }

func (f *fakeClient) Toggle(name string) (bool, error) {
	return f.toggled, f.record("toggle " + name)
}

func (f *fakeClient) Focus(name string) (string, error) {
	if name == "" {
		name = f.focused
	}
	return name, f.record("focus " + name)
}

func (f *fakeClient) Command(name string) (commands.Command, error) {
	for _, c := range f.cmds {
		if c.Name == name {
			return c, nil
		}
	}
	return commands.Command{}, commands.ErrNotFound
}

func (f *fakeClient) Pick(title string, opts []parser.Option) (map[string]string, bool, error) {
	f.pickTitle = title
	if f.picked == nil {
		return nil, f.pickOK, f.err
	}
	copied := make(map[string]string, len(f.picked))
	for k, v := range f.picked {
		copied[k] = v
	}
	return copied, f.pickOK, f.err
}

func (f *fakeClient) Configure(name string, values map[string]string) error {
	f.config = values
	return f.record("configure " + name)
}

func (f *fakeClient) RunCommand(name string) error { return f.record("run " + name) }
func (f *fakeClient) RepeatLast() error            { return f.record("repeat") }

func (f *fakeClient) Commands() ([]commands.Command, error) { return f.cmds, f.err }
func (f *fakeClient) Sections() ([]commands.Section, error) { return f.sections, f.err }
func (f *fakeClient) Assets() ([]assets.Asset, error)       { return f.assets, f.err }

func (f *fakeClient) SettingsDocument() (map[string]any, error) { return f.doc, f.err }

func (f *fakeClient) GetSetting(key string) (any, bool, error) {
	v, ok := f.doc[key]
	return v, ok, f.err
}

func (f *fakeClient) SetSetting(key string, value any) error {
	f.setKey, f.setValue = key, value
	return f.record("set " + key)
}

func (f *fakeClient) ResetSettings() error { return f.record("reset") }

func (f *fakeClient) Snapshot() (string, error) { return f.snapshot, f.err }

func (f *fakeClient) SaveSnapshot(name, body string) error {
	if f.snapshots == nil {
		f.snapshots = make(map[string]string)
	}
	f.snapshots[name] = body
	return f.record("save " + name)
}

func (f *fakeClient) LoadSnapshot(name string) (string, error) {
	body, ok := f.snapshots[name]
	if !ok {
		return "", errors.New("not found")
	}
	return body, nil
}

func (f *fakeClient) ProjectDir() string               { return "." }
func (f *fakeClient) WatchPatterns() ([]string, error) { return []string{"**/*.md"}, f.err }
func (f *fakeClient) HandleFileSaved(path string) (bool, error) {
	return f.handled, f.record("saved " + path)
}

func (f *fakeClient) Version() string { return "1.2.3" }

// execute runs c with args and returns what it printed.
func execute(c *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	c.SetOut(&out)
	c.SetErr(&out)
	c.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}
