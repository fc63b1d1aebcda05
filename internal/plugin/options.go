package plugin

import (
	"github.com/ccasp/ccasp/internal/config"
	"github.com/ccasp/ccasp/internal/layout"
)

const (
	defaultColumns         = 160
	defaultLines           = 48
	defaultTerminalCommand = "claude"
)

// Options configures a Plugin. Zero fields take their defaults in Setup.
type Options struct {
	CommandsDir       string
	AgentsDir         string
	HooksDir          string
	SkillsDir         string
	SettingsPath      string
	HistoryPath       string
	HistoryEnabled    bool
	InternalPrefix    string
	DescriptionLength int
	TerminalCommand   string
	Owner             string
	Columns           int
	Lines             int
	// Surfaces overrides the default layout computed from Columns x Lines.
	Surfaces []layout.Surface
	// Keymap entries replace the default binding for the same key.
	Keymap map[string]Action
}

// DefaultOptions returns the built-in options with directories relative to
// the working directory.
func DefaultOptions() Options {
	return Options{
		CommandsDir:       ".claude/commands",
		AgentsDir:         ".claude/agents",
		HooksDir:          ".claude/hooks",
		SkillsDir:         ".claude/skills",
		SettingsPath:      ".claude/ccasp/settings.json",
		InternalPrefix:    "__",
		DescriptionLength: 100,
		TerminalCommand:   defaultTerminalCommand,
		Owner:             layout.DefaultOwner,
		Columns:           defaultColumns,
		Lines:             defaultLines,
	}
}

// OptionsFromConfig maps the global configuration onto Options.
func OptionsFromConfig() Options {
	d := DefaultOptions()
	return Options{
		CommandsDir:       config.Get("commands_dir", d.CommandsDir),
		AgentsDir:         config.Get("agents_dir", d.AgentsDir),
		HooksDir:          config.Get("hooks_dir", d.HooksDir),
		SkillsDir:         config.Get("skills_dir", d.SkillsDir),
		SettingsPath:      config.Get("settings_path", d.SettingsPath),
		HistoryPath:       config.Get("history_path", ""),
		HistoryEnabled:    config.GetBool("history_enabled", true),
		InternalPrefix:    config.Get("internal_prefix", d.InternalPrefix),
		DescriptionLength: config.GetInt("description_max_length", d.DescriptionLength),
		TerminalCommand:   config.Get("terminal_command", d.TerminalCommand),
	}
}

// merge fills the zero fields of o from the defaults.
func (o Options) merge() Options {
	d := DefaultOptions()
	pick := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}
	o.CommandsDir = pick(o.CommandsDir, d.CommandsDir)
	o.AgentsDir = pick(o.AgentsDir, d.AgentsDir)
	o.HooksDir = pick(o.HooksDir, d.HooksDir)
	o.SkillsDir = pick(o.SkillsDir, d.SkillsDir)
	o.SettingsPath = pick(o.SettingsPath, d.SettingsPath)
	o.InternalPrefix = pick(o.InternalPrefix, d.InternalPrefix)
	o.TerminalCommand = pick(o.TerminalCommand, d.TerminalCommand)
	o.Owner = pick(o.Owner, d.Owner)
	if o.DescriptionLength <= 0 {
		o.DescriptionLength = d.DescriptionLength
	}
	if o.Columns <= 0 {
		o.Columns = d.Columns
	}
	if o.Lines <= 0 {
		o.Lines = d.Lines
	}
	if len(o.Surfaces) == 0 {
		o.Surfaces = layout.DefaultSurfaces(o.Columns, o.Lines)
	}
	return o
}
