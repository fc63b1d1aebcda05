// Package settings persists ccasp user preferences as a JSON document.
package settings

import (
	"encoding/json"
	"os"
)

// File permission constants
const (
	FileModeDir  os.FileMode = 0755
	FileModeFile os.FileMode = 0644
)

// Top-level keys of the settings document.
const (
	KeyPermissionsMode     = "permissions_mode"
	KeyUpdateMode          = "update_mode"
	KeyUpdateCheckDefaults = "update_check_defaults"
)

// Permission modes.
const (
	PermissionsAuto = "auto"
	PermissionsPlan = "plan"
	PermissionsAsk  = "ask"
)

// Update modes.
const (
	UpdateAuto   = "auto"
	UpdateManual = "manual"
	UpdatePrompt = "prompt"
)

// UpdateCheck holds the sync flags applied when checking for updates.
type UpdateCheck struct {
	CheckOnStartup bool `json:"check_on_startup"`
	SyncCommands   bool `json:"sync_commands"`
	SyncAgents     bool `json:"sync_agents"`
	SyncHooks      bool `json:"sync_hooks"`
	SyncSkills     bool `json:"sync_skills"`
}

// Settings is the typed view of the known keys.
//
// On disk:
//
//	{
//	  "permissions_mode": "auto",
//	  "update_mode": "prompt",
//	  "update_check_defaults": {
//	    "check_on_startup": true,
//	    "sync_commands": true,
//	    "sync_agents": true,
//	    "sync_hooks": true,
//	    "sync_skills": true
//	  }
//	}
type Settings struct {
	PermissionsMode     string      `json:"permissions_mode"`
	UpdateMode          string      `json:"update_mode"`
	UpdateCheckDefaults UpdateCheck `json:"update_check_defaults"`
}

// DefaultSettings returns settings with all default values.
func DefaultSettings() *Settings {
	return &Settings{
		PermissionsMode: PermissionsAuto,
		UpdateMode:      UpdatePrompt,
		UpdateCheckDefaults: UpdateCheck{
			CheckOnStartup: true,
			SyncCommands:   true,
			SyncAgents:     true,
			SyncHooks:      true,
			SyncSkills:     true,
		},
	}
}

// defaultDocument is DefaultSettings as a generic JSON object.
func defaultDocument() map[string]any {
	doc, _ := toDocument(DefaultSettings())
	return doc
}

func toDocument(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// fromDocument decodes the known keys of doc. Unknown keys are ignored.
func fromDocument(doc map[string]any) *Settings {
	s := DefaultSettings()
	data, err := json.Marshal(doc)
	if err != nil {
		return s
	}
	_ = json.Unmarshal(data, s)
	return s
}

// ParseValue interprets a command-line value: JSON literals (true, 3,
// {"a":1}) decode to their JSON type, anything else stays a string.
func ParseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
