package plugin

import (
	"sort"
	"strings"

	"github.com/ccasp/ccasp/internal/settings"
)

// CommandLine serialises a command and its option values: "true" becomes
// a bare --key flag, "false" and empty values are dropped, anything else
// becomes --key=value. Keys are emitted in sorted order.
func CommandLine(name string, values map[string]string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := []string{"/" + strings.TrimPrefix(name, "/")}
	for _, k := range keys {
		switch v := values[k]; v {
		case "", "false":
		case "true":
			parts = append(parts, "--"+k)
		default:
			parts = append(parts, "--"+k+"="+v)
		}
	}
	return strings.Join(parts, " ")
}

// LaunchCommand is the line that starts the assistant in a fresh terminal.
func LaunchCommand(terminalCommand, permissionsMode string) string {
	switch permissionsMode {
	case settings.PermissionsAuto:
		return terminalCommand + " --permission-mode acceptEdits"
	case settings.PermissionsPlan:
		return terminalCommand + " --permission-mode plan"
	default:
		return terminalCommand
	}
}
