package settings

import (
	"fmt"
	"sort"
	"strings"
)

var enumKeys = map[string]map[string]bool{
	KeyPermissionsMode: {PermissionsAuto: true, PermissionsPlan: true, PermissionsAsk: true},
	KeyUpdateMode:      {UpdateAuto: true, UpdateManual: true, UpdatePrompt: true},
}

var updateCheckFlags = map[string]bool{
	"check_on_startup": true,
	"sync_commands":    true,
	"sync_agents":      true,
	"sync_hooks":       true,
	"sync_skills":      true,
}

// ValidateValue reports whether value is acceptable for key. Only the
// enum keys and the known update_check_defaults flags are checked; unknown
// keys are accepted as-is. Enum keys hold strings, so no dotted key may
// reach below them.
func ValidateValue(key string, value any) error {
	if head, _, nested := strings.Cut(key, "."); nested {
		if _, ok := enumKeys[head]; ok {
			return fmt.Errorf("invalid key %s: %s is not an object", key, head)
		}
	}
	if allowed, ok := enumKeys[key]; ok {
		s, isString := value.(string)
		if !isString || !allowed[s] {
			return fmt.Errorf("invalid %s value %v: must be one of: %s", key, value, joinAllowed(allowed))
		}
		return nil
	}

	if rest, ok := strings.CutPrefix(key, KeyUpdateCheckDefaults+"."); ok && updateCheckFlags[rest] {
		if _, isBool := value.(bool); !isBool {
			return fmt.Errorf("invalid %s.%s value %v: must be a boolean", KeyUpdateCheckDefaults, rest, value)
		}
		return nil
	}

	if key == KeyUpdateCheckDefaults {
		nested, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("invalid %s value: must be an object", key)
		}
		for k, v := range nested {
			if err := ValidateValue(key+"."+k, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// validatePartial checks every leaf of a partial document.
func validatePartial(partial map[string]any) error {
	keys := make([]string, 0, len(partial))
	for k := range partial {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := ValidateValue(k, partial[k]); err != nil {
			return err
		}
	}
	return nil
}

func joinAllowed(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for v := range allowed {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
