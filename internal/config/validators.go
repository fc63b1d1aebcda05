package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Validator normalizes a configuration value. An error makes Load warn
// and fall back to defaultValue.
type Validator func(key, value, defaultValue string) (normalized string, err error)

// validatorRegistry manages the set of registered validators.
type validatorRegistry struct {
	mu         sync.RWMutex
	validators map[string]Validator
}

var registry = &validatorRegistry{
	validators: make(map[string]Validator),
}

// RegisterValidator registers a validator for a configuration key.
// Panics if a validator is already registered for the key.
func RegisterValidator(key string, validator Validator) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	if _, exists := registry.validators[key]; exists {
		panic(fmt.Sprintf("validator already registered for key: %s", key))
	}
	registry.validators[key] = validator
}

func getValidator(key string) Validator {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return registry.validators[key]
}

// PositiveIntValidator accepts integers above zero.
func PositiveIntValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err != nil || n <= 0 {
			return "", fmt.Errorf("%q is not a positive integer", value)
		}
		return strings.TrimSpace(value), nil
	}
}

// EnumValidator accepts one of allowed, ignoring case, and returns it
// lowered.
func EnumValidator(allowed map[string]bool) Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		lowered := strings.ToLower(value)
		if !allowed[lowered] {
			return "", fmt.Errorf("%q is not one of %s", value, allowedValues(allowed))
		}
		return lowered, nil
	}
}

// BoolValidator accepts 1/0, true/false, yes/no and on/off and returns
// "true" or "false".
func BoolValidator() Validator {
	return func(key, value, defaultValue string) (string, error) {
		if value == "" {
			return defaultValue, nil
		}
		switch normalized := normalizeBool(value); normalized {
		case "true", "false":
			return normalized, nil
		default:
			return "", fmt.Errorf("%q is not a boolean", value)
		}
	}
}

func initValidators() {
	positiveInt := PositiveIntValidator()
	RegisterValidator("description_max_length", positiveInt)
	RegisterValidator("logging_max_files", positiveInt)
	RegisterValidator("hooks_async_timeout", positiveInt)
	RegisterValidator("hooks_max_async", positiveInt)

	RegisterValidator("host", EnumValidator(map[string]bool{"auto": true, "tmux": true, "memory": true}))
	RegisterValidator("logging_level", EnumValidator(map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}))

	RegisterValidator("hooks_failure_mode", EnumValidator(map[string]bool{"abort": true, "warn": true, "ignore": true}))

	boolValidator := BoolValidator()
	RegisterValidator("history_enabled", boolValidator)
	RegisterValidator("hooks_async", boolValidator)
	RegisterValidator("logging_enabled", boolValidator)
	RegisterValidator("debug", boolValidator)
	RegisterValidator("quiet", boolValidator)
}

// normalizeBool converts various boolean representations to "true"/"false".
func normalizeBool(val string) string {
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return "true"
	case "0", "false", "no", "off":
		return "false"
	default:
		return val
	}
}

// allowedValues returns a sorted, comma-separated list of allowed values.
func allowedValues(allowed map[string]bool) string {
	values := make([]string, 0, len(allowed))
	for k := range allowed {
		values = append(values, k)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
