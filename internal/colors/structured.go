package colors

import "sort"

// StructuredLogLevel represents log level for structured records.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// StructuredLog forwards a component/action/status record to the structured
// logger. Nothing is printed to the console; records without a logger are dropped.
func StructuredLog(level StructuredLogLevel, component, action, status string, err error, fields map[string]any) {
	l := currentLogger()
	if l == nil {
		return
	}

	args := make([]any, 0, 8+len(fields)*2)
	args = append(args, "component", component, "action", action, "status", status)
	if err != nil {
		args = append(args, "error", err.Error())
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, k, fields[k])
	}

	msg := component + "." + action
	switch level {
	case LevelDebug:
		l.Debug(msg, args...)
	case LevelWarn:
		l.Warn(msg, args...)
	case LevelError:
		l.Error(msg, args...)
	default:
		l.Info(msg, args...)
	}
}

// StructuredDebug logs a structured debug record.
func StructuredDebug(component, action, status string, err error, fields map[string]any) {
	StructuredLog(LevelDebug, component, action, status, err, fields)
}

// StructuredInfo logs a structured info record.
func StructuredInfo(component, action, status string, err error, fields map[string]any) {
	StructuredLog(LevelInfo, component, action, status, err, fields)
}

// StructuredWarn logs a structured warning record.
func StructuredWarn(component, action, status string, err error, fields map[string]any) {
	StructuredLog(LevelWarn, component, action, status, err, fields)
}

// StructuredError logs a structured error record.
func StructuredError(component, action, status string, err error, fields map[string]any) {
	StructuredLog(LevelError, component, action, status, err, fields)
}
