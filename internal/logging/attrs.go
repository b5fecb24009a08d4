package logging

import (
	"log/slog"
	"time"
)

type Attr = slog.Attr

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

// Error keeps a nil error visible in the record rather than dropping the key.
func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

func NewNop() *slog.Logger {
	return slog.New(noopHandler{})
}

// NewComponentLogger tags logger with the component attribute. A nil logger
// yields a no-op logger.
func NewComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	return logger.With(String(FieldComponent, component))
}

// WarnWithContext logs a warning that always carries event_type, error_hint
// and impact. Caller-supplied values win over the defaults.
func WarnWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Warn(msg, withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, "rerun with --log-level debug for row detail"),
		String(FieldImpact, "catalog may be incomplete"),
	)...)
}

// ErrorWithContext is WarnWithContext at error level.
func ErrorWithContext(logger *slog.Logger, msg, eventType string, attrs ...Attr) {
	if logger == nil {
		return
	}
	logger.Error(msg, withDefaults(attrs,
		String(FieldEventType, eventType),
		String(FieldErrorHint, "check the error attribute and the vidcat config"),
		String(FieldImpact, "operation aborted"),
	)...)
}

// withDefaults appends each default whose key attrs lacks and returns the
// result in the variadic form slog.Logger methods take.
func withDefaults(attrs []Attr, defaults ...Attr) []any {
	present := make(map[string]struct{}, len(attrs))
	out := make([]any, 0, len(attrs)+len(defaults))
	for _, a := range attrs {
		present[a.Key] = struct{}{}
		out = append(out, a)
	}
	for _, d := range defaults {
		if _, ok := present[d.Key]; !ok {
			out = append(out, d)
		}
	}
	return out
}
