package logger

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]any

var sensitiveKeys = map[string]struct{}{
	"password":      {},
	"passwordhash":  {},
	"password_hash": {},
	"authorization": {},
	"pin":           {},
}

var base = newBase(os.Stdout)

func newBase(out io.Writer) *logrus.Logger {
	return &logrus.Logger{
		Out:       out,
		Formatter: &logrus.JSONFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
	}
}

// SetLevel accepts logrus level names: error, warn, info, debug.
func SetLevel(level string) error {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return err
	}
	base.SetLevel(parsed)
	return nil
}

func SetOutput(out io.Writer) {
	base.SetOutput(out)
}

func Debug(message string, fields Fields) {
	entry(fields).Debug(message)
}

func Info(message string, fields Fields) {
	entry(fields).Info(message)
}

func Warn(message string, fields Fields) {
	entry(fields).Warn(message)
}

func Error(message string, err error, fields Fields) {
	e := entry(fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(message)
}

func entry(fields Fields) *logrus.Entry {
	sanitized, ok := SanitizePayload(fields).(map[string]any)
	if !ok {
		return logrus.NewEntry(base)
	}
	return base.WithFields(logrus.Fields(sanitized))
}

func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}

	return sanitizeValue(data)
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
