package log

import (
	stdlog "log"
	"os"
	"strings"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error
)

var current Level = Warn

func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return Debug
	case "info":
		return Info
	case "warn", "warning", "":
		return Warn
	case "err", "error":
		return Error
	default:
		return Warn
	}
}

func SetLevel(l Level) { current = l }

// InitFromEnvFallback applies the configured level, letting the environment win.
// Logs go to stderr so they never interleave with JSON output or the TUI.
func InitFromEnvFallback(level string) {
	if env := os.Getenv("TASKDECK_LOG_LEVEL"); env != "" {
		level = env
	}
	stdlog.SetOutput(os.Stderr)
	SetLevel(ParseLevel(level))
}

func Debugf(format string, v ...any) {
	if current <= Debug {
		stdlog.Printf("[DEBUG] "+format, v...)
	}
}

func Infof(format string, v ...any) {
	if current <= Info {
		stdlog.Printf("[INFO] "+format, v...)
	}
}

func Warnf(format string, v ...any) {
	if current <= Warn {
		stdlog.Printf("[WARN] "+format, v...)
	}
}

func Errorf(format string, v ...any) {
	if current <= Error {
		stdlog.Printf("[ERROR] "+format, v...)
	}
}
