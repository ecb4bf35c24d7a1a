package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
)

// DebugEnabled returns true if debug mode is enabled via TRK_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("TRK_DEBUG") != ""
}

// SetOutput redirects all log output. Tests use it to capture records.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Logger returns a text logger writing to the current output. The level is
// debug when TRK_DEBUG is set and warn otherwise.
func Logger() *slog.Logger {
	mu.Lock()
	w := output
	mu.Unlock()

	level := slog.LevelWarn
	if DebugEnabled() {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Debugf logs a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		Logger().Debug(strings.TrimRight(fmt.Sprintf(format, args...), "\n"))
	}
}

// Debugln logs a debug message only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		Logger().Debug(strings.TrimRight(fmt.Sprintln(args...), "\n"))
	}
}
