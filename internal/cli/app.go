package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"activity-tracker/internal/api"
	"activity-tracker/internal/config"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// displayTimeFormat is how times are shown and how users type them back.
const displayTimeFormat = "2006-01-02 15:04:05"

// App carries what every command handler needs.
type App struct {
	api          api.API
	config       *config.Config
	out          io.Writer
	errorHandler *ErrorHandler
	styles       Styles
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(apiInstance api.API, cfg *config.Config, out io.Writer) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if out == nil {
		out = os.Stdout
	}
	return &App{
		api:          apiInstance,
		config:       cfg,
		out:          out,
		errorHandler: NewErrorHandler(),
		styles:       DefaultStyles(),
	}
}

func (a *App) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...interface{}) {
	fmt.Fprintln(a.out, args...)
}

// parseTime resolves user input, or returns fallback when input is empty.
// CLI times have whole-second precision so they can be typed back exactly.
func (a *App) parseTime(input string, fallback time.Time) (time.Time, error) {
	if input == "" {
		return fallback.Truncate(time.Second), nil
	}
	t, err := a.api.ParseTime(input)
	if err != nil {
		return time.Time{}, err
	}
	return t.Truncate(time.Second), nil
}

// Command is a handler bound to one cobra command.
type Command interface {
	Execute(ctx context.Context, args []string) error
}

func formatTime(t time.Time) string {
	return t.Local().Format(displayTimeFormat)
}
