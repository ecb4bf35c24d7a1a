package cli

import (
	"context"
	"strings"

	"activity-tracker/internal/errors"
	"activity-tracker/internal/format"
)

// LogCommand handles the log command
type LogCommand struct {
	app   *App
	Start string
	End   string
}

// NewLogCommand creates a new log command handler
func NewLogCommand(app *App) *LogCommand {
	return &LogCommand{app: app}
}

// Execute records a finished activity. Without --start the activity begins
// where the previous one ended, or now when the history is empty. Without
// --end it ends now.
func (c *LogCommand) Execute(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "log", "usage: trk log \"task\" [--start TIME] [--end TIME]")
	}
	task := strings.Join(args, " ")

	now := timeNow()
	end, err := c.app.parseTime(c.End, now)
	if err != nil {
		return c.app.errorHandler.Handle("parse end time", err)
	}

	defaultStart := end
	if c.Start == "" {
		last, err := c.app.api.LastActivity(ctx)
		if err != nil {
			return c.app.errorHandler.Handle("read last activity", err)
		}
		if last != nil && !last.EndTime.After(end) {
			defaultStart = last.EndTime
		}
	}
	start, err := c.app.parseTime(c.Start, defaultStart)
	if err != nil {
		return c.app.errorHandler.Handle("parse start time", err)
	}

	activity, err := c.app.api.LogActivity(ctx, task, start, end)
	if err != nil {
		if c.app.errorHandler.IsConflictError(err) {
			return c.app.errorHandler.Handle("log activity", errors.WrapError(err, errors.ErrorTypeConflict,
				"an activity already ends at "+formatTime(end)+"; use trk edit to change it"))
		}
		return c.app.errorHandler.Handle("log activity", err)
	}

	c.app.printf("%s %s %s\n",
		c.app.styles.Success.Render("Logged"),
		activity.Task,
		c.app.styles.Muted.Render("("+format.FormatDuration(activity.Duration().Milliseconds())+", "+
			formatTime(activity.StartTime)+" - "+formatTime(activity.EndTime)+")"))
	return nil
}
