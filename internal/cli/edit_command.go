package cli

import (
	"context"

	"activity-tracker/internal/errors"
)

// EditCommand handles the edit command
type EditCommand struct {
	app   *App
	Task  string
	Start string
	End   string
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app}
}

// Execute changes the activity identified by its end time. Fields without a
// flag keep their current value.
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "edit", "usage: trk edit END [--task T] [--start TIME] [--end TIME]")
	}

	oldEnd, err := c.app.parseTime(args[0], timeNow())
	if err != nil {
		return c.app.errorHandler.Handle("parse activity end time", err)
	}

	existing, err := c.app.api.GetActivity(ctx, oldEnd)
	if err != nil {
		return c.app.errorHandler.Handle("find activity", err)
	}

	task := existing.Task
	if c.Task != "" {
		task = c.Task
	}
	start, err := c.app.parseTime(c.Start, existing.StartTime)
	if err != nil {
		return c.app.errorHandler.Handle("parse start time", err)
	}
	end, err := c.app.parseTime(c.End, existing.EndTime)
	if err != nil {
		return c.app.errorHandler.Handle("parse end time", err)
	}

	activity, err := c.app.api.EditActivity(ctx, oldEnd, task, start, end)
	if err != nil {
		return c.app.errorHandler.Handle("edit activity", err)
	}

	c.app.printf("%s %s %s\n", c.app.styles.Success.Render("Updated"), activity.Task,
		c.app.styles.Muted.Render("("+formatTime(activity.StartTime)+" - "+formatTime(activity.EndTime)+")"))
	return nil
}
