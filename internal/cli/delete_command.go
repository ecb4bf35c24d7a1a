package cli

import (
	"context"

	"activity-tracker/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app    *App
	Bridge bool
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the activity identified by its end time.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.NewInvalidInputError("command", "delete", "usage: trk delete END [--bridge]")
	}

	end, err := c.app.parseTime(args[0], timeNow())
	if err != nil {
		return c.app.errorHandler.Handle("parse activity end time", err)
	}

	result, err := c.app.api.DeleteActivity(ctx, end, c.Bridge)
	if err != nil {
		if c.app.errorHandler.IsNotFoundError(err) {
			c.app.printf("No activity ends at %s\n", formatTime(end))
			return nil
		}
		return c.app.errorHandler.Handle("delete activity", err)
	}

	if !result.Deleted {
		c.app.println("Nothing deleted")
		return nil
	}
	c.app.printf("Deleted activity ending %s\n", formatTime(end))
	if result.Adjusted != nil {
		c.app.printf("%s %s now starts %s\n", c.app.styles.Muted.Render("Bridged:"),
			result.Adjusted.Task, formatTime(result.Adjusted.StartTime))
	}
	return nil
}
