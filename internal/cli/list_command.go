package cli

import (
	"context"
	"fmt"

	"activity-tracker/internal/format"
)

// ListCommand handles the list command
type ListCommand struct {
	app  *App
	HTML bool
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Execute prints activities ordered by end time. An optional first
// argument limits the list to a recent range such as "2h" or "1w".
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	since := ""
	if len(args) > 0 {
		since = args[0]
	}

	activities, err := c.app.api.ListActivities(ctx, since)
	if err != nil {
		return c.app.errorHandler.Handle("list activities", err)
	}

	if len(activities) == 0 {
		c.app.println("No activities found")
		return nil
	}

	if c.HTML {
		c.app.println("<ul>")
		for _, activity := range activities {
			c.app.printf("  <li><time>%s</time> %s <span>%s</span></li>\n",
				format.EscapeHTML(formatTime(activity.EndTime)),
				c.app.api.RenderTask(activity.Task),
				format.FormatDuration(activity.Duration().Milliseconds()))
		}
		c.app.println("</ul>")
		return nil
	}

	rows := make([][]string, 0, len(activities))
	for _, activity := range activities {
		rows = append(rows, []string{
			formatTime(activity.EndTime),
			formatTime(activity.StartTime),
			format.FormatDuration(activity.Duration().Milliseconds()),
			activity.Task,
		})
	}
	c.app.println(c.app.styles.table([]string{"END", "START", "DURATION", "TASK"}, rows))
	c.app.println(c.app.styles.Muted.Render(fmt.Sprintf("%d activities", len(activities))))
	return nil
}
