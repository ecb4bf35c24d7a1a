package cli

import (
	"context"

	"activity-tracker/internal/errors"
	"activity-tracker/internal/settings"
)

// SettingsCommand handles the settings subcommands.
type SettingsCommand struct {
	app    *App
	Action string
}

// NewSettingsCommand creates a settings command handler for action.
func NewSettingsCommand(app *App, action string) *SettingsCommand {
	return &SettingsCommand{app: app, Action: action}
}

// Execute runs the selected action.
func (c *SettingsCommand) Execute(ctx context.Context, args []string) error {
	switch c.Action {
	case "show":
		current := c.app.api.Settings()
		template := current.TicketURLTemplate
		if template == "" {
			template = c.app.styles.Muted.Render("(not set)")
		}
		c.app.printf("ticket-url: %s\n", template)
		return nil
	case "set-ticket-url":
		if len(args) > 1 {
			return errors.NewInvalidInputError("command", "settings set-ticket-url", "usage: trk settings set-ticket-url [URL containing {id}]")
		}
		template := ""
		if len(args) == 1 {
			template = args[0]
		}
		current := c.app.api.Settings()
		current.TicketURLTemplate = template
		if err := c.app.api.SaveSettings(current); err != nil {
			return c.app.errorHandler.Handle("save settings", err)
		}
		saved := c.app.api.Settings()
		if saved == (settings.Settings{}) {
			c.app.println("Ticket links disabled")
			return nil
		}
		c.app.printf("Ticket links use %s\n", saved.TicketURLTemplate)
		return nil
	default:
		return errors.NewInvalidInputError("action", c.Action, "unknown settings action")
	}
}
