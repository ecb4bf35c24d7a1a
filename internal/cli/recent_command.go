package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/errors"
)

// RecentCommand handles the recent subcommands. Action selects which one.
type RecentCommand struct {
	app    *App
	Action string
	// Tag limits list output to items carrying it.
	Tag string
}

// NewRecentCommand creates a recent command handler for action.
func NewRecentCommand(app *App, action string) *RecentCommand {
	return &RecentCommand{app: app, Action: action}
}

// Execute runs the selected action.
func (c *RecentCommand) Execute(ctx context.Context, args []string) error {
	switch c.Action {
	case "list":
		return c.list(ctx)
	case "pin", "unpin":
		return c.pin(ctx, args, c.Action == "pin")
	case "reorder":
		return c.reorder(ctx, args)
	case "tag":
		return c.tag(ctx, args)
	case "rename":
		return c.rename(ctx, args)
	case "rm":
		return c.remove(ctx, args)
	case "trim":
		return c.trim(ctx, args)
	default:
		return errors.NewInvalidInputError("action", c.Action, "unknown recent action")
	}
}

func (c *RecentCommand) list(ctx context.Context) error {
	items, err := c.app.api.RecentItems(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("list recent items", err)
	}
	if c.Tag != "" {
		tagged := make([]*domain.RecentItem, 0, len(items))
		for _, item := range items {
			if item.HasTag(c.Tag) {
				tagged = append(tagged, item)
			}
		}
		items = tagged
	}
	c.render(items)
	return nil
}

func (c *RecentCommand) render(items []*domain.RecentItem) {
	if len(items) == 0 {
		c.app.println("No recent items")
		return
	}
	for i, item := range items {
		marker := " "
		if item.Pinned {
			marker = c.app.styles.Pinned.Render("*")
		}
		line := fmt.Sprintf("%s %2d. %s", marker, i+1, item.Text)
		if len(item.Tags) > 0 {
			line += " " + c.app.styles.Tag.Render("["+strings.Join(item.Tags, ", ")+"]")
		}
		c.app.println(line)
	}
}

func (c *RecentCommand) pin(ctx context.Context, args []string, pinned bool) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "recent "+c.Action, "usage: trk recent "+c.Action+" \"label\"")
	}
	items, err := c.app.api.PinRecent(ctx, strings.Join(args, " "), pinned)
	if err != nil {
		return c.app.errorHandler.Handle(c.Action+" recent item", err)
	}
	c.render(items)
	return nil
}

// reorder takes the labels of one partition in their new order.
func (c *RecentCommand) reorder(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "recent reorder", "usage: trk recent reorder \"label\"...")
	}
	if err := c.app.api.ReorderRecent(ctx, args); err != nil {
		return c.app.errorHandler.Handle("reorder recent items", err)
	}
	return c.list(ctx)
}

// tag takes the label followed by the complete new tag list; no tags clears.
func (c *RecentCommand) tag(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.NewInvalidInputError("command", "recent tag", "usage: trk recent tag \"label\" [tag...]")
	}
	item, err := c.app.api.TagRecent(ctx, args[0], args[1:])
	if err != nil {
		return c.app.errorHandler.Handle("tag recent item", err)
	}
	c.app.printf("%s %s\n", item.Text, c.app.styles.Tag.Render("["+strings.Join(item.Tags, ", ")+"]"))
	return nil
}

func (c *RecentCommand) rename(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.NewInvalidInputError("command", "recent rename", "usage: trk recent rename \"old\" \"new\"")
	}
	if err := c.app.api.RenameRecent(ctx, args[0], args[1]); err != nil {
		return c.app.errorHandler.Handle("rename recent item", err)
	}
	c.app.printf("Renamed %s to %s\n", args[0], strings.TrimSpace(args[1]))
	return nil
}

func (c *RecentCommand) remove(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	deleted, err := c.app.api.DeleteRecent(ctx, text)
	if err != nil {
		return c.app.errorHandler.Handle("delete recent item", err)
	}
	if !deleted {
		c.app.println("Nothing deleted")
		return nil
	}
	c.app.printf("Deleted %s\n", text)
	return nil
}

// trim keeps the given number of unpinned items, or the configured
// retention when no number is given.
func (c *RecentCommand) trim(ctx context.Context, args []string) error {
	keep := -1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return errors.NewInvalidInputError("keep", args[0], "must be a non-negative number")
		}
		keep = n
	}
	deleted, err := c.app.api.TrimRecent(ctx, keep)
	if err != nil {
		return c.app.errorHandler.Handle("trim recent items", err)
	}
	c.app.printf("Trimmed %d recent items\n", deleted)
	return nil
}
