package cli

import (
	"context"
	"encoding/csv"
	"fmt"
	"html/template"

	"activity-tracker/internal/errors"
	"activity-tracker/internal/format"
)

// exportTimeFormat is the ISO-8601 form used in exported files.
const exportTimeFormat = "2006-01-02T15:04:05.000Z"

// ExportCommand handles the export command
type ExportCommand struct {
	app    *App
	Format string
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app, Format: "csv"}
}

// Execute writes every activity in the chosen format.
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	switch c.Format {
	case "csv":
		return c.exportCSV(ctx)
	case "html":
		return c.exportHTML(ctx)
	default:
		return errors.NewInvalidInputError("format", c.Format, "unsupported format, use csv or html")
	}
}

// exportCSV writes task, start, end and HH:MM:SS duration columns.
func (c *ExportCommand) exportCSV(ctx context.Context) error {
	activities, err := c.app.api.ListActivities(ctx, "")
	if err != nil {
		return c.app.errorHandler.Handle("export activities", err)
	}

	writer := csv.NewWriter(c.app.out)
	if err := writer.Write([]string{"task", "start", "end", "duration"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, activity := range activities {
		row := []string{
			activity.Task,
			activity.StartTime.UTC().Format(exportTimeFormat),
			activity.EndTime.UTC().Format(exportTimeFormat),
			format.FormatDuration(activity.Duration().Milliseconds()),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

var htmlExport = template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Activities</title></head>
<body>
<table>
<thead><tr><th>Task</th><th>Start</th><th>End</th><th>Duration</th></tr></thead>
<tbody>
{{- range .}}
<tr><td>{{.Task}}</td><td>{{.Start}}</td><td>{{.End}}</td><td>{{.Duration}}</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

type htmlRow struct {
	Task     template.HTML
	Start    string
	End      string
	Duration string
}

// exportHTML writes a standalone page. Task cells are escaped and carry
// ticket links when a ticket URL is configured.
func (c *ExportCommand) exportHTML(ctx context.Context) error {
	activities, err := c.app.api.ListActivities(ctx, "")
	if err != nil {
		return c.app.errorHandler.Handle("export activities", err)
	}

	rows := make([]htmlRow, 0, len(activities))
	for _, activity := range activities {
		rows = append(rows, htmlRow{
			// RenderTask escapes before linking.
			Task:     template.HTML(c.app.api.RenderTask(activity.Task)),
			Start:    formatTime(activity.StartTime),
			End:      formatTime(activity.EndTime),
			Duration: format.FormatDuration(activity.Duration().Milliseconds()),
		})
	}
	return htmlExport.Execute(c.app.out, rows)
}
