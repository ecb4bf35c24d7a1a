package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"activity-tracker/internal/api"
	"activity-tracker/internal/config"
	"activity-tracker/internal/flatstore"
	"activity-tracker/internal/settings"
)

// sharedAPI keeps one in-memory database alive across command runs.
type sharedAPI struct {
	api.API
}

func (sharedAPI) Close() error { return nil }

type testEnv struct {
	t      *testing.T
	api    api.API
	dir    string
	opened *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo, err := config.CreateTestRepository(context.Background())
	require.NoError(t, err)

	env := &testEnv{
		t:   t,
		api: api.New(repo, settings.NewStore(flatstore.NewMemory()), nil),
		dir: t.TempDir(),
	}
	t.Cleanup(func() { env.api.Close() })

	original := timeNow
	timeNow = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local) }
	t.Cleanup(func() { timeNow = original })

	return env
}

func (e *testEnv) open(_ context.Context, cfg *config.Config) (api.API, error) {
	e.opened = cfg
	return sharedAPI{e.api}, nil
}

// run executes one trk invocation and returns its standard output.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	root := NewRootCommand(e.open, config.NewLoaderWithDir(e.dir))
	var out bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetErr(&out)
	root.Command().SetArgs(args)
	err := root.Execute(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(args ...string) string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, out)
	return out
}

func TestLogAndList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	assert.Contains(t, out, "Logged")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "00:15:00")

	out = env.mustRun("list")
	assert.Contains(t, out, "DURATION")
	assert.Contains(t, out, "2026-03-02 09:15:00")
	assert.Contains(t, out, "Standup")
	assert.Contains(t, out, "1 activities")
}

func TestLog_StartDefaultsToPreviousEnd(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	out := env.mustRun("log", "Review", "ABC-123", "--end", "2026-03-02 09:45")

	assert.Contains(t, out, "Review ABC-123")
	assert.Contains(t, out, "00:30:00")
	assert.Contains(t, out, "2026-03-02 09:15:00 - 2026-03-02 09:45:00")
}

func TestLog_DuplicateEndSuggestsEdit(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	_, err := env.run("log", "Other", "--start", "2026-03-02 09:05", "--end", "2026-03-02 09:15")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "trk edit")
}

func TestLog_RejectsStartAfterEnd(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("log", "Standup", "--start", "2026-03-02 09:30", "--end", "2026-03-02 09:15")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to log activity")
}

func TestList_EmptyAndRange(t *testing.T) {
	env := newTestEnv(t)

	assert.Contains(t, env.mustRun("list"), "No activities found")

	_, err := env.run("list", "forever")
	assert.Error(t, err)
}

func TestEdit(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	out := env.mustRun("edit", "2026-03-02 09:15:00", "--task", "Planning", "--end", "2026-03-02 09:20")
	assert.Contains(t, out, "Updated")
	assert.Contains(t, out, "Planning")

	out = env.mustRun("list")
	assert.Contains(t, out, "2026-03-02 09:20:00")
	assert.NotContains(t, out, "Standup")

	_, err := env.run("edit", "2026-03-02 09:15:00", "--task", "Again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find activity")
}

func TestDelete_WithBridge(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	env.mustRun("log", "Review", "--start", "2026-03-02 09:15", "--end", "2026-03-02 09:45")

	out := env.mustRun("delete", "2026-03-02 09:15:00", "--bridge")
	assert.Contains(t, out, "Deleted activity ending 2026-03-02 09:15:00")
	assert.Contains(t, out, "Bridged:")
	assert.Contains(t, out, "Review now starts 2026-03-02 09:00:00")

	out = env.mustRun("list")
	assert.Contains(t, out, "00:45:00")
	assert.Contains(t, out, "1 activities")
}

func TestDelete_Missing(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun("delete", "2026-03-02 09:15:00")
	assert.Contains(t, out, "No activity ends at 2026-03-02 09:15:00")
}

func TestRecent_SeededPinnedFirst(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	out := env.mustRun("recent", "list")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Meeting")
	assert.Contains(t, lines[0], "[meeting]")
	assert.Contains(t, lines[3], "Standup")
}

func TestRecent_ListByTag(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	env.mustRun("recent", "tag", "Standup", "meeting")

	out := env.mustRun("recent", "list", "--tag", "meeting")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Meeting")
	assert.Contains(t, lines[1], "Standup")

	assert.Contains(t, env.mustRun("recent", "list", "--tag", "nobody"), "No recent items")
}

func TestRecent_PinTagRenameRemove(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("log", "Standup", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")

	out := env.mustRun("recent", "pin", "Standup")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[3], "Standup")
	assert.Contains(t, lines[3], "*")

	out = env.mustRun("recent", "tag", "Standup", "daily", " team ", "daily")
	assert.Contains(t, out, "[daily, team]")

	out = env.mustRun("recent", "rename", "Standup", "Daily standup")
	assert.Contains(t, out, "Renamed Standup to Daily standup")
	assert.Contains(t, env.mustRun("recent", "list"), "Daily standup [daily, team]")

	_, err := env.run("recent", "rename", "Daily standup", "Meeting")
	require.Error(t, err)

	assert.Contains(t, env.mustRun("recent", "rm", "Daily standup"), "Deleted Daily standup")
	assert.NotContains(t, env.mustRun("recent", "list"), "Daily standup")
}

func TestRecent_ReorderPinned(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("recent", "list")

	out := env.mustRun("recent", "reorder", "Email", "Meeting", "Code review")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Email")
	assert.Contains(t, lines[1], "Meeting")
	assert.Contains(t, lines[2], "Code review")

	_, err := env.run("recent", "reorder", "Email", "Unknown")
	assert.Error(t, err)

	_, err = env.run("recent", "reorder", "Code review", "Email")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list all 3 items")
}

func TestRecent_Trim(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("log", "One", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	time.Sleep(2 * time.Millisecond)
	env.mustRun("log", "Two", "--end", "2026-03-02 09:30")

	out := env.mustRun("recent", "trim", "1")
	assert.Contains(t, out, "Trimmed 1 recent items")

	out = env.mustRun("recent", "list")
	assert.Contains(t, out, "Two")
	assert.NotContains(t, out, "One")

	_, err := env.run("recent", "trim", "-2")
	assert.Error(t, err)
}

func TestSettingsAndTicketLinks(t *testing.T) {
	env := newTestEnv(t)

	assert.Contains(t, env.mustRun("settings", "show"), "(not set)")

	out := env.mustRun("settings", "set-ticket-url", "https://tickets.example.com/browse/{id}")
	assert.Contains(t, out, "Ticket links use https://tickets.example.com/browse/{id}")

	env.mustRun("log", "Fix ABC-123 & <tidy>", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")
	out = env.mustRun("list", "--html")
	assert.Contains(t, out, `<a href="https://tickets.example.com/browse/ABC-123" target="_blank" rel="noopener noreferrer">ABC-123</a>`)
	assert.Contains(t, out, "&amp; &lt;tidy&gt;")

	assert.Contains(t, env.mustRun("settings", "set-ticket-url"), "Ticket links disabled")
	assert.NotContains(t, env.mustRun("list", "--html"), "<a href")
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun("settings", "set-ticket-url", "https://tickets.example.com/{id}")
	env.mustRun("log", "Review, #42", "--start", "2026-03-02 09:00", "--end", "2026-03-02 09:15")

	out := env.mustRun("export")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "task,start,end,duration", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Review, #42",`))
	assert.True(t, strings.HasSuffix(lines[1], ",00:15:00"))

	out = env.mustRun("export", "--format", "html")
	assert.Contains(t, out, "<!DOCTYPE html>")
	assert.Contains(t, out, `<a href="https://tickets.example.com/%2342"`)

	_, err := env.run("export", "--format", "xml")
	assert.Error(t, err)
}

func TestGlobalFlagsOverrideConfig(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun("recent", "list", "--retention", "3", "--db-filename", "other.db", "--app-timeout", "5s")

	require.NotNil(t, env.opened)
	assert.Equal(t, 3, env.opened.Recent.Retention)
	assert.Equal(t, "other.db", env.opened.Database.Filename)
	assert.Equal(t, 5*time.Second, env.opened.Application.Timeout)
}

func TestHelpDoesNotOpenDatabase(t *testing.T) {
	opened := false
	root := NewRootCommand(func(context.Context, *config.Config) (api.API, error) {
		opened = true
		return nil, stderrors.New("should not open")
	}, config.NewLoaderWithDir(t.TempDir()))
	var out bytes.Buffer
	root.Command().SetOut(&out)
	root.Command().SetArgs([]string{"help", "recent"})

	require.NoError(t, root.Execute(context.Background()))
	assert.False(t, opened)
	assert.Contains(t, out.String(), "rename")
}

func TestOpenFailureIsReported(t *testing.T) {
	root := NewRootCommand(func(context.Context, *config.Config) (api.API, error) {
		return nil, stderrors.New("disk gone")
	}, config.NewLoaderWithDir(t.TempDir()))
	root.Command().SetOut(&bytes.Buffer{})
	root.Command().SetArgs([]string{"list"})

	err := root.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}
