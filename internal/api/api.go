package api

import (
	"context"
	stderrors "errors"
	"time"

	"golang.org/x/sync/semaphore"

	"activity-tracker/internal/config"
	"activity-tracker/internal/domain"
	"activity-tracker/internal/errors"
	"activity-tracker/internal/flatstore"
	"activity-tracker/internal/format"
	"activity-tracker/internal/logging"
	"activity-tracker/internal/repository/sqlite"
	"activity-tracker/internal/services"
	"activity-tracker/internal/settings"
	"activity-tracker/internal/validation"
)

// API is the only entry point the presentation layer uses.
type API interface {
	// ========== Lifecycle ==========

	// Startup seeds the default pinned items. A failure is logged and the
	// application carries on without them.
	Startup(ctx context.Context)

	// Close releases the database.
	Close() error

	// ========== Activities ==========

	// LogActivity stores a completed activity and records its label as the
	// most recent task, trimming the unpinned items to the retention count.
	LogActivity(ctx context.Context, task string, start, end time.Time) (*domain.Activity, error)

	// EditActivity replaces the activity that ended at oldEnd.
	EditActivity(ctx context.Context, oldEnd time.Time, task string, start, end time.Time) (*domain.Activity, error)

	// DeleteActivity deletes the activity that ended at end, optionally
	// bridging the gap with the following activity.
	DeleteActivity(ctx context.Context, end time.Time, bridge bool) (*services.DeleteResult, error)

	// GetActivity returns the activity that ended at end.
	GetActivity(ctx context.Context, end time.Time) (*domain.Activity, error)

	// ListActivities returns activities by end time. since is a range
	// shorthand such as "1d"; empty means everything.
	ListActivities(ctx context.Context, since string) ([]*domain.Activity, error)

	// LastActivity returns the latest activity, or nil.
	LastActivity(ctx context.Context) (*domain.Activity, error)

	// ParseTime converts user input into an instant.
	ParseTime(input string) (time.Time, error)

	// ========== Recent items ==========

	// RecentItems returns the recent items in display order.
	RecentItems(ctx context.Context) ([]*domain.RecentItem, error)

	// PinRecent pins or unpins text and returns the re-sorted list.
	PinRecent(ctx context.Context, text string, pinned bool) ([]*domain.RecentItem, error)

	// ReorderRecent stores a manual ordering of one partition.
	ReorderRecent(ctx context.Context, texts []string) error

	// TagRecent replaces the tags of text.
	TagRecent(ctx context.Context, text string, tags []string) (*domain.RecentItem, error)

	// RenameRecent changes the label of an item.
	RenameRecent(ctx context.Context, oldText, newText string) error

	// DeleteRecent deletes text.
	DeleteRecent(ctx context.Context, text string) (bool, error)

	// TrimRecent trims unpinned items to keep; a negative keep uses the
	// configured retention.
	TrimRecent(ctx context.Context, keep int) (int, error)

	// ========== Settings ==========

	Settings() settings.Settings
	SaveSettings(s settings.Settings) error

	// RenderTask returns task as HTML with ticket references linked.
	RenderTask(task string) string
}

type apiImpl struct {
	repo      sqlite.Repository
	services  *services.ServiceContainer
	settings  *settings.Store
	config    *config.Config
	rankingMu *semaphore.Weighted
}

// New creates an API over an open repository and a settings store.
func New(repo sqlite.Repository, store *settings.Store, cfg *config.Config) API {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	v := validation.NewValidatorWithConfig(cfg)

	return &apiImpl{
		repo: repo,
		services: &services.ServiceContainer{
			TimeService:     services.NewTimeService(time.Local),
			ActivityService: services.NewActivityService(repo, v),
			RankingService:  services.NewRankingService(repo, store, v, nil),
		},
		settings:  store,
		config:    cfg,
		rankingMu: semaphore.NewWeighted(1),
	}
}

// Open opens the database and flat storage named by cfg.
func Open(ctx context.Context, cfg *config.Config) (API, error) {
	repo, err := config.CreateRepository(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store := settings.NewStore(flatstore.NewOS(cfg.Storage.Dir))
	return New(repo, store, cfg), nil
}

func (a *apiImpl) Close() error {
	return a.repo.Close()
}

// withTimeout bounds one call by the configured query timeout.
func (a *apiImpl) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.GetQueryTimeout())
}

// timeout converts a deadline hit anywhere below into a timeout error.
func (a *apiImpl) timeout(operation string, err error) error {
	if err != nil && stderrors.Is(err, context.DeadlineExceeded) {
		return errors.NewTimeoutError(operation, a.config.GetQueryTimeout())
	}
	return err
}

// lockRanking serializes recent-item mutations. Each one rewrites the whole
// table from a fresh read, so two in flight would clobber each other.
func (a *apiImpl) lockRanking(ctx context.Context, operation string) (func(), error) {
	if err := a.rankingMu.Acquire(ctx, 1); err != nil {
		// Only a deadline is a timeout; a cancelled caller gets its own error back.
		return nil, a.timeout(operation, err)
	}
	return func() { a.rankingMu.Release(1) }, nil
}

func (a *apiImpl) Startup(ctx context.Context) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "seed defaults")
	if err == nil {
		defer unlock()
		err = a.services.RankingService.SeedDefaults(ctx)
	}
	if err != nil {
		logging.Logger().Warn("seeding default recent items failed", "error", err)
	}
}

func (a *apiImpl) LogActivity(ctx context.Context, task string, start, end time.Time) (*domain.Activity, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "log activity")
	if err != nil {
		return nil, err
	}
	defer unlock()

	activity, err := a.services.ActivityService.LogActivity(ctx, task, start, end)
	if err != nil {
		return nil, a.timeout("log activity", err)
	}

	// The activity is stored; a failed recent-list update only costs a
	// shortcut, so it is logged rather than returned.
	if err := a.services.RankingService.OnNewTask(ctx, activity.Task); err != nil {
		logging.Logger().Warn("updating recent items failed", "task", activity.Task, "error", err)
		return activity, nil
	}
	if _, err := a.services.RankingService.TrimUnpinned(ctx, a.config.Recent.Retention); err != nil {
		logging.Logger().Warn("trimming recent items failed", "error", err)
	}
	return activity, nil
}

func (a *apiImpl) EditActivity(ctx context.Context, oldEnd time.Time, task string, start, end time.Time) (*domain.Activity, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	activity, err := a.services.ActivityService.EditActivity(ctx, oldEnd, task, start, end)
	return activity, a.timeout("edit activity", err)
}

func (a *apiImpl) DeleteActivity(ctx context.Context, end time.Time, bridge bool) (*services.DeleteResult, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	result, err := a.services.ActivityService.DeleteActivity(ctx, end, bridge)
	return result, a.timeout("delete activity", err)
}

func (a *apiImpl) GetActivity(ctx context.Context, end time.Time) (*domain.Activity, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	activity, err := a.services.ActivityService.GetActivity(ctx, end)
	return activity, a.timeout("get activity", err)
}

func (a *apiImpl) ListActivities(ctx context.Context, since string) ([]*domain.Activity, error) {
	var timeRange *services.TimeRange
	if since != "" {
		r, err := a.services.TimeService.ParseTimeRange(since)
		if err != nil {
			return nil, err
		}
		timeRange = r
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	activities, err := a.services.ActivityService.ListActivities(ctx, timeRange)
	return activities, a.timeout("list activities", err)
}

func (a *apiImpl) LastActivity(ctx context.Context) (*domain.Activity, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	activity, err := a.services.ActivityService.LastActivity(ctx)
	return activity, a.timeout("get last activity", err)
}

func (a *apiImpl) ParseTime(input string) (time.Time, error) {
	return a.services.TimeService.ParseTime(input)
}

func (a *apiImpl) RecentItems(ctx context.Context) ([]*domain.RecentItem, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	items, err := a.services.RankingService.ListRecent(ctx)
	return items, a.timeout("list recent items", err)
}

func (a *apiImpl) PinRecent(ctx context.Context, text string, pinned bool) ([]*domain.RecentItem, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "pin recent item")
	if err != nil {
		return nil, err
	}
	defer unlock()

	items, err := a.services.RankingService.OnPinToggle(ctx, text, pinned)
	return items, a.timeout("pin recent item", err)
}

func (a *apiImpl) ReorderRecent(ctx context.Context, texts []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "reorder recent items")
	if err != nil {
		return err
	}
	defer unlock()

	return a.timeout("reorder recent items", a.services.RankingService.PersistOrder(ctx, texts))
}

func (a *apiImpl) TagRecent(ctx context.Context, text string, tags []string) (*domain.RecentItem, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "tag recent item")
	if err != nil {
		return nil, err
	}
	defer unlock()

	item, err := a.services.RankingService.SetTags(ctx, text, tags)
	return item, a.timeout("tag recent item", err)
}

func (a *apiImpl) RenameRecent(ctx context.Context, oldText, newText string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "rename recent item")
	if err != nil {
		return err
	}
	defer unlock()

	return a.timeout("rename recent item", a.services.RankingService.Rename(ctx, oldText, newText))
}

func (a *apiImpl) DeleteRecent(ctx context.Context, text string) (bool, error) {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "delete recent item")
	if err != nil {
		return false, err
	}
	defer unlock()

	deleted, err := a.services.RankingService.DeleteRecent(ctx, text)
	return deleted, a.timeout("delete recent item", err)
}

func (a *apiImpl) TrimRecent(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		keep = a.config.Recent.Retention
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	unlock, err := a.lockRanking(ctx, "trim recent items")
	if err != nil {
		return 0, err
	}
	defer unlock()

	deleted, err := a.services.RankingService.TrimUnpinned(ctx, keep)
	return deleted, a.timeout("trim recent items", err)
}

func (a *apiImpl) Settings() settings.Settings {
	return a.settings.Load()
}

func (a *apiImpl) SaveSettings(s settings.Settings) error {
	return a.settings.Save(s)
}

func (a *apiImpl) RenderTask(task string) string {
	return format.LinkifyTickets(format.EscapeHTML(task), a.settings.Load().TicketURLTemplate)
}
