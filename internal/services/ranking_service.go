package services

import (
	"context"
	"fmt"
	"math"
	"sort"

	"activity-tracker/internal/domain"
	"activity-tracker/internal/errors"
	"activity-tracker/internal/logging"
	"activity-tracker/internal/repository/sqlite"
	"activity-tracker/internal/validation"
)

// DefaultSeeds are pinned on first start, in this order.
var DefaultSeeds = []SeedItem{
	{Text: "Meeting", Tags: []string{"meeting"}},
	{Text: "Code review", Tags: []string{"dev"}},
	{Text: "Email", Tags: []string{"admin"}},
}

// rankingServiceImpl implements the RankingService interface
type rankingServiceImpl struct {
	repo      sqlite.Repository
	mapper    *domain.Mapper
	validator *validation.RecentValidator
	seedFlag  SeedFlag
	seeds     []SeedItem
}

// NewRankingService creates a new RankingService instance. seeds may be nil
// to use DefaultSeeds.
func NewRankingService(repo sqlite.Repository, seedFlag SeedFlag, v *validation.Validator, seeds []SeedItem) RankingService {
	if seeds == nil {
		seeds = DefaultSeeds
	}
	return &rankingServiceImpl{
		repo:      repo,
		mapper:    domain.NewMapper(),
		validator: validation.NewRecentValidator(v),
		seedFlag:  seedFlag,
		seeds:     seeds,
	}
}

func (r *rankingServiceImpl) loadAll(ctx context.Context) ([]*domain.RecentItem, error) {
	rows, err := r.repo.GetAllRecent(ctx)
	if err != nil {
		return nil, err
	}
	return r.mapper.RecentItem.FromDatabaseSlice(rows), nil
}

// partition splits items into pinned and unpinned, skipping exclude, each
// sorted by ascending order with a missing order counted as zero.
func partition(items []*domain.RecentItem, exclude string) (pinned, unpinned []*domain.RecentItem) {
	for _, item := range items {
		if item.Text == exclude {
			continue
		}
		if item.Pinned {
			pinned = append(pinned, item)
		} else {
			unpinned = append(unpinned, item)
		}
	}
	byOrder := func(list []*domain.RecentItem) {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].OrderOr(0) < list[j].OrderOr(0)
		})
	}
	byOrder(pinned)
	byOrder(unpinned)
	return pinned, unpinned
}

// renumber concatenates pinned and unpinned and assigns each item its index.
func renumber(pinned, unpinned []*domain.RecentItem) []*domain.RecentItem {
	ranked := make([]*domain.RecentItem, 0, len(pinned)+len(unpinned))
	ranked = append(ranked, pinned...)
	ranked = append(ranked, unpinned...)
	for i, item := range ranked {
		item.SetOrder(i)
	}
	return ranked
}

func (r *rankingServiceImpl) persist(ctx context.Context, items []*domain.RecentItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.repo.PutRecentItems(ctx, r.mapper.RecentItem.ToDatabaseSlice(items))
}

func (r *rankingServiceImpl) label(text string) (string, error) {
	label, err := r.validator.ValidateLabel(text)
	if err != nil {
		return "", errors.NewInvalidInputError("text", text, err.(*validation.ValidationError).GetUserFriendlyMessage())
	}
	return label, nil
}

// OnNewTask records a use of text. A pinned item only has its last use
// refreshed. Anything else moves to the front of the unpinned items and
// every item is renumbered and rewritten.
func (r *rankingServiceImpl) OnNewTask(ctx context.Context, text string) error {
	text, err := r.label(text)
	if err != nil {
		return err
	}

	items, err := r.loadAll(ctx)
	if err != nil {
		return err
	}

	var target *domain.RecentItem
	for _, item := range items {
		if item.Text == text {
			target = item
			break
		}
	}

	if target != nil && target.Pinned {
		_, err := r.repo.UpsertRecent(ctx, text, sqlite.RecentOverrides{})
		return err
	}

	if target == nil {
		target = &domain.RecentItem{Text: text, Tags: []string{}}
	}
	target.LastUsed = timeNow()

	pinned, unpinned := partition(items, text)
	unpinned = append([]*domain.RecentItem{target}, unpinned...)

	logging.Debugf("ranking: new task %q placed after %d pinned items\n", text, len(pinned))
	return r.persist(ctx, renumber(pinned, unpinned))
}

// OnPinToggle pins text at the end of the pinned items or unpins it to the
// front of the unpinned items, renumbers everything and returns the list in
// display order. An unknown text is created with the requested state.
func (r *rankingServiceImpl) OnPinToggle(ctx context.Context, text string, pinned bool) ([]*domain.RecentItem, error) {
	text, err := r.label(text)
	if err != nil {
		return nil, err
	}

	items, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	var target *domain.RecentItem
	for _, item := range items {
		if item.Text == text {
			target = item
			break
		}
	}

	if target == nil {
		if _, err := r.repo.UpsertRecent(ctx, text, sqlite.RecentOverrides{Pinned: &pinned}); err != nil {
			return nil, err
		}
		return r.ListRecent(ctx)
	}

	target.Pinned = pinned
	pinnedItems, unpinnedItems := partition(items, text)
	if pinned {
		pinnedItems = append(pinnedItems, target)
	} else {
		unpinnedItems = append([]*domain.RecentItem{target}, unpinnedItems...)
	}

	ranked := renumber(pinnedItems, unpinnedItems)
	if err := r.persist(ctx, ranked); err != nil {
		return nil, err
	}
	return r.SortForDisplay(ranked), nil
}

// PersistOrder stores a manual ordering of one partition: each named item
// gets its index as order. Every text must name an existing item and appear
// once; the texts must cover exactly one whole partition.
func (r *rankingServiceImpl) PersistOrder(ctx context.Context, texts []string) error {
	if len(texts) == 0 {
		return nil
	}

	items, err := r.loadAll(ctx)
	if err != nil {
		return err
	}
	byText := make(map[string]*domain.RecentItem, len(items))
	for _, item := range items {
		byText[item.Text] = item
	}

	ordered := make([]*domain.RecentItem, 0, len(texts))
	seen := make(map[string]bool, len(texts))
	for _, text := range texts {
		item, ok := byText[text]
		if !ok {
			return errors.NewInvalidInputError("order", text, "unknown recent item")
		}
		if seen[text] {
			return errors.NewInvalidInputError("order", text, "listed more than once")
		}
		seen[text] = true
		ordered = append(ordered, item)
	}

	if err := r.validator.ValidateSamePartition(ordered); err != nil {
		return errors.NewInvalidInputError("order", texts, "items must all be pinned or all be unpinned")
	}

	pinned, unpinned := partition(items, "")
	whole := unpinned
	if ordered[0].Pinned {
		whole = pinned
	}
	if len(ordered) != len(whole) {
		return errors.NewInvalidInputError("order", texts,
			fmt.Sprintf("list all %d items of the partition, got %d", len(whole), len(ordered)))
	}

	for i, item := range ordered {
		item.SetOrder(i)
	}
	return r.persist(ctx, ordered)
}

// TrimUnpinned keeps the keep most recently used unpinned items and deletes
// the rest. Pinned items are never trimmed and surviving orders are left
// as they are. It returns the number of deleted items.
func (r *rankingServiceImpl) TrimUnpinned(ctx context.Context, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.NewInvalidInputError("keep", keep, "must not be negative")
	}

	items, err := r.loadAll(ctx)
	if err != nil {
		return 0, err
	}

	unpinned := make([]*domain.RecentItem, 0, len(items))
	for _, item := range items {
		if !item.Pinned {
			unpinned = append(unpinned, item)
		}
	}
	if len(unpinned) <= keep {
		return 0, nil
	}

	sort.SliceStable(unpinned, func(i, j int) bool {
		return unpinned[i].LastUsed.After(unpinned[j].LastUsed)
	})

	stale := make([]string, 0, len(unpinned)-keep)
	for _, item := range unpinned[keep:] {
		stale = append(stale, item.Text)
	}

	deleted, err := r.repo.DeleteRecentItems(ctx, stale)
	if err != nil {
		return 0, err
	}
	logging.Debugf("ranking: trimmed %d unpinned items, kept %d\n", deleted, keep)
	return deleted, nil
}

// SortForDisplay returns a new slice with pinned items first. Within each
// partition items ascend by order, items without one go last, and ties go
// to the most recently used.
func (r *rankingServiceImpl) SortForDisplay(items []*domain.RecentItem) []*domain.RecentItem {
	sorted := append([]*domain.RecentItem{}, items...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		ao, bo := a.OrderOr(math.MaxInt), b.OrderOr(math.MaxInt)
		if ao != bo {
			return ao < bo
		}
		return a.LastUsed.After(b.LastUsed)
	})
	return sorted
}

// SeedDefaults pins the default labels once. Existing records keep their
// other fields; pinned state, tags and order come from the seed. The flag
// is only set after every seed was written, so a failed run is retried on
// the next start.
func (r *rankingServiceImpl) SeedDefaults(ctx context.Context) error {
	if r.seedFlag.Seeded() {
		return nil
	}

	pinned := true
	for i, seed := range r.seeds {
		order := int64(i)
		overrides := sqlite.RecentOverrides{
			Pinned: &pinned,
			Order:  &order,
			Tags:   r.validator.NormalizeTags(seed.Tags),
		}
		if _, err := r.repo.UpsertRecent(ctx, seed.Text, overrides); err != nil {
			return errors.WrapError(err, errors.ErrorTypeDatabase, "seed default recent item "+seed.Text)
		}
	}

	if err := r.seedFlag.MarkSeeded(); err != nil {
		return err
	}
	logging.Debugf("ranking: seeded %d default items\n", len(r.seeds))
	return nil
}

// ListRecent returns every item in display order.
func (r *rankingServiceImpl) ListRecent(ctx context.Context) ([]*domain.RecentItem, error) {
	items, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return r.SortForDisplay(items), nil
}

// SetTags replaces the tags of text. Tags are trimmed and de-duplicated and
// empty tags are dropped. The item keeps its last use and position.
func (r *rankingServiceImpl) SetTags(ctx context.Context, text string, tags []string) (*domain.RecentItem, error) {
	row, err := r.repo.GetRecent(ctx, text)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, errors.NewNotFoundError("recent item", text)
	}

	overrides := sqlite.RecentOverrides{
		LastUsed: &row.LastUsed,
		Tags:     r.validator.NormalizeTags(tags),
	}
	if _, err := r.repo.UpsertRecent(ctx, text, overrides); err != nil {
		return nil, err
	}

	updated, err := r.repo.GetRecent(ctx, text)
	if err != nil {
		return nil, err
	}
	return r.mapper.RecentItem.FromDatabase(updated), nil
}

// Rename moves an item to a new label, keeping its tags, pin state and
// position.
func (r *rankingServiceImpl) Rename(ctx context.Context, oldText, newText string) error {
	newText, err := r.label(newText)
	if err != nil {
		return err
	}
	return r.repo.RenameRecent(ctx, oldText, newText)
}

// DeleteRecent deletes text. An empty text deletes nothing.
func (r *rankingServiceImpl) DeleteRecent(ctx context.Context, text string) (bool, error) {
	return r.repo.DeleteRecent(ctx, text)
}
