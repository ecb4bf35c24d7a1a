package domain

import (
	"time"
)

// RecentItem is a reusable task label shown for quick entry.
//
// Order ranks the item inside its partition (pinned or unpinned). It is nil
// for items that were never ranked.
type RecentItem struct {
	Text     string
	Pinned   bool
	LastUsed time.Time
	Order    *int
	Tags     []string
}

// OrderOr returns the order, or fallback when the item has none.
func (r RecentItem) OrderOr(fallback int) int {
	if r.Order == nil {
		return fallback
	}
	return *r.Order
}

// SetOrder assigns a rank.
func (r *RecentItem) SetOrder(order int) {
	r.Order = &order
}

// HasTag reports whether tag is attached to the item.
func (r RecentItem) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
