package use_cases

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pedrops164/ShortsCreator/domain/models"
	"github.com/pedrops164/ShortsCreator/domain/ports"
)

// DefaultPageSize - จำนวนรายการต่อหน้าของ list
const DefaultPageSize = 5

// ContentList keeps a status-filtered view of the user's content current:
// full refreshes through the gateway, incremental patches from the
// notification stream, optimistic deletes, and client-side paging over the
// full fetched set.
//
// All methods are safe for concurrent use; stream callbacks land on the
// reader goroutine while the UI calls from its own loop.
type ContentList struct {
	gateway ports.ContentGateway
	logger  *slog.Logger

	mu       sync.RWMutex
	statuses []models.ContentStatus
	items    []models.Content
	// occurredAt of the last applied event per id, to drop out-of-order
	// patches when the backend stamps its events
	lastEvent map[string]time.Time
	page      int
	pageSize  int

	// OnChange fires after any visible mutation, outside the lock.
	OnChange func()
}

func NewContentList(gw ports.ContentGateway, statuses []models.ContentStatus) *ContentList {
	return &ContentList{
		gateway:   gw,
		logger:    slog.Default().With("component", "content_list"),
		statuses:  statuses,
		lastEvent: make(map[string]time.Time),
		page:      1,
		pageSize:  DefaultPageSize,
	}
}

// Refresh replaces the whole set from the gateway and resets to page 1.
func (l *ContentList) Refresh(ctx context.Context) error {
	items, err := l.gateway.ListContent(ctx, l.Statuses())
	if err != nil {
		return fmt.Errorf("failed to refresh content list: %w", err)
	}

	l.mu.Lock()
	l.items = items
	l.page = 1
	present := make(map[string]bool, len(items))
	for _, c := range items {
		present[c.ID] = true
	}
	for id := range l.lastEvent {
		if !present[id] {
			delete(l.lastEvent, id)
		}
	}
	l.mu.Unlock()

	l.notify()
	return nil
}

// SetPageSize changes the items-per-page and snaps back to page 1.
func (l *ContentList) SetPageSize(size int) {
	if size < 1 {
		return
	}
	l.mu.Lock()
	l.pageSize = size
	l.page = 1
	l.mu.Unlock()
	l.notify()
}

// SetStatuses changes the filter; the view is stale until the next Refresh.
func (l *ContentList) SetStatuses(statuses []models.ContentStatus) {
	l.mu.Lock()
	l.statuses = statuses
	l.mu.Unlock()
}

func (l *ContentList) Statuses() []models.ContentStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.ContentStatus, len(l.statuses))
	copy(out, l.statuses)
	return out
}

// Items returns a copy of the full fetched set.
func (l *ContentList) Items() []models.Content {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.Content, len(l.items))
	copy(out, l.items)
	return out
}

// Page returns the current page's slice of items.
func (l *ContentList) Page() []models.Content {
	l.mu.RLock()
	defer l.mu.RUnlock()
	start := (l.page - 1) * l.pageSize
	if start >= len(l.items) {
		return nil
	}
	end := start + l.pageSize
	if end > len(l.items) {
		end = len(l.items)
	}
	out := make([]models.Content, end-start)
	copy(out, l.items[start:end])
	return out
}

func (l *ContentList) PageNumber() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.page
}

// TotalPages is at least 1 even for an empty set.
func (l *ContentList) TotalPages() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.totalPagesLocked()
}

func (l *ContentList) totalPagesLocked() int {
	if len(l.items) == 0 {
		return 1
	}
	return (len(l.items) + l.pageSize - 1) / l.pageSize
}

// SetPage clamps into [1, TotalPages].
func (l *ContentList) SetPage(page int) {
	l.mu.Lock()
	total := l.totalPagesLocked()
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	changed := page != l.page
	l.page = page
	l.mu.Unlock()
	if changed {
		l.notify()
	}
}

// Progress returns the item's current progress percentage, with ok false
// when the record carries none.
func (l *ContentList) Progress(contentID string) (float64, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for i := range l.items {
		if l.items[i].ID == contentID {
			if p := l.items[i].ProgressPercentage; p != nil {
				return *p, true
			}
			return 0, false
		}
	}
	return 0, false
}

// ApplyVideoStatus patches the matching record's status and progress in
// place; the record stays the single source of truth for what Items/Page
// render. Unknown ids are ignored (the item may belong to another filter or
// another device's session), and events older than the last applied one are
// dropped when both carry occurredAt. Applying the same event twice is
// harmless.
func (l *ContentList) ApplyVideoStatus(update models.VideoStatusUpdate) {
	l.mu.Lock()
	idx := -1
	for i := range l.items {
		if l.items[i].ID == update.ContentID {
			idx = i
			break
		}
	}
	if idx == -1 {
		l.mu.Unlock()
		return
	}

	if update.OccurredAt != nil {
		if last, ok := l.lastEvent[update.ContentID]; ok && update.OccurredAt.Before(last) {
			l.mu.Unlock()
			return
		}
		l.lastEvent[update.ContentID] = *update.OccurredAt
	}

	item := &l.items[idx]
	changed := item.Status != update.Status
	item.Status = update.Status

	if update.Status == models.StatusProcessing && update.ProgressPercentage != nil {
		if item.ProgressPercentage == nil || *item.ProgressPercentage != *update.ProgressPercentage {
			changed = true
		}
		p := *update.ProgressPercentage
		item.ProgressPercentage = &p
	} else if update.Status != models.StatusProcessing {
		// terminal statuses carry no progress
		if item.ProgressPercentage != nil {
			changed = true
		}
		item.ProgressPercentage = nil
	}
	l.mu.Unlock()

	if changed {
		l.notify()
	}
}

// Delete removes the item optimistically, then calls the gateway; on error
// the previous set is restored and the error returned for display.
func (l *ContentList) Delete(ctx context.Context, contentID string) error {
	l.mu.Lock()
	snapshot := make([]models.Content, len(l.items))
	copy(snapshot, l.items)
	page := l.page

	kept := l.items[:0:0]
	for _, c := range l.items {
		if c.ID != contentID {
			kept = append(kept, c)
		}
	}
	l.items = kept
	if total := l.totalPagesLocked(); l.page > total {
		l.page = total
	}
	l.mu.Unlock()
	l.notify()

	if err := l.gateway.DeleteContent(ctx, contentID); err != nil {
		l.logger.WarnContext(ctx, "Delete failed, restoring item", "content_id", contentID, "error", err)
		l.mu.Lock()
		l.items = snapshot
		l.page = page
		l.mu.Unlock()
		l.notify()
		return fmt.Errorf("failed to delete content: %w", err)
	}

	l.mu.Lock()
	delete(l.lastEvent, contentID)
	l.mu.Unlock()
	return nil
}

// Attach subscribes the list to a notification source and replays the
// source's latest video event so a list opened after the event still
// catches up.
func (l *ContentList) Attach(src ports.NotificationSource) {
	src.OnVideoStatus(l.ApplyVideoStatus)
	if update, ok := src.LatestVideoStatus(); ok {
		l.ApplyVideoStatus(update)
	}
}

func (l *ContentList) notify() {
	if l.OnChange != nil {
		l.OnChange()
	}
}
