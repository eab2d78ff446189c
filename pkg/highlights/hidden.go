package highlights

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/repository"
)

// Ledger keeps videos hidden from the rail. A hidden video stays hidden until shown again,
// reads always go to storage.
type Ledger struct {
	store *repository.Store
	bus   events.Publisher
	now   func() time.Time

	mu sync.Mutex // serialises read-modify-write of the stored list
}

// NewLedger makes a hidden-items ledger
func NewLedger(store *repository.Store, bus events.Publisher, now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{store: store, bus: bus, now: now}
}

// Hide hides a video. Hiding it again refreshes the timestamp and any non-empty metadata.
func (l *Ledger) Hide(ctx context.Context, sourceID, videoID string, meta domain.HiddenMeta) {
	l.mu.Lock()
	list := l.List(ctx)
	ts := l.now().UnixMilli()
	found := false
	for i := range list {
		if list[i].VideoID != videoID {
			continue
		}
		list[i].HiddenAt = ts
		if meta.VideoTitle != "" {
			list[i].VideoTitle = meta.VideoTitle
		}
		if meta.ThumbnailURL != "" {
			list[i].ThumbnailURL = meta.ThumbnailURL
		}
		if meta.SourceLabel != "" {
			list[i].SourceLabel = meta.SourceLabel
		}
		found = true
		break
	}
	if !found {
		list = append(list, domain.HiddenHighlight{VideoID: videoID, SourceID: sourceID, HiddenAt: ts,
			VideoTitle: meta.VideoTitle, ThumbnailURL: meta.ThumbnailURL, SourceLabel: meta.SourceLabel})
	}
	l.store.Save(ctx, domain.KeyHiddenHighlights, list)
	l.mu.Unlock()

	l.changed()
}

// Show makes a hidden video visible again
func (l *Ledger) Show(ctx context.Context, videoID string) {
	l.mu.Lock()
	list := l.List(ctx)
	res := make([]domain.HiddenHighlight, 0, len(list))
	for _, h := range list {
		if h.VideoID != videoID {
			res = append(res, h)
		}
	}
	l.store.Save(ctx, domain.KeyHiddenHighlights, res)
	l.mu.Unlock()

	l.changed()
}

// Unhide is an alias of Show
func (l *Ledger) Unhide(ctx context.Context, videoID string) { l.Show(ctx, videoID) }

// Remove is an alias of Show
func (l *Ledger) Remove(ctx context.Context, videoID string) { l.Show(ctx, videoID) }

// IsHidden checks if the video is hidden
func (l *Ledger) IsHidden(ctx context.Context, videoID string) bool {
	_, ok := l.HiddenSet(ctx)[videoID]
	return ok
}

// HiddenSet returns ids of all hidden videos
func (l *Ledger) HiddenSet(ctx context.Context) map[string]struct{} {
	list := l.List(ctx)
	res := make(map[string]struct{}, len(list))
	for _, h := range list {
		res[h.VideoID] = struct{}{}
	}
	return res
}

// HasEntry checks if any video of the source is hidden
func (l *Ledger) HasEntry(ctx context.Context, sourceID string) bool {
	_, ok := l.HiddenVideoID(ctx, sourceID)
	return ok
}

// HiddenVideoID returns the first hidden video of the source
func (l *Ledger) HiddenVideoID(ctx context.Context, sourceID string) (string, bool) {
	for _, h := range l.List(ctx) {
		if h.SourceID == sourceID {
			return h.VideoID, true
		}
	}
	return "", false
}

// List returns hidden videos in storage order. Entries are decoded one by one, a malformed entry
// or one without video or source id is skipped without losing the rest.
func (l *Ledger) List(ctx context.Context) []domain.HiddenHighlight {
	raw := repository.Load(ctx, l.store, domain.KeyHiddenHighlights, []json.RawMessage{},
		repository.ListOf[json.RawMessage]).Value
	res := make([]domain.HiddenHighlight, 0, len(raw))
	for i, rec := range raw {
		var h domain.HiddenHighlight
		if err := json.Unmarshal(rec, &h); err != nil {
			lgr.Printf("[DEBUG] skip malformed hidden entry #%d: %v", i, err)
			continue
		}
		if h.VideoID == "" || h.SourceID == "" {
			continue
		}
		res = append(res, h)
	}
	return res
}

// ListChronological returns hidden videos, most recently hidden first
func (l *Ledger) ListChronological(ctx context.Context) []domain.HiddenHighlight {
	list := l.List(ctx)
	sort.SliceStable(list, func(i, j int) bool { return list[i].HiddenAt > list[j].HiddenAt })
	return list
}

// Count returns the number of hidden videos
func (l *Ledger) Count(ctx context.Context) int {
	return len(l.List(ctx))
}

// ClearAll shows every hidden video again
func (l *Ledger) ClearAll(ctx context.Context) {
	l.mu.Lock()
	l.store.Save(ctx, domain.KeyHiddenHighlights, []domain.HiddenHighlight{})
	l.mu.Unlock()

	l.changed()
}

// Cleanup drops entries of sources that are not tracked anymore, returns the number dropped
func (l *Ledger) Cleanup(ctx context.Context, validSourceIDs []string) int {
	valid := make(map[string]struct{}, len(validSourceIDs))
	for _, id := range validSourceIDs {
		valid[id] = struct{}{}
	}

	l.mu.Lock()
	list := l.List(ctx)
	res := make([]domain.HiddenHighlight, 0, len(list))
	for _, h := range list {
		if _, ok := valid[h.SourceID]; ok {
			res = append(res, h)
		}
	}
	removed := len(list) - len(res)
	if removed > 0 {
		l.store.Save(ctx, domain.KeyHiddenHighlights, res)
	}
	l.mu.Unlock()

	if removed > 0 {
		lgr.Printf("[DEBUG] dropped %d hidden highlights of removed favorites", removed)
		l.changed()
	}
	return removed
}

func (l *Ledger) changed() {
	l.bus.Publish(events.Event{Name: domain.EventHiddenHighlightsChanged})
}
