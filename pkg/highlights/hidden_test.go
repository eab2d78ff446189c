package highlights

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/repository"
)

type tick struct {
	mu sync.Mutex
	t  time.Time
}

func (c *tick) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func setupLedger(t *testing.T) (*Ledger, *repository.Repositories, *int) {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	bus := events.NewBus()
	changes := 0
	bus.Subscribe(domain.EventHiddenHighlightsChanged, func(events.Event) { changes++ })
	clk := &tick{t: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}
	return NewLedger(repos.Store, bus, clk.now), repos, &changes
}

func TestLedger_HidePermanence(t *testing.T) {
	l, _, changes := setupLedger(t)
	ctx := context.Background()

	l.Hide(ctx, "fav1", "vid1", domain.HiddenMeta{VideoTitle: "one"})
	assert.True(t, l.IsHidden(ctx, "vid1"))
	l.Hide(ctx, "fav2", "vid2", domain.HiddenMeta{})
	assert.True(t, l.IsHidden(ctx, "vid1"))
	assert.True(t, l.IsHidden(ctx, "vid2"))
	assert.False(t, l.IsHidden(ctx, "vid3"))
	assert.Equal(t, 2, *changes)
	assert.Equal(t, 2, l.Count(ctx))
}

func TestLedger_HideUpsert(t *testing.T) {
	l, _, _ := setupLedger(t)
	ctx := context.Background()

	l.Hide(ctx, "fav1", "vid1", domain.HiddenMeta{VideoTitle: "one", SourceLabel: "Fav"})
	first := l.List(ctx)[0]
	l.Hide(ctx, "fav9", "vid1", domain.HiddenMeta{ThumbnailURL: "t.jpg"})

	list := l.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "fav1", list[0].SourceID, "source kept")
	assert.Equal(t, "one", list[0].VideoTitle, "empty meta does not erase")
	assert.Equal(t, "t.jpg", list[0].ThumbnailURL)
	assert.Equal(t, "Fav", list[0].SourceLabel)
	assert.Greater(t, list[0].HiddenAt, first.HiddenAt)
}

func TestLedger_ShowAliases(t *testing.T) {
	l, _, changes := setupLedger(t)
	ctx := context.Background()

	for _, id := range []string{"v1", "v2", "v3", "v4"} {
		l.Hide(ctx, "fav", id, domain.HiddenMeta{})
	}
	l.Show(ctx, "v1")
	l.Unhide(ctx, "v2")
	l.Remove(ctx, "v3")
	assert.Equal(t, 7, *changes)

	list := l.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "v4", list[0].VideoID)

	l.ClearAll(ctx)
	assert.Zero(t, l.Count(ctx))
	assert.Equal(t, 8, *changes)
}

func TestLedger_SourceLookups(t *testing.T) {
	l, _, _ := setupLedger(t)
	ctx := context.Background()

	l.Hide(ctx, "fav1", "vid1", domain.HiddenMeta{})
	assert.True(t, l.HasEntry(ctx, "fav1"))
	assert.False(t, l.HasEntry(ctx, "fav2"))
	id, ok := l.HiddenVideoID(ctx, "fav1")
	assert.True(t, ok)
	assert.Equal(t, "vid1", id)
	_, ok = l.HiddenVideoID(ctx, "fav2")
	assert.False(t, ok)
}

func TestLedger_Chronological(t *testing.T) {
	l, _, _ := setupLedger(t)
	ctx := context.Background()

	l.Hide(ctx, "f", "old", domain.HiddenMeta{})
	l.Hide(ctx, "f", "mid", domain.HiddenMeta{})
	l.Hide(ctx, "f", "new", domain.HiddenMeta{})

	var ids []string
	for _, h := range l.ListChronological(ctx) {
		ids = append(ids, h.VideoID)
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestLedger_Cleanup(t *testing.T) {
	l, _, changes := setupLedger(t)
	ctx := context.Background()

	l.Hide(ctx, "keep", "v1", domain.HiddenMeta{})
	l.Hide(ctx, "gone", "v2", domain.HiddenMeta{})
	*changes = 0

	assert.Equal(t, 0, l.Cleanup(ctx, []string{"keep", "gone"}))
	assert.Equal(t, 0, *changes, "no broadcast without removals")

	assert.Equal(t, 1, l.Cleanup(ctx, []string{"keep"}))
	assert.Equal(t, 1, *changes)
	assert.True(t, l.IsHidden(ctx, "v1"))
	assert.False(t, l.IsHidden(ctx, "v2"))
}

func TestLedger_TolerantList(t *testing.T) {
	l, repos, _ := setupLedger(t)
	ctx := context.Background()

	require.NoError(t, repos.KV.Set(ctx, domain.KeyHiddenHighlights,
		`[{"videoId":"v1","sourceId":"f1"},{"videoId":"","sourceId":"f2"},{"sourceId":"f3"},{"videoId":"v4","sourceId":"f4","hiddenAt":5}]`))
	list := l.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, int64(0), list[0].HiddenAt)
	assert.Equal(t, "v4", list[1].VideoID)

	require.NoError(t, repos.KV.Set(ctx, domain.KeyHiddenHighlights, `{"not":"a list"}`))
	assert.Empty(t, l.List(ctx))

	// a malformed entry costs only itself, valid ones survive the next write
	require.NoError(t, repos.KV.Set(ctx, domain.KeyHiddenHighlights,
		`[{"videoId":"v1","sourceId":"f1","hiddenAt":1},{"videoId":"v2","sourceId":"f2","hiddenAt":"yesterday"},7]`))
	assert.True(t, l.IsHidden(ctx, "v1"))
	assert.False(t, l.IsHidden(ctx, "v2"))

	l.Hide(ctx, "f3", "v3", domain.HiddenMeta{})
	assert.True(t, l.IsHidden(ctx, "v1"))
	assert.True(t, l.IsHidden(ctx, "v3"))
	ids := []string{}
	for _, h := range l.List(ctx) {
		ids = append(ids, h.VideoID)
	}
	assert.Equal(t, []string{"v1", "v3"}, ids)
}
