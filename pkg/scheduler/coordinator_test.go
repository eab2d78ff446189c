package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/favorites"
	"github.com/umputun/trendscope/pkg/repository"
	"github.com/umputun/trendscope/pkg/resolver"
	"github.com/umputun/trendscope/pkg/scheduler/mocks"
	"github.com/umputun/trendscope/pkg/youtube"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// journal records bus events and resolver calls in one ordered log
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(s string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, s)
}

func (j *journal) list() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	res := make([]string, len(j.entries))
	copy(res, j.entries)
	return res
}

func (j *journal) count(s string) int {
	n := 0
	for _, e := range j.list() {
		if e == s {
			n++
		}
	}
	return n
}

type fixture struct {
	coord *Coordinator
	favs  *favorites.Store
	res   *mocks.ResolverMock
	creds *mocks.CredentialsMock
	log   *journal
}

func setup(t *testing.T, resolve func(ctx context.Context, req resolver.Request) (resolver.Result, error)) *fixture {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	log := &journal{}
	bus := events.NewBus()
	bus.SubscribeAll(func(e events.Event) {
		if ref, ok := e.Payload.(domain.FavoriteRef); ok {
			log.add(e.Name + ":" + ref.ID)
			return
		}
		log.add(e.Name)
	})

	now := func() time.Time { return testNow }
	f := &fixture{
		favs: favorites.New(repos.Store, bus, now),
		res: &mocks.ResolverMock{ResolveFunc: func(ctx context.Context, req resolver.Request) (resolver.Result, error) {
			log.add("resolve:" + req.FavoriteID)
			return resolve(ctx, req)
		}},
		creds: &mocks.CredentialsMock{SetAPIKeyFunc: func(context.Context, string) {}},
		log:   log,
	}
	f.coord = NewCoordinator(Params{Resolver: f.res, Favorites: f.favs, Credentials: f.creds, Bus: bus, Now: now,
		StaggerDelay: time.Hour})
	return f
}

func (f *fixture) add(t *testing.T, query string) domain.Favorite {
	t.Helper()
	fav, err := f.favs.Add(context.Background(), favorites.Input{Query: query, TimeFrame: domain.Last24Hours, MaxResults: 10})
	require.NoError(t, err)
	return fav
}

// records makes n videos published an hour ago with growing view counts
func records(n int) []domain.VideoRecord {
	res := make([]domain.VideoRecord, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, domain.VideoRecord{ID: fmt.Sprintf("v%d", i), Title: fmt.Sprintf("video %d", i),
			PublishedAt: testNow.Add(-time.Hour), ViewCount: int64(100 * (i + 1))})
	}
	return res
}

func okResolve(_ context.Context, req resolver.Request) (resolver.Result, error) {
	return resolver.Result{Videos: records(8), TotalInTimeFrame: 12, DisplayName: "Channel " + req.Query, ChannelID: "UC" + req.Query}, nil
}

func TestCoordinator_RefreshForced(t *testing.T) {
	f := setup(t, okResolve)
	ctx := context.Background()
	fav := f.add(t, "chan")

	require.NoError(t, f.coord.Refresh(ctx, fav, Options{Forced: true}))

	entry, ok := f.favs.GetCache(ctx, fav.ID)
	require.True(t, ok)
	require.Len(t, entry.Videos, domain.MaxCachedVideos)
	assert.Equal(t, "v7", entry.Videos[0].ID, "highest score first")
	require.NotNil(t, entry.Meta.TotalInTimeFrame)
	assert.Equal(t, 12, *entry.Meta.TotalInTimeFrame)
	require.NotNil(t, entry.Meta.TopVelocityVph)
	assert.InDelta(t, 800.0, *entry.Meta.TopVelocityVph, 0.001, "velocity over all fetched videos")
	assert.Equal(t, "Channel chan", entry.Meta.ChannelTitle)
	assert.Equal(t, "UCchan", entry.Meta.ChannelID)

	resolveReq := f.res.ResolveCalls()[0].Req
	assert.Equal(t, fav.ID, resolveReq.FavoriteID)
	assert.Equal(t, domain.SearchChannel, resolveReq.SearchType)

	assert.Equal(t, []string{
		domain.EventFavoritesChanged,
		domain.EventFavoriteRefreshStart + ":" + fav.ID,
		"resolve:" + fav.ID,
		domain.EventFavoritesCacheUpdated + ":" + fav.ID,
		domain.EventFavoriteRefreshEnd + ":" + fav.ID,
	}, f.log.list())
	assert.Equal(t, State{ID: fav.ID}, f.coord.State(ctx, fav.ID))
}

func TestCoordinator_ValidCacheShortCircuits(t *testing.T) {
	f := setup(t, okResolve)
	ctx := context.Background()
	fav := f.add(t, "chan")
	f.favs.SetCache(ctx, fav.ID, nil, domain.FavoriteCacheMeta{})
	before := len(f.log.list())

	require.NoError(t, f.coord.Refresh(ctx, fav, Options{}))
	assert.Empty(t, f.res.ResolveCalls())
	assert.Len(t, f.log.list(), before, "no events for a cache hit")

	require.NoError(t, f.coord.RefreshAll(ctx, []domain.Favorite{fav}, false))
	assert.Empty(t, f.res.ResolveCalls())

	require.NoError(t, f.coord.Refresh(ctx, fav, Options{Forced: true}))
	assert.Len(t, f.res.ResolveCalls(), 1)
}

func TestCoordinator_StaggerCancelled(t *testing.T) {
	f := setup(t, okResolve)
	fav := f.add(t, "chan")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.coord.Refresh(ctx, fav, Options{Forced: true, StaggerIndex: 1}) }()

	require.Eventually(t, func() bool { return f.coord.State(context.Background(), fav.ID).Loading },
		time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not stop after cancel")
	}

	assert.Empty(t, f.res.ResolveCalls())
	assert.Equal(t, 1, f.log.count(domain.EventFavoriteRefreshStart+":"+fav.ID))
	assert.Equal(t, 1, f.log.count(domain.EventFavoriteRefreshEnd+":"+fav.ID))
	st := f.coord.State(context.Background(), fav.ID)
	assert.False(t, st.Loading)
	assert.Empty(t, st.Error, "cancellation is not an error")
}

func TestCoordinator_RefreshAllStartsBeforeStagger(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := setup(t, func(_ context.Context, req resolver.Request) (resolver.Result, error) {
		cancel() // tear down while the others still wait for their slot
		return okResolve(ctx, req)
	})
	a, b, c := f.add(t, "a"), f.add(t, "b"), f.add(t, "c")
	favs := []domain.Favorite{a, b, c}
	preamble := len(f.log.list())

	err := f.coord.RefreshAll(ctx, favs, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	log := f.log.list()[preamble:]
	require.GreaterOrEqual(t, len(log), 3)
	assert.ElementsMatch(t, []string{
		domain.EventFavoriteRefreshStart + ":" + a.ID,
		domain.EventFavoriteRefreshStart + ":" + b.ID,
		domain.EventFavoriteRefreshStart + ":" + c.ID,
	}, log[:3], "all start events come first")

	require.Len(t, f.res.ResolveCalls(), 1, "only the first favorite reached the provider")
	assert.Equal(t, a.ID, f.res.ResolveCalls()[0].Req.FavoriteID)
	for _, fav := range favs {
		assert.Equal(t, 1, f.log.count(domain.EventFavoriteRefreshEnd+":"+fav.ID), fav.ID)
	}
	_, ok := f.favs.GetCache(context.Background(), a.ID)
	assert.True(t, ok, "completed refresh is cached")
}

func TestCoordinator_RefreshAllIndependentFailures(t *testing.T) {
	f := setup(t, func(ctx context.Context, req resolver.Request) (resolver.Result, error) {
		if req.Query == "bad" {
			return resolver.Result{}, fmt.Errorf("find channel: %w", resolver.ErrNotFound)
		}
		return okResolve(ctx, req)
	})
	f.coord.stagger = time.Millisecond
	ctx := context.Background()
	good, bad := f.add(t, "good"), f.add(t, "bad")

	err := f.coord.RefreshAll(ctx, []domain.Favorite{bad, good}, true)
	require.ErrorIs(t, err, resolver.ErrNotFound)

	_, ok := f.favs.GetCache(ctx, good.ID)
	assert.True(t, ok)
	_, ok = f.favs.GetCache(ctx, bad.ID)
	assert.False(t, ok)

	st := f.coord.State(ctx, bad.ID)
	assert.Contains(t, st.Error, "channel not found")
	assert.Empty(t, f.coord.State(ctx, good.ID).Error)
	assert.Empty(t, f.creds.SetAPIKeyCalls(), "not a credential failure")
}

func TestCoordinator_CredentialFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid key", youtube.ErrInvalidCredential},
		{"missing key", youtube.ErrMissingCredential},
		{"quota", youtube.ErrQuotaExceeded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t, func(context.Context, resolver.Request) (resolver.Result, error) {
				return resolver.Result{}, fmt.Errorf("resolve: %w", tt.err)
			})
			var hooked error
			f.coord.credentialInvalid = func(err error) { hooked = err }
			fav := f.add(t, "chan")

			err := f.coord.Refresh(context.Background(), fav, Options{Forced: true})
			require.ErrorIs(t, err, tt.err)
			require.Len(t, f.creds.SetAPIKeyCalls(), 1)
			assert.Empty(t, f.creds.SetAPIKeyCalls()[0].Key)
			assert.ErrorIs(t, hooked, tt.err)
			assert.NotEmpty(t, f.coord.State(context.Background(), fav.ID).Error)
		})
	}
}

func TestCoordinator_NoVideosCachesEmpty(t *testing.T) {
	f := setup(t, func(context.Context, resolver.Request) (resolver.Result, error) {
		return resolver.Result{DisplayName: "kw"}, fmt.Errorf("kw: %w", resolver.ErrNoVideos)
	})
	ctx := context.Background()
	fav := f.add(t, "kw")

	require.NoError(t, f.coord.Refresh(ctx, fav, Options{Forced: true}))
	entry, ok := f.favs.GetCache(ctx, fav.ID)
	require.True(t, ok)
	assert.Empty(t, entry.Videos)
	require.NotNil(t, entry.Meta.TopVelocityVph)
	assert.InDelta(t, 0.0, *entry.Meta.TopVelocityVph, 0)
}

func TestCoordinator_StateSpinner(t *testing.T) {
	var f *fixture
	var during []State
	f = setup(t, func(ctx context.Context, req resolver.Request) (resolver.Result, error) {
		during = append(during, f.coord.State(ctx, req.FavoriteID))
		return okResolve(ctx, req)
	})
	ctx := context.Background()
	fav := f.add(t, "chan")

	require.NoError(t, f.coord.Refresh(ctx, fav, Options{Forced: true}))
	require.NoError(t, f.coord.Refresh(ctx, fav, Options{Forced: true}))
	require.Len(t, during, 2)
	assert.Equal(t, State{ID: fav.ID, Loading: true, Spinner: true}, during[0], "nothing cached yet")
	assert.Equal(t, State{ID: fav.ID, Loading: true}, during[1], "stale cache shown meanwhile")
}

func TestCoordinator_RefreshByID(t *testing.T) {
	f := setup(t, okResolve)
	ctx := context.Background()
	fav := f.add(t, "chan")
	f.favs.SetCache(ctx, fav.ID, nil, domain.FavoriteCacheMeta{})

	require.NoError(t, f.coord.RefreshByID(ctx, fav.ID))
	assert.Len(t, f.res.ResolveCalls(), 1, "explicit refresh is forced")

	err := f.coord.RefreshByID(ctx, "nope")
	require.ErrorIs(t, err, ErrUnknownFavorite)
}

func TestCoordinator_Search(t *testing.T) {
	f := setup(t, okResolve)
	ctx := context.Background()

	res, err := f.coord.Search(ctx, resolver.Request{Query: "chan", TimeFrame: domain.Last24Hours, MaxResults: 10})
	require.NoError(t, err)
	assert.Len(t, res.Videos, 8, "one-off searches keep every video")
	assert.Equal(t, "Channel chan", res.DisplayName)
	assert.Equal(t, 12, res.TotalInTimeFrame)
	assert.Empty(t, f.favs.AllCache(ctx))

	f.res.ResolveFunc = func(context.Context, resolver.Request) (resolver.Result, error) {
		return resolver.Result{}, errors.New("boom")
	}
	_, err = f.coord.Search(ctx, resolver.Request{Query: "chan"})
	require.EqualError(t, err, `search "chan": boom`)
}

func TestCoordinator_AnalyzeAndSave(t *testing.T) {
	f := setup(t, okResolve)
	ctx := context.Background()

	fav, res, err := f.coord.AnalyzeAndSave(ctx, favorites.Input{Query: "Chan", TimeFrame: domain.LastWeek, MaxResults: -1})
	require.NoError(t, err)
	assert.Equal(t, "chan|last_week|-1|channel", fav.ID)
	assert.Len(t, res.Videos, 8)
	assert.Equal(t, fav.ID, f.res.ResolveCalls()[0].Req.FavoriteID)

	entry, ok := f.favs.GetCache(ctx, fav.ID)
	require.True(t, ok)
	assert.Len(t, entry.Videos, domain.MaxCachedVideos)
	assert.Len(t, f.favs.List(ctx), 1)

	f.res.ResolveFunc = func(context.Context, resolver.Request) (resolver.Result, error) {
		return resolver.Result{}, resolver.ErrNoVideos
	}
	_, _, err = f.coord.AnalyzeAndSave(ctx, favorites.Input{Query: "empty", TimeFrame: domain.LastWeek})
	require.ErrorIs(t, err, resolver.ErrNoVideos)
	assert.Len(t, f.favs.List(ctx), 1, "nothing saved for a failed search")
}

func TestCoordinator_StartStop(t *testing.T) {
	f := setup(t, okResolve)
	ctx := context.Background()
	expired, fresh := f.add(t, "expired"), f.add(t, "fresh")
	f.favs.SetCache(ctx, fresh.ID, nil, domain.FavoriteCacheMeta{})
	f.coord.updateInterval = time.Hour

	f.coord.Start(ctx)
	require.Eventually(t, func() bool {
		_, ok := f.favs.GetCache(ctx, expired.ID)
		return ok
	}, 5*time.Second, 10*time.Millisecond)
	f.coord.Stop()

	calls := f.res.ResolveCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, expired.ID, calls[0].Req.FavoriteID)
}
