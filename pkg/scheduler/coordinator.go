// Package scheduler refreshes favorites. It owns the per-favorite refresh state, brackets every
// refresh with start and end events, staggers bulk refreshes and runs the periodic refresh loop.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/favorites"
	"github.com/umputun/trendscope/pkg/resolver"
	"github.com/umputun/trendscope/pkg/trend"
	"github.com/umputun/trendscope/pkg/youtube"
)

//go:generate moq -out mocks/resolver.go -pkg mocks -skip-ensure -fmt goimports . Resolver
//go:generate moq -out mocks/credentials.go -pkg mocks -skip-ensure -fmt goimports . Credentials

// ErrUnknownFavorite is returned for ids not in the favorites store
var ErrUnknownFavorite = errors.New("unknown favorite")

// Resolver fetches the videos of a search window
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) (resolver.Result, error)
}

// Credentials owns the stored api key, an empty key clears it
type Credentials interface {
	SetAPIKey(ctx context.Context, key string)
}

// FavoriteStore is the part of the favorites store used by the coordinator
type FavoriteStore interface {
	List(ctx context.Context) []domain.Favorite
	Get(ctx context.Context, id string) (domain.Favorite, bool)
	Add(ctx context.Context, in favorites.Input) (domain.Favorite, error)
	GetCache(ctx context.Context, id string) (domain.FavoriteCacheEntry, bool)
	SetCache(ctx context.Context, id string, videos []domain.VideoData, meta domain.FavoriteCacheMeta)
	IsCacheValid(ctx context.Context, id string, ttl time.Duration) bool
}

// Params holds coordinator dependencies and settings
type Params struct {
	Resolver    Resolver
	Favorites   FavoriteStore
	Credentials Credentials
	Bus         events.Publisher
	Now         func() time.Time

	CacheTTL       time.Duration // cache younger than this short-circuits unforced refreshes
	StaggerDelay   time.Duration // delay step between favorites of a bulk refresh
	UpdateInterval time.Duration // period of the background refresh loop

	// CredentialInvalid is called after the stored key was cleared because the provider
	// rejected it or its quota ran out
	CredentialInvalid func(err error)
}

// Options controls a single refresh
type Options struct {
	Forced       bool // ignore a valid cache
	StaggerIndex int  // position in a bulk refresh, the refresh waits StaggerIndex * StaggerDelay
}

// State is the refresh state of one favorite
type State struct {
	ID      string `json:"id"`
	Loading bool   `json:"loading"`
	Spinner bool   `json:"spinner"` // loading with nothing cached to show meanwhile
	Error   string `json:"error,omitempty"`
}

// SearchResult is a scored one-off search
type SearchResult struct {
	Videos           []domain.VideoData `json:"videos"`
	DisplayName      string             `json:"displayName"`
	ChannelID        string             `json:"channelId,omitempty"`
	TotalInTimeFrame int                `json:"totalInTimeFrame"`
}

type refreshState struct {
	inflight int
	lastErr  string
}

// Coordinator runs favorite refreshes
type Coordinator struct {
	resolver          Resolver
	favorites         FavoriteStore
	credentials       Credentials
	bus               events.Publisher
	now               func() time.Time
	ttl               time.Duration
	stagger           time.Duration
	updateInterval    time.Duration
	credentialInvalid func(err error)

	mu     sync.Mutex
	states map[string]*refreshState

	wg     sync.WaitGroup
	cancel context.CancelFunc
}

// NewCoordinator makes a coordinator, zero durations get defaults
func NewCoordinator(p Params) *Coordinator {
	if p.CacheTTL == 0 {
		p.CacheTTL = favorites.CacheTTL
	}
	if p.StaggerDelay == 0 {
		p.StaggerDelay = 300 * time.Millisecond
	}
	if p.UpdateInterval == 0 {
		p.UpdateInterval = 15 * time.Minute
	}
	if p.Now == nil {
		p.Now = time.Now
	}
	if p.Bus == nil {
		p.Bus = events.Nop{}
	}
	return &Coordinator{
		resolver:          p.Resolver,
		favorites:         p.Favorites,
		credentials:       p.Credentials,
		bus:               p.Bus,
		now:               p.Now,
		ttl:               p.CacheTTL,
		stagger:           p.StaggerDelay,
		updateInterval:    p.UpdateInterval,
		credentialInvalid: p.CredentialInvalid,
		states:            map[string]*refreshState{},
	}
}

// Refresh refreshes one favorite. Unforced refreshes with a valid cache return at once without
// events or provider calls.
func (c *Coordinator) Refresh(ctx context.Context, fav domain.Favorite, opts Options) error {
	if !opts.Forced && c.favorites.IsCacheValid(ctx, fav.ID, c.ttl) {
		return nil
	}
	c.begin(fav.ID)
	return c.run(ctx, fav, opts.StaggerIndex)
}

// RefreshByID force-refreshes the stored favorite with the given id
func (c *Coordinator) RefreshByID(ctx context.Context, id string) error {
	fav, ok := c.favorites.Get(ctx, id)
	if !ok {
		return fmt.Errorf("refresh %s: %w", id, ErrUnknownFavorite)
	}
	return c.Refresh(ctx, fav, Options{Forced: true})
}

// RefreshAll refreshes favorites concurrently. Start events of all refreshes are published
// before any of them waits for its stagger slot. Cancelling ctx aborts pending waits, each
// aborted refresh still publishes its end event. Returns the joined per-favorite errors.
func (c *Coordinator) RefreshAll(ctx context.Context, favs []domain.Favorite, forced bool) error {
	due := make([]domain.Favorite, 0, len(favs))
	for _, f := range favs {
		if forced || !c.favorites.IsCacheValid(ctx, f.ID, c.ttl) {
			due = append(due, f)
		}
	}
	if len(due) == 0 {
		return nil
	}

	for _, f := range due {
		c.begin(f.ID)
	}

	var mu sync.Mutex
	var errs []error
	var g errgroup.Group
	for i, f := range due {
		g.Go(func() error {
			if err := c.run(ctx, f, i); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// RefreshDue refreshes every stored favorite whose cache has expired
func (c *Coordinator) RefreshDue(ctx context.Context) error {
	favs := c.favorites.List(ctx)
	lgr.Printf("[DEBUG] checking %d favorites for expired cache", len(favs))
	return c.RefreshAll(ctx, favs, false)
}

// State returns the refresh state of a favorite
func (c *Coordinator) State(ctx context.Context, id string) State {
	c.mu.Lock()
	st := State{ID: id}
	if s, ok := c.states[id]; ok {
		st.Loading = s.inflight > 0
		st.Error = s.lastErr
	}
	c.mu.Unlock()

	if st.Loading {
		_, cached := c.favorites.GetCache(ctx, id)
		st.Spinner = !cached
	}
	return st
}

// Start runs the periodic refresh loop until Stop or ctx cancellation
func (c *Coordinator) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)
	c.wg.Add(1)
	go c.refreshWorker(ctx)
	lgr.Printf("[INFO] refresh coordinator started with update interval %v, cache ttl %v", c.updateInterval, c.ttl)
}

// Stop cancels the refresh loop and waits for it to finish
func (c *Coordinator) Stop() {
	lgr.Printf("[INFO] stopping refresh coordinator...")
	if c.cancel != nil {
		c.cancel()
	}
	c.wg.Wait()
	lgr.Printf("[INFO] refresh coordinator stopped")
}

func (c *Coordinator) refreshWorker(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.updateInterval)
	defer ticker.Stop()

	// run immediately on start
	c.refreshDue(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.refreshDue(ctx)
		}
	}
}

func (c *Coordinator) refreshDue(ctx context.Context) {
	if err := c.RefreshDue(ctx); err != nil {
		lgr.Printf("[WARN] periodic refresh finished with errors: %v", err)
	}
}

// Search resolves and scores a one-off search without touching the favorites cache
func (c *Coordinator) Search(ctx context.Context, req resolver.Request) (SearchResult, error) {
	res, err := c.resolver.Resolve(ctx, req)
	if err != nil {
		if youtube.IsCredentialError(err) {
			c.invalidateCredential(ctx, err)
		}
		return SearchResult{}, fmt.Errorf("search %q: %w", req.Query, err)
	}
	return SearchResult{
		Videos:           trend.Analyze(res.Videos, c.now()),
		DisplayName:      res.DisplayName,
		ChannelID:        res.ChannelID,
		TotalInTimeFrame: res.TotalInTimeFrame,
	}, nil
}

// AnalyzeAndSave runs a search, stores it as a favorite and seeds the favorite's cache with
// the search result
func (c *Coordinator) AnalyzeAndSave(ctx context.Context, in favorites.Input) (domain.Favorite, SearchResult, error) {
	st := in.SearchType
	if st == "" {
		st = domain.SearchChannel
	}
	id := domain.FavoriteID(in.Query, in.TimeFrame, in.MaxResults, st)
	res, err := c.Search(ctx, resolver.Request{Query: in.Query, TimeFrame: in.TimeFrame, MaxResults: in.MaxResults,
		SearchType: st, FavoriteID: id})
	if err != nil {
		return domain.Favorite{}, SearchResult{}, err
	}

	fav, err := c.favorites.Add(ctx, in)
	if err != nil {
		return domain.Favorite{}, SearchResult{}, fmt.Errorf("save favorite: %w", err)
	}
	c.favorites.SetCache(ctx, fav.ID, trend.TopN(res.Videos, domain.MaxCachedVideos), meta(res))
	return fav, res, nil
}

// begin marks a refresh in progress and publishes its start event
func (c *Coordinator) begin(id string) {
	c.mu.Lock()
	s, ok := c.states[id]
	if !ok {
		s = &refreshState{}
		c.states[id] = s
	}
	s.inflight++
	s.lastErr = ""
	c.mu.Unlock()

	c.bus.Publish(events.Event{Name: domain.EventFavoriteRefreshStart, Payload: domain.FavoriteRef{ID: id}})
}

// finish records the outcome of a refresh started by begin and publishes its end event
func (c *Coordinator) finish(id string, err error) {
	c.mu.Lock()
	if s, ok := c.states[id]; ok {
		s.inflight--
		if err != nil && !errors.Is(err, context.Canceled) {
			s.lastErr = err.Error()
		}
	}
	c.mu.Unlock()

	c.bus.Publish(events.Event{Name: domain.EventFavoriteRefreshEnd, Payload: domain.FavoriteRef{ID: id}})
}

// run waits for the stagger slot, fetches, scores and caches. Must follow begin.
func (c *Coordinator) run(ctx context.Context, fav domain.Favorite, staggerIndex int) (err error) {
	defer func() { c.finish(fav.ID, err) }()

	if err := c.wait(ctx, staggerIndex); err != nil {
		lgr.Printf("[DEBUG] refresh of %s cancelled before start", fav.ID)
		return fmt.Errorf("refresh %s: %w", fav.ID, err)
	}

	lgr.Printf("[DEBUG] refreshing favorite %s", fav.ID)
	res, err := c.resolver.Resolve(ctx, resolver.Request{Query: fav.Query, TimeFrame: fav.TimeFrame,
		MaxResults: fav.MaxResults, SearchType: fav.SearchType, FavoriteID: fav.ID})
	if err != nil && !errors.Is(err, resolver.ErrNoVideos) {
		if youtube.IsCredentialError(err) {
			c.invalidateCredential(ctx, err)
		}
		lgr.Printf("[WARN] failed to refresh favorite %s: %v", fav.ID, err)
		return fmt.Errorf("refresh %s: %w", fav.ID, err)
	}

	analyzed := trend.Analyze(res.Videos, c.now())
	sr := SearchResult{Videos: analyzed, DisplayName: res.DisplayName, ChannelID: res.ChannelID,
		TotalInTimeFrame: res.TotalInTimeFrame}
	c.favorites.SetCache(context.WithoutCancel(ctx), fav.ID, trend.TopN(analyzed, domain.MaxCachedVideos), meta(sr))
	lgr.Printf("[DEBUG] refreshed favorite %s, %d videos, %d in time frame", fav.ID, len(analyzed), res.TotalInTimeFrame)
	return nil
}

// wait blocks for the stagger slot of the given index, returns ctx error if cancelled first
func (c *Coordinator) wait(ctx context.Context, index int) error {
	if index <= 0 || c.stagger <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(time.Duration(index) * c.stagger)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ctx.Err()
	}
}

func (c *Coordinator) invalidateCredential(ctx context.Context, err error) {
	lgr.Printf("[WARN] api key rejected, clearing it: %v", err)
	if c.credentials != nil {
		c.credentials.SetAPIKey(context.WithoutCancel(ctx), "")
	}
	if c.credentialInvalid != nil {
		c.credentialInvalid(err)
	}
}

// meta derives the cache meta of a scored result, velocity is taken over all videos
func meta(sr SearchResult) domain.FavoriteCacheMeta {
	total, vph := sr.TotalInTimeFrame, trend.MaxViewsPerHour(sr.Videos)
	return domain.FavoriteCacheMeta{TotalInTimeFrame: &total, TopVelocityVph: &vph,
		ChannelTitle: sr.DisplayName, ChannelID: sr.ChannelID}
}
