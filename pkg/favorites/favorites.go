// Package favorites stores saved searches and the cached result of their last refresh.
// Every mutation persists first and broadcasts afterwards.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/repository"
)

// CacheTTL is the default lifetime of a cached refresh result
const CacheTTL = 2 * time.Hour

// legacyMaxResults is used for stored records with an unreadable maxResults
const legacyMaxResults = 1000

// ErrEmptyQuery is returned when adding a favorite without a query
var ErrEmptyQuery = errors.New("favorite query is empty")

// Input describes a favorite to add
type Input struct {
	Query      string
	TimeFrame  domain.TimeFrame
	MaxResults int
	SearchType domain.SearchType // channel if empty
	Label      string
}

// Patch lists fields to change on an existing favorite, nil fields are kept
type Patch struct {
	TimeFrame  *domain.TimeFrame `json:"timeFrame,omitempty"`
	MaxResults *int              `json:"maxResults,omitempty"`
	Label      *string           `json:"label,omitempty"`
}

// Store manages favorites and their cache
type Store struct {
	store *repository.Store
	bus   events.Publisher
	now   func() time.Time

	mu sync.Mutex // guards read-modify-write of the favorites list and the cache map
}

// New makes a favorites store
func New(store *repository.Store, bus events.Publisher, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{store: store, bus: bus, now: now}
}

// Migrate normalises stored favorites once at startup. It re-derives ids from the raw records,
// coerces legacy time frames and string maxResults, drops records without a query and keeps the
// newest record per id. If anything changed the list is rewritten and the cache is wiped.
func (s *Store) Migrate(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.migrate(ctx)
}

// migrate does the work of Migrate, caller holds the lock. Records that are not objects are dropped.
func (s *Store) migrate(ctx context.Context) (changed bool) {
	raw := repository.Load(ctx, s.store, domain.KeyFavorites, []json.RawMessage{}, repository.ListOf[json.RawMessage]).Value

	byID := map[string]domain.Favorite{}
	for _, rec := range raw {
		var item map[string]any
		if err := json.Unmarshal(rec, &item); err != nil || item == nil {
			changed = true
			continue
		}
		query := strings.TrimSpace(stringField(item, "query"))
		if query == "" {
			changed = true
			continue
		}

		storedTF, storedST := stringField(item, "timeFrame"), stringField(item, "searchType")
		fav := domain.Favorite{
			Query:      query,
			TimeFrame:  domain.CoerceTimeFrame(storedTF),
			MaxResults: maxResultsField(item["maxResults"]),
			SearchType: domain.CoerceSearchType(storedST),
			CreatedAt:  s.now().UnixMilli(),
			Label:      strings.TrimSpace(stringField(item, "label")),
		}
		if ts, ok := item["createdAt"].(float64); ok {
			fav.CreatedAt = int64(ts)
		} else {
			changed = true
		}
		fav.ID = domain.FavoriteID(fav.Query, fav.TimeFrame, fav.MaxResults, fav.SearchType)

		if stringField(item, "id") != fav.ID || storedTF != string(fav.TimeFrame) || storedST == "" {
			changed = true
		}
		if _, ok := item["maxResults"].(float64); !ok {
			changed = true
		}

		if existing, ok := byID[fav.ID]; ok && existing.CreatedAt >= fav.CreatedAt {
			changed = true
			continue
		}
		byID[fav.ID] = fav
	}

	if !changed && len(byID) == len(raw) {
		return false
	}

	list := make([]domain.Favorite, 0, len(byID))
	for _, f := range byID {
		list = append(list, f)
	}
	sortNewestFirst(list)

	s.store.Save(ctx, domain.KeyFavorites, list)
	s.store.Save(ctx, domain.KeyFavoritesCache, map[string]domain.FavoriteCacheEntry{})
	return true
}

// List returns stored favorites, newest first
func (s *Store) List(ctx context.Context) []domain.Favorite {
	return s.list(ctx)
}

// Get returns the favorite with the given id
func (s *Store) Get(ctx context.Context, id string) (domain.Favorite, bool) {
	for _, f := range s.list(ctx) {
		if f.ID == id {
			return f, true
		}
	}
	return domain.Favorite{}, false
}

// Exists checks if a favorite with the same identity is stored
func (s *Store) Exists(ctx context.Context, query string, tf domain.TimeFrame, maxResults int, st domain.SearchType) bool {
	_, ok := s.Get(ctx, domain.FavoriteID(query, tf, maxResults, st))
	return ok
}

// Add stores a favorite. Adding an existing identity refreshes its createdAt and label in place.
func (s *Store) Add(ctx context.Context, in Input) (domain.Favorite, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return domain.Favorite{}, ErrEmptyQuery
	}
	st := in.SearchType
	if st == "" {
		st = domain.SearchChannel
	}

	s.mu.Lock()
	fav := domain.Favorite{
		ID:         domain.FavoriteID(query, in.TimeFrame, in.MaxResults, st),
		Query:      query,
		TimeFrame:  in.TimeFrame,
		MaxResults: in.MaxResults,
		SearchType: st,
		CreatedAt:  s.now().UnixMilli(),
		Label:      strings.TrimSpace(in.Label),
	}

	list := s.list(ctx)
	found := false
	for i, f := range list {
		if f.ID != fav.ID {
			continue
		}
		list[i].CreatedAt = fav.CreatedAt
		if fav.Label != "" {
			list[i].Label = fav.Label
		}
		fav, found = list[i], true
		break
	}
	if !found {
		list = append([]domain.Favorite{fav}, list...)
	}
	s.store.Save(ctx, domain.KeyFavorites, list)
	s.mu.Unlock()

	s.publish(domain.EventFavoritesChanged, nil)
	return fav, nil
}

// Update changes time frame, max results or label of a favorite. The id is recomputed, a different
// favorite already holding the new id is replaced, and cache entries of both ids are dropped.
// Returns false if id is unknown.
func (s *Store) Update(ctx context.Context, id string, p Patch) (domain.Favorite, bool) {
	s.mu.Lock()
	list := s.list(ctx)
	idx := -1
	for i, f := range list {
		if f.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return domain.Favorite{}, false
	}

	upd := list[idx]
	if p.TimeFrame != nil {
		upd.TimeFrame = *p.TimeFrame
	}
	if p.MaxResults != nil {
		upd.MaxResults = *p.MaxResults
	}
	if p.Label != nil {
		upd.Label = strings.TrimSpace(*p.Label)
	}
	upd.ID = domain.FavoriteID(upd.Query, upd.TimeFrame, upd.MaxResults, upd.SearchType)
	upd.CreatedAt = s.now().UnixMilli()

	res := []domain.Favorite{upd}
	for _, f := range list {
		if f.ID != id && f.ID != upd.ID {
			res = append(res, f)
		}
	}
	s.store.Save(ctx, domain.KeyFavorites, res)

	cache := s.cache(ctx)
	delete(cache, id)
	delete(cache, upd.ID)
	s.store.Save(ctx, domain.KeyFavoritesCache, cache)
	s.mu.Unlock()

	s.publish(domain.EventFavoritesChanged, nil)
	return upd, true
}

// Remove deletes a favorite and its cache entry
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	list := s.list(ctx)
	res := make([]domain.Favorite, 0, len(list))
	for _, f := range list {
		if f.ID != id {
			res = append(res, f)
		}
	}
	s.store.Save(ctx, domain.KeyFavorites, res)

	cache := s.cache(ctx)
	if _, ok := cache[id]; ok {
		delete(cache, id)
		s.store.Save(ctx, domain.KeyFavoritesCache, cache)
	}
	s.mu.Unlock()

	s.publish(domain.EventFavoritesChanged, nil)
}

// ClearAll deletes every favorite and the whole cache
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	s.store.Save(ctx, domain.KeyFavorites, []domain.Favorite{})
	s.store.Save(ctx, domain.KeyFavoritesCache, map[string]domain.FavoriteCacheEntry{})
	s.mu.Unlock()

	s.publish(domain.EventFavoritesChanged, nil)
}

// ReplaceAll swaps favorites and cache wholesale, used by backup import. Records are stored as
// given, legacy ones included, and normalised like Migrate does before the lock is released.
// Returns true if the records needed normalising, the cache is wiped in that case.
func (s *Store) ReplaceAll(ctx context.Context, records []json.RawMessage, cache map[string]domain.FavoriteCacheEntry) bool {
	if records == nil {
		records = []json.RawMessage{}
	}
	if cache == nil {
		cache = map[string]domain.FavoriteCacheEntry{}
	}

	s.mu.Lock()
	s.store.Save(ctx, domain.KeyFavorites, records)
	s.store.Save(ctx, domain.KeyFavoritesCache, cache)
	migrated := s.migrate(ctx)
	s.mu.Unlock()

	s.publish(domain.EventFavoritesChanged, nil)
	s.publish(domain.EventFavoritesCacheUpdated, domain.FavoriteRef{ID: domain.AllFavorites})
	return migrated
}

// GetCache returns the cache entry of a favorite, even an expired one
func (s *Store) GetCache(ctx context.Context, id string) (domain.FavoriteCacheEntry, bool) {
	entry, ok := s.cache(ctx)[id]
	return entry, ok
}

// AllCache returns the whole cache map keyed by favorite id
func (s *Store) AllCache(ctx context.Context) map[string]domain.FavoriteCacheEntry {
	return s.cache(ctx)
}

// SetCache stores the top videos by trending score as the new cache entry of a favorite
func (s *Store) SetCache(ctx context.Context, id string, videos []domain.VideoData, meta domain.FavoriteCacheMeta) {
	top := make([]domain.VideoData, len(videos))
	copy(top, videos)
	sort.SliceStable(top, func(i, j int) bool { return top[i].TrendingScore > top[j].TrendingScore })
	if len(top) > domain.MaxCachedVideos {
		top = top[:domain.MaxCachedVideos]
	}

	s.mu.Lock()
	cache := s.cache(ctx)
	cache[id] = domain.FavoriteCacheEntry{Videos: top, FetchedAt: s.now().UnixMilli(), Meta: meta}
	s.store.Save(ctx, domain.KeyFavoritesCache, cache)
	s.mu.Unlock()

	s.publish(domain.EventFavoritesCacheUpdated, domain.FavoriteRef{ID: id})
}

// IsCacheValid checks if the favorite has a cache entry younger than ttl
func (s *Store) IsCacheValid(ctx context.Context, id string, ttl time.Duration) bool {
	entry, ok := s.GetCache(ctx, id)
	if !ok {
		return false
	}
	return s.now().UnixMilli()-entry.FetchedAt < ttl.Milliseconds()
}

func (s *Store) list(ctx context.Context) []domain.Favorite {
	return repository.Load(ctx, s.store, domain.KeyFavorites, []domain.Favorite{}, repository.ListOf[domain.Favorite]).Value
}

func (s *Store) cache(ctx context.Context) map[string]domain.FavoriteCacheEntry {
	return repository.Load(ctx, s.store, domain.KeyFavoritesCache, map[string]domain.FavoriteCacheEntry{},
		repository.MapOf[string, domain.FavoriteCacheEntry]).Value
}

func (s *Store) publish(name string, payload any) {
	s.bus.Publish(events.Event{Name: name, Payload: payload})
}

func sortNewestFirst(list []domain.Favorite) {
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt > list[j].CreatedAt })
}

func stringField(item map[string]any, name string) string {
	v, _ := item[name].(string)
	return v
}

// maxResultsField reads maxResults stored either as a number or as a numeric string
func maxResultsField(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		if n, err := strconv.Atoi(leadingInt(strings.TrimSpace(val))); err == nil {
			return n
		}
	}
	return legacyMaxResults
}

// leadingInt returns the optional sign and digits at the start of s
func leadingInt(s string) string {
	end := 0
	for i, r := range s {
		if (r == '-' || r == '+') && i == 0 {
			end = 1
			continue
		}
		if r < '0' || r > '9' {
			break
		}
		end = i + 1
	}
	return s[:end]
}
