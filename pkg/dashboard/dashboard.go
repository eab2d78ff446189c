// Package dashboard keeps the dashboard preferences: favorite ordering, search history,
// the explicit language override, and backup export and import.
package dashboard

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/repository"
)

// SortMode selects how favorites are ordered
type SortMode string

// enum of sort modes
const (
	SortAlpha    SortMode = "alpha"
	SortVelocity SortMode = "velocity"
)

// SortOrder is the direction of the ordering
type SortOrder string

// enum of sort orders
const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// MaxHistory is the number of remembered searches
const MaxHistory = 10

// SortPrefs is the stored favorite ordering
type SortPrefs struct {
	Mode  SortMode  `json:"sortMode"`
	Order SortOrder `json:"sortOrder"`
}

// FavoriteStore is the part of the favorites store used for backups
type FavoriteStore interface {
	List(ctx context.Context) []domain.Favorite
	AllCache(ctx context.Context) map[string]domain.FavoriteCacheEntry
	ReplaceAll(ctx context.Context, records []json.RawMessage, cache map[string]domain.FavoriteCacheEntry) bool
}

// Dashboard manages preferences stored next to the favorites
type Dashboard struct {
	store     *repository.Store
	favorites FavoriteStore
	now       func() time.Time

	mu sync.Mutex // guards read-modify-write of history and sort prefs
}

// New makes a Dashboard
func New(store *repository.Store, favs FavoriteStore, now func() time.Time) *Dashboard {
	if now == nil {
		now = time.Now
	}
	return &Dashboard{store: store, favorites: favs, now: now}
}

// Sort returns the stored ordering. Unknown modes fall back to alpha, a missing order
// defaults to descending for velocity and ascending for alpha.
func (d *Dashboard) Sort(ctx context.Context) SortPrefs {
	mode := SortMode(repository.Load(ctx, d.store, domain.KeyDashboardSort, "", nil).Value)
	if mode != SortVelocity {
		mode = SortAlpha
	}
	order := SortOrder(repository.Load(ctx, d.store, domain.KeyDashboardOrder, "", nil).Value)
	if order != OrderAsc && order != OrderDesc {
		order = defaultOrder(mode)
	}
	return SortPrefs{Mode: mode, Order: order}
}

// SetSort stores the ordering, invalid values are normalised the way Sort reads them
func (d *Dashboard) SetSort(ctx context.Context, p SortPrefs) SortPrefs {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saveSort(ctx, p)
}

// ToggleSort selects a mode. Selecting the active mode flips the order, selecting another
// mode resets the order to that mode's default.
func (d *Dashboard) ToggleSort(ctx context.Context, mode SortMode) SortPrefs {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.Sort(ctx)
	if mode == cur.Mode {
		if cur.Order == OrderAsc {
			cur.Order = OrderDesc
		} else {
			cur.Order = OrderAsc
		}
		return d.saveSort(ctx, cur)
	}
	return d.saveSort(ctx, SortPrefs{Mode: mode, Order: defaultOrder(mode)})
}

func (d *Dashboard) saveSort(ctx context.Context, p SortPrefs) SortPrefs {
	if p.Mode != SortVelocity {
		p.Mode = SortAlpha
	}
	if p.Order != OrderAsc && p.Order != OrderDesc {
		p.Order = defaultOrder(p.Mode)
	}
	d.store.Save(ctx, domain.KeyDashboardSort, string(p.Mode))
	d.store.Save(ctx, domain.KeyDashboardOrder, string(p.Order))
	return p
}

func defaultOrder(mode SortMode) SortOrder {
	if mode == SortVelocity {
		return OrderDesc
	}
	return OrderAsc
}

// SortFavorites returns favorites ordered by p. Alpha compares label or query in German
// collation. Velocity uses the cached top velocity, falling back to the best cached video,
// and breaks ties by name ascending.
func SortFavorites(favs []domain.Favorite, p SortPrefs, lookup func(id string) (domain.FavoriteCacheEntry, bool)) []domain.Favorite {
	res := make([]domain.Favorite, len(favs))
	copy(res, favs)
	coll := collate.New(language.German, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)

	if p.Mode != SortVelocity {
		sort.SliceStable(res, func(i, j int) bool {
			cmp := coll.CompareString(res[i].DisplayName(), res[j].DisplayName())
			if p.Order == OrderDesc {
				return cmp > 0
			}
			return cmp < 0
		})
		return res
	}

	vph := make(map[string]float64, len(res))
	for _, f := range res {
		vph[f.ID] = favoriteVelocity(lookup, f.ID)
	}
	sort.SliceStable(res, func(i, j int) bool {
		a, b := vph[res[i].ID], vph[res[j].ID]
		if a != b {
			if p.Order == OrderAsc {
				return a < b
			}
			return a > b
		}
		return coll.CompareString(res[i].DisplayName(), res[j].DisplayName()) < 0
	})
	return res
}

// favoriteVelocity returns the velocity a favorite sorts by, -1 if nothing is known
func favoriteVelocity(lookup func(id string) (domain.FavoriteCacheEntry, bool), id string) float64 {
	entry, ok := lookup(id)
	if !ok {
		return -1
	}
	if v := entry.Meta.TopVelocityVph; v != nil && finite(*v) {
		return *v
	}
	best := -1.0
	for _, v := range entry.Videos {
		if finite(v.ViewsPerHour) {
			best = math.Max(best, v.ViewsPerHour)
		}
	}
	return best
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// History returns recent searches, newest first
func (d *Dashboard) History(ctx context.Context) []string {
	return repository.Load(ctx, d.store, domain.KeySearchHistory, []string{}, repository.ListOf[string]).Value
}

// AddHistory puts a search on top of the history. Blank queries are ignored, an existing
// entry differing only in case is replaced.
func (d *Dashboard) AddHistory(ctx context.Context, query string) []string {
	q := strings.TrimSpace(query)
	d.mu.Lock()
	defer d.mu.Unlock()

	hist := d.History(ctx)
	if q == "" {
		return hist
	}
	res := []string{q}
	for _, h := range hist {
		if !strings.EqualFold(h, q) {
			res = append(res, h)
		}
	}
	if len(res) > MaxHistory {
		res = res[:MaxHistory]
	}
	d.store.Save(ctx, domain.KeySearchHistory, res)
	return res
}

// ClearHistory forgets all searches
func (d *Dashboard) ClearHistory(ctx context.Context) {
	d.store.Remove(ctx, domain.KeySearchHistory)
}
