package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/trendscope/pkg/dashboard"
	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/favorites"
	"github.com/umputun/trendscope/pkg/resolver"
	"github.com/umputun/trendscope/pkg/scheduler"
	"github.com/umputun/trendscope/pkg/youtube"
)

// favoriteView is a favorite with its cache and refresh state, as listed on the dashboard
type favoriteView struct {
	domain.Favorite
	Cache     *domain.FavoriteCacheEntry `json:"cache,omitempty"`
	State     scheduler.State            `json:"state"`
	Truncated bool                       `json:"truncated"`
}

// favoriteRequest is the body of a favorite creation
type favoriteRequest struct {
	Query      string `json:"query"`
	TimeFrame  string `json:"timeFrame"`
	MaxResults *int   `json:"maxResults"`
	SearchType string `json:"searchType"`
	Label      string `json:"label"`
	Analyze    bool   `json:"analyze"` // run the search first and seed the cache with it
}

// listFavoritesHandler returns favorites in the dashboard's sort order
func (s *Server) listFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cache := s.Favorites.AllCache(ctx)
	favs := s.sortedFavorites(ctx, cache)
	res := make([]favoriteView, 0, len(favs))
	for _, f := range favs {
		v := favoriteView{Favorite: f, State: s.Refresher.State(ctx, f.ID)}
		if e, ok := cache[f.ID]; ok {
			v.Cache = &e
			v.Truncated = e.Meta.Truncated(f.MaxResults)
		}
		res = append(res, v)
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// sortedFavorites returns favorites in the dashboard's sort order
func (s *Server) sortedFavorites(ctx context.Context, cache map[string]domain.FavoriteCacheEntry) []domain.Favorite {
	lookup := func(id string) (domain.FavoriteCacheEntry, bool) {
		e, ok := cache[id]
		return e, ok
	}
	return dashboard.SortFavorites(s.Favorites.List(ctx), s.Dashboard.Sort(ctx), lookup)
}

// addFavoriteHandler saves a favorite, optionally analyzing it right away
func (s *Server) addFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	in, err := req.input()
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	if !req.Analyze {
		fav, err := s.Favorites.Add(r.Context(), in)
		if err != nil {
			RenderError(w, r, err, errorStatus(err))
			return
		}
		RenderJSON(w, r, http.StatusCreated, fav)
		return
	}

	fav, res, err := s.Refresher.AnalyzeAndSave(r.Context(), in)
	if err != nil {
		lgr.Printf("[WARN] analyze %q failed: %v", in.Query, err)
		RenderError(w, r, err, errorStatus(err))
		return
	}
	RenderJSON(w, r, http.StatusCreated, rest.JSON{"favorite": fav, "search": res})
}

// updateFavoriteHandler changes time frame, max results or label of a favorite
func (s *Server) updateFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	var patch favorites.Patch
	if err := decodeJSON(r, &patch); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	if patch.TimeFrame != nil && !patch.TimeFrame.Valid() {
		RenderError(w, r, fmt.Errorf("unknown time frame %q", *patch.TimeFrame), http.StatusBadRequest)
		return
	}
	if patch.MaxResults != nil && *patch.MaxResults < domain.MaxResultsAuto {
		RenderError(w, r, fmt.Errorf("invalid max results %d", *patch.MaxResults), http.StatusBadRequest)
		return
	}

	fav, ok := s.Favorites.Update(r.Context(), r.PathValue("id"), patch)
	if !ok {
		RenderError(w, r, scheduler.ErrUnknownFavorite, http.StatusNotFound)
		return
	}
	RenderJSON(w, r, http.StatusOK, fav)
}

// deleteFavoriteHandler removes one favorite and its cache
func (s *Server) deleteFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	s.Favorites.Remove(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// clearFavoritesHandler removes every favorite
func (s *Server) clearFavoritesHandler(w http.ResponseWriter, r *http.Request) {
	s.Favorites.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// refreshAllHandler starts a refresh of every favorite in the background.
// force=false skips favorites with a valid cache.
func (s *Server) refreshAllHandler(w http.ResponseWriter, r *http.Request) {
	forced := r.URL.Query().Get("force") != "false"
	ctx := r.Context()
	favs := s.sortedFavorites(ctx, s.Favorites.AllCache(ctx))

	go func(ctx context.Context) {
		if err := s.Refresher.RefreshAll(ctx, favs, forced); err != nil {
			lgr.Printf("[WARN] refresh of %d favorites finished with errors: %v", len(favs), err)
		}
	}(s.background())

	RenderJSON(w, r, http.StatusAccepted, rest.JSON{"queued": len(favs), "forced": forced})
}

// refreshFavoriteHandler starts a forced refresh of one favorite in the background
func (s *Server) refreshFavoriteHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.Favorites.Get(r.Context(), id); !ok {
		RenderError(w, r, scheduler.ErrUnknownFavorite, http.StatusNotFound)
		return
	}

	go func(ctx context.Context) {
		if err := s.Refresher.RefreshByID(ctx, id); err != nil {
			lgr.Printf("[WARN] refresh of %s failed: %v", id, err)
		}
	}(s.background())

	RenderJSON(w, r, http.StatusAccepted, rest.JSON{"id": id})
}

// favoriteStateHandler returns the refresh state of one favorite
func (s *Server) favoriteStateHandler(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.Favorites.Get(r.Context(), id); !ok {
		RenderError(w, r, scheduler.ErrUnknownFavorite, http.StatusNotFound)
		return
	}
	RenderJSON(w, r, http.StatusOK, s.Refresher.State(r.Context(), id))
}

// input validates the request and converts it to a favorites input.
// Missing fields get the last 24 hours, automatic result count and channel search.
func (req favoriteRequest) input() (favorites.Input, error) {
	tf, err := parseTimeFrame(req.TimeFrame)
	if err != nil {
		return favorites.Input{}, err
	}
	maxResults := -1
	if req.MaxResults != nil {
		maxResults = *req.MaxResults
	}
	if maxResults < -1 {
		return favorites.Input{}, fmt.Errorf("invalid max results %d", maxResults)
	}
	return favorites.Input{
		Query:      req.Query,
		TimeFrame:  tf,
		MaxResults: maxResults,
		SearchType: domain.CoerceSearchType(req.SearchType),
		Label:      req.Label,
	}, nil
}

// parseTimeFrame accepts a known time frame code, empty means the last 24 hours
func parseTimeFrame(v string) (domain.TimeFrame, error) {
	if v == "" {
		return domain.Last24Hours, nil
	}
	tf := domain.TimeFrame(v)
	if !tf.Valid() {
		return "", fmt.Errorf("unknown time frame %q", v)
	}
	return tf, nil
}

// parseMaxResults reads the max results query value, -1 (automatic) if empty
func parseMaxResults(v string) (int, error) {
	if v == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < -1 {
		return 0, fmt.Errorf("invalid max results %q", v)
	}
	return n, nil
}

// errorStatus maps component errors to http status codes
func errorStatus(err error) int {
	var apiErr *youtube.APIError
	switch {
	case errors.Is(err, favorites.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, youtube.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, youtube.ErrInvalidCredential):
		return http.StatusUnauthorized
	case errors.Is(err, resolver.ErrNotFound), errors.Is(err, resolver.ErrNoVideos),
		errors.Is(err, scheduler.ErrUnknownFavorite):
		return http.StatusNotFound
	case errors.As(err, &apiErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
