package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/highlights"
	"github.com/umputun/trendscope/pkg/resolver"
)

// hideRequest is the body of a hide call
type hideRequest struct {
	SourceID     string `json:"sourceId"`
	VideoTitle   string `json:"videoTitle"`
	ThumbnailURL string `json:"thumbnailUrl"`
	SourceLabel  string `json:"sourceLabel"`
}

// highlightsHandler returns the highlight rail without hidden videos
func (s *Server) highlightsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cache := s.Favorites.AllCache(ctx)
	hidden := s.Hidden.HiddenSet(ctx)

	res := highlights.Rail(s.sortedFavorites(ctx, cache),
		func(id string) (domain.FavoriteCacheEntry, bool) {
			e, ok := cache[id]
			return e, ok
		},
		func(videoID string) bool {
			_, ok := hidden[videoID]
			return ok
		})
	if res.Items == nil {
		res.Items = []highlights.Item{}
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// listHiddenHandler returns hidden videos, most recently hidden first
func (s *Server) listHiddenHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.Hidden.ListChronological(r.Context()))
}

// hideHandler hides a video from the rail
func (s *Server) hideHandler(w http.ResponseWriter, r *http.Request) {
	var req hideRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.SourceID) == "" {
		RenderError(w, r, errors.New("source id is required"), http.StatusBadRequest)
		return
	}

	videoID := r.PathValue("videoId")
	s.Hidden.Hide(r.Context(), req.SourceID, videoID, domain.HiddenMeta{
		VideoTitle:   req.VideoTitle,
		ThumbnailURL: req.ThumbnailURL,
		SourceLabel:  req.SourceLabel,
	})
	RenderJSON(w, r, http.StatusOK, rest.JSON{"videoId": videoID, "hidden": true})
}

// showHandler brings a hidden video back to the rail
func (s *Server) showHandler(w http.ResponseWriter, r *http.Request) {
	s.Hidden.Show(r.Context(), r.PathValue("videoId"))
	w.WriteHeader(http.StatusNoContent)
}

// clearHiddenHandler unhides everything
func (s *Server) clearHiddenHandler(w http.ResponseWriter, r *http.Request) {
	s.Hidden.ClearAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// quotaHandler returns today's quota usage and the call history
func (s *Server) quotaHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	RenderJSON(w, r, http.StatusOK, rest.JSON{"info": s.Quota.Info(ctx), "history": s.Quota.History(ctx)})
}

// getAPIKeyHandler reports whether a key is set, the key itself is masked
func (s *Server) getAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	key := s.Credentials.APIKey()
	RenderJSON(w, r, http.StatusOK, rest.JSON{"configured": key != "", "masked": maskKey(key)})
}

// setAPIKeyHandler stores a new api key
func (s *Server) setAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	key := strings.TrimSpace(req.APIKey)
	if key == "" {
		RenderError(w, r, errors.New("api key is required"), http.StatusBadRequest)
		return
	}
	s.Credentials.SetAPIKey(r.Context(), key)
	lgr.Printf("[INFO] api key updated")
	RenderJSON(w, r, http.StatusOK, rest.JSON{"configured": true, "masked": maskKey(key)})
}

// deleteAPIKeyHandler forgets the api key
func (s *Server) deleteAPIKeyHandler(w http.ResponseWriter, r *http.Request) {
	s.Credentials.SetAPIKey(r.Context(), "")
	lgr.Printf("[INFO] api key removed")
	w.WriteHeader(http.StatusNoContent)
}

// searchHandler runs a one-off analysis and remembers the query in the search history
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		RenderError(w, r, errors.New("query is required"), http.StatusBadRequest)
		return
	}
	tf, err := parseTimeFrame(q.Get("timeFrame"))
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	maxResults, err := parseMaxResults(q.Get("maxResults"))
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	s.Dashboard.AddHistory(ctx, query)
	res, err := s.Refresher.Search(ctx, resolver.Request{
		Query:      query,
		TimeFrame:  tf,
		MaxResults: maxResults,
		SearchType: domain.CoerceSearchType(q.Get("searchType")),
	})
	if errors.Is(err, resolver.ErrNoVideos) {
		RenderJSON(w, r, http.StatusOK, rest.JSON{"videos": []domain.VideoData{}, "displayName": query,
			"message": fmt.Sprintf("no videos in %s", tf)})
		return
	}
	if err != nil {
		lgr.Printf("[WARN] search %q failed: %v", query, err)
		RenderError(w, r, err, errorStatus(err))
		return
	}
	RenderJSON(w, r, http.StatusOK, res)
}

// suggestHandler returns channel suggestions for a partial name
func (s *Server) suggestHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.Suggester.SuggestChannels(r.Context(), r.URL.Query().Get("q")))
}

// maskKey keeps the last four characters of a key visible
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
