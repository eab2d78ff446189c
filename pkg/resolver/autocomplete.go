package resolver

import (
	"context"
	"strings"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/repository"
	"github.com/umputun/trendscope/pkg/youtube"
)

// AutocompleteTTL is how long channel suggestions stay cached
const AutocompleteTTL = 5 * time.Minute

const suggestionsLimit = 5

// ChannelSuggestion is one autocomplete hit
type ChannelSuggestion struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Handle       string `json:"handle,omitempty"`
}

type autocompleteEntry struct {
	Results   []ChannelSuggestion `json:"results"`
	Timestamp int64               `json:"timestamp"` // epoch ms
}

// SuggestChannels returns up to five channels matching query. Queries shorter than two
// characters and any failure give an empty list.
func (r *Resolver) SuggestChannels(ctx context.Context, query string) []ChannelSuggestion {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < 2 {
		return []ChannelSuggestion{}
	}
	key := strings.ToLower(query)
	now := r.now().UnixMilli()

	if cached, ok := r.cachedSuggestions(ctx, key, now); ok {
		return cached
	}

	cc := domain.CallContext{Source: domain.SourceAutocomplete, Name: query}
	page, err := r.provider.Search(ctx, youtube.SearchQuery{Query: query, Type: "channel", MaxResults: suggestionsLimit}, cc)
	if err != nil {
		lgr.Printf("[DEBUG] channel suggestions for %q failed: %v", query, err)
		return []ChannelSuggestion{}
	}

	var ids []string
	for _, item := range page.Items {
		if item.ChannelID != "" {
			ids = append(ids, item.ChannelID)
		}
	}

	// search hits carry unreliable channel thumbnails, one channels call fixes them for all
	details := map[string]youtube.Channel{}
	if len(ids) > 0 {
		channels, err := r.provider.ListChannels(ctx, youtube.ChannelQuery{IDs: ids}, cc)
		if err != nil {
			lgr.Printf("[DEBUG] channel details for suggestions failed, using search thumbnails: %v", err)
		}
		for _, ch := range channels {
			details[ch.ID] = ch
		}
	}

	results := make([]ChannelSuggestion, 0, len(page.Items))
	for _, item := range page.Items {
		s := ChannelSuggestion{ID: item.ChannelID, Title: item.ChannelTitle, ThumbnailURL: item.Thumbnails.Default}
		if s.Title == "" {
			s.Title = item.Title
		}
		if ch, ok := details[item.ChannelID]; ok {
			if thumb := firstNonEmpty(ch.Thumbnails.Default, ch.Thumbnails.Medium, ch.Thumbnails.High); thumb != "" {
				s.ThumbnailURL = thumb
			}
			s.Handle = ch.Handle
		}
		results = append(results, s)
	}

	r.cacheSuggestions(ctx, key, results, now)
	return results
}

func (r *Resolver) cachedSuggestions(ctx context.Context, key string, now int64) ([]ChannelSuggestion, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	entry, ok := r.loadAutocomplete(ctx)[key]
	if !ok || now-entry.Timestamp > AutocompleteTTL.Milliseconds() || entry.Results == nil {
		return nil, false
	}
	return entry.Results, true
}

// cacheSuggestions stores results and prunes expired entries
func (r *Resolver) cacheSuggestions(ctx context.Context, key string, results []ChannelSuggestion, now int64) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cache := r.loadAutocomplete(ctx)
	for k, e := range cache {
		if now-e.Timestamp > AutocompleteTTL.Milliseconds() {
			delete(cache, k)
		}
	}
	cache[key] = autocompleteEntry{Results: results, Timestamp: now}
	r.store.Save(ctx, domain.KeyAutocompleteCache, cache)
}

// loadAutocomplete reads the suggestion cache, callers hold cacheMu
func (r *Resolver) loadAutocomplete(ctx context.Context) map[string]autocompleteEntry {
	return repository.Load(ctx, r.store, domain.KeyAutocompleteCache, map[string]autocompleteEntry{},
		repository.MapOf[string, autocompleteEntry]).Value
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
