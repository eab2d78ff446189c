package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/repository"
	"github.com/umputun/trendscope/pkg/youtube"
)

// ChannelInfo is a resolved channel identity, cached forever by lowercased query
type ChannelInfo struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	UploadsPlaylistID string `json:"uploadsPlaylistId"`
}

// QueryType classifies a channel query as "handle" (starts with @) or "channel"
func QueryType(query string) string {
	if strings.HasPrefix(strings.TrimSpace(query), "@") {
		return "handle"
	}
	return "channel"
}

// ExtractChannelIdentifier pulls the handle, channel id or custom name out of a channel url.
// Anything that is not a youtube url is returned trimmed.
func ExtractChannelIdentifier(input string) string {
	trimmed := strings.TrimSpace(input)
	if !strings.Contains(trimmed, "youtube.com/") && !strings.Contains(trimmed, "youtu.be/") {
		return trimmed
	}

	raw := trimmed
	if !strings.HasPrefix(raw, "http") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return trimmed
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	switch {
	case strings.HasPrefix(segments[0], "@"):
		return segments[0]
	case (segments[0] == "channel" || segments[0] == "c" || segments[0] == "user") && len(segments) > 1 && segments[1] != "":
		return segments[1]
	}
	return trimmed
}

// looksLikeChannelID reports whether query can be looked up directly as a channel id
func looksLikeChannelID(query string) bool {
	return strings.HasPrefix(query, "UC") && len(query) >= 20
}

// FindChannel resolves a handle, channel id or free-text name to a channel. Handles and ids
// are looked up directly; if that fails for any reason other than the credential, the
// query goes through search. Results are cached without expiry.
func (r *Resolver) FindChannel(ctx context.Context, query string, override domain.CallContext) (ChannelInfo, error) {
	query = strings.TrimSpace(query)
	key := strings.ToLower(query)

	if info, ok := r.cachedChannel(ctx, key); ok {
		return info, nil
	}

	cc := mergeContext(domain.CallContext{Source: domain.SourceChannelInfo, Name: query, FavoriteType: QueryType(query)}, override)

	isHandle := QueryType(query) == "handle"
	if isHandle || looksLikeChannelID(query) {
		q := youtube.ChannelQuery{Handle: query}
		if !isHandle {
			q = youtube.ChannelQuery{IDs: []string{query}}
		}
		channels, err := r.provider.ListChannels(ctx, q, cc)
		switch {
		case err != nil && youtube.IsCredentialError(err):
			return ChannelInfo{}, err
		case err != nil:
			lgr.Printf("[DEBUG] direct lookup of %q failed, falling back to search: %v", query, err)
		case len(channels) > 0:
			info := ChannelInfo{ID: channels[0].ID, Name: channels[0].Title, UploadsPlaylistID: channels[0].UploadsPlaylistID}
			r.cacheChannel(ctx, key, info)
			return info, nil
		}
	}

	page, err := r.provider.Search(ctx, youtube.SearchQuery{Query: query, Type: "channel", MaxResults: 1}, cc)
	if err != nil {
		return ChannelInfo{}, fmt.Errorf("search channel %q: %w", query, err)
	}
	if len(page.Items) == 0 || page.Items[0].ChannelID == "" {
		return ChannelInfo{}, fmt.Errorf("channel %q: %w", query, ErrNotFound)
	}
	hit := page.Items[0]
	name := hit.ChannelTitle
	if name == "" {
		name = hit.Title
	}

	details, err := r.provider.ListChannels(ctx, youtube.ChannelQuery{IDs: []string{hit.ChannelID}}, cc)
	if err != nil {
		return ChannelInfo{}, fmt.Errorf("load channel details for %q: %w", query, err)
	}
	if len(details) == 0 {
		return ChannelInfo{}, fmt.Errorf("channel details for %q: %w", query, ErrNotFound)
	}

	info := ChannelInfo{ID: hit.ChannelID, Name: name, UploadsPlaylistID: details[0].UploadsPlaylistID}
	r.cacheChannel(ctx, key, info)
	return info, nil
}

func (r *Resolver) cachedChannel(ctx context.Context, key string) (ChannelInfo, bool) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cache := repository.Load(ctx, r.store, domain.KeyChannelCache, map[string]ChannelInfo{}, repository.MapOf[string, ChannelInfo]).Value
	info, ok := cache[key]
	return info, ok && info.UploadsPlaylistID != ""
}

func (r *Resolver) cacheChannel(ctx context.Context, key string, info ChannelInfo) {
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	cache := repository.Load(ctx, r.store, domain.KeyChannelCache, map[string]ChannelInfo{}, repository.MapOf[string, ChannelInfo]).Value
	cache[key] = info
	r.store.Save(ctx, domain.KeyChannelCache, cache)
}

// ChannelVideos pages through an uploads playlist and returns the videos of the time frame.
// Paging stops on an empty page, on a page with nothing inside the window, or after 100 pages.
func (r *Resolver) ChannelVideos(ctx context.Context, playlistID string, tf domain.TimeFrame, maxResults int,
	override domain.CallContext) (VideosResult, error) {
	effectiveMax := 0
	switch {
	case maxResults == domain.MaxResultsAuto:
		effectiveMax = AutoLimitChannel
	case maxResults > 0:
		effectiveMax = maxResults
	}
	cutoff := tf.Cutoff(r.now())
	cc := mergeContext(domain.CallContext{Source: domain.SourceChannel, FavoriteType: "channel"}, override)

	var items []youtube.PlaylistItem
	pageToken := ""
	for pages := 0; pages < maxChannelPages; pages++ {
		page, err := r.provider.ListPlaylistItems(ctx, playlistID, pageToken, cc)
		if err != nil {
			return VideosResult{}, fmt.Errorf("list uploads of %s: %w", playlistID, err)
		}
		if len(page.Items) == 0 {
			break
		}

		valid := 0
		for _, item := range page.Items {
			if !item.PublishedAt.IsZero() && !item.PublishedAt.Before(cutoff) {
				items = append(items, item)
				valid++
			}
		}
		// uploads come newest first, a fully stale page means the rest is stale too
		if valid == 0 {
			break
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	if len(items) == 0 {
		return VideosResult{Videos: []domain.VideoRecord{}}, nil
	}

	if effectiveMax > 0 {
		if limit := max(effectiveMax, youtube.PageSize); len(items) > limit {
			items = items[:limit]
		}
	}
	total := len(items)

	ids := make([]string, len(items))
	byID := make(map[string]youtube.PlaylistItem, len(items))
	for i, item := range items {
		ids[i] = item.VideoID
		byID[item.VideoID] = item
	}

	stats, err := r.fetchStats(ctx, ids, false, mergeContext(cc, domain.CallContext{Source: domain.SourceVideoStats}))
	if err != nil {
		return VideosResult{}, err
	}

	videos := make([]domain.VideoRecord, 0, len(stats))
	for _, rec := range stats {
		if item, ok := byID[rec.ID]; ok {
			rec.Title = item.Title
			rec.ChannelTitle = item.ChannelTitle
			rec.PublishedAt = item.PublishedAt
			rec.Thumbnails = item.Thumbnails
		}
		videos = append(videos, rec)
	}
	if effectiveMax > 0 && len(videos) > effectiveMax {
		videos = videos[:effectiveMax]
	}
	return VideosResult{Videos: videos, TotalInTimeFrame: total}, nil
}
