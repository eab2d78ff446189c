package domain

import (
	"fmt"
	"strings"
)

// SearchType selects how a favorite query is resolved
type SearchType string

// enum of search types
const (
	SearchChannel SearchType = "channel"
	SearchKeyword SearchType = "keyword"
)

// CoerceSearchType maps an arbitrary stored value to a known search type, channel by default
func CoerceSearchType(v string) SearchType {
	switch SearchType(v) {
	case SearchChannel, SearchKeyword:
		return SearchType(v)
	}
	return SearchChannel
}

// special values of Favorite.MaxResults
const (
	MaxResultsUnlimited = 0
	MaxResultsAuto      = -1
)

// Favorite is a saved search tracked for repeated refresh
type Favorite struct {
	ID         string     `json:"id"`
	Query      string     `json:"query"`
	TimeFrame  TimeFrame  `json:"timeFrame"`
	MaxResults int        `json:"maxResults"`
	SearchType SearchType `json:"searchType"`
	CreatedAt  int64      `json:"createdAt"` // epoch ms
	Label      string     `json:"label,omitempty"`
}

// FavoriteID builds the canonical identity of a favorite. Identical searches share one id.
func FavoriteID(query string, tf TimeFrame, maxResults int, st SearchType) string {
	return fmt.Sprintf("%s|%s|%d|%s", strings.ToLower(strings.TrimSpace(query)), tf, maxResults, st)
}

// DisplayName returns the label if set, otherwise the query
func (f Favorite) DisplayName() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Query
}

// FavoriteCacheMeta holds derived facts of the last successful refresh
type FavoriteCacheMeta struct {
	TotalInTimeFrame *int     `json:"totalInTimeFrame,omitempty"`
	TopVelocityVph   *float64 `json:"topVelocityVph,omitempty"`
	ChannelTitle     string   `json:"channelTitle,omitempty"`
	ChannelID        string   `json:"channelId,omitempty"`
}

// Truncated reports whether more videos exist in the time frame than the favorite shows.
// The total is counted before the shorts filter, so this may overstate truncation slightly.
func (m FavoriteCacheMeta) Truncated(maxResults int) bool {
	return maxResults > 0 && m.TotalInTimeFrame != nil && *m.TotalInTimeFrame > maxResults
}

// FavoriteCacheEntry is the cached result of a favorite refresh, keyed by favorite id
type FavoriteCacheEntry struct {
	Videos    []VideoData       `json:"videos"`
	FetchedAt int64             `json:"fetchedAt"` // epoch ms
	Meta      FavoriteCacheMeta `json:"meta"`
}

// MaxCachedVideos is the number of top videos kept per favorite
const MaxCachedVideos = 6
