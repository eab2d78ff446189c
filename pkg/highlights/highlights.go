// Package highlights picks the best video of every favorite for the dashboard rail and keeps
// the ledger of videos the user hid from it.
package highlights

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/umputun/trendscope/pkg/domain"
)

// Item is a video picked for the rail with its source favorite
type Item struct {
	Video       domain.VideoData `json:"video"`
	SourceID    string           `json:"sourceId"`
	SourceLabel string           `json:"sourceLabel"`
	SourceRank  int              `json:"sourceRank"` // 1-based rank within the favorite
}

// Options limits the selection
type Options struct {
	PerFavorite int // videos taken per favorite, 1 if not positive
	MaxTotal    int // cap of the whole selection, 0 selects nothing, negative means no cap
}

// CacheLookup returns the cache entry of a favorite
type CacheLookup func(id string) (domain.FavoriteCacheEntry, bool)

// Select takes the top videos by trending score of each favorite in the given order until
// MaxTotal items are collected. Favorites without cached videos are skipped.
func Select(favs []domain.Favorite, lookup CacheLookup, opts Options) []Item {
	if opts.PerFavorite <= 0 {
		opts.PerFavorite = 1
	}
	if opts.MaxTotal < 0 {
		opts.MaxTotal = math.MaxInt
	}

	res := []Item{}
	for _, fav := range favs {
		if len(res) >= opts.MaxTotal {
			break
		}
		entry, ok := lookup(fav.ID)
		if !ok || len(entry.Videos) == 0 {
			continue
		}

		videos := make([]domain.VideoData, len(entry.Videos))
		copy(videos, entry.Videos)
		sort.SliceStable(videos, func(i, j int) bool { return videos[i].TrendingScore > videos[j].TrendingScore })

		label := fav.Label
		if label == "" {
			label = entry.Meta.ChannelTitle
		}
		if label == "" {
			label = fav.Query
		}

		for i := 0; i < opts.PerFavorite && i < len(videos) && len(res) < opts.MaxTotal; i++ {
			res = append(res, Item{Video: videos[i], SourceID: fav.ID, SourceLabel: label, SourceRank: i + 1})
		}
	}
	return res
}

// SortRail orders items in place by velocity, then trending score, then source label.
// Labels compare in German collation ignoring case and diacritics.
func SortRail(items []Item) {
	coll := collate.New(language.German, collate.IgnoreCase, collate.IgnoreDiacritics, collate.IgnoreWidth)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := railVelocity(items[i].Video.ViewsPerHour), railVelocity(items[j].Video.ViewsPerHour)
		if a != b {
			return a > b
		}
		if items[i].Video.TrendingScore != items[j].Video.TrendingScore {
			return items[i].Video.TrendingScore > items[j].Video.TrendingScore
		}
		return coll.CompareString(items[i].SourceLabel, items[j].SourceLabel) < 0
	})
}

// FilterHidden drops items whose video is hidden and reports how many were dropped
func FilterHidden(items []Item, isHidden func(videoID string) bool) (visible []Item, hiddenCount int) {
	visible = make([]Item, 0, len(items))
	for _, it := range items {
		if isHidden(it.Video.ID) {
			hiddenCount++
			continue
		}
		visible = append(visible, it)
	}
	return visible, hiddenCount
}

// RailResult is the rail as shown on the dashboard
type RailResult struct {
	Items       []Item `json:"items"`
	HiddenCount int    `json:"hiddenCount"`
}

// Rail selects one video per favorite, sorts them and filters hidden videos
func Rail(favs []domain.Favorite, lookup CacheLookup, isHidden func(videoID string) bool) RailResult {
	items := Select(favs, lookup, Options{PerFavorite: 1, MaxTotal: len(favs)})
	SortRail(items)
	visible, hidden := FilterHidden(items, isHidden)
	return RailResult{Items: visible, HiddenCount: hidden}
}

// railVelocity maps non-finite velocity to -1 so it sorts last
func railVelocity(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return -1
	}
	return v
}
