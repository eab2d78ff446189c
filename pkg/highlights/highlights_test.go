package highlights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/trendscope/pkg/domain"
)

func lookupOf(cache map[string]domain.FavoriteCacheEntry) CacheLookup {
	return func(id string) (domain.FavoriteCacheEntry, bool) {
		e, ok := cache[id]
		return e, ok
	}
}

func TestSelect(t *testing.T) {
	favs := []domain.Favorite{
		{ID: "a", Query: "qa", Label: "Label A"},
		{ID: "b", Query: "qb"},
		{ID: "c", Query: "qc"},
		{ID: "d", Query: "qd"},
	}
	cache := map[string]domain.FavoriteCacheEntry{
		"a": {Videos: []domain.VideoData{{ID: "a1", TrendingScore: 10}, {ID: "a2", TrendingScore: 90}}},
		"b": {Videos: []domain.VideoData{{ID: "b1", TrendingScore: 40}}, Meta: domain.FavoriteCacheMeta{ChannelTitle: "Chan B"}},
		"c": {Videos: []domain.VideoData{}},
		"d": {Videos: []domain.VideoData{{ID: "d1", TrendingScore: 5}}},
	}

	t.Run("defaults", func(t *testing.T) {
		res := Select(favs, lookupOf(cache), Options{MaxTotal: -1})
		require.Len(t, res, 3)
		assert.Equal(t, Item{Video: domain.VideoData{ID: "a2", TrendingScore: 90}, SourceID: "a", SourceLabel: "Label A", SourceRank: 1}, res[0])
		assert.Equal(t, "Chan B", res[1].SourceLabel, "channel title if no label")
		assert.Equal(t, "qd", res[2].SourceLabel, "query as last resort")
	})

	t.Run("per favorite and cap", func(t *testing.T) {
		res := Select(favs, lookupOf(cache), Options{PerFavorite: 2, MaxTotal: 3})
		require.Len(t, res, 3)
		assert.Equal(t, "a2", res[0].Video.ID)
		assert.Equal(t, "a1", res[1].Video.ID)
		assert.Equal(t, 2, res[1].SourceRank)
		assert.Equal(t, "b1", res[2].Video.ID)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, Select(nil, lookupOf(cache), Options{MaxTotal: -1}))
		assert.Empty(t, Select(favs, lookupOf(nil), Options{MaxTotal: -1}))
		assert.Empty(t, Select(favs, lookupOf(cache), Options{MaxTotal: 0}), "zero cap selects nothing")
	})

	assert.Equal(t, 10, cache["a"].Videos[0].TrendingScore, "cached slice untouched")
}

func TestSortRail(t *testing.T) {
	items := []Item{
		{Video: domain.VideoData{ID: "nan", ViewsPerHour: math.NaN(), TrendingScore: 99}, SourceLabel: "x"},
		{Video: domain.VideoData{ID: "slow", ViewsPerHour: 5, TrendingScore: 50}, SourceLabel: "x"},
		{Video: domain.VideoData{ID: "fast", ViewsPerHour: 500, TrendingScore: 10}, SourceLabel: "x"},
		{Video: domain.VideoData{ID: "tie-high", ViewsPerHour: 50, TrendingScore: 80}, SourceLabel: "x"},
		{Video: domain.VideoData{ID: "tie-zebra", ViewsPerHour: 50, TrendingScore: 20}, SourceLabel: "Zebra"},
		{Video: domain.VideoData{ID: "tie-apfel", ViewsPerHour: 50, TrendingScore: 20}, SourceLabel: "äpfel"},
		{Video: domain.VideoData{ID: "tie-birne", ViewsPerHour: 50, TrendingScore: 20}, SourceLabel: "Birne"},
		{Video: domain.VideoData{ID: "inf", ViewsPerHour: math.Inf(1)}, SourceLabel: "x"},
	}
	SortRail(items)

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.Video.ID)
	}
	assert.Equal(t, []string{"fast", "tie-high", "tie-apfel", "tie-birne", "tie-zebra", "slow", "nan", "inf"}, ids)
}

func TestFilterHidden(t *testing.T) {
	items := []Item{{Video: domain.VideoData{ID: "v1"}}, {Video: domain.VideoData{ID: "v2"}}, {Video: domain.VideoData{ID: "v3"}}}
	visible, hidden := FilterHidden(items, func(id string) bool { return id == "v2" })
	assert.Equal(t, 1, hidden)
	require.Len(t, visible, 2)
	assert.Equal(t, "v1", visible[0].Video.ID)
	assert.Equal(t, "v3", visible[1].Video.ID)
}

func TestRail(t *testing.T) {
	favs := []domain.Favorite{{ID: "a", Query: "a"}, {ID: "b", Query: "b"}, {ID: "c", Query: "c"}}
	cache := map[string]domain.FavoriteCacheEntry{
		"a": {Videos: []domain.VideoData{{ID: "a1", ViewsPerHour: 10}}},
		"b": {Videos: []domain.VideoData{{ID: "b1", ViewsPerHour: 30}}},
		"c": {Videos: []domain.VideoData{{ID: "c1", ViewsPerHour: 20}}},
	}
	res := Rail(favs, lookupOf(cache), func(id string) bool { return id == "c1" })
	assert.Equal(t, 1, res.HiddenCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "b1", res.Items[0].Video.ID)
	assert.Equal(t, "a1", res.Items[1].Video.ID)
}
