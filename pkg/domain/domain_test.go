package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFavoriteID(t *testing.T) {
	assert.Equal(t, "mkbhd|last_week|10|channel", FavoriteID("  MKBHD ", LastWeek, 10, SearchChannel))
	assert.Equal(t, "go generics|today|-1|keyword", FavoriteID("Go Generics", Today, MaxResultsAuto, SearchKeyword))
	assert.Equal(t, FavoriteID("abc", LastHour, 0, SearchChannel), FavoriteID("ABC", LastHour, 0, SearchChannel))
}

func TestCoerceTimeFrame(t *testing.T) {
	tests := []struct {
		in   string
		want TimeFrame
	}{
		{"last_week", LastWeek},
		{"last_6_months", Last6Months},
		{"Letzte Woche", LastWeek},
		{"Heute", Today},
		{"", Last24Hours},
		{"forever", Last24Hours},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceTimeFrame(tt.in))
		})
	}
}

func TestTimeFrame_Cutoff(t *testing.T) {
	now := time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(-time.Hour), LastHour.Cutoff(now))
	assert.Equal(t, now.Add(-28*24*time.Hour), Last4Weeks.Cutoff(now))
	assert.Equal(t, now.AddDate(0, -2, 0), Last2Months.Cutoff(now))
	assert.Equal(t, now.Add(-24*time.Hour), TimeFrame("bogus").Cutoff(now))
	assert.Equal(t, "2025-03-30T12:00:00Z", Today.PublishedAfter(now))
	assert.Len(t, TimeFrames, 21)
	for _, tf := range TimeFrames {
		assert.True(t, tf.Valid(), tf)
	}
}

func TestCoerceSearchType(t *testing.T) {
	assert.Equal(t, SearchKeyword, CoerceSearchType("keyword"))
	assert.Equal(t, SearchChannel, CoerceSearchType("channel"))
	assert.Equal(t, SearchChannel, CoerceSearchType("playlist"))
	assert.Equal(t, SearchChannel, CoerceSearchType(""))
}

func TestFavoriteCacheMeta_Truncated(t *testing.T) {
	total := 15
	m := FavoriteCacheMeta{TotalInTimeFrame: &total}
	assert.True(t, m.Truncated(10))
	assert.False(t, m.Truncated(15))
	assert.False(t, m.Truncated(MaxResultsAuto))
	assert.False(t, m.Truncated(MaxResultsUnlimited))
	assert.False(t, FavoriteCacheMeta{}.Truncated(10))
}

func TestThumbnails_Best(t *testing.T) {
	assert.Equal(t, "h", Thumbnails{High: "h", Medium: "m", Default: "d"}.Best())
	assert.Equal(t, "m", Thumbnails{Medium: "m", Default: "d"}.Best())
	assert.Equal(t, "d", Thumbnails{Default: "d"}.Best())
	assert.Empty(t, Thumbnails{}.Best())
}

func TestEndpoint_Cost(t *testing.T) {
	assert.Equal(t, 100, EndpointSearch.Cost())
	assert.Equal(t, 1, EndpointChannels.Cost())
	assert.Equal(t, 1, EndpointPlaylistItems.Cost())
	assert.Equal(t, 1, EndpointVideos.Cost())
}
