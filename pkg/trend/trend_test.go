package trend

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/trendscope/pkg/domain"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func TestAnalyze(t *testing.T) {
	recs := []domain.VideoRecord{{
		ID:           "abc",
		Title:        "Title",
		PublishedAt:  now.Add(-10 * time.Hour),
		Thumbnails:   domain.Thumbnails{Medium: "m.jpg", Default: "d.jpg"},
		ViewCount:    10000,
		LikeCount:    400,
		CommentCount: 100,
	}}

	res := Analyze(recs, now)
	require.Len(t, res, 1)
	v := res[0]
	assert.Equal(t, "abc", v.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", v.URL)
	assert.Equal(t, "m.jpg", v.ThumbnailURL)
	assert.Equal(t, int64(10000), v.Views)
	assert.Equal(t, now.Add(-10*time.Hour).UnixMilli(), v.PublishedTimestamp)
	assert.Equal(t, "10 hours ago", v.UploadTime)
	assert.InDelta(t, 1000.0, v.ViewsPerHour, 0.001)

	// velocity log10(1001)*20 = 60.0087, engagement 5% * 10 = 50 -> 0.7*60.0087+0.3*50 = 57.006
	assert.Equal(t, 57, v.TrendingScore)
	assert.Equal(t, "Good velocity, good engagement", v.Reasoning)
}

func TestAnalyze_AgeFloor(t *testing.T) {
	res := Analyze([]domain.VideoRecord{{ID: "x", PublishedAt: now.Add(-10 * time.Minute), ViewCount: 500}}, now)
	assert.InDelta(t, 500.0, res[0].ViewsPerHour, 0.001, "age below one hour counts as one hour")
	assert.Equal(t, "Good velocity, very fresh content", res[0].Reasoning)
}

func TestAnalyze_ViewsPerHourRounding(t *testing.T) {
	res := Analyze([]domain.VideoRecord{{ID: "x", PublishedAt: now.Add(-3 * time.Hour), ViewCount: 100}}, now)
	assert.InDelta(t, 33.3, res[0].ViewsPerHour, 1e-9)
}

func TestReasoning(t *testing.T) {
	tests := []struct {
		name string
		vph  float64
		eng  float64
		age  float64
		vws  int64
		want string
	}{
		{"all tiers top", 20000, 11, 1, 0, "Extremely high velocity, exceptional engagement, very fresh content"},
		{"very high and high", 1500, 6, 5, 0, "Very high velocity, high engagement, fresh content"},
		{"boundaries are exclusive", 100, 2, 6, 0, "Moderate performance"},
		{"established", 50, 1, 48, 150000, "Established performance with steady views"},
		{"engagement only", 10, 3, 24, 0, "good engagement"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reasoning(tt.vph, tt.eng, tt.age, tt.vws))
		})
	}
}

func TestAnalyze_Bounds(t *testing.T) {
	rnd := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data
	recs := make([]domain.VideoRecord, 0, 2000)
	for i := 0; i < 2000; i++ {
		views := rnd.Int63n(1_000_000_000)
		recs = append(recs, domain.VideoRecord{
			ID:           "v",
			PublishedAt:  now.Add(-time.Duration(rnd.Int63n(int64(200 * 24 * time.Hour)))),
			ViewCount:    views,
			LikeCount:    rnd.Int63n(views + 1),
			CommentCount: rnd.Int63n(views + 1),
		})
	}
	// extremes
	recs = append(recs,
		domain.VideoRecord{ID: "zero"},
		domain.VideoRecord{ID: "future", PublishedAt: now.Add(time.Hour), ViewCount: math.MaxInt32},
		domain.VideoRecord{ID: "likes>views", PublishedAt: now, ViewCount: 1, LikeCount: 1_000_000},
	)

	for _, v := range Analyze(recs, now) {
		assert.GreaterOrEqual(t, v.TrendingScore, 0)
		assert.LessOrEqual(t, v.TrendingScore, 100)
		assert.False(t, math.IsNaN(v.ViewsPerHour))
	}
}

func TestAnalyze_Monotonic(t *testing.T) {
	published := now.Add(-24 * time.Hour)
	prev := -1
	for views := int64(50); views <= 100_000_000; views *= 3 {
		// same engagement rate (2%) and age, growing views
		rec := domain.VideoRecord{ID: "v", PublishedAt: published, ViewCount: views, LikeCount: views / 50}
		s := Analyze([]domain.VideoRecord{rec}, now)[0].TrendingScore
		assert.GreaterOrEqual(t, s, prev, "views %d", views)
		prev = s
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	recs := []domain.VideoRecord{
		{ID: "a", PublishedAt: now.Add(-5 * time.Hour), ViewCount: 12345, LikeCount: 321, CommentCount: 12},
		{ID: "b", PublishedAt: now.Add(-50 * time.Hour), ViewCount: 999, LikeCount: 3},
	}
	assert.Equal(t, Analyze(recs, now), Analyze(recs, now))
}

func TestTopN(t *testing.T) {
	videos := []domain.VideoData{
		{ID: "a", TrendingScore: 10}, {ID: "b", TrendingScore: 90}, {ID: "c", TrendingScore: 50},
		{ID: "d", TrendingScore: 90}, {ID: "e", TrendingScore: 5}, {ID: "f", TrendingScore: 70},
		{ID: "g", TrendingScore: 60},
	}
	top := TopN(videos, 6)
	ids := make([]string, 0, len(top))
	for _, v := range top {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []string{"b", "d", "f", "g", "c", "a"}, ids)
	assert.Equal(t, "a", videos[0].ID, "input untouched")
	assert.Len(t, TopN(videos[:2], 6), 2)
	assert.Empty(t, TopN(nil, 6))
}

func TestMaxViewsPerHour(t *testing.T) {
	assert.InDelta(t, 0.0, MaxViewsPerHour(nil), 0)
	assert.InDelta(t, 42.5, MaxViewsPerHour([]domain.VideoData{{ViewsPerHour: 3}, {ViewsPerHour: 42.5}, {ViewsPerHour: math.NaN()}}), 0)
	assert.InDelta(t, 1.0, MaxViewsPerHour([]domain.VideoData{{ViewsPerHour: math.Inf(1)}, {ViewsPerHour: 1}}), 0)
}
