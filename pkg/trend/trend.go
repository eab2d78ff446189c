// Package trend scores videos by view velocity and engagement
package trend

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/umputun/trendscope/pkg/domain"
)

// score weights and reasoning tiers
const (
	velocityWeight   = 0.7
	engagementWeight = 0.3

	established = 100000 // views of an established video without any notable tier
)

// Analyze scores each record. The result depends only on records and now.
func Analyze(records []domain.VideoRecord, now time.Time) []domain.VideoData {
	res := make([]domain.VideoData, 0, len(records))
	for _, rec := range records {
		res = append(res, score(rec, now))
	}
	return res
}

func score(rec domain.VideoRecord, now time.Time) domain.VideoData {
	ageInHours := math.Max(1, now.Sub(rec.PublishedAt).Hours())
	views := float64(rec.ViewCount)
	viewsPerHour := views / ageInHours

	engagementRate := 0.0
	if rec.ViewCount > 0 {
		engagementRate = float64(rec.LikeCount+rec.CommentCount) / views * 100
	}

	velocityScore := math.Min(100, math.Log10(viewsPerHour+1)*20)
	engagementScore := math.Min(100, engagementRate*10)
	trendingScore := int(math.Round(velocityScore*velocityWeight + engagementScore*engagementWeight))

	var published int64
	if !rec.PublishedAt.IsZero() {
		published = rec.PublishedAt.UnixMilli()
	}

	return domain.VideoData{
		ID:                 rec.ID,
		Title:              rec.Title,
		URL:                "https://www.youtube.com/watch?v=" + rec.ID,
		ThumbnailURL:       rec.Thumbnails.Best(),
		Views:              rec.ViewCount,
		UploadTime:         humanize.RelTime(rec.PublishedAt, now, "ago", "from now"),
		PublishedTimestamp: published,
		TrendingScore:      max(0, min(100, trendingScore)),
		Reasoning:          reasoning(viewsPerHour, engagementRate, ageInHours, rec.ViewCount),
		ViewsPerHour:       math.Round(viewsPerHour*10) / 10,
	}
}

// reasoning describes which velocity, engagement and freshness tiers the video reached
func reasoning(viewsPerHour, engagementRate, ageInHours float64, views int64) string {
	var parts []string

	switch {
	case viewsPerHour > 10000:
		parts = append(parts, "Extremely high velocity")
	case viewsPerHour > 1000:
		parts = append(parts, "Very high velocity")
	case viewsPerHour > 100:
		parts = append(parts, "Good velocity")
	}

	switch {
	case engagementRate > 10:
		parts = append(parts, "exceptional engagement")
	case engagementRate > 5:
		parts = append(parts, "high engagement")
	case engagementRate > 2:
		parts = append(parts, "good engagement")
	}

	switch {
	case ageInHours < 2:
		parts = append(parts, "very fresh content")
	case ageInHours < 6:
		parts = append(parts, "fresh content")
	}

	if len(parts) == 0 {
		if views > established {
			return "Established performance with steady views"
		}
		return "Moderate performance"
	}
	return strings.Join(parts, ", ")
}

// TopN returns the n best videos by trending score, ties keep their input order
func TopN(videos []domain.VideoData, n int) []domain.VideoData {
	res := make([]domain.VideoData, len(videos))
	copy(res, videos)
	sort.SliceStable(res, func(i, j int) bool { return res[i].TrendingScore > res[j].TrendingScore })
	if n >= 0 && len(res) > n {
		res = res[:n]
	}
	return res
}

// MaxViewsPerHour returns the highest velocity, non-finite values count as zero
func MaxViewsPerHour(videos []domain.VideoData) float64 {
	best := 0.0
	for _, v := range videos {
		vph := v.ViewsPerHour
		if math.IsNaN(vph) || math.IsInf(vph, 0) {
			vph = 0
		}
		best = math.Max(best, vph)
	}
	return best
}
