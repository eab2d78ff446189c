package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/youtube"
)

// KeywordVideos runs a date ordered search bounded by the time frame and returns the hits
// with statistics. Auto mode considers 250 hits, unlimited mode 5000.
func (r *Resolver) KeywordVideos(ctx context.Context, keyword string, tf domain.TimeFrame, maxResults int,
	override domain.CallContext) (VideosResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return VideosResult{Videos: []domain.VideoRecord{}}, nil
	}

	cc := mergeContext(domain.CallContext{Source: domain.SourceKeyword, Name: keyword, FavoriteType: "keyword"}, override)
	effectiveMax := UnlimitedKeyword
	switch {
	case maxResults == domain.MaxResultsAuto:
		effectiveMax = AutoLimitKeyword
	case maxResults > 0:
		effectiveMax = maxResults
	}
	maxPages := (effectiveMax + youtube.PageSize - 1) / youtube.PageSize

	q := youtube.SearchQuery{
		Query:          keyword,
		Type:           "video",
		Order:          "date",
		PublishedAfter: tf.PublishedAfter(r.now()),
		MaxResults:     youtube.PageSize,
	}
	var ids []string
	for pages := 0; pages < maxPages && len(ids) < effectiveMax; pages++ {
		page, err := r.provider.Search(ctx, q, cc)
		if err != nil {
			return VideosResult{}, fmt.Errorf("search %q: %w", keyword, err)
		}
		if len(page.Items) == 0 {
			break
		}
		for _, item := range page.Items {
			if item.VideoID != "" {
				ids = append(ids, item.VideoID)
			}
		}
		if page.NextPageToken == "" {
			break
		}
		q.PageToken = page.NextPageToken
	}

	ids = dedup(ids)
	if len(ids) == 0 {
		return VideosResult{Videos: []domain.VideoRecord{}}, nil
	}
	if maxResults > 0 && len(ids) > maxResults {
		ids = ids[:maxResults]
	}
	total := len(ids)

	videos, err := r.fetchStats(ctx, ids, true, mergeContext(cc, domain.CallContext{Source: domain.SourceVideoStats}))
	if err != nil {
		return VideosResult{}, err
	}
	if len(videos) > effectiveMax {
		videos = videos[:effectiveMax]
	}
	if videos == nil {
		videos = []domain.VideoRecord{}
	}
	return VideosResult{Videos: videos, TotalInTimeFrame: total}, nil
}

// dedup removes repeated ids keeping the first occurrence
func dedup(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, id)
	}
	return res
}
