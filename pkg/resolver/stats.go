package resolver

import (
	"context"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/youtube"
)

// fetchStats loads statistics for ids in parallel batches of 50 and drops shorts.
// Results keep the order of ids. A failed batch is dropped with a warning, except for
// credential and quota failures which abort the whole fetch.
func (r *Resolver) fetchStats(ctx context.Context, ids []string, withSnippet bool, cc domain.CallContext) ([]domain.VideoRecord, error) {
	var batches [][]string
	for i := 0; i < len(ids); i += youtube.PageSize {
		batches = append(batches, ids[i:min(i+youtube.PageSize, len(ids))])
	}

	results := make([][]domain.VideoRecord, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		g.Go(func() error {
			recs, err := r.provider.ListVideos(gctx, batch, withSnippet, cc)
			if err != nil {
				if youtube.IsCredentialError(err) {
					return err
				}
				lgr.Printf("[WARN] statistics batch %d of %d failed, %d videos dropped: %v", i+1, len(batches), len(batch), err)
				return nil
			}
			results[i] = inRequestOrder(batch, recs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var videos []domain.VideoRecord
	for _, batch := range results {
		for _, rec := range batch {
			if isShort(rec) {
				continue
			}
			videos = append(videos, rec)
		}
	}
	return videos, nil
}

// inRequestOrder arranges records in the order their ids were requested
func inRequestOrder(ids []string, recs []domain.VideoRecord) []domain.VideoRecord {
	byID := make(map[string]domain.VideoRecord, len(recs))
	for _, rec := range recs {
		byID[rec.ID] = rec
	}
	res := make([]domain.VideoRecord, 0, len(recs))
	for _, id := range ids {
		if rec, ok := byID[id]; ok {
			res = append(res, rec)
			delete(byID, id)
		}
	}
	return res
}

// isShort reports videos under three minutes, videos without a reported duration are kept
func isShort(rec domain.VideoRecord) bool {
	return rec.HasDuration && rec.Duration < shortsThreshold
}
