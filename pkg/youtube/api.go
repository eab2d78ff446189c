package youtube

import (
	"context"
	"time"

	"google.golang.org/api/youtube/v3"

	"github.com/umputun/trendscope/pkg/domain"
)

// PageSize is the largest page the provider returns
const PageSize = 50

// Channel is a resolved channel identity
type Channel struct {
	ID                string
	Title             string
	Handle            string // custom url, like @name
	UploadsPlaylistID string
	Thumbnails        domain.Thumbnails
}

// ChannelQuery selects channels either by handle or by ids
type ChannelQuery struct {
	Handle string
	IDs    []string
}

// PlaylistItem is one entry of an uploads playlist
type PlaylistItem struct {
	VideoID      string
	Title        string
	ChannelTitle string
	PublishedAt  time.Time
	Thumbnails   domain.Thumbnails
}

// PlaylistPage is one page of playlist items
type PlaylistPage struct {
	Items         []PlaylistItem
	NextPageToken string
}

// SearchQuery is a full-text search request
type SearchQuery struct {
	Query          string
	Type           string // video or channel
	Order          string // empty for relevance
	PublishedAfter string // RFC3339, empty for no bound
	MaxResults     int
	PageToken      string
}

// SearchItem is one search hit, VideoID is empty for channel hits
type SearchItem struct {
	VideoID      string
	ChannelID    string
	Title        string
	ChannelTitle string
	Thumbnails   domain.Thumbnails
}

// SearchPage is one page of search hits
type SearchPage struct {
	Items         []SearchItem
	NextPageToken string
}

// ListChannels looks channels up by handle or ids, with snippet and content details
func (c *Client) ListChannels(ctx context.Context, q ChannelQuery, cc domain.CallContext) ([]Channel, error) {
	var res []Channel
	err := c.call(ctx, domain.EndpointChannels, cc, func(ctx context.Context, svc *youtube.Service) error {
		call := svc.Channels.List([]string{"snippet", "contentDetails"}).Context(ctx)
		if q.Handle != "" {
			call = call.ForHandle(q.Handle)
		} else {
			call = call.Id(q.IDs...).MaxResults(PageSize)
		}
		resp, err := call.Do()
		if err != nil {
			return err
		}
		for _, item := range resp.Items {
			ch := Channel{ID: item.Id}
			if item.Snippet != nil {
				ch.Title = item.Snippet.Title
				ch.Handle = item.Snippet.CustomUrl
				ch.Thumbnails = thumbnails(item.Snippet.Thumbnails)
			}
			if item.ContentDetails != nil && item.ContentDetails.RelatedPlaylists != nil {
				ch.UploadsPlaylistID = item.ContentDetails.RelatedPlaylists.Uploads
			}
			res = append(res, ch)
		}
		return nil
	})
	return res, err
}

// ListPlaylistItems returns one page of a playlist
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID, pageToken string, cc domain.CallContext) (PlaylistPage, error) {
	var page PlaylistPage
	err := c.call(ctx, domain.EndpointPlaylistItems, cc, func(ctx context.Context, svc *youtube.Service) error {
		call := svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(PageSize).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return err
		}
		page.NextPageToken = resp.NextPageToken
		for _, item := range resp.Items {
			pi := PlaylistItem{}
			if item.ContentDetails != nil {
				pi.VideoID = item.ContentDetails.VideoId
			}
			if item.Snippet != nil {
				pi.Title = item.Snippet.Title
				pi.ChannelTitle = item.Snippet.ChannelTitle
				pi.PublishedAt = parseTime(item.Snippet.PublishedAt)
				pi.Thumbnails = thumbnails(item.Snippet.Thumbnails)
				if pi.VideoID == "" && item.Snippet.ResourceId != nil {
					pi.VideoID = item.Snippet.ResourceId.VideoId
				}
			}
			page.Items = append(page.Items, pi)
		}
		return nil
	})
	return page, err
}

// Search runs a full-text search, costs 100 units per page
func (c *Client) Search(ctx context.Context, q SearchQuery, cc domain.CallContext) (SearchPage, error) {
	var page SearchPage
	err := c.call(ctx, domain.EndpointSearch, cc, func(ctx context.Context, svc *youtube.Service) error {
		call := svc.Search.List([]string{"snippet"}).Q(q.Query).Context(ctx)
		if q.Type != "" {
			call = call.Type(q.Type)
		}
		if q.Order != "" {
			call = call.Order(q.Order)
		}
		if q.PublishedAfter != "" {
			call = call.PublishedAfter(q.PublishedAfter)
		}
		if q.MaxResults > 0 {
			call = call.MaxResults(int64(q.MaxResults))
		}
		if q.PageToken != "" {
			call = call.PageToken(q.PageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return err
		}
		page.NextPageToken = resp.NextPageToken
		for _, item := range resp.Items {
			si := SearchItem{}
			if item.Id != nil {
				si.VideoID = item.Id.VideoId
				si.ChannelID = item.Id.ChannelId
			}
			if item.Snippet != nil {
				si.Title = item.Snippet.Title
				si.ChannelTitle = item.Snippet.ChannelTitle
				si.Thumbnails = thumbnails(item.Snippet.Thumbnails)
				if si.ChannelID == "" {
					si.ChannelID = item.Snippet.ChannelId
				}
			}
			page.Items = append(page.Items, si)
		}
		return nil
	})
	return page, err
}

// ListVideos fetches statistics and durations for up to 50 ids. Snippet fields are filled
// only with withSnippet, callers that already know them from the playlist skip them.
func (c *Client) ListVideos(ctx context.Context, ids []string, withSnippet bool, cc domain.CallContext) ([]domain.VideoRecord, error) {
	parts := []string{"statistics", "contentDetails"}
	if withSnippet {
		parts = append([]string{"snippet"}, parts...)
	}

	var res []domain.VideoRecord
	err := c.call(ctx, domain.EndpointVideos, cc, func(ctx context.Context, svc *youtube.Service) error {
		resp, err := svc.Videos.List(parts).Id(ids...).Context(ctx).Do()
		if err != nil {
			return err
		}
		for _, item := range resp.Items {
			rec := domain.VideoRecord{ID: item.Id}
			if item.Snippet != nil {
				rec.Title = item.Snippet.Title
				rec.ChannelTitle = item.Snippet.ChannelTitle
				rec.PublishedAt = parseTime(item.Snippet.PublishedAt)
				rec.Thumbnails = thumbnails(item.Snippet.Thumbnails)
			}
			if item.Statistics != nil {
				rec.ViewCount = int64(item.Statistics.ViewCount)       //nolint:gosec // counts fit int64
				rec.LikeCount = int64(item.Statistics.LikeCount)       //nolint:gosec // counts fit int64
				rec.CommentCount = int64(item.Statistics.CommentCount) //nolint:gosec // counts fit int64
			}
			if item.ContentDetails != nil && item.ContentDetails.Duration != "" {
				rec.HasDuration = true
				rec.Duration = parseDuration(item.ContentDetails.Duration)
			}
			res = append(res, rec)
		}
		return nil
	})
	return res, err
}

func thumbnails(td *youtube.ThumbnailDetails) domain.Thumbnails {
	var res domain.Thumbnails
	if td == nil {
		return res
	}
	if td.High != nil {
		res.High = td.High.Url
	}
	if td.Medium != nil {
		res.Medium = td.Medium.Url
	}
	if td.Default != nil {
		res.Default = td.Default.Url
	}
	return res
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
