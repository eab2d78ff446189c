// Package resolver turns a favorite query into a bounded, deduplicated and time filtered set
// of videos with statistics, making as few provider calls as it can.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/repository"
	"github.com/umputun/trendscope/pkg/youtube"
)

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . Provider

// Provider is the subset of the provider client used here
type Provider interface {
	ListChannels(ctx context.Context, q youtube.ChannelQuery, cc domain.CallContext) ([]youtube.Channel, error)
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string, cc domain.CallContext) (youtube.PlaylistPage, error)
	Search(ctx context.Context, q youtube.SearchQuery, cc domain.CallContext) (youtube.SearchPage, error)
	ListVideos(ctx context.Context, ids []string, withSnippet bool, cc domain.CallContext) ([]domain.VideoRecord, error)
}

// errors returned by the resolver
var (
	ErrNotFound = errors.New("channel not found")
	ErrNoVideos = errors.New("no videos in time frame")
)

// limits of the fetch pipeline
const (
	AutoLimitChannel = 500  // channel videos considered in auto mode
	AutoLimitKeyword = 250  // keyword hits considered in auto mode
	UnlimitedKeyword = 5000 // keyword hits considered in unlimited mode
	maxChannelPages  = 100
	shortsThreshold  = 180 * time.Second
)

// Request is one resolve call
type Request struct {
	Query      string
	TimeFrame  domain.TimeFrame
	MaxResults int
	SearchType domain.SearchType
	FavoriteID string // attributed in quota history, empty for one-off searches
}

// Result is the resolved video set
type Result struct {
	Videos           []domain.VideoRecord
	TotalInTimeFrame int
	DisplayName      string
	ChannelID        string // empty for keyword searches
}

// Resolver resolves queries against the provider
type Resolver struct {
	provider Provider
	store    *repository.Store
	now      func() time.Time

	cacheMu sync.Mutex // serialises read-modify-write of the persisted caches
}

// New makes a resolver, now defaults to time.Now
func New(provider Provider, store *repository.Store, now func() time.Time) *Resolver {
	if now == nil {
		now = time.Now
	}
	return &Resolver{provider: provider, store: store, now: now}
}

// Resolve dispatches by search type and returns the videos of the request's window.
// ErrNoVideos is returned with the (empty) result if the window has no videos.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Result, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return Result{}, fmt.Errorf("empty query: %w", ErrNotFound)
	}

	var res Result
	if req.SearchType == domain.SearchKeyword {
		vr, err := r.KeywordVideos(ctx, query, req.TimeFrame, req.MaxResults,
			domain.CallContext{Name: query, FavoriteID: req.FavoriteID})
		if err != nil {
			return Result{}, err
		}
		res = Result{Videos: vr.Videos, TotalInTimeFrame: vr.TotalInTimeFrame, DisplayName: query}
	} else {
		identifier := ExtractChannelIdentifier(query)
		info, err := r.FindChannel(ctx, identifier, domain.CallContext{FavoriteID: req.FavoriteID})
		if err != nil {
			return Result{}, err
		}
		vr, err := r.ChannelVideos(ctx, info.UploadsPlaylistID, req.TimeFrame, req.MaxResults,
			domain.CallContext{Name: info.Name, FavoriteID: req.FavoriteID, FavoriteType: QueryType(identifier)})
		if err != nil {
			return Result{}, err
		}
		res = Result{Videos: vr.Videos, TotalInTimeFrame: vr.TotalInTimeFrame, DisplayName: info.Name, ChannelID: info.ID}
	}

	if len(res.Videos) == 0 {
		return res, fmt.Errorf("%s in %s: %w", query, req.TimeFrame, ErrNoVideos)
	}
	return res, nil
}

// VideosResult is the outcome of a channel or keyword fetch
type VideosResult struct {
	Videos           []domain.VideoRecord
	TotalInTimeFrame int
}

// mergeContext overlays non-empty fields of override on base
func mergeContext(base, override domain.CallContext) domain.CallContext {
	if override.Source != "" {
		base.Source = override.Source
	}
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.FavoriteID != "" {
		base.FavoriteID = override.FavoriteID
	}
	if override.FavoriteType != "" {
		base.FavoriteType = override.FavoriteType
	}
	return base
}
