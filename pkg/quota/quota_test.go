package quota

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/repository"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func setup(t *testing.T, opts ...Option) (*Ledger, *[]domain.QuotaInfo, *clock, *repository.Repositories) {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })

	bus := events.NewBus()
	var mu sync.Mutex
	var published []domain.QuotaInfo
	bus.Subscribe(domain.EventQuotaUpdated, func(e events.Event) {
		mu.Lock()
		defer mu.Unlock()
		published = append(published, e.Payload.(domain.QuotaInfo))
	})

	clk := &clock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	opts = append([]Option{WithClock(clk.now)}, opts...)
	return New(repos.Store, bus, opts...), &published, clk, repos
}

func TestLedger_Additivity(t *testing.T) {
	l, published, _, _ := setup(t)
	ctx := context.Background()

	l.Track(ctx, Cost(domain.EndpointSearch), domain.EndpointSearch, domain.CallContext{Source: domain.SourceKeyword, Name: "go"})
	l.Track(ctx, Cost(domain.EndpointChannels), domain.EndpointChannels, domain.CallContext{})

	info := l.Info(ctx)
	assert.Equal(t, domain.QuotaInfo{Used: 101, Limit: 10000, Percentage: 1, Exhausted: false}, info)

	hist := l.History(ctx)
	require.Len(t, hist, 2)
	assert.Equal(t, "search", hist[0].Endpoint)
	assert.Equal(t, 100, hist[0].Units)
	require.NotNil(t, hist[0].Context)
	assert.Equal(t, domain.SourceKeyword, hist[0].Context.Source)
	assert.Nil(t, hist[1].Context)

	require.Len(t, *published, 2)
	assert.Equal(t, 101, (*published)[1].Used)
}

func TestLedger_ConcurrentTrack(t *testing.T) {
	l, _, _, _ := setup(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Track(ctx, 1, domain.EndpointVideos, domain.CallContext{Source: domain.SourceVideoStats})
		}()
	}
	wg.Wait()
	assert.Equal(t, 20, l.Info(ctx).Used)
	assert.Len(t, l.History(ctx), 20)
}

func TestLedger_Exhaustion(t *testing.T) {
	l, published, _, _ := setup(t)
	ctx := context.Background()

	l.Track(ctx, 500, domain.EndpointSearch, domain.CallContext{})
	l.MarkExhausted(ctx)

	info := l.Info(ctx)
	assert.True(t, info.Exhausted)
	assert.Equal(t, 500, info.Limit, "limit learned from used at exhaustion")
	assert.Equal(t, 100, info.Percentage)

	l.Track(ctx, 1, domain.EndpointChannels, domain.CallContext{})
	l.MarkExhausted(ctx)
	info = l.Info(ctx)
	assert.Equal(t, 501, info.Used)
	assert.Equal(t, 500, info.Limit, "detected limit stays frozen")
	assert.Equal(t, 100, info.Percentage)

	last := (*published)[len(*published)-1]
	assert.True(t, last.Exhausted)
	assert.Equal(t, 100, last.Percentage)
}

func TestLedger_PercentageRounding(t *testing.T) {
	l, _, _, _ := setup(t, WithDefaultLimit(200))
	ctx := context.Background()
	l.Track(ctx, 1, domain.EndpointVideos, domain.CallContext{})
	assert.Equal(t, 1, l.Info(ctx).Percentage) // 0.5% rounds up
	l.Track(ctx, 300, domain.EndpointVideos, domain.CallContext{})
	assert.Equal(t, 100, l.Info(ctx).Percentage, "capped at 100")
	assert.Equal(t, 200, l.Info(ctx).Limit)
}

func TestLedger_DailyRollover(t *testing.T) {
	l, _, clk, _ := setup(t)
	ctx := context.Background()

	l.Track(ctx, 100, domain.EndpointSearch, domain.CallContext{})
	l.MarkExhausted(ctx)
	require.True(t, l.Info(ctx).Exhausted)

	clk.set(clk.now().Add(24 * time.Hour))
	info := l.Info(ctx)
	assert.Equal(t, domain.QuotaInfo{Used: 0, Limit: 10000, Percentage: 0}, info)
	assert.Empty(t, l.History(ctx))

	l.Track(ctx, 1, domain.EndpointVideos, domain.CallContext{})
	assert.Equal(t, 1, l.Info(ctx).Used)
}

func TestLedger_HistoryCap(t *testing.T) {
	l, _, _, repos := setup(t)
	ctx := context.Background()

	hist := make([]domain.QuotaHistoryEntry, MaxHistoryEntries)
	for i := range hist {
		hist[i] = domain.QuotaHistoryEntry{Timestamp: int64(i), Units: 1, Endpoint: "videos"}
	}
	data := domain.QuotaData{Date: "2025-06-01", Used: MaxHistoryEntries, History: hist}
	require.True(t, repos.Store.Save(ctx, domain.KeyQuota, data))

	l.Track(ctx, 1, domain.EndpointChannels, domain.CallContext{})
	got := l.History(ctx)
	require.Len(t, got, MaxHistoryEntries)
	assert.Equal(t, int64(1), got[0].Timestamp, "oldest entry dropped")
	assert.Equal(t, "channels", got[len(got)-1].Endpoint)
}

func TestLedger_Reset(t *testing.T) {
	l, published, _, _ := setup(t)
	ctx := context.Background()

	l.Track(ctx, 100, domain.EndpointSearch, domain.CallContext{})
	l.MarkExhausted(ctx)
	l.Reset(ctx)

	assert.Equal(t, domain.QuotaInfo{Used: 0, Limit: 10000, Percentage: 0}, l.Info(ctx))
	assert.Empty(t, l.History(ctx))
	assert.Equal(t, domain.QuotaInfo{Limit: 10000}, (*published)[len(*published)-1])
}

func TestLedger_MalformedStorage(t *testing.T) {
	l, _, _, repos := setup(t)
	ctx := context.Background()
	require.NoError(t, repos.KV.Set(ctx, domain.KeyQuota, "garbage"))
	assert.Equal(t, 0, l.Info(ctx).Used)
	l.Track(ctx, 1, domain.EndpointVideos, domain.CallContext{})
	assert.Equal(t, 1, l.Info(ctx).Used)
}
