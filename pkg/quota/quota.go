// Package quota keeps the daily ledger of provider units spent. The ledger lives in the
// key-value store and resets itself when read on a new UTC calendar day.
package quota

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/repository"
)

// MaxHistoryEntries caps the stored call history, the oldest entries are dropped first
const MaxHistoryEntries = 10000

// Ledger tracks units used today
type Ledger struct {
	store *repository.Store
	bus   events.Publisher
	limit int
	now   func() time.Time

	mu sync.Mutex // serialises read-modify-write of the stored record
}

// Option configures a Ledger
type Option func(*Ledger)

// WithDefaultLimit sets the daily limit used until one is detected from the provider
func WithDefaultLimit(limit int) Option {
	return func(l *Ledger) {
		if limit > 0 {
			l.limit = limit
		}
	}
}

// WithClock replaces time.Now, used by tests
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// New makes a ledger on top of store, broadcasting every change to bus
func New(store *repository.Store, bus events.Publisher, opts ...Option) *Ledger {
	l := &Ledger{store: store, bus: bus, limit: domain.DefaultDailyQuota, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Cost returns units charged for one call of the endpoint
func Cost(endpoint domain.Endpoint) int {
	return endpoint.Cost()
}

// Track adds units spent by one call and records it in the history
func (l *Ledger) Track(ctx context.Context, units int, endpoint domain.Endpoint, cc domain.CallContext) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := l.load(ctx)
	data.Used += units

	entry := domain.QuotaHistoryEntry{Timestamp: l.now().UnixMilli(), Units: units, Endpoint: string(endpoint)}
	if endpoint == "" {
		entry.Endpoint = "unknown"
	}
	if cc != (domain.CallContext{}) {
		entry.Context = &cc
	}
	data.History = append(data.History, entry)
	if len(data.History) > MaxHistoryEntries {
		data.History = data.History[len(data.History)-MaxHistoryEntries:]
	}
	l.save(ctx, data)
}

// MarkExhausted records that the provider refused a call for quota reasons. The limit is
// learned from the units used at that moment and stays fixed for the rest of the day.
func (l *Ledger) MarkExhausted(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	data := l.load(ctx)
	if !data.Exhausted || data.DetectedLimit == nil {
		used := data.Used
		data.DetectedLimit = &used
	}
	data.Exhausted = true
	l.save(ctx, data)
}

// Info returns today's usage summary
func (l *Ledger) Info(ctx context.Context) domain.QuotaInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.info(l.load(ctx))
}

// History returns today's calls, oldest first
func (l *Ledger) History(ctx context.Context) []domain.QuotaHistoryEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx).History
}

// Reset wipes the ledger, used when the credential is cleared
func (l *Ledger) Reset(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.store.Remove(ctx, domain.KeyQuota)
	l.bus.Publish(events.Event{Name: domain.EventQuotaUpdated, Payload: domain.QuotaInfo{Limit: l.limit}})
}

func (l *Ledger) today() string {
	return l.now().UTC().Format("2006-01-02")
}

// load returns the stored record, or a fresh one if none is stored or it belongs to another day
func (l *Ledger) load(ctx context.Context) domain.QuotaData {
	fresh := domain.QuotaData{Date: l.today(), History: []domain.QuotaHistoryEntry{}}
	res := repository.Load(ctx, l.store, domain.KeyQuota, fresh, nil)
	data := res.Value
	if data.Date != fresh.Date {
		return fresh
	}
	if data.History == nil {
		data.History = []domain.QuotaHistoryEntry{}
	}
	return data
}

func (l *Ledger) save(ctx context.Context, data domain.QuotaData) {
	l.store.Save(ctx, domain.KeyQuota, data)
	l.bus.Publish(events.Event{Name: domain.EventQuotaUpdated, Payload: l.info(data)})
}

func (l *Ledger) info(data domain.QuotaData) domain.QuotaInfo {
	limit := l.limit
	if data.DetectedLimit != nil {
		limit = *data.DetectedLimit
	}
	return domain.QuotaInfo{
		Used:       data.Used,
		Limit:      limit,
		Percentage: percentage(data.Used, limit, data.Exhausted),
		Exhausted:  data.Exhausted,
	}
}

func percentage(used, limit int, exhausted bool) int {
	if exhausted {
		return 100
	}
	if limit <= 0 {
		if used > 0 {
			return 100
		}
		return 0
	}
	return min(100, int(math.Round(float64(used)/float64(limit)*100)))
}
