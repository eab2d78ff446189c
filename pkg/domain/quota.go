package domain

// Endpoint is a provider API endpoint with a fixed per-call cost
type Endpoint string

// enum of provider endpoints
const (
	EndpointSearch        Endpoint = "search"
	EndpointChannels      Endpoint = "channels"
	EndpointPlaylistItems Endpoint = "playlistItems"
	EndpointVideos        Endpoint = "videos"
)

// Cost returns quota units charged for one call to the endpoint
func (e Endpoint) Cost() int {
	if e == EndpointSearch {
		return 100
	}
	return 1
}

// DefaultDailyQuota is the provider's default daily unit allowance
const DefaultDailyQuota = 10000

// CallSource describes what triggered a provider call
type CallSource string

// enum of call sources
const (
	SourceChannel      CallSource = "channel"
	SourceKeyword      CallSource = "keyword"
	SourceAutocomplete CallSource = "autocomplete"
	SourceChannelInfo  CallSource = "channel-info"
	SourceVideoStats   CallSource = "video-stats"
	SourceUnknown      CallSource = "unknown"
)

// CallContext annotates a quota history record
type CallContext struct {
	Source       CallSource `json:"source"`
	Name         string     `json:"name,omitempty"`
	FavoriteID   string     `json:"favoriteId,omitempty"`
	FavoriteType string     `json:"favoriteType,omitempty"` // channel, handle or keyword
}

// QuotaHistoryEntry is one charged call
type QuotaHistoryEntry struct {
	Timestamp int64        `json:"timestamp"` // epoch ms
	Units     int          `json:"units"`
	Endpoint  string       `json:"endpoint"`
	Context   *CallContext `json:"context,omitempty"`
}

// QuotaData is the persisted daily ledger
type QuotaData struct {
	Date          string              `json:"date"` // YYYY-MM-DD
	Used          int                 `json:"used"`
	Exhausted     bool                `json:"exhausted"`
	DetectedLimit *int                `json:"detectedLimit,omitempty"`
	History       []QuotaHistoryEntry `json:"history"`
}

// QuotaInfo is the summary broadcast with quota-updated
type QuotaInfo struct {
	Used       int  `json:"used"`
	Limit      int  `json:"limit"`
	Percentage int  `json:"percentage"`
	Exhausted  bool `json:"exhausted"`
}
