package domain

import "time"

// VideoData is a scored video, immutable once computed for a fetch
type VideoData struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	URL                string  `json:"url"`
	ThumbnailURL       string  `json:"thumbnailUrl"`
	Views              int64   `json:"views"`
	UploadTime         string  `json:"uploadTime"`
	PublishedTimestamp int64   `json:"publishedTimestamp"` // epoch ms
	TrendingScore      int     `json:"trendingScore"`
	Reasoning          string  `json:"reasoning"`
	ViewsPerHour       float64 `json:"viewsPerHour"`
}

// VideoRecord is a raw video as delivered by the provider, with statistics attached
type VideoRecord struct {
	ID           string
	Title        string
	ChannelTitle string
	PublishedAt  time.Time
	Thumbnails   Thumbnails
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	Duration     time.Duration
	HasDuration  bool // false if the provider did not report a duration
}

// Thumbnails lists the thumbnail urls by size, any of them may be empty
type Thumbnails struct {
	High    string
	Medium  string
	Default string
}

// Best returns the largest available thumbnail url
func (t Thumbnails) Best() string {
	switch {
	case t.High != "":
		return t.High
	case t.Medium != "":
		return t.Medium
	}
	return t.Default
}
