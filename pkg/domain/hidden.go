package domain

// HiddenHighlight suppresses one video from the highlight rail until it is unhidden
type HiddenHighlight struct {
	VideoID      string `json:"videoId"`
	SourceID     string `json:"sourceId"`
	HiddenAt     int64  `json:"hiddenAt"` // epoch ms
	VideoTitle   string `json:"videoTitle,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	SourceLabel  string `json:"sourceLabel,omitempty"`
}

// HiddenMeta is the display snapshot stored with a hidden video
type HiddenMeta struct {
	VideoTitle   string `json:"videoTitle,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	SourceLabel  string `json:"sourceLabel,omitempty"`
}
