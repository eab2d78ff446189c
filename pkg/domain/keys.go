package domain

// storage keys of the local key-value store
const (
	KeyAPIKey            = "yt_api_key"
	KeyChannelCache      = "yt_channel_cache"
	KeyAutocompleteCache = "yt_autocomplete_cache_v2"
	KeyQuota             = "yt_quota_tracking"
	KeyFavorites         = "tt.favorites.v1"
	KeyFavoritesCache    = "tt.favorites.cache.v1"
	KeyDashboardSort     = "tt.dashboard.sort.v1"
	KeyDashboardOrder    = "tt.dashboard.sortOrder.v1"
	KeySearchHistory     = "tt.search.history"
	KeyLanguage          = "tt.lang.explicit"
	KeyHiddenHighlights  = "tt.dashboard.hiddenHighlights.v1"
)
