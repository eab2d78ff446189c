package domain

// names of events broadcast between components
const (
	EventFavoritesChanged        = "favorites-changed"
	EventFavoritesCacheUpdated   = "favorites-cache-updated"
	EventQuotaUpdated            = "quota-updated"
	EventHiddenHighlightsChanged = "hidden-highlights-changed"
	EventFavoriteRefreshStart    = "favorite-refresh-start"
	EventFavoriteRefreshEnd      = "favorite-refresh-end"
)

// AllFavorites is the cache-updated id meaning every favorite changed
const AllFavorites = "*"

// FavoriteRef is the payload of favorite scoped events
type FavoriteRef struct {
	ID string `json:"id"`
}
