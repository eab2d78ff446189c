package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/trendscope/pkg/dashboard"
	"github.com/umputun/trendscope/pkg/domain"
	"github.com/umputun/trendscope/pkg/events"
	"github.com/umputun/trendscope/pkg/favorites"
	"github.com/umputun/trendscope/pkg/resolver"
	"github.com/umputun/trendscope/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/refresher.go -pkg mocks -skip-ensure -fmt goimports . Refresher
//go:generate moq -out mocks/suggester.go -pkg mocks -skip-ensure -fmt goimports . Suggester
//go:generate moq -out mocks/credentials.go -pkg mocks -skip-ensure -fmt goimports . Credentials

// Server represents HTTP server instance
type Server struct {
	Params
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
	bgCtx      context.Context // lifetime of background refreshes, replaced by Run
}

// Params holds the components the server exposes
type Params struct {
	Config      ConfigProvider
	Favorites   Favorites
	Refresher   Refresher
	Suggester   Suggester
	Hidden      Hidden
	Quota       Quota
	Credentials Credentials
	Dashboard   Dashboard
	Events      Events
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Favorites is the persisted favorites list with its cache
type Favorites interface {
	List(ctx context.Context) []domain.Favorite
	Get(ctx context.Context, id string) (domain.Favorite, bool)
	Add(ctx context.Context, in favorites.Input) (domain.Favorite, error)
	Update(ctx context.Context, id string, p favorites.Patch) (domain.Favorite, bool)
	Remove(ctx context.Context, id string)
	ClearAll(ctx context.Context)
	GetCache(ctx context.Context, id string) (domain.FavoriteCacheEntry, bool)
	AllCache(ctx context.Context) map[string]domain.FavoriteCacheEntry
}

// Refresher runs favorite refreshes and one-off searches
type Refresher interface {
	RefreshAll(ctx context.Context, favs []domain.Favorite, forced bool) error
	RefreshByID(ctx context.Context, id string) error
	State(ctx context.Context, id string) scheduler.State
	Search(ctx context.Context, req resolver.Request) (scheduler.SearchResult, error)
	AnalyzeAndSave(ctx context.Context, in favorites.Input) (domain.Favorite, scheduler.SearchResult, error)
}

// Suggester completes channel names
type Suggester interface {
	SuggestChannels(ctx context.Context, query string) []resolver.ChannelSuggestion
}

// Hidden is the ledger of highlights hidden from the rail
type Hidden interface {
	Hide(ctx context.Context, sourceID, videoID string, meta domain.HiddenMeta)
	Show(ctx context.Context, videoID string)
	IsHidden(ctx context.Context, videoID string) bool
	HiddenSet(ctx context.Context) map[string]struct{}
	ListChronological(ctx context.Context) []domain.HiddenHighlight
	ClearAll(ctx context.Context)
}

// Quota reports provider quota usage
type Quota interface {
	Info(ctx context.Context) domain.QuotaInfo
	History(ctx context.Context) []domain.QuotaHistoryEntry
}

// Credentials holds the provider api key
type Credentials interface {
	APIKey() string
	SetAPIKey(ctx context.Context, key string)
}

// Dashboard keeps view preferences, search history and backups
type Dashboard interface {
	Sort(ctx context.Context) dashboard.SortPrefs
	SetSort(ctx context.Context, p dashboard.SortPrefs) dashboard.SortPrefs
	ToggleSort(ctx context.Context, mode dashboard.SortMode) dashboard.SortPrefs
	History(ctx context.Context) []string
	AddHistory(ctx context.Context, query string) []string
	ClearHistory(ctx context.Context)
	Language(ctx context.Context) (string, bool)
	SetLanguage(ctx context.Context, lang string) (string, error)
	ClearLanguage(ctx context.Context)
	CreateBackup(ctx context.Context) (dashboard.Backup, error)
	ImportBackup(ctx context.Context, b dashboard.Backup, confirm func(count int) bool) (int, error)
}

// Events is the subscribing side of the event bus
type Events interface {
	SubscribeAll(h events.Handler) (unsubscribe func())
}

// New initializes a new server instance
func New(p Params, version string, debug bool) *Server {
	s := &Server{
		Params:  p,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
		bgCtx:   context.Background(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the http handler with all routes and middlewares
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.Config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.bgCtx = ctx
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		WriteTimeout:      timeout,
		IdleTimeout:       timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("trendscope", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(4 * 1024 * 1024)) // backups carry the whole cache
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)

		// favorites
		r.HandleFunc("GET /favorites", s.listFavoritesHandler)
		r.HandleFunc("POST /favorites", s.addFavoriteHandler)
		r.HandleFunc("DELETE /favorites", s.clearFavoritesHandler)
		r.HandleFunc("POST /favorites/refresh", s.refreshAllHandler)
		r.HandleFunc("PATCH /favorites/{id}", s.updateFavoriteHandler)
		r.HandleFunc("DELETE /favorites/{id}", s.deleteFavoriteHandler)
		r.HandleFunc("POST /favorites/{id}/refresh", s.refreshFavoriteHandler)
		r.HandleFunc("GET /favorites/{id}/state", s.favoriteStateHandler)

		// highlights rail and hidden ledger
		r.HandleFunc("GET /highlights", s.highlightsHandler)
		r.HandleFunc("GET /hidden", s.listHiddenHandler)
		r.HandleFunc("DELETE /hidden", s.clearHiddenHandler)
		r.HandleFunc("PUT /hidden/{videoId}", s.hideHandler)
		r.HandleFunc("DELETE /hidden/{videoId}", s.showHandler)

		// provider
		r.HandleFunc("GET /quota", s.quotaHandler)
		r.HandleFunc("GET /apikey", s.getAPIKeyHandler)
		r.HandleFunc("PUT /apikey", s.setAPIKeyHandler)
		r.HandleFunc("DELETE /apikey", s.deleteAPIKeyHandler)
		r.HandleFunc("GET /search", s.searchHandler)
		r.HandleFunc("GET /channels/suggest", s.suggestHandler)

		// dashboard preferences
		r.HandleFunc("GET /history", s.historyHandler)
		r.HandleFunc("DELETE /history", s.clearHistoryHandler)
		r.HandleFunc("GET /dashboard/sort", s.getSortHandler)
		r.HandleFunc("PUT /dashboard/sort", s.setSortHandler)
		r.HandleFunc("GET /language", s.getLanguageHandler)
		r.HandleFunc("PUT /language", s.setLanguageHandler)
		r.HandleFunc("DELETE /language", s.clearLanguageHandler)
		r.HandleFunc("GET /backup", s.exportBackupHandler)
		r.HandleFunc("POST /backup", s.importBackupHandler)

		r.HandleFunc("GET /events", s.eventsHandler)
	})
}

// background returns the context background refreshes run in
func (s *Server) background() context.Context {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.bgCtx
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := rest.JSON{
		"status":    "ok",
		"version":   s.version,
		"time":      time.Now().UTC(),
		"favorites": len(s.Favorites.List(r.Context())),
		"apiKey":    s.Credentials.APIKey() != "",
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// decodeJSON reads a json request body into v
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// RenderError sends error response as JSON
func RenderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	RenderJSON(w, r, code, map[string]string{"error": errMsg})
}
