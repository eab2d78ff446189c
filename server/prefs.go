package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/umputun/trendscope/pkg/dashboard"
)

// historyHandler returns recent searches, newest first
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.Dashboard.History(r.Context()))
}

// clearHistoryHandler forgets all searches
func (s *Server) clearHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s.Dashboard.ClearHistory(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// getSortHandler returns the favorite ordering
func (s *Server) getSortHandler(w http.ResponseWriter, r *http.Request) {
	RenderJSON(w, r, http.StatusOK, s.Dashboard.Sort(r.Context()))
}

// setSortHandler sets the favorite ordering. A body without sortOrder toggles the mode
// the way clicking a sort button does.
func (s *Server) setSortHandler(w http.ResponseWriter, r *http.Request) {
	var req dashboard.SortPrefs
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	if req.Mode != dashboard.SortAlpha && req.Mode != dashboard.SortVelocity {
		RenderError(w, r, fmt.Errorf("unknown sort mode %q", req.Mode), http.StatusBadRequest)
		return
	}

	switch req.Order {
	case "":
		RenderJSON(w, r, http.StatusOK, s.Dashboard.ToggleSort(r.Context(), req.Mode))
	case dashboard.OrderAsc, dashboard.OrderDesc:
		RenderJSON(w, r, http.StatusOK, s.Dashboard.SetSort(r.Context(), req))
	default:
		RenderError(w, r, fmt.Errorf("unknown sort order %q", req.Order), http.StatusBadRequest)
	}
}

// getLanguageHandler returns the effective language, the explicit choice wins over the
// browser's Accept-Language
func (s *Server) getLanguageHandler(w http.ResponseWriter, r *http.Request) {
	system := dashboard.SystemLanguage(r.Header.Get("Accept-Language"))
	lang, explicit := s.Dashboard.Language(r.Context())
	if !explicit {
		lang = system
	}
	RenderJSON(w, r, http.StatusOK, rest.JSON{"language": lang, "explicit": explicit, "system": system})
}

// setLanguageHandler stores an explicit language
func (s *Server) setLanguageHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language string `json:"language"`
	}
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	lang, err := s.Dashboard.SetLanguage(r.Context(), req.Language)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}
	RenderJSON(w, r, http.StatusOK, rest.JSON{"language": lang, "explicit": true})
}

// clearLanguageHandler drops the explicit language
func (s *Server) clearLanguageHandler(w http.ResponseWriter, r *http.Request) {
	s.Dashboard.ClearLanguage(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// exportBackupHandler sends the backup as a downloadable json file
func (s *Server) exportBackupHandler(w http.ResponseWriter, r *http.Request) {
	b, err := s.Dashboard.CreateBackup(r.Context())
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}
	data, err := dashboard.MarshalBackup(b)
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("trendscope-backup-%s.json", time.UnixMilli(b.CreatedAt).UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if _, err := w.Write(data); err != nil {
		lgr.Printf("[WARN] can't write backup: %v", err)
	}
}

// importBackupHandler replaces favorites, cache and sort preferences with an uploaded backup.
// The import is destructive, so the caller confirms it by passing the number of favorites the
// backup holds as confirm. Without a matching confirm the response is 409 with that number.
func (s *Server) importBackupHandler(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		RenderError(w, r, fmt.Errorf("read backup: %w", err), http.StatusBadRequest)
		return
	}
	b, err := dashboard.ParseBackup(data)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	confirmed, convErr := strconv.Atoi(r.URL.Query().Get("confirm"))
	count, err := s.Dashboard.ImportBackup(r.Context(), b, func(n int) bool {
		return convErr == nil && confirmed == n
	})
	if errors.Is(err, dashboard.ErrImportDeclined) {
		RenderJSON(w, r, http.StatusConflict, rest.JSON{
			"error":     fmt.Sprintf("import replaces all favorites, confirm with confirm=%d", len(b.Data.Favorites)),
			"favorites": len(b.Data.Favorites),
		})
		return
	}
	if err != nil {
		RenderError(w, r, err, http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusOK, rest.JSON{"imported": count})
}
