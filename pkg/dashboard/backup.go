package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/trendscope/pkg/domain"
)

// BackupVersion is the version written to new backups
const BackupVersion = 1

// backup errors
var (
	ErrInvalidBackup  = errors.New("invalid backup")
	ErrImportDeclined = errors.New("backup import declined")
)

// Backup is the exported dashboard: favorites, their cache and the sort preferences
type Backup struct {
	Version   float64    `json:"version"`
	CreatedAt int64      `json:"createdAt"` // epoch ms
	Data      BackupData `json:"data"`
}

// BackupData is the payload of a backup. Favorites are kept as raw records, backups made by
// older versions carry legacy fields normalised on import.
type BackupData struct {
	Favorites      []json.RawMessage                    `json:"favorites"`
	FavoritesCache map[string]domain.FavoriteCacheEntry `json:"favoritesCache"`
	Dashboard      SortPrefs                            `json:"dashboard"`
}

// CreateBackup collects the current favorites, cache and sort preferences
func (d *Dashboard) CreateBackup(ctx context.Context) (Backup, error) {
	favs := d.favorites.List(ctx)
	records := make([]json.RawMessage, 0, len(favs))
	for _, f := range favs {
		rec, err := json.Marshal(f)
		if err != nil {
			return Backup{}, fmt.Errorf("marshal favorite %s: %w", f.ID, err)
		}
		records = append(records, rec)
	}
	return Backup{
		Version:   BackupVersion,
		CreatedAt: d.now().UnixMilli(),
		Data: BackupData{
			Favorites:      records,
			FavoritesCache: d.favorites.AllCache(ctx),
			Dashboard:      d.Sort(ctx),
		},
	}, nil
}

// MarshalBackup renders a backup as indented json
func MarshalBackup(b Backup) ([]byte, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal backup: %w", err)
	}
	return data, nil
}

// ParseBackup decodes a backup. The version must be a number, data an object and
// data.favorites an array.
func ParseBackup(data []byte) (Backup, error) {
	var shape struct {
		Version json.RawMessage `json:"version"`
		Data    *struct {
			Favorites json.RawMessage `json:"favorites"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	if !isNumber(shape.Version) {
		return Backup{}, fmt.Errorf("%w: version is not a number", ErrInvalidBackup)
	}
	if shape.Data == nil {
		return Backup{}, fmt.Errorf("%w: data is not an object", ErrInvalidBackup)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(shape.Data.Favorites), []byte("[")) {
		return Backup{}, fmt.Errorf("%w: data.favorites is not a list", ErrInvalidBackup)
	}

	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return b, nil
}

func isNumber(raw json.RawMessage) bool {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return false
	}
	_, ok := v.(json.Number)
	return ok
}

// ImportBackup replaces favorites, cache and sort preferences with the backup's content.
// confirm is asked with the number of incoming favorites first, a false answer leaves
// everything untouched and returns ErrImportDeclined.
func (d *Dashboard) ImportBackup(ctx context.Context, b Backup, confirm func(count int) bool) (int, error) {
	count := len(b.Data.Favorites)
	if confirm != nil && !confirm(count) {
		return 0, ErrImportDeclined
	}

	if d.favorites.ReplaceAll(ctx, b.Data.Favorites, b.Data.FavoritesCache) {
		lgr.Printf("[INFO] imported favorites were migrated, cache dropped")
	}
	if b.Data.Dashboard.Mode != "" {
		d.SetSort(ctx, b.Data.Dashboard)
	}
	lgr.Printf("[INFO] imported backup with %d favorites", count)
	return count, nil
}
