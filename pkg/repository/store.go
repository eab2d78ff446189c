package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-pkgz/lgr"
)

// fallback reasons reported by Load
const (
	ReasonMissing   = "missing"
	ReasonReadError = "read error"
	ReasonMalformed = "malformed"
	ReasonInvalid   = "invalid"
)

// Result is the outcome of a tolerant load, either a valid stored value or the fallback
type Result[T any] struct {
	Value  T
	Valid  bool
	Reason string // empty when Valid
}

// kvStore is the raw storage used by Store, satisfied by KVRepository
type kvStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store wraps raw key-value rows with JSON encoding. Read and write failures are logged and
// never returned, callers always get a usable value.
type Store struct {
	kv kvStore
}

// NewStore makes a Store on top of raw key-value storage
func NewStore(kv kvStore) *Store {
	return &Store{kv: kv}
}

// Load reads and decodes the value stored under key. Missing keys, read errors, malformed json
// and values rejected by validate all produce the fallback. validate may be nil.
func Load[T any](ctx context.Context, s *Store, key string, fallback T, validate func(T) error) Result[T] {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		lgr.Printf("[WARN] failed to read %s: %v", key, err)
		return Result[T]{Value: fallback, Reason: ReasonReadError}
	}
	if !ok {
		return Result[T]{Value: fallback, Reason: ReasonMissing}
	}

	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		lgr.Printf("[WARN] malformed value for %s, using default: %v", key, err)
		return Result[T]{Value: fallback, Reason: ReasonMalformed}
	}
	if validate != nil {
		if err := validate(v); err != nil {
			lgr.Printf("[WARN] invalid value for %s, using default: %v", key, err)
			return Result[T]{Value: fallback, Reason: ReasonInvalid}
		}
	}
	return Result[T]{Value: v, Valid: true}
}

// Save encodes and stores v under key, returns false if the write failed
func (s *Store) Save(ctx context.Context, key string, v any) bool {
	data, err := json.Marshal(v)
	if err != nil {
		lgr.Printf("[WARN] failed to encode %s: %v", key, err)
		return false
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		lgr.Printf("[WARN] failed to save %s: %v", key, err)
		return false
	}
	return true
}

// Remove deletes key, returns false if the delete failed
func (s *Store) Remove(ctx context.Context, key string) bool {
	if err := s.kv.Delete(ctx, key); err != nil {
		lgr.Printf("[WARN] failed to remove %s: %v", key, err)
		return false
	}
	return true
}

// ListOf is a validate func for slices, rejecting json null
func ListOf[T any](v []T) error {
	if v == nil {
		return fmt.Errorf("null list")
	}
	return nil
}

// MapOf is a validate func for maps, rejecting json null
func MapOf[K comparable, V any](v map[K]V) error {
	if v == nil {
		return fmt.Errorf("null map")
	}
	return nil
}
