// Package favorites keeps a visitor's list of favorite location ids behind a
// small key-value interface.
package favorites

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/fantravel1/realitytvtravel/internal/observability"
)

// Key is the single persisted entry holding the favorites list.
const Key = "favorites"

// ErrInvalidID rejects toggles of an empty id.
var ErrInvalidID = errors.New("favorites: id is required")

// KV is the persistence the store writes through.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Set is an immutable set of location ids.
type Set struct {
	ids map[string]struct{}
}

// NewSet builds a set from ids, dropping blanks.
func NewSet(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s
}

func (s Set) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s Set) Len() int { return len(s.ids) }

// IDs returns the members sorted.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Store reads and toggles the favorites entry of one KV.
type Store struct {
	kv  KV
	key string
}

// NewStore wraps kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv, key: Key}
}

// Get returns the current set. A corrupt or foreign value reads as empty.
func (s *Store) Get(ctx context.Context) (Set, error) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return NewSet(), err
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return NewSet(), nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		observability.FromContext(ctx).Debug("discarding unreadable favorites", zap.Error(err))
		return NewSet(), nil
	}
	return NewSet(ids...), nil
}

// IsFavorite reports membership; read failures count as not favorite.
func (s *Store) IsFavorite(ctx context.Context, id string) bool {
	set, err := s.Get(ctx)
	return err == nil && set.Has(id)
}

// Toggle flips id and persists the new list before returning.
func (s *Store) Toggle(ctx context.Context, id string) (bool, Set, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false, Set{}, ErrInvalidID
	}
	current, err := s.Get(ctx)
	if err != nil {
		return false, current, err
	}
	ids := current.IDs()
	now := !current.Has(id)
	if now {
		ids = append(ids, id)
	} else {
		ids = removeID(ids, id)
	}
	next := NewSet(ids...)
	if err := s.save(ctx, next); err != nil {
		return false, current, err
	}
	return now, next, nil
}

func (s *Store) save(ctx context.Context, set Set) error {
	if set.Len() == 0 {
		return s.kv.Remove(ctx, s.key)
	}
	data, err := json.Marshal(set.IDs())
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.key, string(data))
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
