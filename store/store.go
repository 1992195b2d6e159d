// Package store is the persistence layer for delivery events and their
// derived innings totals. All delivery mutations funnel through here so that
// write-time derivation (legal-ball numbering, phase classification) and the
// totals recompute happen under one per-innings serialization scope.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/uptrace/bun"

	"github.com/stumpvision/crickapi/models"
)

var (
	// ErrNotFound marks lookups for ids that do not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks inputs rejected before any persistence.
	ErrValidation = errors.New("validation failed")
	// ErrDependency marks failures of an external tool the operation shells
	// out to. The request's own data may already be persisted.
	ErrDependency = errors.New("external dependency failed")
)

// Store wraps the database handle with per-innings mutual exclusion.
// Legal-ball numbering and totals recomputation are read-then-write sequences
// over one innings' rows; writers to the same innings are serialized, writers
// to different innings run in parallel.
type Store struct {
	db *bun.DB

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

// New creates a Store around an open bun handle.
func New(db *bun.DB) *Store {
	return &Store{db: db, locks: make(map[int]*sync.Mutex)}
}

// DB exposes the underlying handle for reference-entity CRUD that needs no
// innings serialization.
func (s *Store) DB() *bun.DB { return s.db }

func (s *Store) inningsLock(inningsID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[inningsID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[inningsID] = l
	}
	return l
}

// PlayerNames resolves the given player ids to display names. Unknown ids
// are simply absent from the map.
func (s *Store) PlayerNames(ctx context.Context, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var players []models.Player
	err := s.db.NewSelect().Model(&players).
		Where("p.id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for i := range players {
		names[players[i].ID] = players[i].FullName()
	}
	return names, nil
}

// participantIDs collects every player id referenced by the deliveries.
func participantIDs(deliveries []models.Delivery) []int {
	seen := map[int]bool{}
	var ids []int
	add := func(id int) {
		if id > 0 && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, d := range deliveries {
		add(d.BatsmanID)
		add(d.BowlerID)
		if d.NonStrikerID != nil {
			add(*d.NonStrikerID)
		}
		if d.FielderID != nil {
			add(*d.FielderID)
		}
		if d.DismissedBatsmanID != nil {
			add(*d.DismissedBatsmanID)
		}
	}
	return ids
}
