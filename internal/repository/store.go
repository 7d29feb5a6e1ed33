package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/tickettoride/internal/domain"
)

// SnapshotStore loads and saves the whole manager state at once. Load on a
// store that has never been saved returns an empty snapshot and no error.
type SnapshotStore interface {
	Load(ctx context.Context) (domain.Snapshot, error)
	Save(ctx context.Context, snapshot domain.Snapshot) error
}

// SeededStore falls back to a CSV seed when the primary store is empty.
type SeededStore struct {
	primary      SnapshotStore
	airportsPath string
	flightsPath  string
}

func NewSeededStore(primary SnapshotStore, airportsPath, flightsPath string) *SeededStore {
	return &SeededStore{primary: primary, airportsPath: airportsPath, flightsPath: flightsPath}
}

func (s *SeededStore) Load(ctx context.Context) (domain.Snapshot, error) {
	snapshot, err := s.primary.Load(ctx)
	if err != nil {
		return domain.Snapshot{}, err
	}
	if !snapshot.IsEmpty() || s.airportsPath == "" || s.flightsPath == "" {
		return snapshot, nil
	}

	seed, err := LoadSeed(s.airportsPath, s.flightsPath)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("load seed: %w", err)
	}
	return seed, nil
}

func (s *SeededStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	return s.primary.Save(ctx, snapshot)
}

var _ SnapshotStore = (*SeededStore)(nil)
