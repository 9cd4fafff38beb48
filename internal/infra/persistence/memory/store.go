// Package memory implements the persistent store contract without a
// backing database. It is the authoritative in-process state holder; the
// sqlite and postgres stores embed it and add durability.
package memory

import (
	"context"
	"sync"

	"riscore/pkg/domain"
)

var _ domain.PersistentStore = (*Store)(nil)

// Store keeps the full record state in memory behind a read-write lock.
type Store struct {
	mu    sync.RWMutex
	state domain.Snapshot
}

// NewStore returns an empty in-memory store.
func NewStore() *Store { return &Store{} }

// ListOrgUnits returns a copy of all organisational unit records.
func (s *Store) ListOrgUnits(ctx context.Context) ([]domain.OrgUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.OrgUnit(nil), s.state.OrgUnits...), nil
}

// ListFundingRecords returns a copy of all funding records.
func (s *Store) ListFundingRecords(ctx context.Context) ([]domain.FundingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FundingRecord(nil), s.state.Funding...), nil
}

// ListProjects returns a copy of all project records.
func (s *Store) ListProjects(ctx context.Context) ([]domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Project(nil), s.state.Projects...), nil
}

// ReplaceState swaps the full state for the given snapshot.
func (s *Store) ReplaceState(ctx context.Context, snapshot domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = copySnapshot(snapshot)
	return nil
}

// ExportState returns a copy of the full current state.
func (s *Store) ExportState(ctx context.Context) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.state), nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error { return nil }

func copySnapshot(in domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		OrgUnits: append([]domain.OrgUnit(nil), in.OrgUnits...),
		Funding:  append([]domain.FundingRecord(nil), in.Funding...),
		Projects: append([]domain.Project(nil), in.Projects...),
	}
}
