package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"riscore/pkg/domain"
)

func TestStoreRoundTripAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "riscore.db")

	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	snapshot := domain.Snapshot{
		OrgUnits: []domain.OrgUnit{{ID: "ou-1", StartDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}},
		Funding:  []domain.FundingRecord{{ID: "f-1", Type: domain.FundingGrant}},
		Projects: []domain.Project{{ID: "p-1"}},
	}
	if err := s.ReplaceState(ctx, snapshot); err != nil {
		t.Fatalf("replace state: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	units, err := reopened.ListOrgUnits(ctx)
	if err != nil {
		t.Fatalf("list org units: %v", err)
	}
	if len(units) != 1 || units[0].ID != "ou-1" {
		t.Fatalf("unexpected units after reopen %+v", units)
	}
	funding, err := reopened.ListFundingRecords(ctx)
	if err != nil {
		t.Fatalf("list funding: %v", err)
	}
	if len(funding) != 1 || funding[0].Type != domain.FundingGrant {
		t.Fatalf("unexpected funding after reopen %+v", funding)
	}
	projects, err := reopened.ListProjects(ctx)
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(projects) != 1 || projects[0].ID != "p-1" {
		t.Fatalf("unexpected projects after reopen %+v", projects)
	}
}

func TestReplaceStateOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	s, err := NewStore(filepath.Join(t.TempDir(), "riscore.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = s.Close() }()

	if err := s.ReplaceState(ctx, domain.Snapshot{OrgUnits: []domain.OrgUnit{{ID: "old"}}}); err != nil {
		t.Fatalf("replace state: %v", err)
	}
	if err := s.ReplaceState(ctx, domain.Snapshot{OrgUnits: []domain.OrgUnit{{ID: "new"}}}); err != nil {
		t.Fatalf("replace state: %v", err)
	}
	units, err := s.ListOrgUnits(ctx)
	if err != nil {
		t.Fatalf("list org units: %v", err)
	}
	if len(units) != 1 || units[0].ID != "new" {
		t.Fatalf("unexpected units %+v", units)
	}
}

func TestNewStoreCreatesNestedDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "riscore.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	defer func() { _ = s.Close() }()
	if s.Path() != path {
		t.Fatalf("path = %q, want %q", s.Path(), path)
	}
}
