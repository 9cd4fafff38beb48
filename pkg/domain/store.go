package domain

import "context"

// RecordStore supplies fully materialized read-side record collections. The
// engines treat the store as an opaque collaborator: records are immutable
// snapshots read per request and never written back.
type RecordStore interface {
	ListOrgUnits(ctx context.Context) ([]OrgUnit, error)
	ListFundingRecords(ctx context.Context) ([]FundingRecord, error)
	ListProjects(ctx context.Context) ([]Project, error)
}

// Snapshot bundles the full record state for import/export by persistent
// store implementations.
type Snapshot struct {
	OrgUnits []OrgUnit       `json:"org_units"`
	Funding  []FundingRecord `json:"funding"`
	Projects []Project       `json:"projects"`
}

// PersistentStore extends RecordStore with bulk state replacement used by
// ingestion jobs and store loaders.
type PersistentStore interface {
	RecordStore
	// ReplaceState atomically swaps the full record state.
	ReplaceState(ctx context.Context, snapshot Snapshot) error
	// ExportState returns a copy of the full record state.
	ExportState(ctx context.Context) (Snapshot, error)
	// Close releases underlying resources.
	Close() error
}
