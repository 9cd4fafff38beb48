// Package testutil provides shared record fixtures for tests across the
// repository.
package testutil

import (
	"time"

	"riscore/pkg/domain"
)

// Date builds a UTC midnight timestamp.
func Date(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// StrPtr returns a pointer to s.
func StrPtr(s string) *string { return &s }

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }

// SampleOrgUnits returns a minimal two-level hierarchy: unit B under root A.
func SampleOrgUnits() []domain.OrgUnit {
	return []domain.OrgUnit{
		{
			ID:        "A",
			Name:      []domain.LocalizedText{{Lang: "en", Value: "University"}},
			Level:     domain.Level1,
			StartDate: Date(2020, 1, 1),
		},
		{
			ID:        "B",
			Name:      []domain.LocalizedText{{Lang: "en", Value: "Faculty of Science"}},
			Level:     domain.Level2,
			PartOf:    StrPtr("A"),
			StartDate: Date(2020, 1, 1),
		},
	}
}

// SampleFunding returns two funding records with distinct types and funders.
func SampleFunding() []domain.FundingRecord {
	return []domain.FundingRecord{
		{ID: "F1", Type: domain.FundingGrant, FunderID: "FWF"},
		{ID: "F2", Type: domain.FundingCall, FunderID: "FFG"},
	}
}

// SampleProjects returns a single project record.
func SampleProjects() []domain.Project {
	return []domain.Project{
		{ID: "P1", Title: []domain.LocalizedText{{Lang: "en", Value: "Quantum Readout"}}},
	}
}

// SampleSnapshot bundles the sample records into one snapshot.
func SampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		OrgUnits: SampleOrgUnits(),
		Funding:  SampleFunding(),
		Projects: SampleProjects(),
	}
}
