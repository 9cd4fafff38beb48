package core

import (
	"time"

	"riscore/pkg/domain"
)

// FilterFunding evaluates criteria as a logical AND across the present
// dimensions and returns the matching records in their input order. The
// filter is stable and total: contradictory criteria simply match nothing,
// and an empty criteria set passes every record through untouched.
func FilterFunding(records []domain.FundingRecord, criteria domain.FilterCriteria, now time.Time) []domain.FundingRecord {
	if criteria.IsEmpty() {
		out := make([]domain.FundingRecord, len(records))
		copy(out, records)
		return out
	}

	crits := criteria.Criteria()
	out := make([]domain.FundingRecord, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, crits, now) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesAll(rec domain.FundingRecord, crits []domain.Criterion, now time.Time) bool {
	for _, c := range crits {
		if !c.Matches(rec, now) {
			return false
		}
	}
	return true
}

// FindFundingRecord locates one funding record by id.
func FindFundingRecord(records []domain.FundingRecord, id string) (domain.FundingRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return domain.FundingRecord{}, false
}
