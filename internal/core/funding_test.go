package core

import (
	"testing"

	"riscore/pkg/domain"
)

func grant(id string, start, end *int) domain.FundingRecord {
	rec := domain.FundingRecord{
		ID:          id,
		Type:        domain.FundingGrant,
		TargetGroup: domain.TargetUniversities,
		FunderID:    "funder-1",
	}
	if start != nil {
		rec.StartDate = datePtr(*start, 1, 1)
	}
	if end != nil {
		rec.EndDate = datePtr(*end, 12, 31)
	}
	return rec
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestFilterFundingIdentityOnEmptyCriteria(t *testing.T) {
	records := []domain.FundingRecord{
		grant("f1", intPtr(2023), intPtr(2023)),
		grant("f2", intPtr(2024), nil),
		grant("f3", nil, nil),
	}
	out := FilterFunding(records, domain.FilterCriteria{}, date(2023, 6, 1))
	if len(out) != len(records) {
		t.Fatalf("empty criteria must pass everything through, got %d of %d", len(out), len(records))
	}
	for i := range records {
		if out[i].ID != records[i].ID {
			t.Fatalf("identity pass-through must keep order, got %s at %d", out[i].ID, i)
		}
	}
}

func TestFilterFundingRunningCalls(t *testing.T) {
	f1 := grant("F1", intPtr(2023), intPtr(2023))
	f2 := grant("F2", intPtr(2024), nil)
	records := []domain.FundingRecord{f1, f2}

	ft := domain.FundingGrant
	criteria := domain.FilterCriteria{FundingType: &ft, RunningCalls: boolPtr(true)}

	out := FilterFunding(records, criteria, date(2023, 6, 1))
	if len(out) != 1 || out[0].ID != "F1" {
		t.Fatalf("at 2023-06-01 expected [F1], got %v", ids(out))
	}

	out = FilterFunding(records, criteria, date(2024, 6, 1))
	if len(out) != 1 || out[0].ID != "F2" {
		t.Fatalf("at 2024-06-01 expected [F2], got %v", ids(out))
	}
}

func TestFilterFundingEndedBranch(t *testing.T) {
	records := []domain.FundingRecord{
		grant("past", intPtr(2020), intPtr(2020)),
		grant("current", intPtr(2023), intPtr(2023)),
		grant("dateless", nil, nil),
	}
	out := FilterFunding(records, domain.FilterCriteria{RunningCalls: boolPtr(false)}, date(2023, 6, 1))
	if len(out) != 1 || out[0].ID != "past" {
		t.Fatalf("runningCalls=false must select ended windows only, got %v", ids(out))
	}
}

func TestFilterFundingAndSemantics(t *testing.T) {
	uni := grant("uni", intPtr(2023), intPtr(2023))
	companies := grant("companies", intPtr(2023), intPtr(2023))
	companies.TargetGroup = domain.TargetCompanies
	otherFunder := grant("other-funder", intPtr(2023), intPtr(2023))
	otherFunder.FunderID = "funder-2"
	records := []domain.FundingRecord{uni, companies, otherFunder}

	tg := domain.TargetUniversities
	funder := "funder-1"
	out := FilterFunding(records, domain.FilterCriteria{TargetGroup: &tg, FunderID: &funder}, date(2023, 6, 1))
	if len(out) != 1 || out[0].ID != "uni" {
		t.Fatalf("all present dimensions must match, got %v", ids(out))
	}
}

func TestFilterFundingContradictoryCriteriaYieldNothing(t *testing.T) {
	records := []domain.FundingRecord{grant("f1", intPtr(2023), intPtr(2023))}
	call := domain.FundingCall
	tg := domain.TargetIndividuals
	out := FilterFunding(records, domain.FilterCriteria{FundingType: &call, TargetGroup: &tg}, date(2023, 6, 1))
	if len(out) != 0 {
		t.Fatalf("contradictory criteria must not error, just match nothing; got %v", ids(out))
	}
}

func TestFilterFundingPreservesOrder(t *testing.T) {
	records := []domain.FundingRecord{
		grant("c", intPtr(2023), intPtr(2023)),
		grant("a", intPtr(2023), intPtr(2023)),
		grant("b", intPtr(2023), intPtr(2023)),
	}
	out := FilterFunding(records, domain.FilterCriteria{RunningCalls: boolPtr(true)}, date(2023, 6, 1))
	want := []string{"c", "a", "b"}
	got := ids(out)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filter must be stable, got %v want %v", got, want)
		}
	}
}

func ids(records []domain.FundingRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}
