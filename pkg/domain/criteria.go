package domain

import "time"

// Criterion is one filterable dimension of a funding query. Each dimension
// carries its own comparison rule; new dimensions are added by introducing
// a new variant rather than extending a conditional chain.
type Criterion interface {
	// Name identifies the dimension for diagnostics and query parsing.
	Name() string
	// Matches reports whether the record satisfies the dimension at now.
	Matches(record FundingRecord, now time.Time) bool
}

// FundingTypeCriterion matches records of exactly one funding kind.
type FundingTypeCriterion struct {
	Type FundingType
}

// Name implements Criterion.
func (FundingTypeCriterion) Name() string { return "fundingType" }

// Matches implements Criterion.
func (c FundingTypeCriterion) Matches(record FundingRecord, _ time.Time) bool {
	return record.Type == c.Type
}

// TargetGroupCriterion matches records addressing one institution class.
type TargetGroupCriterion struct {
	Group TargetGroup
}

// Name implements Criterion.
func (TargetGroupCriterion) Name() string { return "targetGroup" }

// Matches implements Criterion.
func (c TargetGroupCriterion) Matches(record FundingRecord, _ time.Time) bool {
	return record.TargetGroup == c.Group
}

// RegionCriterion matches records scoped to one geographic subdivision.
type RegionCriterion struct {
	Region Region
}

// Name implements Criterion.
func (RegionCriterion) Name() string { return "region" }

// Matches implements Criterion.
func (c RegionCriterion) Matches(record FundingRecord, _ time.Time) bool {
	return record.Region == c.Region
}

// ApplicantsScopeCriterion matches records with one applicant scope.
type ApplicantsScopeCriterion struct {
	Scope ApplicantsScope
}

// Name implements Criterion.
func (ApplicantsScopeCriterion) Name() string { return "applicantsScope" }

// Matches implements Criterion.
func (c ApplicantsScopeCriterion) Matches(record FundingRecord, _ time.Time) bool {
	return record.ApplicantsScope == c.Scope
}

// FunderCriterion matches records funded by one organizational unit.
type FunderCriterion struct {
	FunderID string
}

// Name implements Criterion.
func (FunderCriterion) Name() string { return "funderId" }

// Matches implements Criterion.
func (c FunderCriterion) Matches(record FundingRecord, _ time.Time) bool {
	return record.FunderID == c.FunderID
}

// RunningCriterion selects records by whether their active window contains
// now. Running=true and Running=false are complements over records that
// carry a window; records without any window bound match neither branch
// because they cannot be judged running or ended.
type RunningCriterion struct {
	Running bool
}

// Name implements Criterion.
func (RunningCriterion) Name() string { return "runningCalls" }

// Matches implements Criterion.
func (c RunningCriterion) Matches(record FundingRecord, now time.Time) bool {
	if !record.HasWindow() {
		return false
	}
	return record.RunningAt(now) == c.Running
}

// FilterCriteria aggregates the optional dimensions of one funding query.
// A nil field places no constraint on its dimension.
type FilterCriteria struct {
	FundingType     *FundingType
	TargetGroup     *TargetGroup
	RunningCalls    *bool
	Region          *Region
	ApplicantsScope *ApplicantsScope
	FunderID        *string
}

// Criteria expands the set fields into their criterion variants, in a fixed
// dimension order.
func (f FilterCriteria) Criteria() []Criterion {
	var out []Criterion
	if f.FundingType != nil {
		out = append(out, FundingTypeCriterion{Type: *f.FundingType})
	}
	if f.TargetGroup != nil {
		out = append(out, TargetGroupCriterion{Group: *f.TargetGroup})
	}
	if f.RunningCalls != nil {
		out = append(out, RunningCriterion{Running: *f.RunningCalls})
	}
	if f.Region != nil {
		out = append(out, RegionCriterion{Region: *f.Region})
	}
	if f.ApplicantsScope != nil {
		out = append(out, ApplicantsScopeCriterion{Scope: *f.ApplicantsScope})
	}
	if f.FunderID != nil {
		out = append(out, FunderCriterion{FunderID: *f.FunderID})
	}
	return out
}

// IsEmpty reports whether no dimension is constrained.
func (f FilterCriteria) IsEmpty() bool {
	return f.FundingType == nil && f.TargetGroup == nil && f.RunningCalls == nil &&
		f.Region == nil && f.ApplicantsScope == nil && f.FunderID == nil
}
