// Package domain defines the core research-metadata entities, value types,
// and read contracts used by riscore.
package domain

import "time"

// OrgUnitType identifies the organizational kind of a unit.
type OrgUnitType string

// Supported organizational unit kinds.
const (
	// OrgUnitUniversity is the institution-level root unit.
	OrgUnitUniversity OrgUnitType = "university"
	// OrgUnitFaculty is a faculty-level unit.
	OrgUnitFaculty OrgUnitType = "faculty"
	// OrgUnitDepartment is a department-level unit.
	OrgUnitDepartment OrgUnitType = "department"
	// OrgUnitInstitute is an institute-level unit.
	OrgUnitInstitute OrgUnitType = "institute"
	// OrgUnitServiceUnit is a central service unit.
	OrgUnitServiceUnit OrgUnitType = "service_unit"
)

// OrgUnitLevel classifies the depth of a unit within the organigram.
type OrgUnitLevel string

// Canonical organigram depth classes.
const (
	Level1 OrgUnitLevel = "LEVEL_1"
	Level2 OrgUnitLevel = "LEVEL_2"
	Level3 OrgUnitLevel = "LEVEL_3"
)

// LocalizedText carries one language variant of a display name or title.
type LocalizedText struct {
	Lang  string `json:"lang"`
	Value string `json:"value"`
}

// Address captures the postal address attributes delivered by the upstream
// repository for an organizational unit.
type Address struct {
	Line1    string `json:"addrline1,omitempty"`
	PostCode string `json:"postCode,omitempty"`
	CityTown string `json:"cityTown,omitempty"`
	Country  string `json:"country,omitempty"`
}

// ElectronicAddress captures contact channels of an organizational unit.
type ElectronicAddress struct {
	Email     string `json:"email,omitempty"`
	Telephone string `json:"telephone,omitempty"`
	URL       string `json:"url,omitempty"`
}

// OrgUnit is one flat organizational-unit record as supplied by the record
// store. PartOf references the parent unit's ID; it is nil for the root.
// The validity interval is half-open: [StartDate, EndDate), open-ended when
// EndDate is nil.
type OrgUnit struct {
	ID         string             `json:"id"`
	Name       []LocalizedText    `json:"name"`
	Acronym    string             `json:"acronym,omitempty"`
	Type       OrgUnitType        `json:"type"`
	Level      OrgUnitLevel       `json:"level"`
	StartDate  time.Time          `json:"startDate"`
	EndDate    *time.Time         `json:"endDate,omitempty"`
	PartOf     *string            `json:"partOf,omitempty"`
	Address    *Address           `json:"address,omitempty"`
	Electronic *ElectronicAddress `json:"electronicAddress,omitempty"`
}

// ValidAt reports whether the unit's validity interval contains the instant.
func (u OrgUnit) ValidAt(at time.Time) bool {
	if at.Before(u.StartDate) {
		return false
	}
	return u.EndDate == nil || at.Before(*u.EndDate)
}

// FundingType enumerates the funding kinds recognised by the filter engine.
type FundingType string

// Canonical funding kinds.
const (
	FundingProgramme        FundingType = "PROGRAMME"
	FundingCall             FundingType = "CALL"
	FundingOngoingCall      FundingType = "ONGOING_CALL"
	FundingAward            FundingType = "AWARD"
	FundingGrant            FundingType = "GRANT"
	FundingScholarship      FundingType = "SCHOLARSHIP"
	FundingResearchContract FundingType = "RESEARCH_CONTRACT"
)

// TargetGroup classifies the institution class a funding record addresses.
type TargetGroup string

// Canonical target groups.
const (
	TargetUniversities       TargetGroup = "UNIVERSITIES"
	TargetResearchInstitutes TargetGroup = "RESEARCH_INSTITUTES"
	TargetCompanies          TargetGroup = "COMPANIES"
	TargetIndividuals        TargetGroup = "INDIVIDUALS"
)

// Region identifies a geographic subdivision a funding record is scoped to.
type Region string

// ApplicantsScope restricts who may apply to a funding call.
type ApplicantsScope string

// Canonical applicant scopes.
const (
	ApplicantsNational ApplicantsScope = "NATIONAL"
	ApplicantsRegional ApplicantsScope = "REGIONAL"
)

// FundingRecord is one flat funding programme/call record. StartDate and
// EndDate bound the call's active window; either may be nil.
type FundingRecord struct {
	ID              string          `json:"id"`
	Name            []LocalizedText `json:"name,omitempty"`
	Type            FundingType     `json:"type"`
	TargetGroup     TargetGroup     `json:"targetGroup"`
	Region          Region          `json:"region,omitempty"`
	ApplicantsScope ApplicantsScope `json:"applicantsScope,omitempty"`
	FunderID        string          `json:"funderId"`
	Subjects        []string        `json:"subjects,omitempty"`
	StartDate       *time.Time      `json:"startDate,omitempty"`
	EndDate         *time.Time      `json:"endDate,omitempty"`
}

// HasWindow reports whether the record carries at least one window bound and
// can therefore be judged running or not running.
func (r FundingRecord) HasWindow() bool {
	return r.StartDate != nil || r.EndDate != nil
}

// RunningAt reports whether now falls inside the record's active window
// [StartDate, EndDate). A nil StartDate is treated as an open beginning and
// a nil EndDate as a window that never ends. Records without any window
// bound are never running; use HasWindow to distinguish them from closed
// calls.
func (r FundingRecord) RunningAt(now time.Time) bool {
	if !r.HasWindow() {
		return false
	}
	if r.StartDate != nil && now.Before(*r.StartDate) {
		return false
	}
	return r.EndDate == nil || now.Before(*r.EndDate)
}

// ProjectStatus enumerates project lifecycle states on the read side.
type ProjectStatus string

// Canonical project statuses.
const (
	ProjectPlanned ProjectStatus = "planned"
	ProjectRunning ProjectStatus = "running"
	ProjectEnded   ProjectStatus = "ended"
)

// Project is one research-project record served by the projects endpoints.
type Project struct {
	ID        string          `json:"id"`
	Acronym   string          `json:"acronym,omitempty"`
	Title     []LocalizedText `json:"title"`
	FunderID  string          `json:"funderId,omitempty"`
	FundingID string          `json:"fundingId,omitempty"`
	StartDate *time.Time      `json:"startDate,omitempty"`
	EndDate   *time.Time      `json:"endDate,omitempty"`
	Status    ProjectStatus   `json:"status,omitempty"`
}
