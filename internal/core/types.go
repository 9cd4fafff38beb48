package core

import "riscore/pkg/domain"

type (
	OrgUnit         = domain.OrgUnit
	FundingRecord   = domain.FundingRecord
	Project         = domain.Project
	FilterCriteria  = domain.FilterCriteria
	StructuralError = domain.StructuralError
	RecordStore     = domain.RecordStore
)

const (
	StructuralCycle         = domain.StructuralCycle
	StructuralMultipleRoots = domain.StructuralMultipleRoots
)
