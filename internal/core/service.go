package core

import (
	"context"
	"fmt"
	"time"

	"riscore/pkg/domain"
)

// Service exposes the read-side engine operations over a record store. It
// holds no request state: every operation reads a fresh record collection
// and derives its result functionally, so concurrent calls need no
// coordination.
type Service struct {
	store   domain.RecordStore
	now     func() time.Time
	metrics MetricsRecorder
	tracer  Tracer
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithClock overrides the time source used for "currently running" tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMetricsRecorder attaches a metrics recorder to all operations.
func WithMetricsRecorder(rec MetricsRecorder) Option {
	return func(s *Service) {
		if rec != nil {
			s.metrics = rec
		}
	}
}

// WithTracer attaches a tracer to all operations.
func WithTracer(tr Tracer) Option {
	return func(s *Service) {
		if tr != nil {
			s.tracer = tr
		}
	}
}

// NewService constructs a service backed by the supplied record store.
func NewService(store domain.RecordStore, opts ...Option) *Service {
	s := &Service{
		store:   store,
		now:     func() time.Time { return time.Now().UTC() },
		metrics: noopMetrics{},
		tracer:  noopTracer{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) observe(ctx context.Context, operation string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, operation)
	started := time.Now()
	err := fn(ctx)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, time.Since(started))
	return err
}

// Organigram rebuilds the organizational tree from the current record set,
// scoped to asOf when non-nil.
func (s *Service) Organigram(ctx context.Context, asOf *time.Time) (*OrgUnitTree, error) {
	var tree *OrgUnitTree
	err := s.observe(ctx, "organigram", func(ctx context.Context) error {
		units, err := s.store.ListOrgUnits(ctx)
		if err != nil {
			return fmt.Errorf("list org units: %w", err)
		}
		tree, err = BuildTree(units, asOf)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// OrgUnit returns one unit by id from the current record set.
func (s *Service) OrgUnit(ctx context.Context, id string) (domain.OrgUnit, error) {
	var unit domain.OrgUnit
	err := s.observe(ctx, "org_unit", func(ctx context.Context) error {
		units, err := s.store.ListOrgUnits(ctx)
		if err != nil {
			return fmt.Errorf("list org units: %w", err)
		}
		found, ok := FindOrgUnit(units, id)
		if !ok {
			return domain.ErrNotFound{Entity: "org unit", ID: id}
		}
		unit = found
		return nil
	})
	return unit, err
}

// FundingRecords returns the funding records matching criteria, in stable
// input order. The service clock supplies "now" for the running-calls test.
func (s *Service) FundingRecords(ctx context.Context, criteria domain.FilterCriteria) ([]domain.FundingRecord, error) {
	var matched []domain.FundingRecord
	err := s.observe(ctx, "funding_records", func(ctx context.Context) error {
		records, err := s.store.ListFundingRecords(ctx)
		if err != nil {
			return fmt.Errorf("list funding records: %w", err)
		}
		matched = FilterFunding(records, criteria, s.now())
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

// FundingRecord returns one funding record by id.
func (s *Service) FundingRecord(ctx context.Context, id string) (domain.FundingRecord, error) {
	var record domain.FundingRecord
	err := s.observe(ctx, "funding_record", func(ctx context.Context) error {
		records, err := s.store.ListFundingRecords(ctx)
		if err != nil {
			return fmt.Errorf("list funding records: %w", err)
		}
		found, ok := FindFundingRecord(records, id)
		if !ok {
			return domain.ErrNotFound{Entity: "funding record", ID: id}
		}
		record = found
		return nil
	})
	return record, err
}

// Projects returns all project records in store order.
func (s *Service) Projects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	err := s.observe(ctx, "projects", func(ctx context.Context) error {
		var err error
		projects, err = s.store.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// Project returns one project by id.
func (s *Service) Project(ctx context.Context, id string) (domain.Project, error) {
	var project domain.Project
	err := s.observe(ctx, "project", func(ctx context.Context) error {
		projects, err := s.store.ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("list projects: %w", err)
		}
		for _, p := range projects {
			if p.ID == id {
				project = p
				return nil
			}
		}
		return domain.ErrNotFound{Entity: "project", ID: id}
	})
	return project, err
}
