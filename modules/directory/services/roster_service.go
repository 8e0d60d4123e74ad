package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	"github.com/salescope/salescope/pkg/eventbus"
)

// RosterService reads the roster snapshot. The roster itself is maintained
// by an external process; Refresh only re-reads it and announces the change.
type RosterService struct {
	repo      employee.Repository
	publisher eventbus.EventBus
}

func NewRosterService(repo employee.Repository, publisher eventbus.EventBus) *RosterService {
	return &RosterService{
		repo:      repo,
		publisher: publisher,
	}
}

func (s *RosterService) Snapshot(ctx context.Context) ([]employee.Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *RosterService) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *RosterService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

// Refresh re-reads the roster and publishes RosterChangedEvent so dependent
// indexes can rebuild.
func (s *RosterService) Refresh(ctx context.Context) error {
	roster, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	s.publisher.Publish(employee.NewRosterChangedEvent(roster))
	return nil
}
