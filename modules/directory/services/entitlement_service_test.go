package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	"github.com/salescope/salescope/modules/directory/services"
)

type employeeRepoStub struct {
	employees []employee.Employee
}

func (s *employeeRepoStub) GetAll(context.Context) ([]employee.Employee, error) {
	return s.employees, nil
}

func (s *employeeRepoStub) GetByID(_ context.Context, id uuid.UUID) (employee.Employee, error) {
	for _, e := range s.employees {
		if e.ID() == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (s *employeeRepoStub) Count(context.Context) (int64, error) {
	return int64(len(s.employees)), nil
}

type recordsRepoStub struct {
	records []entitlement.Record
}

func (s *recordsRepoStub) ListByEmployee(_ context.Context, id uuid.UUID) ([]entitlement.Record, error) {
	var out []entitlement.Record
	for _, r := range s.records {
		if r.EmployeeID() == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *recordsRepoStub) ListAll(context.Context) ([]entitlement.Record, error) {
	return s.records, nil
}

func TestActiveRecord_SelectsWindowCoveringAsOf(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	old := entitlement.Hydrate(id, entitlement.AccessAll,
		entitlement.Capabilities{ViewCompensation: true},
		now.Add(-72*time.Hour), ptr(now.Add(-24*time.Hour)))
	current := entitlement.Hydrate(id, entitlement.AccessTeam,
		entitlement.Capabilities{ViewTeamPerformance: true},
		now.Add(-24*time.Hour), nil)

	svc := services.NewEntitlementService(
		&recordsRepoStub{records: []entitlement.Record{current, old}},
		&employeeRepoStub{employees: []employee.Employee{
			employee.New(id, "Ada", employee.RoleTeamManager, "west", uuid.Nil),
		}},
	)

	got, err := svc.ActiveRecord(context.Background(), id, now)
	require.NoError(t, err)
	require.Equal(t, entitlement.AccessTeam, got.Level())
	require.True(t, got.Capabilities().ViewTeamPerformance)
	require.False(t, got.Capabilities().ViewCompensation)
}

func TestActiveRecord_AllExpiredYieldsDefault(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	expired := entitlement.Hydrate(id, entitlement.AccessAll,
		entitlement.Capabilities{ViewCompensation: true},
		now.Add(-72*time.Hour), ptr(now.Add(-24*time.Hour)))

	svc := services.NewEntitlementService(
		&recordsRepoStub{records: []entitlement.Record{expired}},
		&employeeRepoStub{employees: []employee.Employee{
			employee.New(id, "Ada", employee.RoleTeamManager, "west", uuid.Nil),
		}},
	)

	got, err := svc.ActiveRecord(context.Background(), id, now)
	require.NoError(t, err)
	require.Equal(t, entitlement.AccessSelfOnly, got.Level())
	require.False(t, got.Capabilities().ViewCompensation)
	require.True(t, got.Capabilities().ViewIndividualPerformance)
}

func TestActiveRecord_NoRecordsYieldsDefault(t *testing.T) {
	id := uuid.New()
	svc := services.NewEntitlementService(
		&recordsRepoStub{},
		&employeeRepoStub{employees: []employee.Employee{
			employee.New(id, "Ada", employee.RoleIndividualContributor, "west", uuid.Nil),
		}},
	)

	got, err := svc.ActiveRecord(context.Background(), id, time.Now())
	require.NoError(t, err)
	require.Equal(t, entitlement.AccessSelfOnly, got.Level())
}

func TestActiveRecord_UnknownEmployee(t *testing.T) {
	svc := services.NewEntitlementService(&recordsRepoStub{}, &employeeRepoStub{})

	_, err := svc.ActiveRecord(context.Background(), uuid.New(), time.Now())
	require.ErrorIs(t, err, services.ErrEmployeeUnknown)
}

func TestActiveRecord_FromInclusiveToExclusive(t *testing.T) {
	id := uuid.New()
	from := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	record := entitlement.Hydrate(id, entitlement.AccessRegion, entitlement.Capabilities{}, from, &to)
	records := []entitlement.Record{record}

	require.Equal(t, entitlement.AccessRegion, services.ActiveRecordIn(records, id, from).Level())
	require.Equal(t, entitlement.AccessSelfOnly, services.ActiveRecordIn(records, id, to).Level())
}

func ptr(t time.Time) *time.Time { return &t }
