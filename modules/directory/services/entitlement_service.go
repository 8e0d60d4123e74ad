package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	"github.com/salescope/salescope/pkg/serrors"
)

// ErrEmployeeUnknown means the id does not exist in the roster at all. This
// is distinct from "no entitlement record", which is not an error and yields
// the documented default.
var ErrEmployeeUnknown = serrors.NewError(
	"SCOPE_EMPLOYEE_UNKNOWN",
	"employee is not present in the roster",
	"Scope.EmployeeUnknown",
)

// EntitlementService is the entitlement store accessor: it answers "which
// entitlement record is in effect for this employee right now".
type EntitlementService struct {
	records entitlement.Repository
	roster  employee.Repository
}

func NewEntitlementService(records entitlement.Repository, roster employee.Repository) *EntitlementService {
	return &EntitlementService{
		records: records,
		roster:  roster,
	}
}

// ActiveRecord returns the single record whose effective window covers asOf,
// or the SELF_ONLY default when no record is active. Read-only.
func (s *EntitlementService) ActiveRecord(ctx context.Context, employeeID uuid.UUID, asOf time.Time) (entitlement.Record, error) {
	if _, err := s.roster.GetByID(ctx, employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return entitlement.Record{}, ErrEmployeeUnknown.WithTemplateData(map[string]string{
				"employee": employeeID.String(),
			})
		}
		return entitlement.Record{}, err
	}

	records, err := s.records.ListByEmployee(ctx, employeeID)
	if err != nil {
		return entitlement.Record{}, err
	}

	return ActiveRecordIn(records, employeeID, asOf), nil
}

// ActiveRecordIn selects the in-effect record from an already-loaded list.
// It is a pure function so the scope resolver can reuse it against a
// snapshot without further reads.
func ActiveRecordIn(records []entitlement.Record, employeeID uuid.UUID, asOf time.Time) entitlement.Record {
	for _, r := range records {
		if r.EmployeeID() == employeeID && r.ActiveAt(asOf) {
			return r
		}
	}
	return entitlement.DefaultFor(employeeID)
}
