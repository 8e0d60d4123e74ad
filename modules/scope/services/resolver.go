package services

import (
	"github.com/google/uuid"

	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	"github.com/salescope/salescope/modules/scope/domain/hierarchy"
	"github.com/salescope/salescope/modules/scope/domain/visibility"
	"github.com/salescope/salescope/pkg/serrors"
)

var (
	// ErrRequesterUnknown means the requester id is absent from the
	// hierarchy snapshot.
	ErrRequesterUnknown = serrors.NewError(
		"SCOPE_EMPLOYEE_UNKNOWN",
		"requester is not present in the roster",
		"Scope.EmployeeUnknown",
	)
	// ErrRequesterInactive means the requester exists but is deactivated.
	// Resolution fails rather than degrading to a self-only scope, so a
	// stale identity is never silently served.
	ErrRequesterInactive = serrors.NewError(
		"SCOPE_REQUESTER_INACTIVE",
		"requester is deactivated",
		"Scope.RequesterInactive",
	)
)

// Resolve computes the visible set for one requester against an immutable
// hierarchy snapshot and an already-selected entitlement record. It is a
// pure function of its inputs: the same snapshot always yields the same
// scope. Inactive employees never enter a visible set.
func Resolve(idx *hierarchy.Index, requesterID uuid.UUID, record entitlement.Record) (visibility.ScopeResult, error) {
	requester, ok := idx.Employee(requesterID)
	if !ok {
		return visibility.ScopeResult{}, ErrRequesterUnknown.WithTemplateData(map[string]string{
			"employee": requesterID.String(),
		})
	}
	if !requester.Active() {
		return visibility.ScopeResult{}, ErrRequesterInactive.WithTemplateData(map[string]string{
			"employee": requesterID.String(),
		})
	}

	visible := []uuid.UUID{requesterID}

	switch record.Level() {
	case entitlement.AccessSelfOnly:
		// requester only
	case entitlement.AccessDirectReports:
		visible = appendActive(idx, visible, idx.ChildrenOf(requesterID))
	case entitlement.AccessTeam:
		visible = appendActive(idx, visible, idx.DescendantsOf(requesterID))
	case entitlement.AccessRegion:
		for _, emp := range idx.Roster() {
			if emp.ID() != requesterID && emp.Active() && emp.Region() == requester.Region() {
				visible = append(visible, emp.ID())
			}
		}
	case entitlement.AccessAll:
		for _, emp := range idx.Roster() {
			if emp.ID() != requesterID && emp.Active() {
				visible = append(visible, emp.ID())
			}
		}
	default:
		// Unmapped level fails closed to the requester alone.
	}

	return visibility.NewScopeResult(requesterID, record.Level(), record.Capabilities(), visible), nil
}

func appendActive(idx *hierarchy.Index, dst []uuid.UUID, ids []uuid.UUID) []uuid.UUID {
	for _, id := range ids {
		if emp, ok := idx.Employee(id); ok && emp.Active() {
			dst = append(dst, id)
		}
	}
	return dst
}
