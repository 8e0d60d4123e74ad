package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	"github.com/salescope/salescope/pkg/composables"
)

type EntitlementRepository struct{}

func NewEntitlementRepository() entitlement.Repository {
	return &EntitlementRepository{}
}

const entitlementColumns = `employee_id, access_level, view_compensation, view_individual_performance, view_team_performance, view_customer_data, effective_from, effective_to`

func (r *EntitlementRepository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]entitlement.Record, error) {
	q, err := composables.UseQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
SELECT `+entitlementColumns+`
FROM entitlements
WHERE employee_id = $1
ORDER BY effective_from DESC
`, pgUUID(employeeID))
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list entitlements")
	}
	defer rows.Close()

	return scanEntitlements(rows)
}

func (r *EntitlementRepository) ListAll(ctx context.Context) ([]entitlement.Record, error) {
	q, err := composables.UseQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
SELECT `+entitlementColumns+`
FROM entitlements
ORDER BY employee_id, effective_from DESC
`)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list entitlements")
	}
	defer rows.Close()

	return scanEntitlements(rows)
}

func scanEntitlements(rows pgx.Rows) ([]entitlement.Record, error) {
	var out []entitlement.Record
	for rows.Next() {
		var (
			employeeID pgtype.UUID
			levelRaw   string
			caps       entitlement.Capabilities
			from       time.Time
			to         *time.Time
		)
		if err := rows.Scan(
			&employeeID,
			&levelRaw,
			&caps.ViewCompensation,
			&caps.ViewIndividualPerformance,
			&caps.ViewTeamPerformance,
			&caps.ViewCustomerData,
			&from,
			&to,
		); err != nil {
			return nil, err
		}

		level, err := entitlement.ParseAccessLevel(levelRaw)
		if err != nil {
			return nil, gerrors.Wrap(err, "invalid entitlement row")
		}

		out = append(out, entitlement.Hydrate(uuidFromPg(employeeID), level, caps, from, to))
	}
	return out, rows.Err()
}
