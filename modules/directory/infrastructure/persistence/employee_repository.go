package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	"github.com/salescope/salescope/pkg/composables"
)

type EmployeeRepository struct{}

func NewEmployeeRepository() employee.Repository {
	return &EmployeeRepository{}
}

const employeeColumns = `id, display_name, role, region, manager_id, active, created_at, updated_at`

func (r *EmployeeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	q, err := composables.UseQuerier(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := q.Query(ctx, `
SELECT `+employeeColumns+`
FROM employees
ORDER BY display_name, id
`)
	if err != nil {
		return nil, gerrors.Wrap(err, "failed to list employees")
	}
	defer rows.Close()

	var out []employee.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (employee.Employee, error) {
	q, err := composables.UseQuerier(ctx)
	if err != nil {
		return employee.Employee{}, err
	}

	row := q.QueryRow(ctx, `
SELECT `+employeeColumns+`
FROM employees
WHERE id = $1
`, pgUUID(id))

	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrNotFound
		}
		return employee.Employee{}, err
	}
	return e, nil
}

func (r *EmployeeRepository) Count(ctx context.Context) (int64, error) {
	q, err := composables.UseQuerier(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		id        pgtype.UUID
		name      string
		roleRaw   string
		region    string
		managerID pgtype.UUID
		active    bool
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &name, &roleRaw, &region, &managerID, &active, &createdAt, &updatedAt); err != nil {
		return employee.Employee{}, err
	}

	role, err := employee.ParseRole(roleRaw)
	if err != nil {
		return employee.Employee{}, gerrors.Wrap(err, "invalid employee row")
	}

	return employee.Hydrate(
		uuidFromPg(id),
		name,
		role,
		region,
		uuidFromPg(managerID),
		active,
		createdAt,
		updatedAt,
	), nil
}
