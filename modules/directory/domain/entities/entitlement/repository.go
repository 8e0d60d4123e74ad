package entitlement

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// ListByEmployee returns every record (history included) for the employee,
	// newest effective window first.
	ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Record, error)
	// ListAll returns the full entitlement snapshot.
	ListAll(ctx context.Context) ([]Record, error)
}
