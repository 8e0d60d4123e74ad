// Package fact models the monthly performance measurements owned by the
// analytics warehouse. Facts are read-only inputs: nothing here mutates them.
package fact

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PerformanceFact is one employee's measurements for one month. Period is
// formatted YYYY-MM.
type PerformanceFact struct {
	EmployeeID      uuid.UUID
	Period          string
	SalesAmount     decimal.Decimal
	UnitsSold       int64
	DealsClosed     int64
	QuotaAttainment decimal.Decimal
	BaseSalary      decimal.Decimal
	Commission      decimal.Decimal
}

type Repository interface {
	// ForEmployees returns at most one fact per employee for the period.
	// Unknown employees are simply absent from the result.
	ForEmployees(ctx context.Context, ids []uuid.UUID, period string) ([]PerformanceFact, error)
	// Periods lists the distinct periods present, newest first.
	Periods(ctx context.Context) ([]string, error)
}
