package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/salescope/salescope/modules/analytics/domain/fact"
)

const factColumns = `employee_id, period, sales_amount, units_sold, deals_closed, quota_attainment, base_salary, commission`

type factRow struct {
	EmployeeID      uuid.UUID       `db:"employee_id"`
	Period          string          `db:"period"`
	SalesAmount     decimal.Decimal `db:"sales_amount"`
	UnitsSold       int64           `db:"units_sold"`
	DealsClosed     int64           `db:"deals_closed"`
	QuotaAttainment decimal.Decimal `db:"quota_attainment"`
	BaseSalary      decimal.Decimal `db:"base_salary"`
	Commission      decimal.Decimal `db:"commission"`
}

func (r factRow) toDomain() fact.PerformanceFact {
	return fact.PerformanceFact{
		EmployeeID:      r.EmployeeID,
		Period:          r.Period,
		SalesAmount:     r.SalesAmount,
		UnitsSold:       r.UnitsSold,
		DealsClosed:     r.DealsClosed,
		QuotaAttainment: r.QuotaAttainment,
		BaseSalary:      r.BaseSalary,
		Commission:      r.Commission,
	}
}

type FactsRepository struct {
	db *sqlx.DB
}

func NewFactsRepository(db *sqlx.DB) *FactsRepository {
	return &FactsRepository{db: db}
}

func (r *FactsRepository) ForEmployees(ctx context.Context, ids []uuid.UUID, period string) ([]fact.PerformanceFact, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	bound := make([]string, 0, len(ids))
	for _, id := range ids {
		bound = append(bound, id.String())
	}

	query, args, err := sqlx.In(
		`SELECT `+factColumns+` FROM performance_facts WHERE employee_id IN (?) AND period = ?`,
		bound, period,
	)
	if err != nil {
		return nil, errors.Wrap(err, "expanding facts query")
	}

	var rows []factRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying performance facts")
	}

	out := make([]fact.PerformanceFact, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *FactsRepository) Periods(ctx context.Context) ([]string, error) {
	var periods []string
	err := r.db.SelectContext(ctx, &periods,
		`SELECT DISTINCT period FROM performance_facts ORDER BY period DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "listing fact periods")
	}
	return periods, nil
}
