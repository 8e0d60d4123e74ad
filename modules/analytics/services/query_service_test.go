package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/modules/analytics/services"
	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	"github.com/salescope/salescope/modules/scope/domain/visibility"
	"github.com/salescope/salescope/modules/scope/filter"
)

var (
	empA = uuid.MustParse("00000000-0000-0000-0000-00000000000a")
	empB = uuid.MustParse("00000000-0000-0000-0000-00000000000b")
	empC = uuid.MustParse("00000000-0000-0000-0000-00000000000c")
)

func newTestQueryService(t *testing.T) (*services.QueryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	f := filter.New(1.0, "[REDACTED]", log)
	return services.NewQueryService(sqlx.NewDb(db, "postgres"), 5*time.Second, f, log), mock
}

func scopeOf(caps entitlement.Capabilities, ids ...uuid.UUID) visibility.ScopeResult {
	return visibility.NewScopeResult(ids[0], entitlement.AccessTeam, caps, ids)
}

func TestExecuteStructured_InjectsBoundPredicate(t *testing.T) {
	svc, mock := newTestQueryService(t)
	scope := scopeOf(entitlement.Capabilities{ViewIndividualPerformance: true}, empA, empB)

	mock.ExpectQuery(`SELECT employee_id, sales_amount FROM performance_facts WHERE period = \$1 AND employee_id IN \(\$2, \$3\)`).
		WithArgs("2026-07", empA.String(), empB.String()).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "sales_amount"}).
			AddRow(empA.String(), "1200.50").
			AddRow(empB.String(), "900.00"))

	rs, err := svc.ExecuteStructured(context.Background(), scope, filter.Query{
		Select: []string{"employee_id", "sales_amount"},
		From:   "performance_facts",
		Where:  []string{"period = ?"},
		Args:   []any{"2026-07"},
	})
	require.NoError(t, err)
	require.Len(t, rs.Rows, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRaw_PostFiltersOutOfScopeRows(t *testing.T) {
	svc, mock := newTestQueryService(t)
	scope := scopeOf(entitlement.Capabilities{ViewIndividualPerformance: true}, empA)

	mock.ExpectQuery(`SELECT employee_id, deals_closed FROM performance_facts`).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "deals_closed"}).
			AddRow(empA.String(), int64(4)).
			AddRow(empC.String(), int64(9)))

	rs, err := svc.ExecuteRaw(context.Background(), scope,
		`SELECT employee_id, deals_closed FROM performance_facts`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	require.Equal(t, empA, rs.Rows[0].EmployeeID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRaw_RedactsCompensationColumn(t *testing.T) {
	svc, mock := newTestQueryService(t)
	scope := scopeOf(entitlement.Capabilities{ViewIndividualPerformance: true}, empA)

	mock.ExpectQuery(`SELECT employee_id, base_salary FROM performance_facts`).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "base_salary"}).
			AddRow(empA.String(), "95000.00"))

	rs, err := svc.ExecuteRaw(context.Background(), scope,
		`SELECT employee_id, base_salary FROM performance_facts`, nil)
	require.NoError(t, err)
	require.Len(t, rs.Rows, 1)
	require.Equal(t, "[REDACTED]", rs.Rows[0].Cells[1])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteRaw_UnattributedRowsDropped(t *testing.T) {
	svc, mock := newTestQueryService(t)
	scope := scopeOf(entitlement.Capabilities{ViewIndividualPerformance: true}, empA)

	mock.ExpectQuery(`SELECT region, SUM`).
		WillReturnRows(sqlmock.NewRows([]string{"region", "sum"}).
			AddRow("west", "5000.00"))

	rs, err := svc.ExecuteRaw(context.Background(), scope,
		`SELECT region, SUM(sales_amount) FROM performance_facts GROUP BY region`, nil)
	require.NoError(t, err)
	require.Empty(t, rs.Rows, "rows without employee attribution fail closed")
	require.NoError(t, mock.ExpectationsWereMet())
}
