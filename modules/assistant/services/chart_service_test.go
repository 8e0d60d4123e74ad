package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/modules/assistant/services"
	"github.com/salescope/salescope/modules/scope/filter"
)

func resultSet(columns []string, rows ...[]any) filter.ResultSet {
	rs := filter.ResultSet{}
	for _, name := range columns {
		rs.Columns = append(rs.Columns, filter.Column{Name: name})
	}
	for _, cells := range rows {
		rs.Rows = append(rs.Rows, filter.Row{EmployeeID: uuid.New(), Cells: cells})
	}
	return rs
}

func TestSuggest_DateSeriesBecomesLine(t *testing.T) {
	charts := services.NewChartService()
	rs := resultSet([]string{"period", "sales_amount"},
		[]any{"2026-05", "1000.00"},
		[]any{"2026-06", "1250.00"},
		[]any{"2026-07", "980.00"},
	)
	require.Equal(t, services.ChartLine, charts.Suggest(rs))
}

func TestSuggest_FewCategoriesBecomePie(t *testing.T) {
	charts := services.NewChartService()
	rs := resultSet([]string{"region", "sales_amount"},
		[]any{"west", "5000.00"},
		[]any{"east", "4200.00"},
		[]any{"north", "3100.00"},
	)
	require.Equal(t, services.ChartPie, charts.Suggest(rs))
}

func TestSuggest_ManyCategoriesBecomeBar(t *testing.T) {
	charts := services.NewChartService()
	rs := resultSet([]string{"employee_name", "deals_closed"})
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		rs.Rows = append(rs.Rows, filter.Row{EmployeeID: uuid.New(), Cells: []any{name, int64(3)}})
	}
	require.Equal(t, services.ChartBar, charts.Suggest(rs))
}

func TestSuggest_TooManyCategoriesStayTable(t *testing.T) {
	charts := services.NewChartService()
	rs := resultSet([]string{"customer_name", "sales_amount"})
	for i := 0; i < 12; i++ {
		rs.Rows = append(rs.Rows, filter.Row{EmployeeID: uuid.New(), Cells: []any{string(rune('a' + i)), "10.00"}})
	}
	require.Equal(t, services.ChartTable, charts.Suggest(rs))
}

func TestSuggest_NonNumericStaysTable(t *testing.T) {
	charts := services.NewChartService()
	rs := resultSet([]string{"employee_name", "region"},
		[]any{"Alice", "west"},
		[]any{"Bob", "east"},
	)
	require.Equal(t, services.ChartTable, charts.Suggest(rs))
}

func TestSuggest_EmptyResultStaysTable(t *testing.T) {
	charts := services.NewChartService()
	require.Equal(t, services.ChartTable, charts.Suggest(filter.ResultSet{}))
}
