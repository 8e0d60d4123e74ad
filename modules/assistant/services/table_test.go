package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/salescope/salescope/modules/scope/filter"
)

func TestBuildTable_TruncatesForChatDisplay(t *testing.T) {
	rs := filter.ResultSet{
		Columns: []filter.Column{{Name: "employee_name"}, {Name: "sales_amount"}},
	}
	for i := 0; i < 25; i++ {
		rs.Rows = append(rs.Rows, filter.Row{
			EmployeeID: uuid.New(),
			Cells:      []any{"emp", "100.00"},
		})
	}

	table, truncated := buildTable(rs, 10)
	require.True(t, truncated)
	require.Len(t, table.Rows, 10)
	require.Equal(t, []string{"employee_name", "sales_amount"}, table.Columns)
}

func TestBuildTable_NoTruncationBelowLimit(t *testing.T) {
	rs := filter.ResultSet{
		Columns: []filter.Column{{Name: "employee_name"}},
		Rows: []filter.Row{
			{EmployeeID: uuid.New(), Cells: []any{"Alice"}},
		},
	}
	table, truncated := buildTable(rs, 10)
	require.False(t, truncated)
	require.Equal(t, [][]string{{"Alice"}}, table.Rows)
}

func TestBuildTable_ZeroLimitDisablesTruncation(t *testing.T) {
	rs := filter.ResultSet{Columns: []filter.Column{{Name: "n"}}}
	for i := 0; i < 50; i++ {
		rs.Rows = append(rs.Rows, filter.Row{EmployeeID: uuid.New(), Cells: []any{"x"}})
	}
	_, truncated := buildTable(rs, 0)
	require.False(t, truncated)
}
