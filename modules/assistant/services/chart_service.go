package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/salescope/salescope/modules/scope/filter"
)

type ChartKind string

const (
	ChartTable ChartKind = "table"
	ChartLine  ChartKind = "line"
	ChartBar   ChartKind = "bar"
	ChartPie   ChartKind = "pie"
)

// pieCategoryLimit keeps pies readable; above it a bar chart is suggested.
const (
	pieCategoryLimit = 5
	barCategoryLimit = 10
)

// ChartService picks a presentation for a result set. Heuristics only: a
// date-keyed series becomes a line chart, a small categorical breakdown with
// a numeric column becomes a pie or bar chart, everything else stays a table.
type ChartService struct{}

func NewChartService() *ChartService {
	return &ChartService{}
}

func (s *ChartService) Suggest(rs filter.ResultSet) ChartKind {
	if len(rs.Rows) == 0 || len(rs.Columns) < 2 {
		return ChartTable
	}
	if !hasNumericColumn(rs) {
		return ChartTable
	}

	if firstColumnIsDate(rs) {
		return ChartLine
	}

	categories := distinctFirstColumn(rs)
	switch {
	case categories <= pieCategoryLimit:
		return ChartPie
	case categories <= barCategoryLimit:
		return ChartBar
	default:
		return ChartTable
	}
}

func firstColumnIsDate(rs filter.ResultSet) bool {
	for _, row := range rs.Rows {
		if len(row.Cells) == 0 || !isDate(row.Cells[0]) {
			return false
		}
	}
	return true
}

func isDate(cell any) bool {
	switch v := cell.(type) {
	case time.Time:
		return true
	case string:
		for _, layout := range []string{"2006-01-02", "2006-01"} {
			if _, err := time.Parse(layout, v); err == nil {
				return true
			}
		}
	case []byte:
		return isDate(string(v))
	}
	return false
}

func distinctFirstColumn(rs filter.ResultSet) int {
	seen := map[string]struct{}{}
	for _, row := range rs.Rows {
		if len(row.Cells) == 0 {
			continue
		}
		if s, ok := asString(row.Cells[0]); ok {
			seen[s] = struct{}{}
		}
	}
	return len(seen)
}

func asString(cell any) (string, bool) {
	switch v := cell.(type) {
	case string:
		return v, true
	case []byte:
		return string(v), true
	default:
		return "", false
	}
}

func hasNumericColumn(rs filter.ResultSet) bool {
	row := rs.Rows[0]
	// Skip the leading label/date column.
	for _, cell := range row.Cells[1:] {
		if isNumeric(cell) {
			return true
		}
	}
	return false
}

func isNumeric(cell any) bool {
	switch v := cell.(type) {
	case int, int32, int64, float32, float64, decimal.Decimal:
		return true
	case string:
		_, err := decimal.NewFromString(v)
		return err == nil
	case []byte:
		_, err := decimal.NewFromString(string(v))
		return err == nil
	default:
		return false
	}
}
