package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/salescope/salescope/modules/scope/domain/visibility"
	"github.com/salescope/salescope/modules/scope/filter"
)

// columnTags maps known warehouse column names to their capability gates.
// Unknown columns are left untagged and pass through redaction unchanged.
var columnTags = map[string]filter.Tag{
	"base_salary":      filter.TagCompensation,
	"commission":       filter.TagCompensation,
	"total_comp":       filter.TagCompensation,
	"quota_attainment": filter.TagTeamPerformance,
	"team_total":       filter.TagTeamPerformance,
	"team_average":     filter.TagTeamPerformance,
	"customer_name":    filter.TagCustomerData,
	"account_name":     filter.TagCustomerData,
	"contact_email":    filter.TagCustomerData,
}

// QueryService executes analytic queries against the warehouse with the
// resolved scope applied. Structured queries get a bound predicate injected
// before execution; opaque SQL is executed as-is and post-filtered, which is
// the mandatory fallback when the query shape is not ours.
type QueryService struct {
	db      *sqlx.DB
	timeout time.Duration
	filter  *filter.Filter
	log     *logrus.Logger
}

func NewQueryService(db *sqlx.DB, timeout time.Duration, f *filter.Filter, log *logrus.Logger) *QueryService {
	return &QueryService{
		db:      db,
		timeout: timeout,
		filter:  f,
		log:     log,
	}
}

// ExecuteStructured renders q with the scope predicate injected and runs it.
// The result is post-filtered as well, so both modes yield the same visible
// content and gated columns are redacted either way.
func (s *QueryService) ExecuteStructured(ctx context.Context, scope visibility.ScopeResult, q filter.Query) (filter.ResultSet, error) {
	scoped := filter.InjectPredicate(q, scope)

	text, args, err := renderQuery(scoped)
	if err != nil {
		return filter.ResultSet{}, err
	}
	rs, err := s.run(ctx, text, args, scoped.EmployeeColumn())
	if err != nil {
		return filter.ResultSet{}, err
	}
	return s.filter.ApplyToResult(scope, rs)
}

// ExecuteRaw runs externally produced SQL whose shape cannot be rewritten
// safely. Every row must carry an employee_id column; rows without one are
// dropped by the post-filter.
func (s *QueryService) ExecuteRaw(ctx context.Context, scope visibility.ScopeResult, sqlText string, args []any) (filter.ResultSet, error) {
	rs, err := s.run(ctx, sqlText, args, "employee_id")
	if err != nil {
		return filter.ResultSet{}, err
	}
	return s.filter.ApplyToResult(scope, rs)
}

func (s *QueryService) run(ctx context.Context, text string, args []any, employeeCol string) (filter.ResultSet, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	expanded, expandedArgs, err := sqlx.In(text, args...)
	if err != nil {
		return filter.ResultSet{}, errors.Wrap(err, "expanding query placeholders")
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(expanded), expandedArgs...)
	if err != nil {
		return filter.ResultSet{}, errors.Wrap(err, "executing warehouse query")
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return filter.ResultSet{}, errors.Wrap(err, "reading result columns")
	}

	rs := filter.ResultSet{Columns: make([]filter.Column, 0, len(names))}
	employeeIdx := -1
	for i, name := range names {
		if strings.EqualFold(name, employeeCol) {
			employeeIdx = i
		}
		rs.Columns = append(rs.Columns, filter.Column{Name: name, Tag: columnTags[strings.ToLower(name)]})
	}

	for rows.Next() {
		cells, err := rows.SliceScan()
		if err != nil {
			return filter.ResultSet{}, errors.Wrap(err, "scanning result row")
		}
		row := filter.Row{Cells: cells}
		if employeeIdx >= 0 {
			row.EmployeeID = parseEmployeeID(cells[employeeIdx])
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return filter.ResultSet{}, errors.Wrap(err, "iterating result rows")
	}
	return rs, nil
}

func parseEmployeeID(cell any) uuid.UUID {
	switch v := cell.(type) {
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil
		}
		return id
	case []byte:
		id, err := uuid.ParseBytes(v)
		if err != nil {
			return uuid.Nil
		}
		return id
	case [16]byte:
		return uuid.UUID(v)
	default:
		return uuid.Nil
	}
}

// renderQuery turns a structured query into SQL text with `?` placeholders.
// Clause fragments come from our own query builders, values stay bound.
func renderQuery(q filter.Query) (string, []any, error) {
	if q.From == "" {
		return "", nil, errors.New("query has no FROM table")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if len(q.Select) == 0 {
		b.WriteString("*")
	} else {
		b.WriteString(strings.Join(q.Select, ", "))
	}
	b.WriteString(" FROM ")
	b.WriteString(q.From)
	if len(q.Where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(q.Where, " AND "))
	}
	if q.OrderBy != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(q.OrderBy)
	}
	if q.Limit > 0 {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.Itoa(q.Limit))
	}
	return b.String(), q.Args, nil
}
