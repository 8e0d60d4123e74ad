package filter

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	"github.com/salescope/salescope/modules/scope/domain/visibility"
	"github.com/salescope/salescope/pkg/serrors"
)

// ErrScopeViolation signals that post-filtering had to drop more rows than
// the configured threshold: the query likely bypassed the intended scope and
// should be regenerated narrower. Surfaced, never auto-retried.
var ErrScopeViolation = serrors.NewError(
	"SCOPE_VIOLATION",
	"result set exceeds the requester's scope",
	"Scope.Violation",
)

var (
	redactedCells = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scope",
		Subsystem: "filter",
		Name:      "redacted_cells_total",
		Help:      "Total number of capability-gated cells replaced by the redaction marker.",
	})
	droppedRows = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scope",
		Subsystem: "filter",
		Name:      "dropped_rows_total",
		Help:      "Total number of out-of-scope rows removed by the post-filter.",
	})
	scopeViolations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "scope",
		Subsystem: "filter",
		Name:      "violations_total",
		Help:      "Total number of results rejected for exceeding the scope violation threshold.",
	})
)

// Tag marks a column as capability-gated.
type Tag string

const (
	TagNone            Tag = ""
	TagCompensation    Tag = "compensation"
	TagTeamPerformance Tag = "team_performance"
	TagCustomerData    Tag = "customer_data"
)

type Column struct {
	Name string
	Tag  Tag
}

type Row struct {
	EmployeeID uuid.UUID
	Cells      []any
}

// ResultSet is the tabular shape shared by hand-authored and externally
// generated queries. Each row is attributed to one employee; rows whose
// attribution is unknown fail closed and are dropped.
type ResultSet struct {
	Columns []Column
	Rows    []Row
}

// Filter applies the resolved scope to outbound result sets.
type Filter struct {
	threshold float64
	marker    string
	log       *logrus.Logger
}

func New(threshold float64, marker string, log *logrus.Logger) *Filter {
	if marker == "" {
		marker = "[REDACTED]"
	}
	return &Filter{
		threshold: threshold,
		marker:    marker,
		log:       log,
	}
}

// ApplyToResult drops rows outside the visible set and redacts
// capability-gated columns. The operation is idempotent: applying it to an
// already-filtered result returns the same content.
func (f *Filter) ApplyToResult(scope visibility.ScopeResult, rs ResultSet) (ResultSet, error) {
	out := ResultSet{
		Columns: append([]Column{}, rs.Columns...),
		Rows:    make([]Row, 0, len(rs.Rows)),
	}

	dropped := 0
	for _, row := range rs.Rows {
		if row.EmployeeID == uuid.Nil || !scope.Contains(row.EmployeeID) {
			dropped++
			continue
		}
		out.Rows = append(out.Rows, f.redactRow(scope, rs.Columns, row))
	}

	if dropped > 0 {
		droppedRows.Add(float64(dropped))
	}

	if len(rs.Rows) > 0 {
		fraction := float64(dropped) / float64(len(rs.Rows))
		if fraction > f.threshold {
			scopeViolations.Inc()
			if f.log != nil {
				f.log.WithFields(logrus.Fields{
					"requester":      scope.RequesterID(),
					"dropped":        dropped,
					"total":          len(rs.Rows),
					"drop_fraction":  fmt.Sprintf("%.2f", fraction),
					"drop_threshold": f.threshold,
				}).Warn("scope violation: result set exceeds requester scope")
			}
			return ResultSet{}, ErrScopeViolation.WithTemplateData(map[string]string{
				"requester": scope.RequesterID().String(),
				"dropped":   fmt.Sprintf("%d", dropped),
				"total":     fmt.Sprintf("%d", len(rs.Rows)),
			})
		}
	}

	return out, nil
}

func (f *Filter) redactRow(scope visibility.ScopeResult, columns []Column, row Row) Row {
	caps := scope.Capabilities()
	out := Row{
		EmployeeID: row.EmployeeID,
		Cells:      append([]any{}, row.Cells...),
	}
	for i, col := range columns {
		if i >= len(out.Cells) {
			break
		}
		if !f.cellVisible(col.Tag, caps) && out.Cells[i] != f.marker {
			out.Cells[i] = f.marker
			redactedCells.Inc()
		}
	}
	return out
}

func (f *Filter) cellVisible(tag Tag, caps entitlement.Capabilities) bool {
	switch tag {
	case TagCompensation:
		return caps.ViewCompensation
	case TagTeamPerformance:
		return caps.ViewTeamPerformance
	case TagCustomerData:
		return caps.ViewCustomerData
	default:
		return true
	}
}
