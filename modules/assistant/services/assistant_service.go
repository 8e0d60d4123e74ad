package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	analyticsservices "github.com/salescope/salescope/modules/analytics/services"
	"github.com/salescope/salescope/modules/assistant/domain/translation"
	"github.com/salescope/salescope/modules/assistant/infrastructure/cache"
	"github.com/salescope/salescope/modules/scope/filter"
	scopeservices "github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/serrors"
)

// ErrNoThreadSQL means the thread has no cached statement to show, refine,
// or export, usually because it expired or no question was asked yet.
var ErrNoThreadSQL = serrors.NewError(
	"ASSISTANT_NO_THREAD_SQL",
	"no query is associated with this conversation thread",
	"Assistant.NoThreadSQL",
)

// Answer is one assistant reply: a scope-filtered table truncated for chat
// display, a suggested chart kind, and the SQL that produced it.
type Answer struct {
	Table     Table
	Chart     ChartKind
	SQL       string
	TotalRows int
	Truncated bool
}

type Table struct {
	Columns []string
	Rows    [][]string
}

// AssistantService orchestrates one question round-trip: resolve the
// requester's scope, translate the question, execute the candidate SQL with
// mandatory post-filtering, and shape the reply. The translation output is
// never trusted; the scope filter is what keeps the answer inside policy.
type AssistantService struct {
	scope      *scopeservices.ScopeService
	queries    *analyticsservices.QueryService
	translator translation.Client
	sqlCache   cache.SQLCache
	charts     *ChartService
	exports    *ExportService
	maxRows    int
	log        *logrus.Logger
}

func NewAssistantService(
	scope *scopeservices.ScopeService,
	queries *analyticsservices.QueryService,
	translator translation.Client,
	sqlCache cache.SQLCache,
	maxRows int,
	log *logrus.Logger,
) *AssistantService {
	return &AssistantService{
		scope:      scope,
		queries:    queries,
		translator: translator,
		sqlCache:   sqlCache,
		charts:     NewChartService(),
		exports:    NewExportService(),
		maxRows:    maxRows,
		log:        log,
	}
}

func (s *AssistantService) Ask(ctx context.Context, requesterID uuid.UUID, threadID, question string) (Answer, error) {
	result, err := s.translator.Translate(ctx, translation.Request{Question: question})
	if err != nil {
		return Answer{}, err
	}
	return s.answer(ctx, requesterID, threadID, result.SQL)
}

// Refine adjusts the thread's previous query with a follow-up instruction.
func (s *AssistantService) Refine(ctx context.Context, requesterID uuid.UUID, threadID, instruction string) (Answer, error) {
	prior, ok, err := s.sqlCache.Get(ctx, threadID)
	if err != nil {
		return Answer{}, err
	}
	if !ok {
		return Answer{}, ErrNoThreadSQL
	}

	result, err := s.translator.Translate(ctx, translation.Request{
		Question:   instruction,
		PriorSQL:   prior,
		Refinement: instruction,
	})
	if err != nil {
		return Answer{}, err
	}
	return s.answer(ctx, requesterID, threadID, result.SQL)
}

// ShowSQL returns the statement behind the thread's last answer.
func (s *AssistantService) ShowSQL(ctx context.Context, threadID string) (string, error) {
	sql, ok, err := s.sqlCache.Get(ctx, threadID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoThreadSQL
	}
	return sql, nil
}

// Export re-runs the thread's query under the requester's current scope and
// renders the full, untruncated result.
func (s *AssistantService) Export(ctx context.Context, requesterID uuid.UUID, threadID string, format ExportFormat) (Export, error) {
	sql, ok, err := s.sqlCache.Get(ctx, threadID)
	if err != nil {
		return Export{}, err
	}
	if !ok {
		return Export{}, ErrNoThreadSQL
	}

	scope, err := s.scope.ResolveScope(ctx, requesterID, time.Now())
	if err != nil {
		return Export{}, err
	}
	rs, err := s.queries.ExecuteRaw(ctx, scope, sql, nil)
	if err != nil {
		return Export{}, err
	}
	return s.exports.Render(rs, format)
}

func (s *AssistantService) answer(ctx context.Context, requesterID uuid.UUID, threadID, sql string) (Answer, error) {
	scope, err := s.scope.ResolveScope(ctx, requesterID, time.Now())
	if err != nil {
		return Answer{}, err
	}

	rs, err := s.queries.ExecuteRaw(ctx, scope, sql, nil)
	if err != nil {
		return Answer{}, err
	}

	if err := s.sqlCache.Set(ctx, threadID, sql); err != nil {
		// A cold cache only degrades show-SQL and refine, not the answer.
		s.log.WithError(err).Warn("caching thread sql failed")
	}

	table, truncated := buildTable(rs, s.maxRows)
	return Answer{
		Table:     table,
		Chart:     s.charts.Suggest(rs),
		SQL:       sql,
		TotalRows: len(rs.Rows),
		Truncated: truncated,
	}, nil
}

func buildTable(rs filter.ResultSet, maxRows int) (Table, bool) {
	table := Table{Columns: make([]string, 0, len(rs.Columns))}
	for _, col := range rs.Columns {
		table.Columns = append(table.Columns, col.Name)
	}

	truncated := false
	rows := rs.Rows
	if maxRows > 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
		truncated = true
	}
	table.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		record := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			record = append(record, cellString(cell))
		}
		table.Rows = append(table.Rows, record)
	}
	return table, truncated
}
