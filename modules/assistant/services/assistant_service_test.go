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

	analyticsservices "github.com/salescope/salescope/modules/analytics/services"
	"github.com/salescope/salescope/modules/assistant/domain/translation"
	"github.com/salescope/salescope/modules/assistant/services"
	"github.com/salescope/salescope/modules/directory/domain/aggregates/employee"
	"github.com/salescope/salescope/modules/directory/domain/entities/entitlement"
	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/modules/scope/filter"
	"github.com/salescope/salescope/modules/scope/ranking"
	scopeservices "github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/eventbus"
)

type translatorStub struct {
	sql      string
	lastReq  translation.Request
	requests int
}

func (s *translatorStub) Translate(_ context.Context, req translation.Request) (translation.Result, error) {
	s.lastReq = req
	s.requests++
	return translation.Result{SQL: s.sql}, nil
}

type memoryCache struct {
	entries map[string]string
}

func (c *memoryCache) Get(_ context.Context, threadID string) (string, bool, error) {
	v, ok := c.entries[threadID]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, threadID, sql string) error {
	c.entries[threadID] = sql
	return nil
}

type rosterStub struct {
	roster []employee.Employee
}

func (s *rosterStub) GetAll(context.Context) ([]employee.Employee, error) {
	return s.roster, nil
}

func (s *rosterStub) GetByID(_ context.Context, id uuid.UUID) (employee.Employee, error) {
	for _, e := range s.roster {
		if e.ID() == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrNotFound
}

func (s *rosterStub) Count(context.Context) (int64, error) {
	return int64(len(s.roster)), nil
}

type entitlementsStub struct {
	records []entitlement.Record
}

func (s *entitlementsStub) ListByEmployee(_ context.Context, id uuid.UUID) ([]entitlement.Record, error) {
	var out []entitlement.Record
	for _, r := range s.records {
		if r.EmployeeID() == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *entitlementsStub) ListAll(context.Context) ([]entitlement.Record, error) {
	return s.records, nil
}

type noFacts struct{}

func (noFacts) ForEmployees(context.Context, []uuid.UUID, string) ([]ranking.Fact, error) {
	return nil, nil
}

type assistantFixture struct {
	assistant  *services.AssistantService
	translator *translatorStub
	cache      *memoryCache
	mock       sqlmock.Sqlmock
	manager    uuid.UUID
	reports    []uuid.UUID
}

// newAssistantFixture builds the full ask pipeline over a three-person team:
// the manager holds a TEAM entitlement without compensation access.
func newAssistantFixture(t *testing.T, translatedSQL string) *assistantFixture {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	manager := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	r1 := uuid.MustParse("00000000-0000-0000-0000-000000000002")
	r2 := uuid.MustParse("00000000-0000-0000-0000-000000000003")
	roster := []employee.Employee{
		employee.Hydrate(manager, "Mona", employee.RoleTeamManager, "west", uuid.Nil, true, time.Now(), time.Now()),
		employee.Hydrate(r1, "Dina", employee.RoleIndividualContributor, "west", manager, true, time.Now(), time.Now()),
		employee.Hydrate(r2, "Evan", employee.RoleIndividualContributor, "west", manager, true, time.Now(), time.Now()),
	}
	records := []entitlement.Record{
		entitlement.New(manager, entitlement.AccessTeam, entitlement.Capabilities{
			ViewIndividualPerformance: true,
			ViewTeamPerformance:       true,
		}, time.Now().Add(-time.Hour)),
	}

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	f := filter.New(1.0, "[REDACTED]", log)
	repo := &rosterStub{roster: roster}
	bus := eventbus.NewEventPublisher(log)
	scopeSvc := scopeservices.NewScopeService(
		directoryservices.NewRosterService(repo, bus),
		directoryservices.NewEntitlementService(&entitlementsStub{records: records}, repo),
		noFacts{},
		f,
		log,
	)
	querySvc := analyticsservices.NewQueryService(sqlx.NewDb(db, "postgres"), 5*time.Second, f, log)

	translator := &translatorStub{sql: translatedSQL}
	cache := &memoryCache{entries: map[string]string{}}
	assistant := services.NewAssistantService(scopeSvc, querySvc, translator, cache, 2, log)

	return &assistantFixture{
		assistant:  assistant,
		translator: translator,
		cache:      cache,
		mock:       mock,
		manager:    manager,
		reports:    []uuid.UUID{r1, r2},
	}
}

func TestAsk_TruncatesAndCachesSQL(t *testing.T) {
	const sql = `SELECT employee_id, sales_amount FROM performance_facts WHERE period = '2026-07'`
	fx := newAssistantFixture(t, sql)

	rows := sqlmock.NewRows([]string{"employee_id", "sales_amount"}).
		AddRow(fx.manager.String(), "1500.00").
		AddRow(fx.reports[0].String(), "1200.00").
		AddRow(fx.reports[1].String(), "900.00")
	fx.mock.ExpectQuery(`SELECT employee_id, sales_amount FROM performance_facts`).WillReturnRows(rows)

	answer, err := fx.assistant.Ask(context.Background(), fx.manager, "thread-1", "how is my team doing this month")
	require.NoError(t, err)
	require.True(t, answer.Truncated)
	require.Len(t, answer.Table.Rows, 2)
	require.Equal(t, 3, answer.TotalRows)
	require.Equal(t, sql, answer.SQL)

	cached, err := fx.assistant.ShowSQL(context.Background(), "thread-1")
	require.NoError(t, err)
	require.Equal(t, sql, cached)
}

func TestAsk_PostFiltersTranslatedSQL(t *testing.T) {
	const sql = `SELECT employee_id, base_salary FROM performance_facts`
	fx := newAssistantFixture(t, sql)

	outsider := uuid.MustParse("00000000-0000-0000-0000-0000000000ff")
	rows := sqlmock.NewRows([]string{"employee_id", "base_salary"}).
		AddRow(fx.manager.String(), "99000.00").
		AddRow(outsider.String(), "88000.00")
	fx.mock.ExpectQuery(`SELECT employee_id, base_salary FROM performance_facts`).WillReturnRows(rows)

	answer, err := fx.assistant.Ask(context.Background(), fx.manager, "thread-2", "salaries")
	require.NoError(t, err)
	require.Len(t, answer.Table.Rows, 1, "out-of-scope row must not survive")
	require.Equal(t, "[REDACTED]", answer.Table.Rows[0][1], "compensation must be redacted without the capability")
}

func TestRefine_UsesCachedSQLAsContext(t *testing.T) {
	const sql = `SELECT employee_id, deals_closed FROM performance_facts`
	fx := newAssistantFixture(t, sql)
	fx.cache.entries["thread-3"] = `SELECT employee_id FROM performance_facts`

	fx.mock.ExpectQuery(`SELECT employee_id, deals_closed FROM performance_facts`).
		WillReturnRows(sqlmock.NewRows([]string{"employee_id", "deals_closed"}).
			AddRow(fx.manager.String(), int64(5)))

	_, err := fx.assistant.Refine(context.Background(), fx.manager, "thread-3", "add deal counts")
	require.NoError(t, err)
	require.Equal(t, `SELECT employee_id FROM performance_facts`, fx.translator.lastReq.PriorSQL)
	require.Equal(t, "add deal counts", fx.translator.lastReq.Refinement)
}

func TestRefine_WithoutPriorSQL(t *testing.T) {
	fx := newAssistantFixture(t, "SELECT 1")

	_, err := fx.assistant.Refine(context.Background(), fx.manager, "cold-thread", "narrow it down")
	require.ErrorIs(t, err, services.ErrNoThreadSQL)
	require.Zero(t, fx.translator.requests, "no translation without a prior statement")
}

func TestShowSQL_UnknownThread(t *testing.T) {
	fx := newAssistantFixture(t, "SELECT 1")

	_, err := fx.assistant.ShowSQL(context.Background(), "missing")
	require.ErrorIs(t, err, services.ErrNoThreadSQL)
}
