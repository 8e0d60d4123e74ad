package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	analyticspersistence "github.com/salescope/salescope/modules/analytics/infrastructure/persistence"
	analyticsservices "github.com/salescope/salescope/modules/analytics/services"
	directorypersistence "github.com/salescope/salescope/modules/directory/infrastructure/persistence"
	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/modules/scope/filter"
	scopeservices "github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/composables"
	"github.com/salescope/salescope/pkg/configuration"
	"github.com/salescope/salescope/pkg/eventbus"
)

// cliEnv holds the connections and services a command needs. Close after use.
type cliEnv struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	warehouse *sqlx.DB
	scope     *scopeservices.ScopeService
	roster    *directoryservices.RosterService
}

func newCLIEnv(ctx context.Context) (*cliEnv, error) {
	conf := configuration.Use()
	logger := conf.Logger()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(connectCtx, conf.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	warehouse, err := sqlx.Open("postgres", conf.Warehouse.DSN)
	if err != nil {
		pool.Close()
		return nil, err
	}

	employeeRepo := directorypersistence.NewEmployeeRepository()
	rosterSvc := directoryservices.NewRosterService(employeeRepo, eventbus.NewEventPublisher(logger))
	entitlementSvc := directoryservices.NewEntitlementService(
		directorypersistence.NewEntitlementRepository(), employeeRepo)
	factsSvc := analyticsservices.NewFactsService(analyticspersistence.NewFactsRepository(warehouse))

	scopeSvc := scopeservices.NewScopeService(
		rosterSvc,
		entitlementSvc,
		factsSvc,
		filter.New(conf.Scope.ViolationThreshold, conf.Scope.RedactionMarker, logger),
		logger,
	)

	return &cliEnv{
		ctx:       composables.WithPool(ctx, pool),
		pool:      pool,
		warehouse: warehouse,
		scope:     scopeSvc,
		roster:    rosterSvc,
	}, nil
}

func (e *cliEnv) Close() {
	e.pool.Close()
	_ = e.warehouse.Close()
}

func writeJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
