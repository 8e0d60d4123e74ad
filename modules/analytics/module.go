package analytics

import (
	"embed"

	"github.com/jmoiron/sqlx"

	"github.com/salescope/salescope/modules/analytics/infrastructure/persistence"
	"github.com/salescope/salescope/modules/analytics/services"
	"github.com/salescope/salescope/modules/scope/filter"
	"github.com/salescope/salescope/pkg/application"
	"github.com/salescope/salescope/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/analytics-schema.sql
var MigrationFiles embed.FS

// NewModule wires the warehouse connection. The pgx pool held by the
// application serves the roster store only; analytic queries go through db.
func NewModule(db *sqlx.DB) application.Module {
	return &Module{db: db}
}

type Module struct {
	db *sqlx.DB
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	f := filter.New(conf.Scope.ViolationThreshold, conf.Scope.RedactionMarker, app.Logger())
	app.RegisterServices(
		services.NewFactsService(persistence.NewFactsRepository(m.db)),
		services.NewQueryService(m.db, conf.Warehouse.QueryTimeout, f, app.Logger()),
	)
	return nil
}

func (m *Module) Name() string {
	return "analytics"
}
