package directory

import (
	"embed"

	"github.com/salescope/salescope/modules/directory/infrastructure/persistence"
	"github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/pkg/application"
)

//go:embed infrastructure/persistence/schema/directory-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	employeeRepo := persistence.NewEmployeeRepository()
	app.RegisterServices(
		services.NewRosterService(employeeRepo, app.EventPublisher()),
		services.NewEntitlementService(persistence.NewEntitlementRepository(), employeeRepo),
	)
	return nil
}

func (m *Module) Name() string {
	return "directory"
}
