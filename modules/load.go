package modules

import (
	"github.com/jmoiron/sqlx"

	"github.com/salescope/salescope/modules/analytics"
	"github.com/salescope/salescope/modules/assistant"
	"github.com/salescope/salescope/modules/directory"
	"github.com/salescope/salescope/modules/scope"
	"github.com/salescope/salescope/pkg/application"
)

// BuiltIn returns the modules in registration order: later modules resolve
// the services of earlier ones from the application container.
func BuiltIn(warehouse *sqlx.DB) []application.Module {
	return []application.Module{
		directory.NewModule(),
		analytics.NewModule(warehouse),
		scope.NewModule(),
		assistant.NewModule(),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	return application.Load(app, externalModules...)
}
