package scope

import (
	analyticsservices "github.com/salescope/salescope/modules/analytics/services"
	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/modules/scope/filter"
	"github.com/salescope/salescope/modules/scope/presentation/controllers"
	"github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/application"
	"github.com/salescope/salescope/pkg/configuration"
)

// NewModule expects the directory and analytics modules to be registered
// first: it resolves their services from the application container.
func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	rosterSvc := app.Service(directoryservices.RosterService{}).(*directoryservices.RosterService)
	entitlementSvc := app.Service(directoryservices.EntitlementService{}).(*directoryservices.EntitlementService)
	factsSvc := app.Service(analyticsservices.FactsService{}).(*analyticsservices.FactsService)

	scopeSvc := services.NewScopeService(
		rosterSvc,
		entitlementSvc,
		factsSvc,
		filter.New(conf.Scope.ViolationThreshold, conf.Scope.RedactionMarker, app.Logger()),
		app.Logger(),
	)
	app.EventPublisher().Subscribe(scopeSvc.OnRosterChanged)

	app.RegisterServices(scopeSvc)
	app.RegisterControllers(controllers.NewScopeController(scopeSvc))
	return nil
}

func (m *Module) Name() string {
	return "scope"
}
