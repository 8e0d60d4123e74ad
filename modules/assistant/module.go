package assistant

import (
	"github.com/redis/go-redis/v9"

	analyticsservices "github.com/salescope/salescope/modules/analytics/services"
	"github.com/salescope/salescope/modules/assistant/infrastructure/cache"
	"github.com/salescope/salescope/modules/assistant/infrastructure/openai"
	"github.com/salescope/salescope/modules/assistant/presentation/controllers"
	"github.com/salescope/salescope/modules/assistant/services"
	scopeservices "github.com/salescope/salescope/modules/scope/services"
	"github.com/salescope/salescope/pkg/application"
	"github.com/salescope/salescope/pkg/configuration"
)

// NewModule expects the scope and analytics modules registered first.
func NewModule() application.Module {
	return &Module{}
}

type Module struct{}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	scopeSvc := app.Service(scopeservices.ScopeService{}).(*scopeservices.ScopeService)
	querySvc := app.Service(analyticsservices.QueryService{}).(*analyticsservices.QueryService)

	redisClient := redis.NewClient(&redis.Options{Addr: conf.Assistant.RedisURL})
	assistantSvc := services.NewAssistantService(
		scopeSvc,
		querySvc,
		openai.NewTranslator(conf.Assistant.OpenAIKey, conf.Assistant.OpenAIModel),
		cache.NewRedisSQLCache(redisClient, conf.Assistant.SQLCacheTTL),
		conf.Assistant.MaxTableRows,
		app.Logger(),
	)

	app.RegisterServices(assistantSvc)
	app.RegisterControllers(controllers.NewAssistantController(assistantSvc))
	return nil
}

func (m *Module) Name() string {
	return "assistant"
}
