package server

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/salescope/salescope/pkg/application"
	"github.com/salescope/salescope/pkg/configuration"
	"github.com/salescope/salescope/pkg/httpapi"
	"github.com/salescope/salescope/pkg/metrics"
	"github.com/salescope/salescope/pkg/middleware"
	"github.com/salescope/salescope/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

func Default(options *DefaultOptions) (*server.HTTPServer, error) {
	app := options.Application

	app.RegisterMiddleware(
		middleware.RequestLogger(options.Logger, options.Configuration.RequestIDHeader),
		middleware.WithPool(options.Pool),
		middleware.RequesterFromHeader(),
	)

	if options.Configuration.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(options.Configuration.Prometheus.Path))
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "no such route", nil)
	})
	notAllowed := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed on this route", nil)
	})
	return server.NewHTTPServer(app, notFound, notAllowed), nil
}
