package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/salescope/salescope/internal/server"
	"github.com/salescope/salescope/modules"
	directoryservices "github.com/salescope/salescope/modules/directory/services"
	"github.com/salescope/salescope/pkg/application"
	"github.com/salescope/salescope/pkg/composables"
	"github.com/salescope/salescope/pkg/configuration"
	"github.com/salescope/salescope/pkg/eventbus"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		panic(err)
	}

	warehouse, err := sqlx.Open("postgres", conf.Warehouse.DSN)
	if err != nil {
		panic(err)
	}
	warehouse.SetMaxOpenConns(conf.Warehouse.MaxOpenConns)

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(logger),
		Logger:   logger,
	})
	if err := modules.Load(app, modules.BuiltIn(warehouse)...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	// Warm the hierarchy index before serving traffic.
	rosterSvc := app.Service(directoryservices.RosterService{}).(*directoryservices.RosterService)
	if err := rosterSvc.Refresh(composables.WithPool(ctx, pool)); err != nil {
		logger.WithError(err).Warn("initial roster refresh failed, index builds lazily")
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Pool:          pool,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}
	log.Printf("Listening on: %s\n", conf.SocketAddress)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
