package app

import (
	"fmt"
	"log"

	"github.com/abhi1580/coaching-center-sub003/api"
	"github.com/abhi1580/coaching-center-sub003/config"
	"github.com/abhi1580/coaching-center-sub003/database"
	"github.com/abhi1580/coaching-center-sub003/router"
	"github.com/abhi1580/coaching-center-sub003/services"
	"github.com/abhi1580/coaching-center-sub003/services/cron"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupAndRunServer wires config, storage, background sweeps and HTTP routes,
// then blocks serving requests.
func SetupAndRunServer() error {
	if err := config.LoadENV(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM()
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}

	if err := store.Init(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	db := store.GetDB()

	// Background sweeps keep the denormalized enrollment pairing and the
	// derived lifecycle statuses converged.
	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(
			db,
			services.NewEnrollmentService(db),
			services.NewBatchService(db),
			services.NewAnnouncementService(db),
			env.RECONCILE_EVERY,
			env.STATUS_SWEEP_SPEC,
		)
		if err := cronManager.Start(); err != nil {
			log.Printf("Warning: failed to start cron jobs: %v", err)
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))
	app := server.GetEngine()

	app.Use(logger.New())
	app.Use(recover.New())

	router.SetupRoutes(app, store, env)

	return server.Run()
}
