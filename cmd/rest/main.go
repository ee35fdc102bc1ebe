package main

import (
	"context"
	"log"

	"tutor-cerdas-console/internal/bootstrap"
	"tutor-cerdas-console/internal/config"
	"tutor-cerdas-console/internal/server"
	"tutor-cerdas-console/internal/tracer"
	"tutor-cerdas-console/pkg/database"

	"github.com/fatih/color"
)

func main() {
	// 1. Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 2. Configuration
	cfg := config.Load()

	// 3. Database (profiles)
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Dependency container
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync()

	// 5. Server
	srv := server.New(cfg, container)

	color.Cyan("Tutor Cerdas console: role-aware routing + document admin")
	log.Fatal(srv.Run())
}
