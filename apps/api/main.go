package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	echoapi "github.com/trezcool/myday/apps/api/echo"
	"github.com/trezcool/myday/core"
	"github.com/trezcool/myday/core/timetable"
	logsvc "github.com/trezcool/myday/services/logger"
	"github.com/trezcool/myday/services/metrics"
	"github.com/trezcool/myday/storage/database"
	redisdb "github.com/trezcool/myday/storage/redis"
	"github.com/trezcool/myday/storage/sis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// =========================================================================
	// Set up Dependencies

	conf := core.NewConfig()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	dbLogger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	logger.Info("config: " + conf.ConfigString())
	defer logger.Info("Application stopped")

	// configuration errors surface before any SIS fetch
	if err := conf.Validate(); err != nil {
		logger.Fatal(fmt.Sprintf("invalid configuration: %v", err), err)
	}
	opts, err := timetable.NewOptions(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("invalid configuration: %v", err), err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// set up the SIS
	src, err := sis.Open(ctx, conf.SIS, opts.Location)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to the SIS: %v", err), err)
	}
	defer func() {
		if err = src.Close(); err != nil {
			dbLogger.Error("Failed to close SIS", err)
		}
	}()

	// set up DB
	if err = database.CreateIfNotExist(ctx, conf); err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			dbLogger.Fatal("Failed to close", err)
		}
	}()
	if err = database.Migrate(db, "up"); err != nil {
		logger.Fatal(fmt.Sprintf("migrating database: %v", err), err)
	}

	healthChecks := map[string]echoapi.HealthCheck{
		"sis":      src.Ping,
		"database": func(ctx context.Context) error { return database.Ping(ctx, db) },
	}

	// preferences live in redis when configured
	var prefs timetable.PreferenceStore = database.NewPreferenceStore(db)
	if conf.Redis.Addr != "" {
		rdb, err := redisdb.Open(ctx, conf.Redis)
		if err != nil {
			logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
		}
		defer rdb.Close()
		prefs = redisdb.NewPreferenceStore(rdb)
		healthChecks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	// set up services
	mtr := metrics.New()
	svc := timetable.NewService(mtr.InstrumentSource(src), database.NewDirectory(db), prefs, logger, opts)

	// =========================================================================
	// Start API Service

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	server := echoapi.NewServer(&echoapi.Options{
		Address:        conf.Server.Address,
		Conf:           conf,
		Logger:         logger,
		TimetableSvc:   svc,
		Metrics:        mtr,
		HealthChecks:   healthChecks,
		SignalShutdown: func() { shutdown <- syscall.SIGTERM },
	})

	go func() {
		server.Start()
	}()

	// =========================================================================
	// Shutdown

	sig := <-shutdown
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()

	if err = server.Stop(sctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}
