package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/killwatch/internal/admission"
	"github.com/osse101/killwatch/internal/alert"
	"github.com/osse101/killwatch/internal/bootstrap"
	"github.com/osse101/killwatch/internal/config"
	"github.com/osse101/killwatch/internal/danger"
	"github.com/osse101/killwatch/internal/database"
	"github.com/osse101/killwatch/internal/event"
	"github.com/osse101/killwatch/internal/handler"
	"github.com/osse101/killwatch/internal/hotspot"
	"github.com/osse101/killwatch/internal/ingest"
	"github.com/osse101/killwatch/internal/killmail"
	"github.com/osse101/killwatch/internal/lifecycle"
	"github.com/osse101/killwatch/internal/logger"
	"github.com/osse101/killwatch/internal/redisq"
	"github.com/osse101/killwatch/internal/scheduler"
	"github.com/osse101/killwatch/internal/server"
	"github.com/osse101/killwatch/internal/state"
	"github.com/osse101/killwatch/internal/universe"
	"github.com/osse101/killwatch/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration failed: %v\n", err)
		os.Exit(1)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger setup failed: %v\n", err)
		os.Exit(1)
	}

	if warnings, err := config.ValidateEnvWithWarnings(); err == nil {
		for _, w := range warnings {
			logger.Warn("Configuration warning", "warning", w)
		}
	}

	err = run(cfg)
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		logger.Error("killwatch stopped with error", "error", err)
		os.Exit(1)
	}
}

// run wires the application and blocks until SIGINT/SIGTERM. Postgres, Redis
// and the universe data are required; any failure there aborts startup.
func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := universe.Load(ctx, cfg.UniverseDataDir)
	if err != nil {
		return fmt.Errorf("failed to load universe data: %w", err)
	}

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdle, cfg.DBMaxConnLife)
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, dbPool); err != nil {
		dbPool.Close()
		return err
	}

	rdb, err := state.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		dbPool.Close()
		return err
	}
	store := state.NewStore(rdb)

	repos := bootstrap.InitializeRepositories(dbPool)
	bus := event.NewMemoryBus()

	sender, err := bootstrap.NewAlertSender(cfg)
	if err != nil {
		rdb.Close()
		dbPool.Close()
		return err
	}

	alertPool := worker.NewPool(cfg.AlertWorkers, cfg.AlertQueueSize, cfg.AlertTimeout)
	alertPool.Start(ctx)
	dispatcher := alert.NewDispatcher(repos.Alert, store, sender, catalog, danger.NewDetector(store, catalog), alertPool)
	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:   bus,
		Dispatcher: dispatcher,
	}); err != nil {
		alertPool.Stop()
		rdb.Close()
		dbPool.Close()
		return err
	}

	manager := lifecycle.NewManager(repos.Lifecycle, store, bus)

	// one worker so sweeps never overlap
	sweepPool := worker.NewPool(1, 1, cfg.SweepInterval)
	sweepPool.Start(ctx)
	sched := scheduler.New(ctx, sweepPool)
	sched.Schedule(cfg.SweepInterval, lifecycle.NewSweepJob(manager))

	defer bootstrap.GracefulShutdown(bootstrap.ShutdownComponents{
		Scheduler: sched,
		SweepPool: sweepPool,
		AlertPool: alertPool,
		Redis:     rdb,
		DB:        dbPool,
	})

	source := redisq.NewClient(redisq.Config{
		BaseURL:        cfg.RedisQURL,
		QueueID:        cfg.RedisQQueueID,
		TTW:            cfg.RedisQTTW,
		MinInterval:    cfg.RedisQMinInterval,
		BackoffInitial: cfg.RedisQBackoffInitial,
		BackoffMax:     cfg.RedisQBackoffMax,
		UserAgent:      cfg.UserAgent,
		ESIURL:         cfg.ESIURL,
		ESITimeout:     cfg.ESITimeout,
	})
	gate := admission.NewGate(store, hotspot.NewDetector(store, 0, 0), repos.Killmail)
	pipeline := ingest.NewPipeline(source, killmail.NewParser(catalog), gate, manager, cfg.DetailConcurrency)

	srv := server.NewServer(server.Options{
		Port:        cfg.Port,
		ServiceName: cfg.ServiceName,
		Version:     cfg.Version,
		Dependencies: map[string]handler.Pinger{
			"postgres": dbPool,
			"redis":    store,
		},
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return pipeline.Run(gctx) })
	g.Go(func() error { return srv.Run(gctx, bootstrap.ShutdownGrace) })

	return g.Wait()
}
