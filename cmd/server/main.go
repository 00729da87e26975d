package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/arena/pkg/api"
	"github.com/cbodonnell/arena/pkg/config"
	"github.com/cbodonnell/arena/pkg/game"
	"github.com/cbodonnell/arena/pkg/log"
	"github.com/cbodonnell/arena/pkg/queue"
	"github.com/cbodonnell/arena/pkg/repositories"
	"github.com/cbodonnell/arena/pkg/state"
	"github.com/cbodonnell/arena/pkg/version"
	"github.com/cbodonnell/arena/pkg/workers"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, cfg.LogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", cfg.LogLevel)

	log.Info("Starting arena server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := repositories.NewRepository(ctx, cfg.DatabaseURL)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	engine := game.NewEngine(game.NewEngineOptions{})
	store := state.NewInMemorySessionStore(state.NewInMemorySessionStoreOptions{
		NewWorld:    engine.NewWorld,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	eventQueue := queue.NewInMemoryQueue(cfg.EventQueueSize)

	evictionWorker := workers.NewEvictionWorker(workers.NewEvictionWorkerOptions{
		Store:       store,
		Interval:    cfg.SweepInterval,
		IdleTimeout: cfg.SessionIdleTimeout,
	})
	statsWorker := workers.NewStatsWorker(workers.NewStatsWorkerOptions{
		Repository: repository,
		EventQueue: eventQueue,
		Interval:   cfg.StatsFlushInterval,
	})

	workersDone := make(chan struct{}, 2)
	go func() {
		evictionWorker.Start(ctx)
		workersDone <- struct{}{}
	}()
	go func() {
		statsWorker.Start(ctx)
		workersDone <- struct{}{}
	}()

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		Store:             store,
		Engine:            engine,
		EventQueue:        eventQueue,
		PlayerIdleTimeout: cfg.PlayerIdleTimeout,
	})

	apiServerOpts := api.NewAPIServerOptions{
		Port:        cfg.Port,
		AllowOrigin: cfg.AllowOrigin,
		GameManager: gameManager,
		Repository:  repository,
	}
	tlsCertFile := os.Getenv(config.EnvPrefix + "TLS_CERT_FILE")
	tlsKeyFile := os.Getenv(config.EnvPrefix + "TLS_KEY_FILE")
	if tlsCertFile != "" && tlsKeyFile != "" {
		apiServerOpts.TLS = &api.TLSConfig{
			CertFile: tlsCertFile,
			KeyFile:  tlsKeyFile,
		}
	}
	server := api.NewAPIServer(apiServerOpts)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down")
	case err := <-serverErr:
		if err != nil {
			log.Error("API server stopped: %v", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop server: %v", err)
	}

	// the stats worker flushes the remaining events on its way out
	for i := 0; i < cap(workersDone); i++ {
		select {
		case <-workersDone:
		case <-shutdownCtx.Done():
			log.Warn("Timed out waiting for workers to stop")
			return
		}
	}
	log.Info("Server stopped")
}
