package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"toxshield/internal/cache"
	"toxshield/internal/classifier"
	"toxshield/internal/config"
	"toxshield/internal/coordinator"
	"toxshield/internal/host"
	"toxshield/internal/jobs"
	"toxshield/internal/metrics"
	"toxshield/internal/observer"
	"toxshield/internal/panel"
	"toxshield/internal/presenter"
	"toxshield/internal/router"
	"toxshield/internal/server"
	"toxshield/internal/tabs"
	"toxshield/internal/validation"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
	cfg.Apply(yamlCfg)

	if cfg.IsDev() {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	for _, ep := range cfg.ClassifierEndpoints {
		if valid, msg := validation.ValidateEndpoint(ep); !valid {
			log.Fatalf("Invalid classifier endpoint %q: %s", ep, msg)
		}
	}

	// Tab result cache
	var resultCache *cache.Cache
	switch cfg.CacheBackend {
	case config.CacheRedis:
		c, closeFn, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to open redis cache: %v", err)
		}
		defer closeFn()
		resultCache = c
		log.Println("Using redis result cache")
	case config.CacheMemory:
		resultCache = cache.NewMemory()
	default:
		log.Fatalf("Unknown CACHE_BACKEND %q", cfg.CacheBackend)
	}

	metrics.Init(resultCache)

	analyzer := classifier.New(cfg.ClassifierEndpoints, cfg.ClassifierTimeout)
	log.Printf("Classifier endpoints: %v (timeout %s per attempt)", analyzer.Endpoints(), cfg.ClassifierTimeout)

	h := host.New()
	board := presenter.NewBoard()
	co := coordinator.New(resultCache, analyzer, h, board)
	manager := tabs.NewManager(ctx, h, co, board, observer.Config{
		SettleDelay:   cfg.SettleDelay,
		MinTextLength: cfg.MinTextLength,
	}, cfg.MaxTextLength)

	// Start endpoint prober
	prober := jobs.NewEndpointProber(cfg.ClassifierEndpoints, cfg.ProbeInterval, cfg.ClassifierTimeout)
	go prober.Start(ctx)

	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		Coordinator: co,
		Tabs:        manager,
		Panel:       panel.New(router.NewLink(co, router.Origin{}), h),
		Analyzer:    analyzer,
		Endpoints:   prober,
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
