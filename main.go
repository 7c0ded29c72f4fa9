package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/handlers"
	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/middleware"
	"media-catalog/internal/reconcile"
	"media-catalog/internal/runner"
	"media-catalog/internal/startup"
	"media-catalog/internal/thumbs"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	memory.ConfigureFromEnv()

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	// Initialize catalog store
	catStart := time.Now()
	store, err := catalog.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize catalog: %v", err)
	}
	defer store.Close()
	startup.LogCatalogInit(time.Since(catStart))

	if err := store.SetRootFolder(context.Background(), config.MediaDir); err != nil {
		logging.Warn("Failed to record media root: %v", err)
	}

	// Initialize pipeline and reconciler
	startup.LogPipelineInit()
	if err := thumbs.InitVips(); err != nil {
		logging.Warn("libvips unavailable, extended image formats disabled: %v", err)
	}
	defer thumbs.ShutdownVips()

	memMonitor := memory.NewMonitor(memory.DefaultConfig())
	memMonitor.Start()

	pipeline := thumbs.New(store, config.ThumbnailDir)
	pipeline.SetMemoryMonitor(memMonitor)
	engine := reconcile.New(store, config.ThumbnailDir)
	run := runner.New(engine, pipeline)

	// Metrics collection
	var collector *metrics.Collector
	if config.MetricsEnabled {
		metrics.InitializeMetrics()
		collector = metrics.NewCollector(store, 30*time.Second)
		collector.Start()
		go serveMetrics(config.MetricsPort)
	}

	// Kick off the first batch and the periodic schedule
	startup.LogRunnerInit(config.ReconcileInterval)
	reconcileTicker := time.NewTicker(config.ReconcileInterval)
	go func() {
		if err := run.TriggerBackground(config.MediaDir); err != nil {
			logging.Error("Initial batch failed to start: %v", err)
		}
		for range reconcileTicker.C {
			if err := run.TriggerBackground(config.MediaDir); err != nil {
				logging.Debug("Scheduled batch skipped: %v", err)
			}
		}
	}()
	startup.LogRunnerStarted()

	// HTTP surface
	h := handlers.New(store, run, config)
	router := mux.NewRouter()
	h.RegisterRoutes(router)

	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogHealthChecks = config.LogHealthChecks
	handler := middleware.Logger(loggingConfig)(router)

	if config.MetricsEnabled {
		handler = middleware.Metrics(middleware.DefaultMetricsConfig())(handler)
	}

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go handleShutdown(srv, reconcileTicker, collector, memMonitor)

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		startup.LogFatal("Server error: %v", err)
	}
}

func serveMetrics(port string) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     metricsMux,
		ReadTimeout: 15 * time.Second,
	}
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, ticker *time.Ticker, collector *metrics.Collector, memMonitor *memory.Monitor) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	startup.LogShutdownStep("Stopping reconcile schedule")
	ticker.Stop()
	startup.LogShutdownStepComplete("Reconcile schedule stopped")

	if collector != nil {
		startup.LogShutdownStep("Stopping metrics collector")
		collector.Stop()
		startup.LogShutdownStepComplete("Metrics collector stopped")
	}

	startup.LogShutdownStep("Stopping memory monitor")
	memMonitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownComplete()
}
