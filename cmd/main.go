package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cmvboard/internal/advisory"
	"cmvboard/internal/api"
	"cmvboard/internal/audit"
	"cmvboard/internal/catalog"
	"cmvboard/internal/config"
	"cmvboard/internal/ledger"
	"cmvboard/internal/monitoring"
	"cmvboard/internal/shopping"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", config.DefaultConfigPath, "Path to configuration file")
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configFile)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort > 0 {
		cfg.Metrics.Port = *metricsPort
	}

	log, err := cfg.Log.NewLogger()
	if err != nil {
		logrus.Fatalf("Failed to configure logging: %v", err)
	}
	if log.GetLevel() < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	// Load catalog
	store, err := initializeCatalog(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}

	monitor := monitoring.NewMonitor()

	policy, err := ledger.PolicyByName(cfg.Costing.Policy)
	if err != nil {
		log.Fatalf("Failed to select costing policy: %v", err)
	}

	// Initialize advisory service
	provider, err := advisory.NewProvider(cfg.Advisory)
	if err != nil {
		log.WithError(err).Warn("Advisory provider unavailable, continuing without it")
		provider = nil
	}
	advisor := advisory.NewAdvisor(provider, log, monitor)

	events := api.NewEventHub(log)
	dashboard := api.NewDashboardAPI(api.Deps{
		Store:    store,
		Ledger:   ledger.New(store, ledger.WithPolicy(policy), ledger.WithLogger(log), ledger.WithMonitor(monitor)),
		Audit:    audit.NewEngine(store, audit.WithLogger(log), audit.WithMonitor(monitor)),
		Shopping: shopping.NewList(store),
		Advisor:  advisor,
		Events:   events,
		Log:      log,
		Settings: api.Settings{
			PriceHistoryMonths: cfg.Costing.PriceHistoryMonths,
			LowStockAlerts:     cfg.Costing.LowStockAlertsShown,
			AdvisoryTimeout:    cfg.Server.AdvisoryTimeout,
		},
	})

	// Start metrics server
	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		metricsServer = newMetricsServer(cfg.Metrics, monitor)
		go func() {
			log.Infof("Starting metrics server on port %d", cfg.Metrics.Port)
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	// Start API server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: dashboard.Router,
	}

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down servers...")
		events.Close()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("API server shutdown error: %v", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Errorf("Metrics server shutdown error: %v", err)
			}
		}
		close(done)
	}()

	log.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"policy":   policy.Name(),
		"advisory": advisor.Configured(),
	}).Info("Starting API server")
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("API server error: %v", err)
	}
	<-done
}

func initializeCatalog(cfg config.CatalogConfig) (*catalog.Store, error) {
	seed := catalog.DefaultSeed()
	if cfg.SeedFile != "" {
		loaded, err := catalog.LoadSeed(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		seed = loaded
	}
	return catalog.NewStore(seed)
}

func newMetricsServer(cfg config.MetricsConfig, monitor *monitoring.Monitor) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(cfg.Path, gin.WrapH(monitor.Handler()))

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: metricsRouter,
	}
}
