// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"w3intel/internal/adapter/events"
	"w3intel/internal/adapter/storage"
	"w3intel/internal/config"
	"w3intel/internal/domain/community"
	"w3intel/internal/logging"
	"w3intel/internal/metrics"
	"w3intel/internal/server"
	dashboardService "w3intel/internal/service/dashboard"
	insightService "w3intel/internal/service/insight"
)

const serviceName = "w3intel-api"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.NewLogger(cfg.Log)
	log := logging.WithService(logger, serviceName)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Load the community dataset
	ds, err := loadDataset(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Fatal("Failed to load community data")
	}
	for _, problem := range ds.DanglingReferences() {
		log.WithField("problem", problem).Warn("Dangling reference in community data")
	}

	store := storage.NewMemoryStore(ds)
	log.WithFields(logrus.Fields{
		"topics": len(ds.Topics),
		"users":  len(ds.Users),
		"driver": cfg.Store.Driver,
	}).Info("Community data loaded")

	collector := metrics.NewCollector(serviceName)

	// Initialize view state manager
	viewOpts := []dashboardService.ViewManagerOption{
		dashboardService.WithSubscriberGauge(collector.ViewSubscribers()),
		dashboardService.WithLogger(log.WithField("component", "views")),
	}

	if cfg.NATS.Enabled {
		natsConn, err := initNATS(cfg.NATS, log)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to NATS")
		}
		defer natsConn.Close()

		viewOpts = append(viewOpts, dashboardService.WithPublisher(events.NewNATSPublisher(natsConn, cfg.NATS.SubjectPrefix)))
	}

	viewManager := dashboardService.NewViewManager(
		dashboardService.ViewManagerConfig{
			SessionTTL:    cfg.View.SessionTTL,
			SweepInterval: cfg.View.SweepInterval,
		},
		viewOpts...,
	)
	viewManager.Start()

	// Initialize query services
	dispatcher := insightService.NewDispatcher(
		store,
		insightService.WithObserver(collector),
		insightService.WithLogger(log.WithField("component", "dispatcher")),
	)
	explorer := insightService.NewExplorer(store)

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, cfg.Metrics, server.Dependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Explorer:   explorer,
		Views:      viewManager,
		Metrics:    collector,
		Logger:     log.WithField("component", "http"),
	})

	// Start HTTP server
	go func() {
		log.Infof("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Info("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown error")
	}

	// Stop view manager
	if err := viewManager.Stop(shutdownCtx); err != nil {
		log.WithError(err).Error("View manager shutdown error")
	}

	log.Info("Shutdown complete")
}

// loadDataset reads community data from the configured store driver
func loadDataset(ctx context.Context, cfg config.Config, log logrus.FieldLogger) (community.Dataset, error) {
	now := time.Now()

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		db, err := initDatabase(ctx, cfg.Database)
		if err != nil {
			return community.Dataset{}, fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		log.WithField("host", cfg.Database.Host).Info("Loading community snapshot from Postgres")
		return storage.NewSnapshotStore(db).Load(ctx)

	default:
		if cfg.Store.FixturePath != "" {
			log.WithField("path", cfg.Store.FixturePath).Info("Loading community fixtures from file")
			return storage.LoadFixtureFile(cfg.Store.FixturePath, now)
		}
		return storage.DefaultFixtures(now)
	}
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig, log logrus.FieldLogger) (*nats.Conn, error) {
	options := []nats.Option{
		nats.Name(serviceName),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.WithError(err).Warn("NATS disconnected")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.WithField("url", nc.ConnectedUrl()).Info("NATS reconnected")
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
