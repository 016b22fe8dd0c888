package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking-api/brokers"
	"booking-api/config"
	"booking-api/consumers"
	"booking-api/controllers"
	"booking-api/logger"
	"booking-api/repositories"
	"booking-api/services"

	"go.uber.org/zap"
)

const serviceName = "booking-api"

// app junta todo lo que hay que cerrar al apagar el servicio
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	dc       repositories.DataContext
	db       *repositories.GormContext
	archive  repositories.HistoryArchive
	broker   *brokers.AMQPBroker
	consumer *consumers.NotificationConsumer
	server   *http.Server
}

// bootstrap carga la configuración y crea el logger
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(logger.Options{
		Production: cfg.IsProduction(),
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return cfg, log, nil
}

// openStorage elige el data context según STORAGE
func openStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (repositories.DataContext, *repositories.GormContext, error) {
	if cfg.Storage == "file" {
		dc, err := repositories.NewFileContext(cfg.FileStorePath)
		if err != nil {
			return nil, nil, err
		}
		log.Info("using file storage", zap.String("path", cfg.FileStorePath))
		return dc, nil, nil
	}

	db, err := repositories.OpenDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	gc := repositories.NewGormContext(db)
	if err := gc.Migrate(ctx); err != nil {
		return nil, nil, err
	}
	log.Info("database connected", zap.String("driver", cfg.DBDriver), zap.String("host", cfg.DBHost))
	return gc, gc, nil
}

func runMigrate(ctx context.Context) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	if cfg.Storage == "file" {
		log.Info("file storage does not need migrations", zap.String("path", cfg.FileStorePath))
		return nil
	}

	db, err := repositories.OpenDatabase(cfg)
	if err != nil {
		return err
	}
	if err := repositories.NewGormContext(db).Migrate(ctx); err != nil {
		return err
	}
	log.Info("migrations applied", zap.String("driver", cfg.DBDriver), zap.Int("tables", len(repositories.Models())))
	return nil
}

func runServe() error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	a, err := newApp(cfg, log)
	if err != nil {
		log.Error("failed to start", zap.Error(err))
		return err
	}

	// Servidor HTTP en goroutine
	go func() {
		log.Info("starting HTTP server", zap.String("port", cfg.Port))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown con signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	a.shutdown(ctx)
	log.Info("shutdown complete")
	return nil
}

// newApp conecta la infraestructura y arma servicios, consumer y router
func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	ctx := context.Background()
	a := &app{cfg: cfg, log: log}

	// ============================================
	// 1. STORAGE
	// ============================================
	dc, db, err := openStorage(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	a.dc, a.db = dc, db

	cache := repositories.NewCacheRepository(cfg.MemcachedHost, cfg.Settings.Cache, log)

	a.archive = repositories.NewNoopHistoryArchive()
	if cfg.MongoURI != "" {
		archive, err := repositories.NewMongoHistoryArchive(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.archive = archive
		log.Info("notification archive connected", zap.String("database", cfg.MongoDatabase))
	}

	// ============================================
	// 2. BROKERS: la cola primero, el log como respaldo
	// ============================================
	var (
		emailBrokers []services.EmailSenderBroker
		smsBrokers   []services.SmsSenderBroker
	)
	if cfg.RabbitMQURL != "" {
		broker, err := brokers.NewAMQPBroker(cfg.RabbitMQURL, cfg.EmailOutboxQueue, cfg.SmsOutboxQueue, log)
		if err != nil {
			return nil, err
		}
		a.broker = broker
		emailBrokers = append(emailBrokers, broker)
		smsBrokers = append(smsBrokers, broker)
	}
	logBroker := brokers.NewLogBroker(log)
	emailBrokers = append(emailBrokers, logBroker)
	smsBrokers = append(smsBrokers, logBroker)

	// ============================================
	// 3. SERVICIOS
	// ============================================
	svc, err := newServices(dc, cfg.Settings, cache, a.archive, emailBrokers, smsBrokers, log)
	if err != nil {
		return nil, err
	}

	// ============================================
	// 4. CONSUMER de pedidos de notificación
	// ============================================
	if cfg.RabbitMQURL != "" {
		consumer, err := consumers.NewNotificationConsumer(cfg.RabbitMQURL, cfg.NotificationQueue, svc.emailManagement, svc.smsManagement, log)
		if err != nil {
			return nil, err
		}
		if err := consumer.Start(); err != nil {
			return nil, err
		}
		a.consumer = consumer
	} else {
		log.Info("RABBITMQ_URL not set, notification consumer disabled")
	}

	// ============================================
	// 5. ROUTER
	// ============================================
	var pinger controllers.Pinger
	if db != nil {
		pinger = db
	}
	router := newRouter(cfg, log, dc, svc, pinger)
	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return a, nil
}

// shutdown cierra en orden inverso al arranque
func (a *app) shutdown(ctx context.Context) {
	if err := a.server.Shutdown(ctx); err != nil {
		a.log.Error("error shutting down server", zap.Error(err))
	}
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.log.Error("error closing notification consumer", zap.Error(err))
		}
	}
	if a.broker != nil {
		if err := a.broker.Close(); err != nil {
			a.log.Error("error closing amqp broker", zap.Error(err))
		}
	}
	if err := a.archive.Close(ctx); err != nil {
		a.log.Error("error closing notification archive", zap.Error(err))
	}
}
