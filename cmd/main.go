package main

import (
	"cloud-chat-backend/internal/api"
	"cloud-chat-backend/internal/api/routes"
	"cloud-chat-backend/internal/assistant"
	"cloud-chat-backend/internal/config"
	"cloud-chat-backend/internal/libraries"
	"cloud-chat-backend/internal/logger"
	"cloud-chat-backend/internal/metrics"
	"cloud-chat-backend/internal/repo"
	"cloud-chat-backend/internal/storage"
	"cloud-chat-backend/internal/uploads"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}).Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "cloud-chat",
	})
	if envErr != nil {
		log.Warn().Msg(".env file not found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	backend, closeBackend, err := newBackend(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.StorageBackend).Msg("failed to initialize storage")
	}
	defer closeBackend()

	uploadOpts := []uploads.Option{
		uploads.WithMaxFileSize(cfg.MaxFileSize),
		uploads.WithMetrics(m),
		uploads.WithLogger(log.Component("uploads")),
	}

	// Upload audit index is optional
	if cfg.DBURL != "" {
		db, err := config.ConnectDB(cfg.DBURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer config.CloseDB(db)
		if cfg.DBMigrate {
			if err := config.MigrateAllModels(db); err != nil {
				log.Fatal().Err(err).Msg("failed to migrate database")
			}
			log.Info().Msg("database migration completed")
		}
		uploadOpts = append(uploadOpts, uploads.WithAudit(repo.NewUploadRepository(db)))
		log.Info().Msg("upload audit index enabled")
	}

	hub := libraries.NewHub(log)
	go hub.Run(ctx)

	chatRepo := repo.NewChatRepository(cfg.ChatHistoryLimit)
	chat := assistant.NewService(chatRepo,
		assistant.WithNotifier(hub),
		assistant.WithMetrics(m),
		assistant.WithLogger(log.Component("chat")),
	)

	// Create and configure Fiber app
	app := api.NewServer(api.ServerOptions{
		AppName:   cfg.AppName,
		BodyLimit: cfg.BodyLimit,
		Logger:    log,
		AccessLog: os.Stdout,
	})

	// Register routes
	routes.Register(app, routes.Dependencies{
		Chat:      chat,
		Uploads:   uploads.NewService(backend, uploadOpts...),
		Hub:       hub,
		Gatherer:  registry,
		PublicDir: cfg.PublicDir,
		Logger:    log,
	})

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	// Start server
	log.LogServerStart(cfg.Port, backend.Name())
	if err := api.StartServer(app, cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func newBackend(ctx context.Context, cfg *config.Config) (storage.Backend, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageGCS:
		client, err := libraries.NewGCSClient(ctx, cfg.GCPCredentials)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewGCS(client, cfg.GCSBucket, cfg.GCSPrefix), func() { client.Close() }, nil
	default:
		disk, err := storage.NewDisk(cfg.UploadsDir)
		if err != nil {
			return nil, nil, err
		}
		return disk, func() {}, nil
	}
}
