// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	boardv1 "github.com/gurkanbulca/taskboard/api/board/v1"
	"github.com/gurkanbulca/taskboard/internal/cache"
	"github.com/gurkanbulca/taskboard/internal/config"
	"github.com/gurkanbulca/taskboard/internal/database"
	"github.com/gurkanbulca/taskboard/internal/events"
	"github.com/gurkanbulca/taskboard/internal/httpapi"
	"github.com/gurkanbulca/taskboard/internal/middleware"
	"github.com/gurkanbulca/taskboard/internal/repository"
	"github.com/gurkanbulca/taskboard/internal/service"
	"github.com/gurkanbulca/taskboard/pkg/auth"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	setupLogging(cfg.Log)

	ctx := context.Background()

	log.WithField("driver", cfg.Database.Driver).Info("Connecting to database...")
	db, err := database.Open(ctx, database.Config{
		Driver: cfg.Database.Driver,
		DSN:    cfg.DatabaseDSN(),
		Debug:  cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorf("Failed to close database connection: %v", err)
		}
	}()

	if cfg.Server.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("Failed to run auto migration: %v", err)
		}
	}

	rdb, err := connectRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	if rdb != nil {
		defer rdb.Close()
	}

	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TokenDuration)

	boardService := service.NewBoardService(
		repository.NewProjectRepository(db),
		repository.NewTaskRepository(db),
		repository.NewUserRepository(db),
		cache.NewBoardCache(rdb, cfg.Redis.BoardTTL),
		events.NewBroker(rdb),
		service.WithReorderTimeout(cfg.Board.ReorderTimeout),
	)

	metadataExtractor := middleware.NewMetadataExtractorInterceptor()
	authInterceptor := middleware.NewAuthInterceptor(tokenManager)
	validationInterceptor := middleware.NewValidationInterceptor(cfg.ToValidationConfig())
	loggingInterceptor := middleware.NewLoggingInterceptor(log.WithField("component", "grpc"))

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			metadataExtractor.Unary(),
			authInterceptor.Unary(),
			validationInterceptor.Unary(),
			loggingInterceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(
			metadataExtractor.Stream(),
			authInterceptor.Stream(),
			validationInterceptor.Stream(),
			loggingInterceptor.Stream(),
		),
	)

	boardv1.RegisterBoardServiceServer(grpcServer, boardService)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus(boardv1.ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)

	if cfg.Server.EnableReflection {
		reflection.Register(grpcServer)
		log.Warn("gRPC reflection enabled (disable in production)")
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Server.GRPCPort))
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	go func() {
		log.Infof("🚀 Taskboard gRPC server listening on port %s", cfg.Server.GRPCPort)
		if err := grpcServer.Serve(listener); err != nil {
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	var gateway *echo.Echo
	if cfg.Server.HTTPPort != "" {
		gateway = echo.New()
		gateway.HideBanner = true
		gateway.HidePort = true
		httpapi.Register(gateway, boardService, authInterceptor, validationInterceptor, func(ctx context.Context) error {
			if err := db.PingContext(ctx); err != nil {
				return err
			}
			if rdb != nil {
				return rdb.Ping(ctx).Err()
			}
			return nil
		})

		go func() {
			log.Infof("🌐 HTTP gateway listening on port %s", cfg.Server.HTTPPort)
			if err := gateway.Start(":" + cfg.Server.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatalf("Failed to serve HTTP: %v", err)
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("📴 Shutting down server...")
	healthServer.Shutdown()
	if gateway != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		if err := gateway.Shutdown(shutdownCtx); err != nil {
			log.Errorf("HTTP gateway shutdown: %v", err)
		}
		cancel()
	}
	grpcServer.GracefulStop()
	log.Info("✅ Server shutdown complete")
}

// connectRedis returns nil when no URL is configured
func connectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.URL == "" {
		log.Info("Redis not configured, board cache disabled and events stay in process")
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	log.Info("✅ Connected to redis")
	return rdb, nil
}

func setupLogging(cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
