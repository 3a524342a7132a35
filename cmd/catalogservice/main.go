// catalog-service/cmd/catalogservice/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	_ "modernc.org/sqlite"

	httpAPI "catalog-service/internal/api"
	"catalog-service/internal/config"
	"catalog-service/internal/domain"
	grpcServer "catalog-service/internal/grpc"
	"catalog-service/internal/service"
	"catalog-service/internal/store"
)

// maskDatabaseURL hides the password of a URL-style DSN for logging.
func maskDatabaseURL(dbURL string) string {
	u, err := url.Parse(dbURL)
	if err != nil || u.User == nil {
		return dbURL
	}
	return u.Redacted()
}

// connectToDB opens and pings the configured SQL database.
func connectToDB(ctx context.Context, cfg config.FileConfig, logger *slog.Logger) (*sqlx.DB, error) {
	logger.InfoContext(ctx, "Attempting to connect to catalog database",
		slog.String("driver", cfg.DatabaseDriver),
		slog.String("dbURL_used", maskDatabaseURL(cfg.DatabaseURL)))

	db, err := sqlx.ConnectContext(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.DatabaseDriver, err)
	}
	if cfg.DatabaseDriver == config.DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", cfg.DatabaseDriver, err)
	}
	logger.InfoContext(ctx, "Successfully connected to catalog database")
	return db, nil
}

// openStore builds the content store for the configured driver. The returned
// closer releases the database connection, if any.
func openStore(ctx context.Context, cfg config.FileConfig, logger *slog.Logger) (store.ContentStore, func(), error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.WarnContext(ctx, "Using in-memory content store; data is lost on restart")
		return store.NewMemoryContentStore(logger), func() {}, nil
	}

	db, err := connectToDB(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		logger.Info("Closing catalog database connection...")
		if err := db.Close(); err != nil {
			logger.Error("Failed to close catalog database connection", slog.String("error", err.Error()))
		}
	}
	if cfg.AutoMigrate {
		if err := store.Migrate(ctx, db, logger); err != nil {
			closeDB()
			return nil, nil, err
		}
	}
	contentStore, err := store.NewSQLContentStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	return contentStore, closeDB, nil
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	level, _ := config.ParseLogLevel(cfg.LogLevel)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Catalog service stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg config.FileConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startupCtx, cancelStartup := context.WithTimeout(ctx, 30*time.Second)
	contentStore, closeStore, err := openStore(startupCtx, cfg, logger)
	cancelStartup()
	if err != nil {
		return fmt.Errorf("initialize content store: %w", err)
	}
	defer closeStore()
	logger.Info("Content store initialized", slog.String("driver", cfg.DatabaseDriver))

	grpcLis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("listen for gRPC on port %s: %w", cfg.GRPCPort, err)
	}
	httpLis, err := net.Listen("tcp", ":"+cfg.HTTPPort)
	if err != nil {
		grpcLis.Close()
		return fmt.Errorf("listen for HTTP on port %s: %w", cfg.HTTPPort, err)
	}
	return serve(ctx, cfg, contentStore, grpcLis, httpLis, logger)
}

// serve runs the gRPC and HTTP servers on the given listeners until ctx is
// cancelled or one of them fails, then shuts both down within
// cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg config.FileConfig, contentStore store.ContentStore, grpcLis, httpLis net.Listener, logger *slog.Logger) error {
	contentService := service.NewContentService(contentStore, logger)

	// --- gRPC server ---
	grpcSrv := grpc.NewServer()
	grpcServer.RegisterContentInterServiceServer(grpcSrv, grpcServer.NewServer(contentService, logger))
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcSrv, healthSrv)
	healthSrv.SetServingStatus(grpcServer.ContentInterServiceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcSrv)

	// --- HTTP server ---
	handler := httpAPI.NewContentHandler(contentService, logger, domain.NewValidator(), httpAPI.PageDefaults{
		Size:    cfg.DefaultPageSize,
		MaxSize: cfg.MaxPageSize,
	})
	var apiMiddlewares []mux.MiddlewareFunc
	if cfg.RateLimitPerMinute > 0 {
		apiMiddlewares = append(apiMiddlewares, httpAPI.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	}
	httpSrv := &http.Server{
		Handler:      httpAPI.NewRouter(handler, contentStore, logger, apiMiddlewares...),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Catalog gRPC server starting", slog.String("addr", grpcLis.Addr().String()))
		if err := grpcSrv.Serve(grpcLis); err != nil {
			return fmt.Errorf("gRPC server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("Catalog HTTP server starting", slog.String("addr", httpLis.Addr().String()))
		if err := httpSrv.Serve(httpLis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Catalog service shutting down...")
		healthSrv.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Catalog HTTP server shutdown failed", slog.String("error", err.Error()))
		} else {
			logger.Info("Catalog HTTP server gracefully stopped.")
		}

		stopped := make(chan struct{})
		go func() {
			grpcSrv.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
			logger.Info("Catalog gRPC server gracefully stopped.")
		case <-shutdownCtx.Done():
			grpcSrv.Stop()
			<-stopped
			logger.Warn("Catalog gRPC server forced to stop")
		}
		return nil
	})

	return g.Wait()
}
