package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"curbside/cmd"
	httpin "curbside/internal/adapters/in/http"
	"curbside/internal/adapters/out/postgres/jobrepo"
	"curbside/internal/adapters/out/postgres/routerepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	config := getConfig(logger)

	dsn := postgresDSN(config)
	if err := waitForDatabase(dsn); err != nil {
		log.Fatalf("database is not reachable: %v", err)
	}

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	if err := migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	root := cmd.NewCompositionRoot(config, gormDB, logger)

	server := httpin.NewServer(
		root.CreateClaimJobCommandHandler(),
		root.CreateCreateRouteCommandHandler(),
		root.CreateStartRouteCommandHandler(),
		root.CreateMarkArrivedCommandHandler(),
		root.CreateCompleteStopCommandHandler(),
		root.CreateSkipStopCommandHandler(),
		root.CreateCompleteJobCommandHandler(),
		root.CreateReportLocationCommandHandler(),
		root.CreateQueuePositionQueryHandler(),
		root.CreateGetActiveRouteQueryHandler(),
		root.Hub(),
	)

	e := echo.New()
	e.HideBanner = true
	server.RegisterRoutes(e)

	if jobManager := root.CreateJobManager(); jobManager != nil {
		if err := jobManager.StartAll(); err != nil {
			log.Fatalf("failed to start background jobs: %v", err)
		}
		defer jobManager.StopAll()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		root.Hub().Close()
		return e.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func getConfig(logger *slog.Logger) cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		logger.Info("no .env file, reading configuration from the environment")
	}

	return cmd.Config{
		HTTPPort:      envOr("HTTP_PORT", "8080"),
		DBHost:        envOr("DB_HOST", "localhost"),
		DBPort:        envOr("DB_PORT", "5432"),
		DBUser:        envOr("DB_USER", "postgres"),
		DBPassword:    envOr("DB_PASSWORD", "postgres"),
		DBName:        envOr("DB_NAME", "curbside"),
		DBSslMode:     envOr("DB_SSLMODE", "disable"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		NotifyBaseURL: envOr("NOTIFY_BASE_URL", "http://localhost:9090"),
		NotifyAPIKey:  os.Getenv("NOTIFY_API_KEY"),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func postgresDSN(config cmd.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBPassword, config.DBName, config.DBSslMode)
}

// waitForDatabase pings the database over database/sql before GORM opens a
// pool, retrying so the service survives starting ahead of postgres.
func waitForDatabase(dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var pingErr error
	for attempt := 0; attempt < 10; attempt++ {
		if pingErr = db.Ping(); pingErr == nil {
			return nil
		}
		time.Sleep(time.Second)
	}
	return pingErr
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&jobrepo.JobDTO{},
		&jobrepo.StatusChangeDTO{},
		&routerepo.RouteDTO{},
		&routerepo.StopDTO{},
	)
}
