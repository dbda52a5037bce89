// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pizza-service/cmd"
	"pizza-service/internal/data/repository"
	"pizza-service/internal/data/repository/cache"
	"pizza-service/internal/data/repository/memory"
	"pizza-service/internal/usecase"
	"pizza-service/internal/wire"
	"pizza-service/pkg/database"
	"pizza-service/pkg/metrics"
	"pizza-service/pkg/queue"
	"pizza-service/pkg/scheduler"
	"pizza-service/pkg/telemetry"
	"pizza-service/pkg/utils"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("version", config.App.Version),
		zap.String("port", config.App.Port),
		zap.String("db_driver", config.Database.Driver),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, config, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
	logger.Info("Application stopped")
}

func run(ctx context.Context, config *utils.Config, logger *zap.Logger) error {
	// Telemetry
	providers, err := telemetry.Init(ctx, config.App, config.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown telemetry", zap.Error(err))
		}
	}()

	meterProvider := otel.GetMeterProvider()
	appMetrics, err := metrics.New(meterProvider)
	if err != nil {
		return err
	}
	if err := metrics.RegisterSystemGauges(meterProvider); err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewHTTPCollector(registry)

	// Repositories
	repos, ping, closeRepos, err := openRepository(ctx, config, logger)
	if err != nil {
		return err
	}
	defer closeRepos()

	if err := usecase.SeedAdmin(ctx, repos.User, config.Database, logger); err != nil {
		return err
	}

	// Order events are optional
	deps := usecase.Dependencies{Metrics: appMetrics}
	if config.Queue.URL != "" {
		publisher, err := queue.NewPublisher(config.Queue.URL, config.Queue.OrderQueue, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		deps.Publisher = publisher
	}

	service, err := usecase.NewService(repos, config, deps, logger)
	if err != nil {
		return err
	}

	app := wire.Wiring(service, config, wire.Observability{
		Metrics:   appMetrics,
		Collector: collector,
		Ping:      ping,
	}, logger)

	// Maintenance
	sched := scheduler.New(config.App.IsProduction(), logger)
	err = sched.Add("purge-revoked-tokens", config.Revocation.PurgeSchedule, func(ctx context.Context) error {
		purged, err := service.Token.PurgeExpired(ctx)
		if err != nil {
			return err
		}
		logger.Info("Purged expired revocations", zap.Int64("count", purged))
		return nil
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})

	return g.Wait()
}

// openRepository selects the storage backend. For postgres the revocation lookups
// are fronted by the in-process LRU and, when configured, by redis.
func openRepository(ctx context.Context, config *utils.Config, logger *zap.Logger) (*repository.Repository, func(context.Context) error, func(), error) {
	if config.Database.Driver == utils.DriverMemory {
		logger.Warn("Using in-memory storage; data is lost on restart")
		return memory.NewRepository(), nil, func() {}, nil
	}

	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	logger.Info("Database connected successfully")

	repos := repository.NewRepository(db, logger)
	closers := []func(){db.Close}

	if config.Revocation.RedisAddr != "" {
		client, err := database.InitRedis(ctx, config.Revocation)
		if err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		closers = append(closers, func() { client.Close() })
		repos.Token = cache.NewRedisTokenRepository(repos.Token, client, logger)
		logger.Info("Redis revocation cache enabled", zap.String("addr", config.Revocation.RedisAddr))
	}

	if config.Revocation.CacheSize > 0 {
		ttl := time.Duration(config.JWT.ExpiryHours) * time.Hour
		repos.Token = cache.NewLRUTokenRepository(repos.Token, config.Revocation.CacheSize, ttl)
	}

	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	return repos, db.Ping, closeAll, nil
}
