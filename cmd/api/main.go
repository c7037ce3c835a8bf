// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/auth"
	"github.com/carterperez-dev/esimphony/internal/billing"
	"github.com/carterperez-dev/esimphony/internal/config"
	"github.com/carterperez-dev/esimphony/internal/core"
	"github.com/carterperez-dev/esimphony/internal/demo"
	"github.com/carterperez-dev/esimphony/internal/esim"
	"github.com/carterperez-dev/esimphony/internal/health"
	"github.com/carterperez-dev/esimphony/internal/middleware"
	"github.com/carterperez-dev/esimphony/internal/notifications"
	"github.com/carterperez-dev/esimphony/internal/profile"
	"github.com/carterperez-dev/esimphony/internal/server"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/simulate"
	"github.com/carterperez-dev/esimphony/internal/storage"
	"github.com/carterperez-dev/esimphony/internal/support"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Money is stored and served as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "error", err)
	}

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// backing holds whichever storage backend was selected along with the
// connections it owns.
type backing struct {
	backend storage.Backend
	memory  *storage.MemoryBackend
	db      *core.Database
	redis   *core.Redis
}

func (b *backing) close(logger *slog.Logger) {
	if b.redis != nil {
		if err := b.redis.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*backing, error) {
	switch cfg.Storage.Backend {
	case config.BackendRedis:
		rdb, err := core.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return &backing{
			backend: storage.NewRedisBackend(rdb.Client, cfg.Storage.KeyPrefix, cfg.Storage.TTL),
			redis:   rdb,
		}, nil

	case config.BackendPostgres:
		db, err := core.NewDatabase(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := storage.NewPostgresBackend(db.DB)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = db.Close() //nolint:errcheck // cleanup on schema failure
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		return &backing{backend: pg, db: db}, nil

	default:
		mem := storage.NewMemoryBackend()
		return &backing{backend: mem, memory: mem}, nil
	}
}

func (b *backing) dependencies() []health.Dependency {
	deps := []health.Dependency{{Name: "storage", Checker: b.backend}}
	if b.db != nil {
		deps = append(deps, health.Dependency{Name: "database", Checker: b.db})
	}
	if b.redis != nil {
		deps = append(deps, health.Dependency{Name: "redis", Checker: b.redis})
	}
	return deps
}

// redisClient lets the rate limiter share the storage connection; nil
// keeps its counters in process.
func (b *backing) redisClient() *redis.Client {
	if b.redis == nil {
		return nil
	}
	return b.redis.Client
}

func (b *backing) stats(name string) demo.StatsConfig {
	sc := demo.StatsConfig{
		Backend:     name,
		StoragePing: b.backend.Ping,
	}
	if b.memory != nil {
		sc.ScopeCount = b.memory.Scopes
	}
	if b.db != nil {
		sc.DBStats = b.db.Stats
	}
	if b.redis != nil {
		sc.RedisStats = b.redis.PoolStats
	}
	return sc
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := setupLogger(cfg.Log)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	store, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.close(logger)
	logger.Info("storage ready", "backend", cfg.Storage.Backend)

	if err := auth.EnsureKeyPair(cfg.Device); err != nil {
		return err
	}
	jwtManager, err := auth.NewJWTManager(cfg.Device)
	if err != nil {
		return err
	}
	logger.Info("device token manager initialized", "algorithm", "ES256")

	sessions := session.NewManager(store.backend, logger)
	exec := simulate.NewExecutor(clockwork.NewRealClock(), logger)

	notificationSvc := notifications.NewService(exec.Clock(), logger)
	billingSvc := billing.NewService(exec, billing.ConfigFrom(cfg.Simulation), notificationSvc, logger)
	esimSvc := esim.NewService(exec, esim.Config{
		Latency:     cfg.Simulation.ActivationLatency,
		SuccessRate: cfg.Simulation.ActivationSuccess,
	}, logger)
	supportSvc := support.NewService(exec, cfg.Simulation.ContactLatency, logger)
	profileSvc := profile.NewService(billingSvc, esimSvc, logger)
	demoSvc := demo.NewService(exec, demo.Config{
		LoginLatency: cfg.Simulation.LoginLatency,
		ResetLatency: cfg.Simulation.ResetLatency,
	}, logger)

	authHandler := auth.NewHandler(auth.NewService(jwtManager, logger))
	billingHandler := billing.NewHandler(billingSvc, logger)
	esimHandler := esim.NewHandler(esimSvc, logger)
	notificationHandler := notifications.NewHandler(notificationSvc)
	supportHandler := support.NewHandler(supportSvc, logger)
	profileHandler := profile.NewHandler(profileSvc)
	demoHandler := demo.NewHandler(demoSvc, demo.NewStats(store.stats(cfg.Storage.Backend)), logger)

	healthHandler := health.NewHandler(store.dependencies()...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	limiter := middleware.NewRateLimiter(store.redisClient(), middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.Requests,
			cfg.RateLimit.Burst,
			cfg.RateLimit.Window,
		),
		KeyFunc:  middleware.KeyByIP,
		FailOpen: true,
	})
	defer limiter.Close()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(limiter.Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.SanitizeQuery)

	healthHandler.RegisterRoutes(router)

	router.Get("/.well-known/jwks.json", jwtManager.GetJWKSHandler())

	actionLimiter := middleware.NewRateLimiter(store.redisClient(), middleware.RateLimitConfig{
		Limit: middleware.PerWindow(
			cfg.RateLimit.ActionRequests,
			cfg.RateLimit.ActionBurst,
			cfg.RateLimit.Window,
		),
		KeyFunc:    middleware.KeyByDeviceAndEndpoint,
		BypassFunc: middleware.OnlyMutations,
		FailOpen:   true,
	})
	defer actionLimiter.Close()

	authenticate := middleware.Device(jwtManager, sessions)
	device := func(next http.Handler) http.Handler {
		return authenticate(actionLimiter.Handler(next))
	}

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r, device)
		billingHandler.RegisterRoutes(r, device)
		esimHandler.RegisterRoutes(r, device)
		notificationHandler.RegisterRoutes(r, device)
		supportHandler.RegisterRoutes(r, device)
		profileHandler.RegisterRoutes(r, device)
		demoHandler.RegisterRoutes(r, device)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) (*slog.Logger, error) {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var out io.Writer = os.Stdout
	if cfg.File != "" {
		rl, err := rotatelogs.New(
			cfg.File+".%Y%m%d",
			rotatelogs.WithLinkName(cfg.File),
			rotatelogs.WithMaxAge(cfg.MaxAge),
			rotatelogs.WithRotationTime(24*time.Hour),
		)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(os.Stdout, rl)
	}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	return slog.New(handler), nil
}
