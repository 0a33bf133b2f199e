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

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"team_achievements/internal/adapters"
	"team_achievements/internal/bootstrap"
	achievementsDelivery "team_achievements/internal/delivery/achievements"
	activityDelivery "team_achievements/internal/delivery/activity"
	healthDelivery "team_achievements/internal/delivery/health"
	statisticsDelivery "team_achievements/internal/delivery/statistics"
	"team_achievements/internal/domain/activity"
	ownMiddleware "team_achievements/internal/middleware"
	"team_achievements/internal/repository"
	achievementsUC "team_achievements/internal/usecase/achievements"
	statisticsUC "team_achievements/internal/usecase/statistics"
)

const shutdownTimeout = 10 * time.Second

type mainDeliveryHandler struct {
	achievements *achievementsDelivery.AchievementsHandler
	statistics   *statisticsDelivery.StatisticsHandler
	health       *healthDelivery.HealthHandler
	activity     *activityDelivery.Hub
	metrics      *ownMiddleware.Metrics
	limiter      *ownMiddleware.RateLimiter
}

// ledgerEvents forwards ledger changes to the websocket hub and counts them.
type ledgerEvents struct {
	hub     *activityDelivery.Hub
	metrics *ownMiddleware.Metrics
}

func (l ledgerEvents) Publish(event activity.Event) {
	l.metrics.CountEvent(string(event.Type))
	l.hub.Publish(event)
}

func main() {
	bootLogger := NewLogger("info")
	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		bootLogger.Fatalw("Failed to setup configuration", "error", err)
	}
	logger := NewLogger(cfg.LogLevel)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go handleShutdown(cancel, logger)

	storage, err := adapters.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to initialise storage", "backend", cfg.StorageBackend, "error", err)
	}
	defer storage.Close(context.Background())

	store := repository.NewJSONStore(storage.Docs, logger)
	if err = store.Seed(ctx); err != nil {
		logger.Fatalw("Failed to seed storage", "error", err)
	}

	handlers := initializeDeliveryHandlers(ctx, cfg, logger, store)

	r := chi.NewRouter()
	handlers.Router(r, cfg)

	var healthServer *health.Server
	if cfg.GrpcPort != "" {
		healthServer = health.NewServer()
		grpcServer, err := startGrpcHealth(cfg.GrpcPort, healthServer, logger)
		if err != nil {
			logger.Fatalw("Failed to start gRPC server", "error", err)
		}
		defer grpcServer.GracefulStop()
	}

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		if healthServer != nil {
			healthServer.Shutdown()
		}
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorw("Failed to shutdown server", "error", err)
		}
	}()

	logger.Infof("Server is running on port %s with %s storage", cfg.ServerPort, cfg.StorageBackend)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", "error", err)
	}
	logger.Info("Server stopped")
}

func NewLogger(level string) *zap.SugaredLogger {
	var cfg zap.Config
	if level == "debug" {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}
	logger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func (h *mainDeliveryHandler) Router(r *chi.Mux, cfg *bootstrap.Config) {
	r.Use(middleware.RequestID)
	if cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS(cfg.CorsOrigins))
	}
	r.Use(h.metrics.Middleware)

	r.Get("/", h.health.Root)
	r.Get("/health", h.health.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	r.Get("/ws/activity", h.activity.ServeWS)

	r.Group(func(r chi.Router) {
		r.Use(h.limiter.Middleware)

		r.Post("/login", h.achievements.Login)
		r.Get("/achievements", h.achievements.GetAllAchievements)
		r.Get("/achievements/{username}", h.achievements.GetUserAchievements)
		r.Post("/admin/update-achievement", h.achievements.UpdateAchievement)
		r.Get("/users", h.achievements.GetUsers)
		r.Delete("/admin/delete-user/{username}", h.achievements.DeleteUser)
		r.Get("/statistics", h.statistics.GetOverall)
		r.Get("/statistics/{username}", h.statistics.GetForUser)
	})
}

func initializeDeliveryHandlers(
	ctx context.Context,
	cfg *bootstrap.Config,
	log *zap.SugaredLogger,
	store *repository.JSONStore,
) *mainDeliveryHandler {
	metrics := ownMiddleware.NewMetrics()

	hub := activityDelivery.NewHub(log)
	go hub.Run(ctx)

	limiter := ownMiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go limiter.Cleanup(ctx)

	ledger := achievementsUC.NewAchievementUseCase(store, ledgerEvents{hub: hub, metrics: metrics}, log, cfg.AdminUsername)
	statistics := statisticsUC.NewStatisticsUseCase(store, cfg.AdminUsername, cfg.RecentWindow())

	return &mainDeliveryHandler{
		achievements: achievementsDelivery.NewAchievementsHandler(ledger, log, cfg.RequestTimeout),
		statistics:   statisticsDelivery.NewStatisticsHandler(statistics, log, cfg.RequestTimeout),
		health:       healthDelivery.NewHealthHandler(store, log),
		activity:     hub,
		metrics:      metrics,
		limiter:      limiter,
	}
}

func startGrpcHealth(port string, healthServer *health.Server, log *zap.SugaredLogger) (*grpc.Server, error) {
	listener, err := net.Listen("tcp", ":"+port)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", port, err)
	}

	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		if err := grpcServer.Serve(listener); err != nil {
			log.Errorw("gRPC server stopped", "error", err)
		}
	}()
	log.Infof("gRPC health service is running on port %s", port)
	return grpcServer, nil
}

func handleShutdown(cancelFunc context.CancelFunc, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")
	cancelFunc()
}
