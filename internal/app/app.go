package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/velogo/bike-rental-service/internal/adapter/handler/http"
	"github.com/velogo/bike-rental-service/internal/adapter/logger"
	"github.com/velogo/bike-rental-service/internal/adapter/postgres"
	"github.com/velogo/bike-rental-service/internal/adapter/prometheus"
	"github.com/velogo/bike-rental-service/internal/adapter/rabbitmq"
	redisadapter "github.com/velogo/bike-rental-service/internal/adapter/redis"
	"github.com/velogo/bike-rental-service/internal/config"
	"github.com/velogo/bike-rental-service/internal/core/ports"
	"github.com/velogo/bike-rental-service/internal/core/services"

	"github.com/go-playground/validator/v10"
	"github.com/pressly/goose"
	redisClient "github.com/redis/go-redis/v9"
)

type App struct {
	Config      *config.Container
	Logger      ports.LoggerPort
	DB          *sql.DB
	RedisClient *redisClient.Client
	LiveStore   ports.LiveStorePort
	Notifier    *rabbitmq.Notifier
	Dispatcher  *services.Dispatcher
	HTTPRouter  *http.Router

	dispatcherCancel context.CancelFunc
}

func New(ctx context.Context, cfg *config.Container) (*App, error) {
	// Set logger
	loggerAdapter := logger.NewLoggerAdapter(cfg.App.Env)
	loggerAdapter.Info("Starting the application", map[string]interface{}{
		"app": cfg.App.Name,
		"env": cfg.App.Env,
	})

	// Set redis
	redisConn := redisClient.NewClient(&redisClient.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisConn.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	liveStore := redisadapter.NewRedisLiveStore(redisConn)

	// Connect DB
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name)
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Migrate DB
	if err := goose.Up(db, "./internal/adapter/postgres/migrations"); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Validate
	validate := validator.New()

	// Observability
	metrics := prometheus.NewPrometheusAdapter()

	// Repositories
	rideRepo := postgres.NewRideRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	bikeRepo := postgres.NewBikeRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Notification broker
	notifier, err := rabbitmq.NewNotifier(cfg.RabbitMQ.URL, loggerAdapter)
	if err != nil {
		db.Close()
		redisConn.Close()
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	// Services
	rideService := services.NewRideService(rideRepo, bookingRepo, liveStore, loggerAdapter, metrics)
	trackingService := services.NewTrackingService(rideRepo, liveStore, loggerAdapter, validate, metrics)
	bookingService := services.NewBookingService(bookingRepo, loggerAdapter)
	bikeService := services.NewBikeService(bikeRepo, loggerAdapter)
	dispatcher := services.NewDispatcher(outboxRepo, notifier, loggerAdapter, cfg.Outbox.IntervalDuration())

	// HTTP Handlers
	tokenService := http.NewJWTTokenService(cfg.Token.Secret, loggerAdapter)
	rideHandler := http.NewRideHandler(rideService, loggerAdapter, metrics)
	trackingHandler := http.NewTrackingHandler(trackingService, liveStore, loggerAdapter, metrics)
	bookingHandler := http.NewBookingHandler(bookingService, loggerAdapter, metrics)
	bikeHandler := http.NewBikeHandler(bikeService, loggerAdapter, metrics)

	// Init HTTP router
	router, err := http.NewRouter(
		cfg.HTTP,
		tokenService,
		rideHandler,
		trackingHandler,
		bookingHandler,
		bikeHandler,
	)
	if err != nil {
		db.Close()
		redisConn.Close()
		notifier.Close()
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	return &App{
		Config:      cfg,
		Logger:      loggerAdapter,
		DB:          db,
		RedisClient: redisConn,
		LiveStore:   liveStore,
		Notifier:    notifier,
		Dispatcher:  dispatcher,
		HTTPRouter:  router,
	}, nil
}

// Runs all services
func (a *App) Run() error {
	dispatcherCtx, cancel := context.WithCancel(context.Background())
	a.dispatcherCancel = cancel
	go a.Dispatcher.Run(dispatcherCtx)

	listenAddr := fmt.Sprintf("%s:%s", a.Config.HTTP.URL, a.Config.HTTP.Port)
	a.Logger.Info("Starting HTTP server", map[string]interface{}{
		"addr": listenAddr,
	})

	if err := a.HTTPRouter.Serve(listenAddr); err != nil {
		a.Logger.Error("HTTP server error", map[string]interface{}{
			"error": err.Error(),
		})
		return err
	}
	return nil
}

// Stops all services
func (a *App) Stop(ctx context.Context) error {
	a.Logger.Info("Shutting down gracefully...", nil)

	if a.dispatcherCancel != nil {
		a.dispatcherCancel()
	}

	// Close database
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("Database close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close Redis
	if err := a.RedisClient.Close(); err != nil {
		a.Logger.Error("Redis close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Close RabbitMQ
	if err := a.Notifier.Close(); err != nil {
		a.Logger.Error("RabbitMQ close error", map[string]interface{}{
			"error": err.Error(),
		})
	}

	a.Logger.Info("Application stopped successfully", nil)
	return nil
}
