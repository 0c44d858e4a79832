package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vidtube/vidtube-api/internal/handlers"
	"github.com/vidtube/vidtube-api/internal/jwt"
	"github.com/vidtube/vidtube-api/internal/logger"
	"github.com/vidtube/vidtube-api/internal/media"
	"github.com/vidtube/vidtube-api/internal/middlewares"
	"github.com/vidtube/vidtube-api/internal/repositories"
	"github.com/vidtube/vidtube-api/internal/services"
	"github.com/vidtube/vidtube-api/internal/storage"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// Config holds all startup configuration. Required secrets are validated in
// parseConfig; the process refuses to start without them.
type Config struct {
	AppHost  string
	AppPort  string
	Env      string // development or production
	LogLevel string

	PostgresDSN          string
	PostgresMaxOpenConns int
	PostgresMaxIdleConns int

	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	RedisPoolSize        int
	RedisMinIdleConns    int
	ChannelStatsCacheTTL time.Duration

	KafkaBroker string // optional; empty disables event publishing
	KafkaTopic  string

	AccessTokenSecret  string
	AccessTokenTTL     time.Duration
	RefreshTokenSecret string
	RefreshTokenTTL    time.Duration

	CloudinaryURL    string
	CloudinaryFolder string

	CORSOrigin string
}

// Production reports whether the service runs in production mode.
func (c Config) Production() bool {
	return c.Env == "production"
}

// @title vidtube API
// @version 1.0.0
// @description User-account backend for the vidtube video platform
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := parseConfig(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// parseConfig loads environment variables from a file and returns the
// validated application configuration.
func parseConfig(path string) (Config, error) {
	_ = godotenv.Load(path)

	getEnv := func(key, defaultValue string) string {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return defaultValue
	}
	getInt := func(key string, defaultValue int) (int, error) {
		raw := getEnv(key, strconv.Itoa(defaultValue))
		return strconv.Atoi(raw)
	}

	var cfg Config
	var err error

	// Application config
	cfg.AppHost = getEnv("APP_HOST", "localhost")
	cfg.AppPort = getEnv("APP_PORT", "8080")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.LogLevel = getEnv("APP_LOG_LEVEL", "info")
	cfg.CORSOrigin = getEnv("CORS_ORIGIN", "*")

	// PostgreSQL config
	pgHost := getEnv("POSTGRES_HOST", "localhost")
	pgPort := getEnv("POSTGRES_PORT", "5432")
	pgUser := getEnv("POSTGRES_USER", "user")
	pgPassword := getEnv("POSTGRES_PASSWORD", "password")
	pgDB := getEnv("POSTGRES_DB", "vidtube")
	cfg.PostgresDSN = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		pgUser, pgPassword, pgHost, pgPort, pgDB)
	if cfg.PostgresMaxOpenConns, err = getInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return cfg, err
	}
	if cfg.PostgresMaxIdleConns, err = getInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return cfg, err
	}

	// Redis config
	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")
	cfg.RedisAddr = fmt.Sprintf("%s:%s", redisHost, redisPort)
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return cfg, err
	}
	if cfg.RedisPoolSize, err = getInt("REDIS_POOL_SIZE", 10); err != nil {
		return cfg, err
	}
	if cfg.RedisMinIdleConns, err = getInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return cfg, err
	}
	statsTTL, err := getInt("CHANNEL_STATS_CACHE_TTL_SECOND", 60)
	if err != nil {
		return cfg, err
	}
	cfg.ChannelStatsCacheTTL = time.Duration(statsTTL) * time.Second

	// Kafka config
	cfg.KafkaBroker = getEnv("KAFKA_BROKER", "")
	cfg.KafkaTopic = getEnv("KAFKA_TOPIC", "vidtube.auth-events")

	// Token config
	cfg.AccessTokenSecret = getEnv("ACCESS_TOKEN_SECRET", "")
	cfg.RefreshTokenSecret = getEnv("REFRESH_TOKEN_SECRET", "")
	accessTTL, err := getInt("ACCESS_TOKEN_TTL_SECOND", 900)
	if err != nil {
		return cfg, err
	}
	cfg.AccessTokenTTL = time.Duration(accessTTL) * time.Second
	refreshTTL, err := getInt("REFRESH_TOKEN_TTL_SECOND", 10*24*60*60)
	if err != nil {
		return cfg, err
	}
	cfg.RefreshTokenTTL = time.Duration(refreshTTL) * time.Second

	// Media storage config
	cfg.CloudinaryURL = getEnv("CLOUDINARY_URL", "")
	cfg.CloudinaryFolder = getEnv("CLOUDINARY_FOLDER", "vidtube")

	// Fail fast on missing secrets instead of failing on the first request.
	if cfg.AccessTokenSecret == "" {
		return cfg, errors.New("ACCESS_TOKEN_SECRET is required")
	}
	if cfg.RefreshTokenSecret == "" {
		return cfg, errors.New("REFRESH_TOKEN_SECRET is required")
	}
	if cfg.CloudinaryURL == "" {
		return cfg, errors.New("CLOUDINARY_URL is required")
	}

	return cfg, nil
}

// run initializes the logger, database, Redis, Kafka, and media storage,
// sets up routes and middleware, and handles graceful shutdown.
func run(ctx context.Context, cfg Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, !cfg.Production()); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.LogLevel)

	// Connect to PostgreSQL and apply migrations
	db, err := storage.Connect(ctx, cfg.PostgresDSN, cfg.PostgresMaxOpenConns, cfg.PostgresMaxIdleConns)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := storage.Migrate(db); err != nil {
		return err
	}
	logger.Log.Info("PostgreSQL connected, migrations applied")

	// Connect to Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		PoolSize:     cfg.RedisPoolSize,
		MinIdleConns: cfg.RedisMinIdleConns,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection error: %w", err)
	}
	defer rdb.Close()

	// Kafka writer for auth events, optional
	var kafkaWriter services.KafkaWriter
	if cfg.KafkaBroker != "" {
		w := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBroker),
			Topic:    cfg.KafkaTopic,
			Balancer: &kafka.LeastBytes{},
		}
		defer w.Close()
		kafkaWriter = w
		logger.Log.Infof("Kafka event publishing enabled on %s", cfg.KafkaBroker)
	}

	// Media storage
	mediaStore, err := media.NewCloudinaryStore(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		return fmt.Errorf("cloudinary init error: %w", err)
	}

	// Token service
	tokens := jwt.New(cfg.AccessTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenSecret, cfg.RefreshTokenTTL)

	// Initialize repositories
	userReadRepo := repositories.NewUserReadRepository(db)
	userWriteRepo := repositories.NewUserWriteRepository(db)
	statsRepo := repositories.NewChannelStatsReadRepository(db)
	statsCacheRepo := repositories.NewChannelStatsCacheRepository(rdb, cfg.ChannelStatsCacheTTL)
	historyRepo := repositories.NewWatchHistoryReadRepository(db)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo, tokens, mediaStore, kafkaWriter)
	userService := services.NewUserService(userReadRepo, userWriteRepo, mediaStore, statsRepo, statsCacheRepo, historyRepo)

	// Initialize handlers
	handlers.Init(!cfg.Production())
	cookies := handlers.NewCookieWriter(cfg.Production(), cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware(logger.Log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/api/healthcheck", handlers.NewHealthcheckHandler())

	r.Route("/api/v1/users", func(r chi.Router) {
		// Public routes
		r.Post("/register", handlers.NewRegisterHandler(authService))
		r.Post("/login", handlers.NewLoginHandler(authService, cookies))
		r.Post("/refresh-token", handlers.NewRefreshTokenHandler(authService, cookies))

		// Protected routes with JWT middleware
		r.Group(func(r chi.Router) {
			r.Use(middlewares.AuthMiddleware(tokens))
			r.Post("/logout", handlers.NewLogoutHandler(authService, cookies))
			r.Post("/change-password", handlers.NewChangePasswordHandler(authService))
			r.Get("/current-user", handlers.NewCurrentUserHandler(userService))
			r.Get("/c/{username}", handlers.NewChannelProfileHandler(userService))
			r.Patch("/update-account", handlers.NewUpdateAccountHandler(userService))
			r.Patch("/avatar", handlers.NewUpdateAvatarHandler(userService))
			r.Patch("/cover-image", handlers.NewUpdateCoverImageHandler(userService))
			r.Get("/history", handlers.NewWatchHistoryHandler(userService))
		})
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.AppHost, cfg.AppPort)),
	))

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s:%s", cfg.AppHost, cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}
