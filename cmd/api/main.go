package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/harentsoaR/hospital-api/internal/config"
	"github.com/harentsoaR/hospital-api/internal/handlers"
	"github.com/harentsoaR/hospital-api/internal/logging"
	"github.com/harentsoaR/hospital-api/internal/middleware"
	"github.com/harentsoaR/hospital-api/internal/repository"
	"github.com/harentsoaR/hospital-api/internal/routes"
	"github.com/harentsoaR/hospital-api/internal/services"
)

// userStore is what both the handlers and the session middleware need.
type userStore interface {
	handlers.UserRepository
	middleware.UserFinder
}

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	if envErr != nil {
		slog.Info("no .env file found, relying on environment variables")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// --- Error reporting ---
	sentryEnabled := false
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			AttachStacktrace: true,
		}); err != nil {
			slog.Warn("sentry init failed", "error", err)
		} else {
			sentryEnabled = true
			defer sentry.Flush(2 * time.Second)
		}
	}

	// --- Database ---
	var users userStore
	switch cfg.DBDriver {
	case "memory":
		slog.Warn("using in-memory user store; data is lost on restart")
		users = repository.NewMemoryUserRepository()
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			cancel()
			slog.Error("failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		if err := client.Ping(ctx, nil); err != nil {
			cancel()
			slog.Error("MongoDB ping failed", "error", err)
			os.Exit(1)
		}
		repo := repository.NewUserRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			cancel()
			slog.Error("failed to ensure user indexes", "error", err)
			os.Exit(1)
		}
		cancel()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		}()
		slog.Info("connected to MongoDB", "database", cfg.MongoDatabase)
		users = repo
	}

	// --- Services ---
	avatars, err := services.NewAvatarUploader(services.AvatarStoreConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
		PublicURL: cfg.MinioPublicURL,
	})
	if err != nil {
		slog.Error("failed to create avatar store client", "error", err)
		os.Exit(1)
	}
	bucketCtx, cancelBucket := context.WithTimeout(context.Background(), 10*time.Second)
	if err := avatars.EnsureBucket(bucketCtx); err != nil {
		// Doctor registration reports upload failures per request.
		slog.Warn("avatar bucket not ready", "bucket", cfg.MinioBucket, "error", err)
	}
	cancelBucket()

	tokens := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry, cfg.CookieExpiry, cfg.CookieSecure)

	h := handlers.NewHandler(users, tokens, avatars)
	auth := middleware.NewAuthenticator(users, tokens)

	// --- Gin Router ---
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if sentryEnabled {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	routes.Setup(r, h, auth)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}
}
