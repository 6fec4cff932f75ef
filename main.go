package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tripbazaar/cache"
	"tripbazaar/config"
	"tripbazaar/database"
	"tripbazaar/handlers"
	"tripbazaar/jobs"
	"tripbazaar/logger"
	"tripbazaar/ratelimit"
	"tripbazaar/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env file (ignored in production where env vars are set directly)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zlog.Sync()

	ctx := context.Background()

	store, err := database.Open(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	defer store.Close()

	if err := store.SeedIfEmpty(ctx); err != nil {
		zlog.Warn("seeding skipped", zap.Error(err))
	}

	var cacheStore cache.Store
	if cfg.Redis.Address != "" {
		redisStore, err := cache.NewRedisStore(ctx, cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			zlog.Fatal("redis connect failed", zap.Error(err))
		}
		cacheStore = redisStore
		zlog.Info("using redis cache", zap.String("addr", cfg.Redis.Address))
	} else {
		cacheStore = cache.NewMemoryStore()
		zlog.Warn("REDIS_ADDR not set, using in-memory cache")
	}
	defer cacheStore.Close()

	limiter := ratelimit.New(cacheStore, ratelimit.Config{
		MaxRequests: cfg.RateLimit.MaxRequests,
		Window:      cfg.RateLimit.Window,
	}, zlog)

	sender, err := services.NewEmailSender(ctx, cfg.Email.AWSRegion, cfg.Email.From, zlog)
	if err != nil {
		zlog.Fatal("email sender init failed", zap.Error(err))
	}

	queue := jobs.NewQueue(jobs.Config{
		Workers:    cfg.Jobs.Workers,
		QueueSize:  cfg.Jobs.QueueSize,
		MaxRetries: cfg.Jobs.MaxRetries,
	}, zlog)
	registerJobHandlers(queue, store, sender)
	queue.Start()

	api := handlers.New(handlers.Deps{
		Store:    store,
		Cache:    cacheStore,
		Limiter:  limiter,
		Queue:    queue,
		Edits:    services.NewEditStore(cacheStore, cfg.Edits.PreviewTTL),
		Payments: services.NewPaymentService(zlog),
		Log:      zlog,
	})

	if os.Getenv("GIN_MODE") == "release" || cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())

	// Trusted proxies (hosting platforms sit behind a proxy)
	r.SetTrustedProxies([]string{"0.0.0.0/0"})

	// CORS — allow configured frontend origins
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	allowedOrigins = append(allowedOrigins, cfg.HTTP.FrontendURLs...)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTP.Port,
		Handler: r,
	}

	go func() {
		zlog.Info("tripbazaar backend starting", zap.String("port", cfg.HTTP.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zlog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("http shutdown failed", zap.Error(err))
	}
	if err := queue.Stop(shutdownCtx); err != nil {
		zlog.Error("job queue drain failed", zap.Error(err))
	}
	zlog.Info("goodbye")
}

// registerJobHandlers binds the background work the API enqueues.
func registerJobHandlers(queue *jobs.Queue, store *database.Store, sender services.EmailSender) {
	queue.Register("send-email", func(ctx context.Context, job jobs.Job) error {
		var payload struct {
			BookingID int64  `json:"bookingId"`
			Email     string `json:"email"`
		}
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("decode send-email payload: %w", err)
		}
		booking, err := store.GetBooking(ctx, payload.BookingID)
		if err != nil {
			return fmt.Errorf("load booking %d: %w", payload.BookingID, err)
		}
		subject, body := services.BookingConfirmationEmail(*booking)
		return sender.Send(ctx, payload.Email, subject, body)
	})
}
