package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"adminhub/internal/config"
	"adminhub/internal/controllers/http"
	"adminhub/internal/infra/cache"
	"adminhub/internal/infra/database"
	"adminhub/internal/infra/media"
	"adminhub/internal/infra/rabbitmq"
	"adminhub/internal/logger"
	"adminhub/internal/repository"
	"adminhub/internal/repository/gormrepo"
	"adminhub/internal/repository/memory"
	"adminhub/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, zl *zap.Logger) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	var appCache *cache.Cache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewClientFromURL(ctx, cfg.RedisURL)
		if err != nil {
			zl.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			appCache = cache.New(rdb, "adminhub:")
		}
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, zl)
		if err != nil {
			return fmt.Errorf("rabbitmq: %w", err)
		}
		defer p.Close()
		publisher = p
	}

	mediaStore, err := openMedia(ctx, cfg)
	if err != nil {
		return err
	}

	orders := services.NewOrderService(store, publisher, zl)
	orders.SetCache(appCache)
	catalog := services.NewCatalogService(store, mediaStore, zl)
	catalog.SetCache(appCache)
	categories := services.NewCategoryService(store, mediaStore, zl)
	categories.SetCache(appCache, cfg.CacheTTL)
	dashboard := services.NewDashboardService(store, zl)
	dashboard.SetCache(appCache, cfg.CacheTTL)

	handler := http.NewHandler(http.Services{
		Auth:          services.NewAuthService(store, cfg.JWTSecret, cfg.JWTTTL, zl),
		Orders:        orders,
		Catalog:       catalog,
		Categories:    categories,
		Ledger:        services.NewLedgerService(store, zl),
		Notifications: services.NewNotificationService(store),
		Settings:      services.NewSettingsService(store),
		Employees:     services.NewEmployeeService(store, mediaStore, zl),
		Dashboard:     dashboard,
	}, zl)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger(zl))
	r.Use(http.CORS(cfg.AllowedOrigins))
	r.Use(http.SecurityHeaders())
	r.Use(http.NewRateLimiter(ctx, cfg.RateLimitPerMinute, 5*time.Minute).Middleware())
	handler.RegisterRoutes(r)

	srv := &nethttp.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("starting adminhub", zap.String("port", cfg.Port), zap.String("db", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (repository.Store, error) {
	if cfg.DB.Driver == "memory" {
		return memory.NewStore(), nil
	}
	db, err := database.Open(cfg.DB)
	if err != nil {
		return nil, err
	}
	return gormrepo.NewStore(db), nil
}

func openMedia(ctx context.Context, cfg *config.Config) (media.Store, error) {
	switch cfg.MediaProvider {
	case "cloudinary":
		c := cfg.Cloudinary
		return media.NewCloudinary(c.CloudName, c.APIKey, c.APISecret, c.Folder)
	case "s3":
		s := cfg.S3
		return media.NewS3(ctx, media.S3Options{
			Region:    s.Region,
			Bucket:    s.Bucket,
			Endpoint:  s.Endpoint,
			AccessKey: s.AccessKey,
			SecretKey: s.SecretKey,
			PublicURL: s.PublicURL,
			Folder:    s.Prefix,
		})
	default:
		return media.Disabled{}, nil
	}
}
