package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/iksoll/VelvetCake/config"
	_ "github.com/iksoll/VelvetCake/docs"
	"github.com/iksoll/VelvetCake/internal/cache"
	"github.com/iksoll/VelvetCake/internal/cleanup"
	"github.com/iksoll/VelvetCake/internal/handlers"
	"github.com/iksoll/VelvetCake/internal/hashing"
	"github.com/iksoll/VelvetCake/internal/metrics"
	"github.com/iksoll/VelvetCake/internal/middleware"
	"github.com/iksoll/VelvetCake/internal/producer"
	"github.com/iksoll/VelvetCake/internal/repository"
	"github.com/iksoll/VelvetCake/internal/router"
	"github.com/iksoll/VelvetCake/internal/service"
	"github.com/iksoll/VelvetCake/internal/token"
	"github.com/iksoll/VelvetCake/pkg/database"
	"github.com/iksoll/VelvetCake/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// @Title VelvetCakes API
// @Version 1.0
// @Description API кондитерской: каталог, конструктор тортов, заказы, уведомления и отзывы
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	// Деньги уходят клиенту числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true

	if !cfg.IsDevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var cacheClient service.CacheClient
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("failed to create redis client", zap.Error(err))
		}
		defer redisClient.Close()
		cacheClient = redisClient
		log.Info("Redis cache enabled")
	} else {
		log.Info("Redis cache disabled")
	}

	var events service.EventBus = producer.NopBus{}
	if cfg.Kafka.Enabled {
		orderProducer := producer.NewOrderEventProducer(cfg.Kafka.Brokers, cfg.Kafka.OrdersTopic)
		defer func() {
			if err := orderProducer.Close(); err != nil {
				log.Warn("failed to close kafka writer", zap.Error(err))
			}
		}()
		events = orderProducer
		log.Info("Kafka order events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.OrdersTopic))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hasher := hashing.NewBcrypt(0)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer)

	authSvc := service.NewAuthService(
		repos.Users, repos.Roles,
		hasher, tokens, cacheClient,
		cfg.JWT.TTL,
		service.LoginLimits{MaxAttempts: cfg.Login.MaxAttempts, Window: cfg.Login.LockWindow},
		log,
	)
	catalogSvc := service.NewCatalogService(repos.Products, cacheClient, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
	componentSvc := service.NewComponentService(repos.Components, log)
	orderSvc := service.NewOrderService(repos.Orders, repos.Products, events, m, log)
	notificationSvc := service.NewNotificationService(repos.Notifications, repos.Users, log)
	reviewSvc := service.NewReviewService(repos.Reviews, log)
	cartSvc := service.NewCartService(repos.Cart, repos.Products, log)

	cleanupSvc := cleanup.NewCleanupService(repos.Cart, cfg.Cleanup.CartTTL, log)
	scheduler := cleanup.NewScheduler(cleanupSvc, cfg.Cleanup.Interval, log)

	cleanupCtx, cleanupCancel := context.WithCancel(context.Background())
	defer cleanupCancel()
	scheduler.Start(cleanupCtx)

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst, log)
	limiterStop := make(chan struct{})
	limiter.StartCleanup(5*time.Minute, 10*time.Minute, limiterStop)

	r := router.Router(router.Handlers{
		Auth:          handlers.NewAuthHandler(authSvc, log),
		Products:      handlers.NewProductHandler(catalogSvc, log),
		Components:    handlers.NewComponentHandler(componentSvc, log),
		Orders:        handlers.NewOrderHandler(orderSvc, log),
		Notifications: handlers.NewNotificationHandler(notificationSvc, log),
		Reviews:       handlers.NewReviewHandler(reviewSvc, log),
		Cart:          handlers.NewCartHandler(cartSvc, log),
		Configurator:  handlers.NewConfiguratorHandler(log),
	}, router.Options{
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Tokens:      authSvc,
		RateLimiter: limiter,
		Metrics:     m,
	}, log)

	srv := &http.Server{
		Addr:              listenAddr(cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")

	// Останавливаем планировщик
	scheduler.Stop()
	cleanupCancel()
	close(limiterStop)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
