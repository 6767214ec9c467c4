package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"oficina/internal/config"
	"oficina/internal/database"
	"oficina/internal/events"
	"oficina/internal/logger"
	"oficina/internal/metrics"
	"oficina/internal/middleware"
	"oficina/internal/modules/auth"
	"oficina/internal/modules/booking"
	"oficina/internal/modules/catalog"
	"oficina/internal/modules/favorite"
	"oficina/internal/modules/realtime"
	"oficina/internal/modules/report"
	"oficina/internal/modules/review"
	"oficina/internal/modules/vehicle"
	"oficina/internal/notification"
	jwtsvc "oficina/internal/pkg/jwt"
	"oficina/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}

	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("database connect failed", zap.Error(err))
	}
	if database.IsPostgres(cfg.DatabaseURL) {
		err = database.Migrate(db)
	} else {
		err = repository.AutoMigrate(db)
	}
	if err != nil {
		log.Fatal("database migration failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = database.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
			rdb = nil
		} else {
			defer func() { _ = rdb.Close() }()
		}
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.RabbitMQ.Enabled() {
		publisher = events.NewRabbitPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
	}
	defer func() { _ = publisher.Close() }()

	reg := metrics.NewRegistry()
	mailer := notification.New(cfg.SMTP, log)
	jwt := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL, cfg.JWTIssuer, cfg.JWTAudience)

	hub := realtime.NewHub(log)
	defer hub.Close()

	// repositories
	userRepo := repository.NewUserRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	favoriteRepo := repository.NewFavoriteRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	catalogCache := middleware.NewResponseCache(rdb, "catalog", cfg.Redis.CatalogCacheTTL, reg, log)

	authService := auth.NewService(userRepo, jwt, mailer, log, auth.Options{
		ResetTokenTTL: cfg.ResetTokenTTL,
		FrontendURL:   cfg.FrontendURL,
	})
	vehicleService := vehicle.NewService(vehicleRepo)
	bookingService := booking.NewService(
		bookingRepo,
		vehicleRepo,
		mailer,
		publisher,
		realtime.NewNotifier(hub),
		reg,
		log,
	)
	reportService := report.NewService(bookingRepo, vehicleRepo)
	catalogService := catalog.NewService(catalogRepo, favoriteRepo, reviewRepo, catalogCache, log)
	favoriteService := favorite.NewService(favoriteRepo, catalogRepo)
	reviewService := review.NewService(reviewRepo, catalogRepo, catalogCache, log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log, cfg.IsProduction()))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(reg.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(reg.Handler()))

	authMW := middleware.JWTAuth(jwt)

	api := r.Group("/api")
	{
		auth.NewHandler(authService).RegisterRoutes(api, authMW)
		vehicle.NewHandler(vehicleService).RegisterRoutes(api, authMW)
		booking.NewHandler(bookingService).RegisterRoutes(api, authMW)
		report.NewHandler(reportService).RegisterRoutes(api, authMW)
		catalog.NewHandler(catalogService, catalogCache.Middleware()).
			RegisterRoutes(api, middleware.OptionalAuth(jwt), authMW)
		favorite.NewHandler(favoriteService).RegisterRoutes(api, authMW)
		review.NewHandler(reviewService).RegisterRoutes(api, authMW)
		realtime.NewHandler(hub, jwt, cfg.CORSAllowedOrigins, log).RegisterRoutes(api)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("http server listening", zap.String("addr", cfg.HTTPAddr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
