package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/middleware"
	"servicebooking/internal/modules/auth"
	"servicebooking/internal/modules/availability"
	"servicebooking/internal/modules/booking"
	"servicebooking/internal/modules/catalog"
	"servicebooking/internal/notification"
	"servicebooking/internal/pkg/clock"
	jwtsvc "servicebooking/internal/pkg/jwt"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zlog := logger.New(cfg.Environment)
	defer zlog.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("database connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zlog.Fatal("database migration failed", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	bookingRepo := repository.NewBookingRepository(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	clk := clock.System()
	generator := availability.Generator{Step: time.Duration(cfg.SlotStepMinutes) * time.Minute}

	hub := notification.NewHub()
	defer hub.Close()
	notifier := notification.NewNotifier(db, hub, zlog)
	notificationHandler := notification.NewHandler(notifier, hub, zlog)

	authService := auth.NewService(userRepo, j)
	authHandler := auth.NewHandler(authService)

	catalogService := catalog.NewService(providerRepo, serviceRepo, scheduleRepo)
	catalogHandler := catalog.NewHandler(catalogService)

	availabilityService := availability.NewService(serviceRepo, scheduleRepo, bookingRepo, generator, clk)
	availabilityHandler := availability.NewHandler(availabilityService)

	bookingService := booking.NewService(
		bookingRepo, serviceRepo, providerRepo, scheduleRepo,
		notifier, generator, clk, zlog,
	)
	bookingHandler := booking.NewHandler(bookingService)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.CORS(), middleware.RequestLogger(zlog))

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterRoutes(v1)
		catalogHandler.RegisterPublicRoutes(v1)
		availabilityHandler.RegisterRoutes(v1)

		// protected
		protected := v1.Group("/")
		protected.Use(middleware.Auth(j))
		{
			bookingHandler.RegisterRoutes(protected)
			catalogHandler.RegisterOwnerRoutes(protected)
			notificationHandler.RegisterRoutes(protected)
		}
	}

	zlog.Info("starting api", zap.String("addr", cfg.HTTPAddr))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
