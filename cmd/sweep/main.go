package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/modules/availability"
	"servicebooking/internal/modules/booking"
	"servicebooking/internal/notification"
	"servicebooking/internal/pkg/clock"
	"servicebooking/internal/pkg/logger"
	"servicebooking/internal/repository"
)

// Moves confirmed bookings whose end time has passed to completed. Run it
// from cron; concurrent runs are safe because completion re-checks the stored
// status before writing.
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

	bookingRepo := repository.NewBookingRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)

	hub := notification.NewHub()
	notifier := notification.NewNotifier(db, hub, zlog)

	svc := booking.NewService(
		bookingRepo, serviceRepo, providerRepo, scheduleRepo,
		notifier, availability.Generator{}, clock.System(), zlog,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := svc.CompleteDue(ctx)
	if err != nil {
		zlog.Fatal("completion sweep failed", zap.Error(err))
	}
	zlog.Info("completion sweep finished", zap.Int("completed", n))
}
