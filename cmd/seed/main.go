package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"

	"servicebooking/internal/config"
	"servicebooking/internal/database"
	"servicebooking/internal/domain"
	"servicebooking/internal/repository"
)

// Seeds a small development dataset: one owner with a provider, two services
// and weekday hours, plus one customer account. Not meant for production.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	providers := repository.NewProviderRepository(db)
	services := repository.NewServiceRepository(db)
	schedules := repository.NewScheduleRepository(db)

	now := time.Now().UTC()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	owner := &domain.User{
		Email: "owner@example.com", PasswordHash: string(hash),
		Role: domain.RoleProviderOwner, Name: "Demo Owner",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := users.Create(ctx, owner); err != nil {
		log.Fatalf("seed owner: %v", err)
	}

	customer := &domain.User{
		Email: "customer@example.com", PasswordHash: string(hash),
		Role: domain.RoleCustomer, Name: "Demo Customer",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := users.Create(ctx, customer); err != nil {
		log.Fatalf("seed customer: %v", err)
	}

	provider := &domain.Provider{
		OwnerID: owner.ID, Name: "Downtown Clinic", City: "Sofia",
		CreatedAt: now, UpdatedAt: now,
	}
	if err := providers.Create(ctx, provider); err != nil {
		log.Fatalf("seed provider: %v", err)
	}

	for _, svc := range []*domain.Service{
		{ProviderID: provider.ID, Name: "Consultation", DurationMinutes: 60, Price: 50, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ProviderID: provider.ID, Name: "Follow-up", DurationMinutes: 30, Price: 25, IsActive: true, CreatedAt: now, UpdatedAt: now},
	} {
		if err := services.Create(ctx, svc); err != nil {
			log.Fatalf("seed service: %v", err)
		}
	}

	hours := domain.WeeklySchedule{
		"monday":    {Segments: []domain.TimeSegment{{Start: 9 * 60, End: 12 * 60}, {Start: 13 * 60, End: 18 * 60}}},
		"tuesday":   {Segments: []domain.TimeSegment{{Start: 9 * 60, End: 18 * 60}}},
		"wednesday": {Segments: []domain.TimeSegment{{Start: 9 * 60, End: 18 * 60}}},
		"thursday":  {Segments: []domain.TimeSegment{{Start: 9 * 60, End: 18 * 60}}},
		"friday":    {Segments: []domain.TimeSegment{{Start: 9 * 60, End: 15 * 60}}},
		"saturday":  {Closed: true},
		"sunday":    {Closed: true},
	}
	if err := hours.Validate(); err != nil {
		log.Fatalf("seed schedule invalid: %v", err)
	}
	if err := schedules.Upsert(ctx, provider.ID, hours); err != nil {
		log.Fatalf("seed schedule: %v", err)
	}

	log.Printf("seed completed: provider=%d owner=%d customer=%d", provider.ID, owner.ID, customer.ID)
}
