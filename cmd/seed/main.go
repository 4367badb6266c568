package main // Seeds the database with demo advisors, slots and a default admin

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/advisor-booking/internal/config"
	"github.com/iliyamo/advisor-booking/internal/database"
	"github.com/iliyamo/advisor-booking/internal/model"
	"github.com/iliyamo/advisor-booking/internal/repository"
	"github.com/iliyamo/advisor-booking/internal/utils"
)

// seedAdvisors are the demo advisors created on an empty database.
var seedAdvisors = []model.Advisor{
	{Name: "Sarah Chen", Timezone: "America/New_York"},
	{Name: "Miguel Alvarez", Timezone: "Europe/Madrid"},
	{Name: "Aiko Tanaka", Timezone: "Asia/Tokyo"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using process environment")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema bootstrap failed: %v", err)
	}

	advisors := repository.NewAdvisorRepo(db)
	slots := repository.NewSlotRepo(db)
	admins := repository.NewAdminRepo(db)

	// Idempotent: advisors are matched by name against the existing list,
	// slot inserts skip duplicates, and an existing admin is left alone.
	existing, err := advisors.List(ctx)
	if err != nil {
		log.Fatalf("listing advisors failed: %v", err)
	}
	byName := make(map[string]uint64, len(existing))
	for _, a := range existing {
		byName[a.Name] = a.ID
	}

	for i := range seedAdvisors {
		a := &seedAdvisors[i]
		if id, ok := byName[a.Name]; ok {
			a.ID = id
			continue
		}
		if err := advisors.Create(ctx, a); err != nil {
			log.Fatalf("creating advisor %q failed: %v", a.Name, err)
		}
		log.Printf("created advisor %q (id=%d)", a.Name, a.ID)
	}

	batch := buildSlots(seedAdvisors, time.Now().UTC())
	if err := slots.CreateBulk(ctx, batch); err != nil {
		log.Fatalf("creating slots failed: %v", err)
	}
	log.Printf("seeded %d candidate slots (existing ones skipped)", len(batch))

	email := os.Getenv("SEED_ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
	}
	hash, err := utils.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hashing admin password failed: %v", err)
	}
	if _, err := admins.Create(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrAdminExists) {
			log.Printf("admin %q already exists, skipping", email)
		} else {
			log.Fatalf("creating admin failed: %v", err)
		}
	} else {
		log.Printf("created admin %q", email)
	}

	log.Println("seed complete")
}

// buildSlots generates two weeks of hourly slots, 09:00-17:00 UTC on
// weekdays, for each advisor.
func buildSlots(advisors []model.Advisor, now time.Time) []model.TimeSlot {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	var out []model.TimeSlot
	for d := 0; d < 14; d++ {
		cur := day.AddDate(0, 0, d)
		if wd := cur.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		for hour := 9; hour < 17; hour++ {
			start := cur.Add(time.Duration(hour) * time.Hour)
			for _, a := range advisors {
				out = append(out, model.TimeSlot{
					AdvisorID: a.ID,
					StartUTC:  start,
					EndUTC:    start.Add(time.Hour),
					Status:    model.SlotFree,
				})
			}
		}
	}
	return out
}
