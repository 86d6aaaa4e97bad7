package main

import (
	"context"
	"flag"
	"os"

	"phonebook_backend/internal/contacts/repository"
	"phonebook_backend/internal/contacts/service"
	"phonebook_backend/internal/events"
	"phonebook_backend/platform/config"
	"phonebook_backend/platform/db"
	platformevents "phonebook_backend/platform/events"
	"phonebook_backend/platform/logger"
	"phonebook_backend/platform/validator"
)

func main() {
	file := flag.String("file", "contacts.yaml", "YAML fixture with contacts and phone numbers")
	dryRun := flag.Bool("dry-run", false, "validate and apply the fixture to an in-memory store only")
	flag.Parse()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	log := logger.New(env)
	val := validator.New()

	in, err := os.Open(*file)
	if err != nil {
		log.Error("failed to open fixture", "file", *file, "error", err)
		os.Exit(1)
	}
	defer in.Close()

	f, err := parseFixture(in, val)
	if err != nil {
		log.Error("invalid fixture", "file", *file, "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	bus := events.NewInMemoryBus(log)
	bus.Subscribe(platformevents.AllEvents, events.NewAuditHandler(log))
	defer bus.Wait()

	var repo repository.Repository
	region := ""
	if *dryRun {
		repo = repository.NewMemory()
	} else {
		cfg, err := config.Load()
		if err != nil {
			log.Error("failed to load config", "error", err)
			os.Exit(1)
		}
		region = cfg.GetPhoneDefaultRegion()

		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		if cfg.GetMigrationsEnabled() {
			if err := db.RunMigrations(ctx, pool); err != nil {
				log.Error("failed to run database migrations", "error", err)
				os.Exit(1)
			}
		}
		repo = repository.New(pool)
	}

	svc := service.New(repo, bus, region, log)
	report, err := seed(ctx, svc, f, log)
	if err != nil {
		log.Error("seed failed", "error", err, "contacts", report.Contacts, "numbers", report.Numbers)
		os.Exit(1)
	}
	log.Info("seed complete",
		"dryRun", *dryRun,
		"contacts", report.Contacts,
		"numbers", report.Numbers,
		"skipped", report.Skipped,
	)
}
