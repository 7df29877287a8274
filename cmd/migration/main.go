package main

import (
	"flag"
	"log/slog"
	"os"

	"gitlab.com/dirk.krummacker/personal-crm/internal/config"
	"gitlab.com/dirk.krummacker/personal-crm/internal/database"
)

// Usage example on the command line:
// > CRM_DATABASE_SERVICE_USER=crm_service CRM_DATABASE_SERVICE_PASSWORD=... go run main.go
// > CRM_DATABASE_SERVICE_USER=crm_service CRM_DATABASE_SERVICE_PASSWORD=... go run main.go -steps=-1
func main() {
	steps := flag.Int("steps", 0, "number of migrations to apply, negative to roll back, 0 for all pending")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := database.Migrate(cfg.Database, *steps); err != nil {
		slog.Error("migration failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	slog.Info("migration finished", slog.Int("steps", *steps))
}
