package main

import (
	"log"

	"maintenance-system/migrations"
	"maintenance-system/pkg/config"
	"maintenance-system/pkg/database/postgresql"
	"maintenance-system/seeders"
)

func main() {
	cfg := config.New()

	if err := postgresql.RunMigrations(cfg.Postgres.DSN, migrations.Files); err != nil {
		log.Fatalf("Не удалось применить миграции: %v", err)
	}

	db := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer db.Close()

	seeders.SeedAll(db, cfg)
}
