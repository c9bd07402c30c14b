package seeders

import (
	"context"
	"log"

	"maintenance-system/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedAll наполняет базу стартовыми данными: суперадминистратор с полной
// картой прав и демонстрационный парк оборудования.
func SeedAll(db *pgxpool.Pool, cfg *config.Config) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базы...")

	if err := seedSuperAdmin(ctx, db, cfg); err != nil {
		log.Fatalf("❌ Ошибка создания суперадминистратора: %v", err)
	}
	if err := seedDemoEquipment(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка наполнения демо-оборудования: %v", err)
	}

	log.Println("✅ Наполнение базы завершено!")
}
