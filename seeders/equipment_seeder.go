package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

type demoEquipment struct {
	name           string
	serialNumber   string
	assetNumber    string
	location       string
	assetType      string
	operatingHours float64
}

var demoPark = []demoEquipment{
	{"Экскаватор Hitachi ZX200", "HIT-ZX200-001", "AN-1001", "Площадка №1", "hours", 240},
	{"Бульдозер CAT D6", "CAT-D6-014", "AN-1002", "Площадка №1", "hours", 500},
	{"Самосвал КамАЗ-6520", "KAM-6520-177", "AN-1003", "Гараж", "kilometers", 15000},
	{"Дизель-генератор FG Wilson P150", "FGW-P150-003", "AN-1004", "Склад", "hours", 300},
	{"Компрессор Atlas Copco XAS 97", "AC-XAS97-021", "AN-1005", "Площадка №2", "dav", 1200},
}

func seedDemoEquipment(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Наполнение демонстрационного парка оборудования...")

	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(id) FROM equipments").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		log.Println("    - Оборудование уже есть. Пропускаем.")
		return nil
	}

	for _, eq := range demoPark {
		_, err := db.Exec(ctx, `
            INSERT INTO equipments (name, serial_number, asset_number, location, status, asset_type, operating_hours)
            VALUES ($1, $2, $3, $4, 'active', $5, $6)
        `, eq.name, eq.serialNumber, eq.assetNumber, eq.location, eq.assetType, eq.operatingHours)
		if err != nil {
			return err
		}
	}
	return nil
}
