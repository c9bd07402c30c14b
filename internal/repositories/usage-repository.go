package repositories

import (
	"context"
	"time"

	"maintenance-system/internal/entities"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UsageRepositoryInterface interface {
	// UpsertUsage пишет наработку за день: повторный лог за ту же дату
	// перезаписывает часы, а не создаёт дубль.
	UpsertUsage(ctx context.Context, q Querier, equipmentID uint64, workDate time.Time, hours float64) error
	SumHours(ctx context.Context, q Querier, equipmentID uint64) (float64, error)
	ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.UsageRecord, error)
}

type UsageRepository struct {
	storage *pgxpool.Pool
}

func NewUsageRepository(storage *pgxpool.Pool) UsageRepositoryInterface {
	return &UsageRepository{storage: storage}
}

func (r *UsageRepository) UpsertUsage(ctx context.Context, q Querier, equipmentID uint64, workDate time.Time, hours float64) error {
	if q == nil {
		q = r.storage
	}
	query := `
        INSERT INTO usage_records (equipment_id, work_date, hours_worked)
        VALUES ($1, $2, $3)
        ON CONFLICT (equipment_id, work_date)
        DO UPDATE SET hours_worked = EXCLUDED.hours_worked, updated_at = CURRENT_TIMESTAMP
    `
	_, err := q.Exec(ctx, query, equipmentID, workDate, hours)
	return err
}

func (r *UsageRepository) SumHours(ctx context.Context, q Querier, equipmentID uint64) (float64, error) {
	if q == nil {
		q = r.storage
	}
	var total float64
	err := q.QueryRow(ctx,
		"SELECT COALESCE(SUM(hours_worked), 0) FROM usage_records WHERE equipment_id = $1",
		equipmentID,
	).Scan(&total)
	return total, err
}

func (r *UsageRepository) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.UsageRecord, error) {
	rows, err := r.storage.Query(ctx, `
        SELECT id, equipment_id, work_date, hours_worked, created_at, updated_at
        FROM usage_records
        WHERE equipment_id = $1
        ORDER BY work_date
    `, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []entities.UsageRecord
	for rows.Next() {
		var rec entities.UsageRecord
		if err := rows.Scan(&rec.ID, &rec.EquipmentID, &rec.WorkDate, &rec.HoursWorked, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
