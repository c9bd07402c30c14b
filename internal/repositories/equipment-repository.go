package repositories

import (
	"context"
	"errors"
	"fmt"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const equipmentFields = "id, name, serial_number, asset_number, location, status, asset_type, image_url, operating_hours, cumulative_hours, created_at, updated_at"

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error)
	UpdateEquipment(ctx context.Context, eq *entities.Equipment) error
	SetStatus(ctx context.Context, q Querier, id uint64, status string) error
	// TransitionStatus переводит статус только из from в to; оборудование
	// в другом статусе не трогает.
	TransitionStatus(ctx context.Context, q Querier, id uint64, from, to string) error
	SetImageURL(ctx context.Context, id uint64, imageURL string) error
	SetCumulativeHours(ctx context.Context, q Querier, id uint64, total float64) error
	DeleteEquipment(ctx context.Context, id uint64) error
	CountByStatus(ctx context.Context) (map[string]uint64, error)
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var eq entities.Equipment
	err := row.Scan(
		&eq.ID, &eq.Name, &eq.SerialNumber, &eq.AssetNumber, &eq.Location,
		&eq.Status, &eq.AssetType, &eq.ImageURL,
		&eq.OperatingHours, &eq.CumulativeHours,
		&eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &eq, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("equipments")
	if status, ok := filter.Filter["status"].(string); ok && status != "" {
		base = base.Where(sq.Eq{"status": status})
	}
	if assetType, ok := filter.Filter["asset_type"].(string); ok && assetType != "" {
		base = base.Where(sq.Eq{"asset_type": assetType})
	}
	if location, ok := filter.Filter["location"].(string); ok && location != "" {
		base = base.Where(sq.Eq{"location": location})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"serial_number": pattern},
			sq.ILike{"asset_number": pattern},
		})
	}

	countQuery, countArgs, err := base.Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("выполнение COUNT-запроса: %w", err)
	}
	if total == 0 {
		return []entities.Equipment{}, 0, nil
	}

	main := base.Columns(equipmentFields).
		OrderBy("created_at DESC").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset()))

	query, args, err := main.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка запроса списка оборудования: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []entities.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *eq)
	}
	return result, total, rows.Err()
}

func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf("SELECT %s FROM equipments WHERE id = $1", equipmentFields)
	return scanEquipment(r.storage.QueryRow(ctx, query, id))
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error) {
	query := `
        INSERT INTO equipments (name, serial_number, asset_number, location, status, asset_type, operating_hours, cumulative_hours)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	var id uint64
	err := r.storage.QueryRow(ctx, query,
		eq.Name, eq.SerialNumber, eq.AssetNumber, eq.Location,
		eq.Status, eq.AssetType, eq.OperatingHours, eq.CumulativeHours,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, eq *entities.Equipment) error {
	query := `
        UPDATE equipments
        SET name = $1, serial_number = $2, asset_number = $3, location = $4,
            asset_type = $5, operating_hours = $6, updated_at = CURRENT_TIMESTAMP
        WHERE id = $7
    `
	result, err := r.storage.Exec(ctx, query,
		eq.Name, eq.SerialNumber, eq.AssetNumber, eq.Location,
		eq.AssetType, eq.OperatingHours, eq.ID,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) SetStatus(ctx context.Context, q Querier, id uint64, status string) error {
	if q == nil {
		q = r.storage
	}
	result, err := q.Exec(ctx,
		"UPDATE equipments SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) TransitionStatus(ctx context.Context, q Querier, id uint64, from, to string) error {
	if q == nil {
		q = r.storage
	}
	_, err := q.Exec(ctx,
		"UPDATE equipments SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2 AND status = $3",
		to, id, from)
	return err
}

func (r *EquipmentRepository) SetImageURL(ctx context.Context, id uint64, imageURL string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE equipments SET image_url = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", imageURL, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetCumulativeHours выставляет накопленную наработку; вызывается в той же
// транзакции, что и upsert журнала, чтобы суммы не разъезжались.
func (r *EquipmentRepository) SetCumulativeHours(ctx context.Context, q Querier, id uint64, total float64) error {
	if q == nil {
		q = r.storage
	}
	result, err := q.Exec(ctx,
		"UPDATE equipments SET cumulative_hours = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2", total, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) DeleteEquipment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM equipments WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *EquipmentRepository) CountByStatus(ctx context.Context) (map[string]uint64, error) {
	rows, err := r.storage.Query(ctx, "SELECT status, COUNT(id) FROM equipments GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var status string
		var count uint64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
