package repositories

import (
	"context"

	"maintenance-system/internal/entities"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ReportRepositoryInterface interface {
	GetMaintenanceReport(ctx context.Context, filter entities.ReportFilter) ([]entities.MaintenanceReportItem, uint64, error)
	GetUsageReport(ctx context.Context, filter entities.ReportFilter) ([]entities.UsageReportItem, uint64, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

func (r *ReportRepository) GetMaintenanceReport(ctx context.Context, filter entities.ReportFilter) ([]entities.MaintenanceReportItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().
		From("maintenance_tasks mt").
		LeftJoin("equipments e ON e.id = mt.equipment_id")

	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"mt.due_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.LtOrEq{"mt.due_date": *filter.DateTo})
	}
	if len(filter.EquipmentIDs) > 0 {
		base = base.Where(sq.Eq{"mt.equipment_id": filter.EquipmentIDs})
	}
	if filter.Status != "" {
		base = base.Where(sq.Eq{"mt.status": filter.Status})
	}

	countQuery, countArgs, err := base.Columns("COUNT(mt.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.MaintenanceReportItem{}, 0, nil
	}

	main := base.Columns(
		"mt.id", "e.name", "e.serial_number", "e.location",
		"mt.due_date", "mt.status", "mt.notes", "mt.completed_at", "mt.created_at",
	).OrderBy("mt.due_date")

	if filter.PerPage > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PerPage
		}
		main = main.Limit(uint64(filter.PerPage)).Offset(uint64(offset))
	}

	query, args, err := main.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []entities.MaintenanceReportItem
	for rows.Next() {
		var item entities.MaintenanceReportItem
		err := rows.Scan(
			&item.TaskID, &item.EquipmentName, &item.SerialNumber, &item.Location,
			&item.DueDate, &item.Status, &item.Notes, &item.CompletedAt, &item.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

// Отчёт по наработке отдаётся построчно (дата + единица техники);
// группировка по дням делается на уровне сервиса.
func (r *ReportRepository) GetUsageReport(ctx context.Context, filter entities.ReportFilter) ([]entities.UsageReportItem, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().
		From("usage_records ur").
		LeftJoin("equipments e ON e.id = ur.equipment_id")

	if filter.DateFrom != nil {
		base = base.Where(sq.GtOrEq{"ur.work_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		base = base.Where(sq.LtOrEq{"ur.work_date": *filter.DateTo})
	}
	if len(filter.EquipmentIDs) > 0 {
		base = base.Where(sq.Eq{"ur.equipment_id": filter.EquipmentIDs})
	}

	countQuery, countArgs, err := base.Columns("COUNT(ur.id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.UsageReportItem{}, 0, nil
	}

	main := base.Columns(
		"ur.work_date", "ur.equipment_id", "e.name", "e.asset_type", "ur.hours_worked",
	).OrderBy("ur.work_date", "ur.equipment_id")

	if filter.PerPage > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PerPage
		}
		main = main.Limit(uint64(filter.PerPage)).Offset(uint64(offset))
	}

	query, args, err := main.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []entities.UsageReportItem
	for rows.Next() {
		var item entities.UsageReportItem
		err := rows.Scan(&item.WorkDate, &item.EquipmentID, &item.EquipmentName, &item.AssetType, &item.HoursWorked)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}
