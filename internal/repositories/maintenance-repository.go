package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MaintenanceRepositoryInterface interface {
	GetTasks(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTask, uint64, error)
	FindTask(ctx context.Context, id uint64) (*entities.MaintenanceTask, error)
	CreateTask(ctx context.Context, q Querier, task *entities.MaintenanceTask) (uint64, error)
	UpdateTask(ctx context.Context, q Querier, task *entities.MaintenanceTask) error
	ReplaceResources(ctx context.Context, q Querier, taskID uint64, resources []entities.MaintenanceResource) error
	// CompleteTask выставляет completed_at один раз; повторное завершение
	// не затирает метку и возвращает 0 затронутых строк.
	CompleteTask(ctx context.Context, q Querier, id uint64, completedAt time.Time) (bool, error)
	DeleteTask(ctx context.Context, id uint64) error
	ListUpcoming(ctx context.Context, limit int) ([]entities.MaintenanceTask, error)
}

type MaintenanceRepository struct {
	storage *pgxpool.Pool
}

func NewMaintenanceRepository(storage *pgxpool.Pool) MaintenanceRepositoryInterface {
	return &MaintenanceRepository{storage: storage}
}

const maintenanceFields = "id, equipment_id, due_date, status, notes, created_at, completed_at"

func scanTask(row pgx.Row) (*entities.MaintenanceTask, error) {
	var task entities.MaintenanceTask
	err := row.Scan(&task.ID, &task.EquipmentID, &task.DueDate, &task.Status, &task.Notes, &task.CreatedAt, &task.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *MaintenanceRepository) loadResources(ctx context.Context, taskIDs []uint64) (map[uint64][]entities.MaintenanceResource, error) {
	if len(taskIDs) == 0 {
		return map[uint64][]entities.MaintenanceResource{}, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.
		Select("id, task_id, resource, quantity, unit, position").
		From("maintenance_resources").
		Where(sq.Eq{"task_id": taskIDs}).
		OrderBy("task_id", "position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint64][]entities.MaintenanceResource)
	for rows.Next() {
		var res entities.MaintenanceResource
		if err := rows.Scan(&res.ID, &res.TaskID, &res.Resource, &res.Quantity, &res.Unit, &res.Position); err != nil {
			return nil, err
		}
		result[res.TaskID] = append(result[res.TaskID], res)
	}
	return result, rows.Err()
}

func (r *MaintenanceRepository) GetTasks(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTask, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("maintenance_tasks")
	if status, ok := filter.Filter["status"].(string); ok && status != "" {
		base = base.Where(sq.Eq{"status": status})
	}
	if eqID, ok := filter.Filter["equipment_id"].(string); ok && eqID != "" {
		base = base.Where("equipment_id = ?", eqID)
	}

	countQuery, countArgs, err := base.Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("сборка COUNT-запроса: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.MaintenanceTask{}, 0, nil
	}

	query, args, err := base.Columns(maintenanceFields).
		OrderBy("due_date").
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tasks []entities.MaintenanceTask
	var ids []uint64
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, *task)
		ids = append(ids, task.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	resources, err := r.loadResources(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range tasks {
		tasks[i].Resources = resources[tasks[i].ID]
	}

	return tasks, total, nil
}

func (r *MaintenanceRepository) FindTask(ctx context.Context, id uint64) (*entities.MaintenanceTask, error) {
	query := fmt.Sprintf("SELECT %s FROM maintenance_tasks WHERE id = $1", maintenanceFields)
	task, err := scanTask(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	resources, err := r.loadResources(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	task.Resources = resources[id]
	return task, nil
}

func (r *MaintenanceRepository) CreateTask(ctx context.Context, q Querier, task *entities.MaintenanceTask) (uint64, error) {
	if q == nil {
		q = r.storage
	}
	var id uint64
	err := q.QueryRow(ctx, `
        INSERT INTO maintenance_tasks (equipment_id, due_date, status, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, task.EquipmentID, task.DueDate, task.Status, task.Notes).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *MaintenanceRepository) UpdateTask(ctx context.Context, q Querier, task *entities.MaintenanceTask) error {
	if q == nil {
		q = r.storage
	}
	result, err := q.Exec(ctx, `
        UPDATE maintenance_tasks SET due_date = $1, notes = $2 WHERE id = $3
    `, task.DueDate, task.Notes, task.ID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) ReplaceResources(ctx context.Context, q Querier, taskID uint64, resources []entities.MaintenanceResource) error {
	if q == nil {
		q = r.storage
	}
	if _, err := q.Exec(ctx, "DELETE FROM maintenance_resources WHERE task_id = $1", taskID); err != nil {
		return err
	}
	for i, res := range resources {
		_, err := q.Exec(ctx, `
            INSERT INTO maintenance_resources (task_id, resource, quantity, unit, position)
            VALUES ($1, $2, $3, $4, $5)
        `, taskID, res.Resource, res.Quantity, res.Unit, i)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *MaintenanceRepository) CompleteTask(ctx context.Context, q Querier, id uint64, completedAt time.Time) (bool, error) {
	if q == nil {
		q = r.storage
	}
	result, err := q.Exec(ctx, `
        UPDATE maintenance_tasks
        SET status = $1, completed_at = $2
        WHERE id = $3 AND status = $4 AND completed_at IS NULL
    `, entities.MaintenanceStatusCompleted, completedAt, id, entities.MaintenanceStatusScheduled)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *MaintenanceRepository) DeleteTask(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM maintenance_tasks WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *MaintenanceRepository) ListUpcoming(ctx context.Context, limit int) ([]entities.MaintenanceTask, error) {
	rows, err := r.storage.Query(ctx, fmt.Sprintf(`
        SELECT %s FROM maintenance_tasks
        WHERE status = $1
        ORDER BY due_date
        LIMIT $2
    `, maintenanceFields), entities.MaintenanceStatusScheduled, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []entities.MaintenanceTask
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}
