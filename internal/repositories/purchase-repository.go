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

type PurchaseRepositoryInterface interface {
	GetRequisitions(ctx context.Context, filter types.Filter) ([]entities.PurchaseRequisition, uint64, error)
	FindRequisition(ctx context.Context, id uint64) (*entities.PurchaseRequisition, error)
	CreateRequisition(ctx context.Context, q Querier, req *entities.PurchaseRequisition) (uint64, error)
	ReplaceItems(ctx context.Context, q Querier, requisitionID uint64, items []entities.RequisitionItem) error
	UpdateRequisitionNotes(ctx context.Context, q Querier, id uint64, notes string) error
	// SetRequisitionStatus меняет статус только из pending: одобренную или
	// отклонённую заявку повторно решить нельзя.
	SetRequisitionStatus(ctx context.Context, q Querier, id uint64, status string, approvedAt *time.Time) (bool, error)
	DeleteRequisition(ctx context.Context, id uint64) error
	NextRequisitionNumber(ctx context.Context, q Querier) (string, error)

	GetOrders(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*entities.PurchaseOrder, error)
	CreateOrder(ctx context.Context, q Querier, order *entities.PurchaseOrder) (uint64, error)
	SetOrderStatus(ctx context.Context, id uint64, status string) error
	NextOrderNumber(ctx context.Context, q Querier) (string, error)
	CountOpenRequisitions(ctx context.Context) (uint64, error)
}

type PurchaseRepository struct {
	storage *pgxpool.Pool
}

func NewPurchaseRepository(storage *pgxpool.Pool) PurchaseRepositoryInterface {
	return &PurchaseRepository{storage: storage}
}

const requisitionFields = "id, number, requested_by, status, notes, created_at, approved_at"
const orderFields = "id, number, requisition_id, vendor, status, created_at"

func scanRequisition(row pgx.Row) (*entities.PurchaseRequisition, error) {
	var req entities.PurchaseRequisition
	err := row.Scan(&req.ID, &req.Number, &req.RequestedBy, &req.Status, &req.Notes, &req.CreatedAt, &req.ApprovedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

func scanOrder(row pgx.Row) (*entities.PurchaseOrder, error) {
	var order entities.PurchaseOrder
	err := row.Scan(&order.ID, &order.Number, &order.RequisitionID, &order.Vendor, &order.Status, &order.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *PurchaseRepository) loadItems(ctx context.Context, requisitionIDs []uint64) (map[uint64][]entities.RequisitionItem, error) {
	if len(requisitionIDs) == 0 {
		return map[uint64][]entities.RequisitionItem{}, nil
	}

	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	query, args, err := psql.
		Select("id, requisition_id, name, quantity, unit, note").
		From("requisition_items").
		Where(sq.Eq{"requisition_id": requisitionIDs}).
		OrderBy("requisition_id", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[uint64][]entities.RequisitionItem)
	for rows.Next() {
		var item entities.RequisitionItem
		if err := rows.Scan(&item.ID, &item.RequisitionID, &item.Name, &item.Quantity, &item.Unit, &item.Note); err != nil {
			return nil, err
		}
		result[item.RequisitionID] = append(result[item.RequisitionID], item)
	}
	return result, rows.Err()
}

func (r *PurchaseRepository) GetRequisitions(ctx context.Context, filter types.Filter) ([]entities.PurchaseRequisition, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("purchase_requisitions")
	if status, ok := filter.Filter["status"].(string); ok && status != "" {
		base = base.Where(sq.Eq{"status": status})
	}
	if requestedBy, ok := filter.Filter["requested_by"].(string); ok && requestedBy != "" {
		base = base.Where("requested_by = ?", requestedBy)
	}
	if filter.Search != "" {
		base = base.Where(sq.ILike{"number": "%" + filter.Search + "%"})
	}

	countQuery, countArgs, err := base.Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.PurchaseRequisition{}, 0, nil
	}

	query, args, err := base.Columns(requisitionFields).
		OrderBy("created_at DESC").
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

	var reqs []entities.PurchaseRequisition
	var ids []uint64
	for rows.Next() {
		req, err := scanRequisition(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, *req)
		ids = append(ids, req.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range reqs {
		reqs[i].Items = items[reqs[i].ID]
	}

	return reqs, total, nil
}

func (r *PurchaseRepository) FindRequisition(ctx context.Context, id uint64) (*entities.PurchaseRequisition, error) {
	query := fmt.Sprintf("SELECT %s FROM purchase_requisitions WHERE id = $1", requisitionFields)
	req, err := scanRequisition(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, []uint64{id})
	if err != nil {
		return nil, err
	}
	req.Items = items[id]
	return req, nil
}

func (r *PurchaseRepository) CreateRequisition(ctx context.Context, q Querier, req *entities.PurchaseRequisition) (uint64, error) {
	if q == nil {
		q = r.storage
	}
	var id uint64
	err := q.QueryRow(ctx, `
        INSERT INTO purchase_requisitions (number, requested_by, status, notes)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, req.Number, req.RequestedBy, req.Status, req.Notes).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PurchaseRepository) ReplaceItems(ctx context.Context, q Querier, requisitionID uint64, items []entities.RequisitionItem) error {
	if q == nil {
		q = r.storage
	}
	if _, err := q.Exec(ctx, "DELETE FROM requisition_items WHERE requisition_id = $1", requisitionID); err != nil {
		return err
	}
	for _, item := range items {
		_, err := q.Exec(ctx, `
            INSERT INTO requisition_items (requisition_id, name, quantity, unit, note)
            VALUES ($1, $2, $3, $4, $5)
        `, requisitionID, item.Name, item.Quantity, item.Unit, item.Note)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *PurchaseRepository) UpdateRequisitionNotes(ctx context.Context, q Querier, id uint64, notes string) error {
	if q == nil {
		q = r.storage
	}
	result, err := q.Exec(ctx,
		"UPDATE purchase_requisitions SET notes = $1 WHERE id = $2", notes, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PurchaseRepository) SetRequisitionStatus(ctx context.Context, q Querier, id uint64, status string, approvedAt *time.Time) (bool, error) {
	if q == nil {
		q = r.storage
	}
	result, err := q.Exec(ctx, `
        UPDATE purchase_requisitions
        SET status = $1, approved_at = $2
        WHERE id = $3 AND status = $4
    `, status, approvedAt, id, entities.RequisitionStatusPending)
	if err != nil {
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *PurchaseRepository) DeleteRequisition(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM purchase_requisitions WHERE id = $1", id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Номера документов сквозные в пределах года: PR-2026-0001, PO-2026-0001.
func nextDocumentNumber(ctx context.Context, q Querier, table, prefix string) (string, error) {
	year := time.Now().Year()
	var count uint64
	query := fmt.Sprintf(
		"SELECT COUNT(id) FROM %s WHERE EXTRACT(YEAR FROM created_at) = $1", table)
	if err := q.QueryRow(ctx, query, year).Scan(&count); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%d-%04d", prefix, year, count+1), nil
}

func (r *PurchaseRepository) NextRequisitionNumber(ctx context.Context, q Querier) (string, error) {
	if q == nil {
		q = r.storage
	}
	return nextDocumentNumber(ctx, q, "purchase_requisitions", "PR")
}

func (r *PurchaseRepository) NextOrderNumber(ctx context.Context, q Querier) (string, error) {
	if q == nil {
		q = r.storage
	}
	return nextDocumentNumber(ctx, q, "purchase_orders", "PO")
}

func (r *PurchaseRepository) GetOrders(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	base := psql.Select().From("purchase_orders")
	if status, ok := filter.Filter["status"].(string); ok && status != "" {
		base = base.Where(sq.Eq{"status": status})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		base = base.Where(sq.Or{sq.ILike{"number": pattern}, sq.ILike{"vendor": pattern}})
	}

	countQuery, countArgs, err := base.Columns("COUNT(id)").ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.PurchaseOrder{}, 0, nil
	}

	query, args, err := base.Columns(orderFields).
		OrderBy("created_at DESC").
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

	var orders []entities.PurchaseOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *order)
	}
	return orders, total, rows.Err()
}

func (r *PurchaseRepository) FindOrder(ctx context.Context, id uint64) (*entities.PurchaseOrder, error) {
	query := fmt.Sprintf("SELECT %s FROM purchase_orders WHERE id = $1", orderFields)
	return scanOrder(r.storage.QueryRow(ctx, query, id))
}

func (r *PurchaseRepository) CreateOrder(ctx context.Context, q Querier, order *entities.PurchaseOrder) (uint64, error) {
	if q == nil {
		q = r.storage
	}
	var id uint64
	err := q.QueryRow(ctx, `
        INSERT INTO purchase_orders (number, requisition_id, vendor, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id
    `, order.Number, order.RequisitionID, order.Vendor, order.Status).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *PurchaseRepository) SetOrderStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.storage.Exec(ctx,
		"UPDATE purchase_orders SET status = $1 WHERE id = $2", status, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PurchaseRepository) CountOpenRequisitions(ctx context.Context) (uint64, error) {
	var count uint64
	err := r.storage.QueryRow(ctx,
		"SELECT COUNT(id) FROM purchase_requisitions WHERE status = $1",
		entities.RequisitionStatusPending,
	).Scan(&count)
	return count, err
}
