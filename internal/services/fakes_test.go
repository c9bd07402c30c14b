package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
)

// Фейки репозиториев для юнит-тестов сервисов: хранят состояние в памяти
// и игнорируют параметр querier (транзакционность проверяется отдельно).

type stubTx struct{ pgx.Tx }

type fakeTxManager struct{}

func (fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(stubTx{})
}

// --- оборудование ---

type fakeEquipmentRepo struct {
	items  map[uint64]*entities.Equipment
	nextID uint64
}

func newFakeEquipmentRepo() *fakeEquipmentRepo {
	return &fakeEquipmentRepo{items: make(map[uint64]*entities.Equipment), nextID: 1}
}

func (r *fakeEquipmentRepo) add(eq entities.Equipment) uint64 {
	id := r.nextID
	r.nextID++
	eq.ID = id
	r.items[id] = &eq
	return id
}

func (r *fakeEquipmentRepo) GetEquipments(ctx context.Context, filter types.Filter) ([]entities.Equipment, uint64, error) {
	var ids []uint64
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var matched []entities.Equipment
	for _, id := range ids {
		eq := r.items[id]
		if status, ok := filter.Filter["status"].(string); ok && status != "" && eq.Status != status {
			continue
		}
		matched = append(matched, *eq)
	}

	// Пагинация как в настоящем репозитории: total — по всей выборке,
	// страница — срез.
	total := uint64(len(matched))
	if filter.Limit > 0 {
		offset := filter.Offset()
		if offset >= len(matched) {
			return []entities.Equipment{}, total, nil
		}
		end := offset + filter.Limit
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[offset:end]
	}
	return matched, total, nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	eq, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *eq
	return &clone, nil
}

func (r *fakeEquipmentRepo) CreateEquipment(ctx context.Context, eq *entities.Equipment) (uint64, error) {
	return r.add(*eq), nil
}

func (r *fakeEquipmentRepo) UpdateEquipment(ctx context.Context, eq *entities.Equipment) error {
	if _, ok := r.items[eq.ID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *eq
	r.items[eq.ID] = &clone
	return nil
}

func (r *fakeEquipmentRepo) SetStatus(ctx context.Context, q repositories.Querier, id uint64, status string) error {
	eq, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	eq.Status = status
	return nil
}

func (r *fakeEquipmentRepo) TransitionStatus(ctx context.Context, q repositories.Querier, id uint64, from, to string) error {
	if eq, ok := r.items[id]; ok && eq.Status == from {
		eq.Status = to
	}
	return nil
}

func (r *fakeEquipmentRepo) SetImageURL(ctx context.Context, id uint64, imageURL string) error {
	eq, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	eq.ImageURL = &imageURL
	return nil
}

func (r *fakeEquipmentRepo) SetCumulativeHours(ctx context.Context, q repositories.Querier, id uint64, total float64) error {
	eq, ok := r.items[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	eq.CumulativeHours = total
	return nil
}

func (r *fakeEquipmentRepo) DeleteEquipment(ctx context.Context, id uint64) error {
	if _, ok := r.items[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeEquipmentRepo) CountByStatus(ctx context.Context) (map[string]uint64, error) {
	counts := make(map[string]uint64)
	for _, eq := range r.items {
		counts[eq.Status]++
	}
	return counts, nil
}

// --- журнал наработки ---

type fakeUsageRepo struct {
	hours map[string]float64 // "eqID/date" -> часы
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{hours: make(map[string]float64)}
}

func usageKey(equipmentID uint64, workDate time.Time) string {
	return fmt.Sprintf("%d/%s", equipmentID, workDate.Format("2006-01-02"))
}

func (r *fakeUsageRepo) UpsertUsage(ctx context.Context, q repositories.Querier, equipmentID uint64, workDate time.Time, hours float64) error {
	r.hours[usageKey(equipmentID, workDate)] = hours
	return nil
}

func (r *fakeUsageRepo) SumHours(ctx context.Context, q repositories.Querier, equipmentID uint64) (float64, error) {
	prefix := fmt.Sprintf("%d/", equipmentID)
	var total float64
	for key, h := range r.hours {
		if len(key) > len(prefix) && key[:len(prefix)] == prefix {
			total += h
		}
	}
	return total, nil
}

func (r *fakeUsageRepo) ListByEquipment(ctx context.Context, equipmentID uint64) ([]entities.UsageRecord, error) {
	return nil, nil
}

// --- задачи ТО ---

type fakeMaintenanceRepo struct {
	tasks     map[uint64]*entities.MaintenanceTask
	resources map[uint64][]entities.MaintenanceResource
	nextID    uint64
}

func newFakeMaintenanceRepo() *fakeMaintenanceRepo {
	return &fakeMaintenanceRepo{
		tasks:     make(map[uint64]*entities.MaintenanceTask),
		resources: make(map[uint64][]entities.MaintenanceResource),
		nextID:    1,
	}
}

func (r *fakeMaintenanceRepo) GetTasks(ctx context.Context, filter types.Filter) ([]entities.MaintenanceTask, uint64, error) {
	var result []entities.MaintenanceTask
	for _, task := range r.tasks {
		clone := *task
		clone.Resources = r.resources[task.ID]
		result = append(result, clone)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeMaintenanceRepo) FindTask(ctx context.Context, id uint64) (*entities.MaintenanceTask, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *task
	clone.Resources = r.resources[id]
	return &clone, nil
}

func (r *fakeMaintenanceRepo) CreateTask(ctx context.Context, q repositories.Querier, task *entities.MaintenanceTask) (uint64, error) {
	id := r.nextID
	r.nextID++
	clone := *task
	clone.ID = id
	r.tasks[id] = &clone
	return id, nil
}

func (r *fakeMaintenanceRepo) UpdateTask(ctx context.Context, q repositories.Querier, task *entities.MaintenanceTask) error {
	stored, ok := r.tasks[task.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.DueDate = task.DueDate
	stored.Notes = task.Notes
	return nil
}

func (r *fakeMaintenanceRepo) ReplaceResources(ctx context.Context, q repositories.Querier, taskID uint64, resources []entities.MaintenanceResource) error {
	r.resources[taskID] = resources
	return nil
}

func (r *fakeMaintenanceRepo) CompleteTask(ctx context.Context, q repositories.Querier, id uint64, completedAt time.Time) (bool, error) {
	task, ok := r.tasks[id]
	if !ok || task.CompletedAt != nil || task.Status != entities.MaintenanceStatusScheduled {
		return false, nil
	}
	task.Status = entities.MaintenanceStatusCompleted
	task.CompletedAt = &completedAt
	return true, nil
}

func (r *fakeMaintenanceRepo) DeleteTask(ctx context.Context, id uint64) error {
	if _, ok := r.tasks[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *fakeMaintenanceRepo) ListUpcoming(ctx context.Context, limit int) ([]entities.MaintenanceTask, error) {
	var result []entities.MaintenanceTask
	for _, task := range r.tasks {
		if task.Status == entities.MaintenanceStatusScheduled {
			result = append(result, *task)
		}
	}
	return result, nil
}

// --- закупки ---

type fakePurchaseRepo struct {
	reqs   map[uint64]*entities.PurchaseRequisition
	items  map[uint64][]entities.RequisitionItem
	orders map[uint64]*entities.PurchaseOrder
	nextID uint64
}

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{
		reqs:   make(map[uint64]*entities.PurchaseRequisition),
		items:  make(map[uint64][]entities.RequisitionItem),
		orders: make(map[uint64]*entities.PurchaseOrder),
		nextID: 1,
	}
}

func (r *fakePurchaseRepo) GetRequisitions(ctx context.Context, filter types.Filter) ([]entities.PurchaseRequisition, uint64, error) {
	var result []entities.PurchaseRequisition
	for _, req := range r.reqs {
		clone := *req
		clone.Items = r.items[req.ID]
		result = append(result, clone)
	}
	return result, uint64(len(result)), nil
}

func (r *fakePurchaseRepo) FindRequisition(ctx context.Context, id uint64) (*entities.PurchaseRequisition, error) {
	req, ok := r.reqs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *req
	clone.Items = r.items[id]
	return &clone, nil
}

func (r *fakePurchaseRepo) CreateRequisition(ctx context.Context, q repositories.Querier, req *entities.PurchaseRequisition) (uint64, error) {
	id := r.nextID
	r.nextID++
	clone := *req
	clone.ID = id
	r.reqs[id] = &clone
	return id, nil
}

func (r *fakePurchaseRepo) ReplaceItems(ctx context.Context, q repositories.Querier, requisitionID uint64, items []entities.RequisitionItem) error {
	r.items[requisitionID] = items
	return nil
}

func (r *fakePurchaseRepo) UpdateRequisitionNotes(ctx context.Context, q repositories.Querier, id uint64, notes string) error {
	req, ok := r.reqs[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	req.Notes = notes
	return nil
}

func (r *fakePurchaseRepo) SetRequisitionStatus(ctx context.Context, q repositories.Querier, id uint64, status string, approvedAt *time.Time) (bool, error) {
	req, ok := r.reqs[id]
	if !ok || req.Status != entities.RequisitionStatusPending {
		return false, nil
	}
	req.Status = status
	req.ApprovedAt = approvedAt
	return true, nil
}

func (r *fakePurchaseRepo) DeleteRequisition(ctx context.Context, id uint64) error {
	if _, ok := r.reqs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.reqs, id)
	return nil
}

func (r *fakePurchaseRepo) NextRequisitionNumber(ctx context.Context, q repositories.Querier) (string, error) {
	return fmt.Sprintf("PR-2026-%04d", len(r.reqs)+1), nil
}

func (r *fakePurchaseRepo) GetOrders(ctx context.Context, filter types.Filter) ([]entities.PurchaseOrder, uint64, error) {
	var result []entities.PurchaseOrder
	for _, order := range r.orders {
		result = append(result, *order)
	}
	return result, uint64(len(result)), nil
}

func (r *fakePurchaseRepo) FindOrder(ctx context.Context, id uint64) (*entities.PurchaseOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *fakePurchaseRepo) CreateOrder(ctx context.Context, q repositories.Querier, order *entities.PurchaseOrder) (uint64, error) {
	id := r.nextID
	r.nextID++
	clone := *order
	clone.ID = id
	r.orders[id] = &clone
	return id, nil
}

func (r *fakePurchaseRepo) SetOrderStatus(ctx context.Context, id uint64, status string) error {
	order, ok := r.orders[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	order.Status = status
	return nil
}

func (r *fakePurchaseRepo) NextOrderNumber(ctx context.Context, q repositories.Querier) (string, error) {
	return fmt.Sprintf("PO-2026-%04d", len(r.orders)+1), nil
}

func (r *fakePurchaseRepo) CountOpenRequisitions(ctx context.Context) (uint64, error) {
	var count uint64
	for _, req := range r.reqs {
		if req.Status == entities.RequisitionStatusPending {
			count++
		}
	}
	return count, nil
}

// --- пользователи ---

type fakeUserRepo struct {
	users  map[uint64]*entities.User
	nextID uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*entities.User), nextID: 1}
}

func (r *fakeUserRepo) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	var result []entities.User
	for _, user := range r.users {
		result = append(result, *user)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeUserRepo) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *entities.User) (uint64, error) {
	id := r.nextID
	r.nextID++
	clone := *user
	clone.ID = id
	r.users[id] = &clone
	return id, nil
}

func (r *fakeUserRepo) UpdateUser(ctx context.Context, user *entities.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	user, ok := r.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	user.Status = status
	return nil
}

func (r *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error {
	if _, ok := r.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// --- файловое хранилище ---

type fakeFileStorage struct {
	saved   []string
	deleted []string
}

func (s *fakeFileStorage) Save(file io.Reader, originalName string) (string, error) {
	path := "/uploads/" + originalName
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *fakeFileStorage) Delete(path string) error {
	s.deleted = append(s.deleted, path)
	return nil
}

// --- кеш прав ---

type fakePermissionService struct {
	invalidated []uint64
}

func (s *fakePermissionService) GetUserWithPermissions(ctx context.Context, userID uint64) (*entities.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (s *fakePermissionService) InvalidateUser(ctx context.Context, userID uint64) {
	s.invalidated = append(s.invalidated, userID)
}
