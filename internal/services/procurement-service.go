package services

import (
	"context"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/types"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ProcurementServiceInterface interface {
	GetRequisitions(ctx context.Context, filter types.Filter) ([]dto.RequisitionDTO, uint64, error)
	FindRequisition(ctx context.Context, id uint64) (*dto.RequisitionDTO, error)
	CreateRequisition(ctx context.Context, requestedBy uint64, payload dto.CreateRequisitionDTO) (*dto.RequisitionDTO, error)
	UpdateRequisition(ctx context.Context, id uint64, payload dto.UpdateRequisitionDTO) (*dto.RequisitionDTO, error)
	ApproveRequisition(ctx context.Context, id, approvedBy uint64, payload dto.ApproveRequisitionDTO) (*dto.PurchaseOrderDTO, error)
	RejectRequisition(ctx context.Context, id, rejectedBy uint64) error
	DeleteRequisition(ctx context.Context, id uint64) error

	GetOrders(ctx context.Context, filter types.Filter) ([]dto.PurchaseOrderDTO, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*dto.PurchaseOrderDTO, error)
	UpdateOrderStatus(ctx context.Context, id uint64, status string) error
}

type ProcurementService struct {
	purchaseRepo repositories.PurchaseRepositoryInterface
	txManager    repositories.TxManagerInterface
	bus          *eventbus.Bus
	logger       *zap.Logger
}

func NewProcurementService(
	purchaseRepo repositories.PurchaseRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) ProcurementServiceInterface {
	return &ProcurementService{
		purchaseRepo: purchaseRepo,
		txManager:    txManager,
		bus:          bus,
		logger:       logger,
	}
}

func (s *ProcurementService) GetRequisitions(ctx context.Context, filter types.Filter) ([]dto.RequisitionDTO, uint64, error) {
	reqs, total, err := s.purchaseRepo.GetRequisitions(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.RequisitionDTO, 0, len(reqs))
	for i := range reqs {
		result = append(result, mapRequisitionToDTO(&reqs[i]))
	}
	return result, total, nil
}

func (s *ProcurementService) FindRequisition(ctx context.Context, id uint64) (*dto.RequisitionDTO, error) {
	req, err := s.purchaseRepo.FindRequisition(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapRequisitionToDTO(req)
	return &result, nil
}

func (s *ProcurementService) CreateRequisition(ctx context.Context, requestedBy uint64, payload dto.CreateRequisitionDTO) (*dto.RequisitionDTO, error) {
	var reqID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		number, err := s.purchaseRepo.NextRequisitionNumber(ctx, tx)
		if err != nil {
			return err
		}
		req := &entities.PurchaseRequisition{
			Number:      number,
			RequestedBy: requestedBy,
			Status:      entities.RequisitionStatusPending,
			Notes:       payload.Notes,
		}
		reqID, err = s.purchaseRepo.CreateRequisition(ctx, tx, req)
		if err != nil {
			return err
		}
		return s.purchaseRepo.ReplaceItems(ctx, tx, reqID, mapItemsFromDTO(reqID, payload.Items))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Заявка на закупку создана",
		zap.Uint64("requisitionID", reqID), zap.Uint64("requestedBy", requestedBy))

	return s.FindRequisition(ctx, reqID)
}

func (s *ProcurementService) UpdateRequisition(ctx context.Context, id uint64, payload dto.UpdateRequisitionDTO) (*dto.RequisitionDTO, error) {
	req, err := s.purchaseRepo.FindRequisition(ctx, id)
	if err != nil {
		return nil, err
	}
	// Правке подлежат только нерешённые заявки.
	if req.Status != entities.RequisitionStatusPending {
		return nil, apperrors.ErrConflict
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if payload.Notes.Valid && payload.Notes.String != req.Notes {
			if err := s.purchaseRepo.UpdateRequisitionNotes(ctx, tx, id, payload.Notes.String); err != nil {
				return err
			}
		}
		if payload.Items != nil {
			return s.purchaseRepo.ReplaceItems(ctx, tx, id, mapItemsFromDTO(id, payload.Items))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindRequisition(ctx, id)
}

// ApproveRequisition одобряет заявку и в той же транзакции создаёт
// заказ поставщику. Решение по заявке принимается один раз.
func (s *ProcurementService) ApproveRequisition(ctx context.Context, id, approvedBy uint64, payload dto.ApproveRequisitionDTO) (*dto.PurchaseOrderDTO, error) {
	if _, err := s.purchaseRepo.FindRequisition(ctx, id); err != nil {
		return nil, err
	}

	var orderID uint64
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		now := time.Now()
		done, err := s.purchaseRepo.SetRequisitionStatus(ctx, tx, id, entities.RequisitionStatusApproved, &now)
		if err != nil {
			return err
		}
		if !done {
			return apperrors.ErrConflict
		}

		number, err := s.purchaseRepo.NextOrderNumber(ctx, tx)
		if err != nil {
			return err
		}
		orderID, err = s.purchaseRepo.CreateOrder(ctx, tx, &entities.PurchaseOrder{
			Number:        number,
			RequisitionID: id,
			Vendor:        payload.Vendor,
			Status:        entities.PurchaseOrderStatusOpen,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.RequisitionApprovedEvent{
		RequisitionID:   id,
		PurchaseOrderID: orderID,
		ApprovedBy:      approvedBy,
	})

	return s.FindOrder(ctx, orderID)
}

func (s *ProcurementService) RejectRequisition(ctx context.Context, id, rejectedBy uint64) error {
	if _, err := s.purchaseRepo.FindRequisition(ctx, id); err != nil {
		return err
	}
	done, err := s.purchaseRepo.SetRequisitionStatus(ctx, nil, id, entities.RequisitionStatusRejected, nil)
	if err != nil {
		return err
	}
	if !done {
		return apperrors.ErrConflict
	}
	s.logger.Info("Заявка на закупку отклонена",
		zap.Uint64("requisitionID", id), zap.Uint64("rejectedBy", rejectedBy))
	return nil
}

func (s *ProcurementService) DeleteRequisition(ctx context.Context, id uint64) error {
	req, err := s.purchaseRepo.FindRequisition(ctx, id)
	if err != nil {
		return err
	}
	// Одобренная заявка уже породила заказ — удалять нечестно.
	if req.Status == entities.RequisitionStatusApproved {
		return apperrors.ErrConflict
	}
	return s.purchaseRepo.DeleteRequisition(ctx, id)
}

func (s *ProcurementService) GetOrders(ctx context.Context, filter types.Filter) ([]dto.PurchaseOrderDTO, uint64, error) {
	orders, total, err := s.purchaseRepo.GetOrders(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.PurchaseOrderDTO, 0, len(orders))
	for i := range orders {
		result = append(result, mapOrderToDTO(&orders[i]))
	}
	return result, total, nil
}

func (s *ProcurementService) FindOrder(ctx context.Context, id uint64) (*dto.PurchaseOrderDTO, error) {
	order, err := s.purchaseRepo.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapOrderToDTO(order)
	return &result, nil
}

func (s *ProcurementService) UpdateOrderStatus(ctx context.Context, id uint64, status string) error {
	order, err := s.purchaseRepo.FindOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status == entities.PurchaseOrderStatusClosed {
		return apperrors.ErrConflict
	}
	return s.purchaseRepo.SetOrderStatus(ctx, id, status)
}

func mapItemsFromDTO(requisitionID uint64, items []dto.RequisitionItemDTO) []entities.RequisitionItem {
	result := make([]entities.RequisitionItem, 0, len(items))
	for _, item := range items {
		result = append(result, entities.RequisitionItem{
			RequisitionID: requisitionID,
			Name:          item.Name,
			Quantity:      item.Quantity,
			Unit:          item.Unit,
			Note:          item.Note,
		})
	}
	return result
}

func mapRequisitionToDTO(req *entities.PurchaseRequisition) dto.RequisitionDTO {
	items := make([]dto.RequisitionItemDTO, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, dto.RequisitionItemDTO{
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Note:     item.Note,
		})
	}
	result := dto.RequisitionDTO{
		ID:          req.ID,
		Number:      req.Number,
		RequestedBy: req.RequestedBy,
		Status:      req.Status,
		Notes:       req.Notes,
		Items:       items,
		CreatedAt:   req.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if req.ApprovedAt != nil {
		result.ApprovedAt = req.ApprovedAt.Format("2006-01-02 15:04:05")
	}
	return result
}

func mapOrderToDTO(order *entities.PurchaseOrder) dto.PurchaseOrderDTO {
	return dto.PurchaseOrderDTO{
		ID:            order.ID,
		Number:        order.Number,
		RequisitionID: order.RequisitionID,
		Vendor:        order.Vendor,
		Status:        order.Status,
		CreatedAt:     order.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
