package services

import (
	"context"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/maintenance"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/types"

	"go.uber.org/zap"
)

const (
	upcomingTasksLimit = 10
	overduePageSize    = 500
)

type DashboardServiceInterface interface {
	GetDashboard(ctx context.Context) (*dto.DashboardDTO, error)
}

type DashboardService struct {
	equipmentRepo   repositories.EquipmentRepositoryInterface
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	purchaseRepo    repositories.PurchaseRepositoryInterface
	logger          *zap.Logger
}

func NewDashboardService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	purchaseRepo repositories.PurchaseRepositoryInterface,
	logger *zap.Logger,
) DashboardServiceInterface {
	return &DashboardService{
		equipmentRepo:   equipmentRepo,
		maintenanceRepo: maintenanceRepo,
		purchaseRepo:    purchaseRepo,
		logger:          logger,
	}
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*dto.DashboardDTO, error) {
	byStatus, err := s.equipmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	overdue, err := s.collectOverdue(ctx)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.maintenanceRepo.ListUpcoming(ctx, upcomingTasksLimit)
	if err != nil {
		return nil, err
	}
	upcomingDTO := make([]dto.MaintenanceTaskDTO, 0, len(upcoming))
	for i := range upcoming {
		upcomingDTO = append(upcomingDTO, mapTaskToDTO(&upcoming[i]))
	}

	openRequisitions, err := s.purchaseRepo.CountOpenRequisitions(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardDTO{
		EquipmentByStatus:   byStatus,
		OverdueEquipment:    overdue,
		UpcomingMaintenance: upcomingDTO,
		OpenRequisitions:    openRequisitions,
	}, nil
}

// collectOverdue обходит весь активный парк постранично и оставляет
// технику, которой пора на обслуживание: бюджет выработан (остаток <= 0)
// либо календарный срок уже прошёл.
func (s *DashboardService) collectOverdue(ctx context.Context) ([]dto.EquipmentDueDTO, error) {
	filter := types.Filter{Limit: overduePageSize, Page: 1, Filter: map[string]interface{}{"status": "active"}}
	overdue := make([]dto.EquipmentDueDTO, 0)

	for {
		items, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
		if err != nil {
			return nil, err
		}

		for i := range items {
			eq := &items[i]
			remaining := maintenance.CalculateRemainingUnits(eq.OperatingHours, eq.CumulativeHours)
			dueInfo, err := maintenance.CalculateMaintenanceDate(eq.CreatedAt, eq.OperatingHours)
			if err != nil {
				s.logger.Warn("Не удалось посчитать срок ТО", zap.Uint64("equipmentID", eq.ID), zap.Error(err))
				continue
			}
			if !remaining.Due && dueInfo.DaysLeft >= 0 {
				continue
			}
			overdue = append(overdue, dto.EquipmentDueDTO{
				EquipmentID:     eq.ID,
				MaintenanceDate: dueInfo.Date,
				DaysLeft:        dueInfo.DaysLeft,
				HoursLeft:       remaining.HoursLeft,
				Unit:            eq.UnitLabel(),
				Due:             remaining.Due,
				Overdue:         remaining.Overdue,
			})
		}

		if len(items) == 0 || uint64(filter.Page*filter.Limit) >= total {
			break
		}
		filter.Page++
	}
	return overdue, nil
}
