package services

import (
	"context"
	"io"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/maintenance"
	"maintenance-system/internal/repositories"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/filestorage"
	"maintenance-system/pkg/types"
	"maintenance-system/pkg/utils"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error)
	ChangeStatus(ctx context.Context, id uint64, status string) error
	UploadImage(ctx context.Context, id uint64, file io.Reader, originalName string) (string, error)
	DeleteEquipment(ctx context.Context, id uint64) error
	LogUsage(ctx context.Context, id uint64, payload dto.LogUsageDTO) (*dto.EquipmentDueDTO, error)
	ListUsage(ctx context.Context, id uint64) ([]dto.UsageRecordDTO, error)
	GetDueInfo(ctx context.Context, id uint64) (*dto.EquipmentDueDTO, error)
}

type EquipmentService struct {
	equipmentRepo repositories.EquipmentRepositoryInterface
	usageRepo     repositories.UsageRepositoryInterface
	txManager     repositories.TxManagerInterface
	fileStorage   filestorage.FileStorage
	bus           *eventbus.Bus
	logger        *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	usageRepo repositories.UsageRepositoryInterface,
	txManager repositories.TxManagerInterface,
	fileStorage filestorage.FileStorage,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo: equipmentRepo,
		usageRepo:     usageRepo,
		txManager:     txManager,
		fileStorage:   fileStorage,
		bus:           bus,
		logger:        logger,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) ([]dto.EquipmentDTO, uint64, error) {
	items, total, err := s.equipmentRepo.GetEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.EquipmentDTO, 0, len(items))
	for i := range items {
		result = append(result, mapEquipmentToDTO(&items[i]))
	}
	return result, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	result := mapEquipmentToDTO(eq)
	return &result, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*dto.EquipmentDTO, error) {
	eq := &entities.Equipment{
		Name:           payload.Name,
		SerialNumber:   payload.SerialNumber,
		AssetNumber:    payload.AssetNumber,
		Location:       payload.Location,
		Status:         entities.EquipmentStatusActive,
		AssetType:      payload.AssetType,
		OperatingHours: payload.OperatingHours,
	}

	id, err := s.equipmentRepo.CreateEquipment(ctx, eq)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Оборудование создано", zap.Uint64("equipmentID", id), zap.String("name", eq.Name))

	return s.FindEquipment(ctx, id)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*dto.EquipmentDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}

	changed := false
	changed = utils.PatchString(&eq.Name, payload.Name) || changed
	changed = utils.PatchString(&eq.SerialNumber, payload.SerialNumber) || changed
	changed = utils.PatchString(&eq.AssetNumber, payload.AssetNumber) || changed
	changed = utils.PatchString(&eq.Location, payload.Location) || changed
	changed = utils.PatchString(&eq.AssetType, payload.AssetType) || changed
	changed = utils.PatchFloat64(&eq.OperatingHours, payload.OperatingHours) || changed

	if changed {
		if err := s.equipmentRepo.UpdateEquipment(ctx, eq); err != nil {
			return nil, err
		}
	}

	result := mapEquipmentToDTO(eq)
	return &result, nil
}

func (s *EquipmentService) ChangeStatus(ctx context.Context, id uint64, status string) error {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	// Списанное оборудование обратно в строй не возвращается.
	if eq.Status == entities.EquipmentStatusDecommissioned && status != entities.EquipmentStatusDecommissioned {
		return apperrors.ErrConflict
	}
	return s.equipmentRepo.SetStatus(ctx, nil, id, status)
}

func (s *EquipmentService) UploadImage(ctx context.Context, id uint64, file io.Reader, originalName string) (string, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return "", err
	}

	path, err := s.fileStorage.Save(file, originalName)
	if err != nil {
		return "", err
	}

	if err := s.equipmentRepo.SetImageURL(ctx, id, path); err != nil {
		_ = s.fileStorage.Delete(path)
		return "", err
	}

	// Старую картинку подчищаем после успешной замены.
	if eq.ImageURL != nil && *eq.ImageURL != "" {
		if err := s.fileStorage.Delete(*eq.ImageURL); err != nil {
			s.logger.Warn("Не удалось удалить старое изображение",
				zap.Uint64("equipmentID", id), zap.Error(err))
		}
	}

	return path, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.equipmentRepo.DeleteEquipment(ctx, id); err != nil {
		return err
	}
	if eq.ImageURL != nil && *eq.ImageURL != "" {
		if err := s.fileStorage.Delete(*eq.ImageURL); err != nil {
			s.logger.Warn("Не удалось удалить изображение удалённого оборудования",
				zap.Uint64("equipmentID", id), zap.Error(err))
		}
	}
	return nil
}

// LogUsage пишет наработку за день и в той же транзакции пересчитывает
// накопленный итог, чтобы cumulative_hours всегда равнялся сумме журнала.
func (s *EquipmentService) LogUsage(ctx context.Context, id uint64, payload dto.LogUsageDTO) (*dto.EquipmentDueDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq.Status == entities.EquipmentStatusDecommissioned {
		return nil, apperrors.ErrConflict
	}

	workDate, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("date", "не удалось распарсить дату %q", payload.Date)
	}

	var total float64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.usageRepo.UpsertUsage(ctx, tx, id, workDate, payload.HoursWorked); err != nil {
			return err
		}
		total, err = s.usageRepo.SumHours(ctx, tx, id)
		if err != nil {
			return err
		}
		return s.equipmentRepo.SetCumulativeHours(ctx, tx, id, total)
	})
	if err != nil {
		return nil, err
	}

	eq.CumulativeHours = total
	due, err := s.buildDueInfo(eq)
	if err != nil {
		return nil, err
	}

	if due.Overdue {
		s.bus.Publish(ctx, events.EquipmentOverdueEvent{
			EquipmentID: id,
			HoursLeft:   due.HoursLeft,
		})
	}

	return due, nil
}

func (s *EquipmentService) ListUsage(ctx context.Context, id uint64) ([]dto.UsageRecordDTO, error) {
	if _, err := s.equipmentRepo.FindEquipment(ctx, id); err != nil {
		return nil, err
	}
	records, err := s.usageRepo.ListByEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	result := make([]dto.UsageRecordDTO, 0, len(records))
	for _, rec := range records {
		result = append(result, dto.UsageRecordDTO{
			ID:          rec.ID,
			EquipmentID: rec.EquipmentID,
			Date:        rec.WorkDate.Format("2006-01-02"),
			HoursWorked: rec.HoursWorked,
		})
	}
	return result, nil
}

func (s *EquipmentService) GetDueInfo(ctx context.Context, id uint64) (*dto.EquipmentDueDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildDueInfo(eq)
}

func (s *EquipmentService) buildDueInfo(eq *entities.Equipment) (*dto.EquipmentDueDTO, error) {
	dueInfo, err := maintenance.CalculateMaintenanceDate(eq.CreatedAt, eq.OperatingHours)
	if err != nil {
		return nil, err
	}
	remaining := maintenance.CalculateRemainingUnits(eq.OperatingHours, eq.CumulativeHours)

	return &dto.EquipmentDueDTO{
		EquipmentID:     eq.ID,
		MaintenanceDate: dueInfo.Date,
		DaysLeft:        dueInfo.DaysLeft,
		HoursLeft:       remaining.HoursLeft,
		Unit:            eq.UnitLabel(),
		Due:             remaining.Due,
		Overdue:         remaining.Overdue,
	}, nil
}

func mapEquipmentToDTO(eq *entities.Equipment) dto.EquipmentDTO {
	return dto.EquipmentDTO{
		ID:              eq.ID,
		Name:            eq.Name,
		SerialNumber:    eq.SerialNumber,
		AssetNumber:     eq.AssetNumber,
		Location:        eq.Location,
		Status:          eq.Status,
		AssetType:       eq.AssetType,
		ImageURL:        eq.ImageURL,
		OperatingHours:  eq.OperatingHours,
		CumulativeHours: eq.CumulativeHours,
		CreatedAt:       eq.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:       eq.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
