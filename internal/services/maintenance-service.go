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

type MaintenanceServiceInterface interface {
	GetTasks(ctx context.Context, filter types.Filter) ([]dto.MaintenanceTaskDTO, uint64, error)
	FindTask(ctx context.Context, id uint64) (*dto.MaintenanceTaskDTO, error)
	ScheduleTask(ctx context.Context, payload dto.ScheduleMaintenanceDTO) (*dto.MaintenanceTaskDTO, error)
	UpdateTask(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*dto.MaintenanceTaskDTO, error)
	CompleteTask(ctx context.Context, id uint64, completedBy uint64) (*dto.MaintenanceTaskDTO, error)
	DeleteTask(ctx context.Context, id uint64) error
}

type MaintenanceService struct {
	maintenanceRepo repositories.MaintenanceRepositoryInterface
	equipmentRepo   repositories.EquipmentRepositoryInterface
	txManager       repositories.TxManagerInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewMaintenanceService(
	maintenanceRepo repositories.MaintenanceRepositoryInterface,
	equipmentRepo repositories.EquipmentRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) MaintenanceServiceInterface {
	return &MaintenanceService{
		maintenanceRepo: maintenanceRepo,
		equipmentRepo:   equipmentRepo,
		txManager:       txManager,
		bus:             bus,
		logger:          logger,
	}
}

func (s *MaintenanceService) GetTasks(ctx context.Context, filter types.Filter) ([]dto.MaintenanceTaskDTO, uint64, error) {
	tasks, total, err := s.maintenanceRepo.GetTasks(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	result := make([]dto.MaintenanceTaskDTO, 0, len(tasks))
	for i := range tasks {
		result = append(result, mapTaskToDTO(&tasks[i]))
	}
	return result, total, nil
}

func (s *MaintenanceService) FindTask(ctx context.Context, id uint64) (*dto.MaintenanceTaskDTO, error) {
	task, err := s.maintenanceRepo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq, err := s.equipmentRepo.FindEquipment(ctx, task.EquipmentID); err == nil {
		task.Equipment = eq
	}
	result := mapTaskToDTO(task)
	return &result, nil
}

// ScheduleTask создаёт задачу ТО и переводит оборудование в статус
// maintenance одной транзакцией.
func (s *MaintenanceService) ScheduleTask(ctx context.Context, payload dto.ScheduleMaintenanceDTO) (*dto.MaintenanceTaskDTO, error) {
	eq, err := s.equipmentRepo.FindEquipment(ctx, payload.EquipmentID)
	if err != nil {
		return nil, err
	}
	if eq.Status == entities.EquipmentStatusDecommissioned {
		return nil, apperrors.ErrConflict
	}

	dueDate, err := time.Parse("2006-01-02", payload.DueDate)
	if err != nil {
		return nil, apperrors.NewInvalidInputError("due_date", "не удалось распарсить дату %q", payload.DueDate)
	}

	task := &entities.MaintenanceTask{
		EquipmentID: payload.EquipmentID,
		DueDate:     dueDate,
		Status:      entities.MaintenanceStatusScheduled,
		Notes:       payload.Notes,
	}

	var taskID uint64
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		taskID, err = s.maintenanceRepo.CreateTask(ctx, tx, task)
		if err != nil {
			return err
		}
		if err := s.maintenanceRepo.ReplaceResources(ctx, tx, taskID, mapResourcesFromDTO(taskID, payload.Resources)); err != nil {
			return err
		}
		return s.equipmentRepo.SetStatus(ctx, tx, payload.EquipmentID, entities.EquipmentStatusMaintenance)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Задача ТО запланирована",
		zap.Uint64("taskID", taskID), zap.Uint64("equipmentID", payload.EquipmentID))

	return s.FindTask(ctx, taskID)
}

func (s *MaintenanceService) UpdateTask(ctx context.Context, id uint64, payload dto.UpdateMaintenanceDTO) (*dto.MaintenanceTaskDTO, error) {
	task, err := s.maintenanceRepo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}
	// Завершённая задача неизменяема.
	if task.Status == entities.MaintenanceStatusCompleted {
		return nil, apperrors.ErrConflict
	}

	if payload.DueDate.Valid {
		dueDate, err := time.Parse("2006-01-02", payload.DueDate.String)
		if err != nil {
			return nil, apperrors.NewInvalidInputError("due_date", "не удалось распарсить дату %q", payload.DueDate.String)
		}
		task.DueDate = dueDate
	}
	if payload.Notes.Valid {
		task.Notes = payload.Notes.String
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.maintenanceRepo.UpdateTask(ctx, tx, task); err != nil {
			return err
		}
		if payload.Resources != nil {
			return s.maintenanceRepo.ReplaceResources(ctx, tx, id, mapResourcesFromDTO(id, payload.Resources))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindTask(ctx, id)
}

// CompleteTask завершает задачу ровно один раз: повторный вызов
// возвращает конфликт, метка завершения не затирается. Оборудование
// возвращается в строй в той же транзакции.
func (s *MaintenanceService) CompleteTask(ctx context.Context, id uint64, completedBy uint64) (*dto.MaintenanceTaskDTO, error) {
	task, err := s.maintenanceRepo.FindTask(ctx, id)
	if err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		done, err := s.maintenanceRepo.CompleteTask(ctx, tx, id, time.Now())
		if err != nil {
			return err
		}
		if !done {
			return apperrors.ErrConflict
		}
		return s.equipmentRepo.TransitionStatus(ctx, tx, task.EquipmentID,
			entities.EquipmentStatusMaintenance, entities.EquipmentStatusActive)
	})
	if err != nil {
		return nil, err
	}

	s.bus.Publish(ctx, events.MaintenanceCompletedEvent{
		TaskID:      id,
		EquipmentID: task.EquipmentID,
		CompletedBy: completedBy,
	})

	return s.FindTask(ctx, id)
}

func (s *MaintenanceService) DeleteTask(ctx context.Context, id uint64) error {
	task, err := s.maintenanceRepo.FindTask(ctx, id)
	if err != nil {
		return err
	}
	if task.Status == entities.MaintenanceStatusCompleted {
		return apperrors.ErrConflict
	}
	return s.maintenanceRepo.DeleteTask(ctx, id)
}

func mapResourcesFromDTO(taskID uint64, resources []dto.MaintenanceResourceDTO) []entities.MaintenanceResource {
	result := make([]entities.MaintenanceResource, 0, len(resources))
	for i, res := range resources {
		result = append(result, entities.MaintenanceResource{
			TaskID:   taskID,
			Resource: res.Resource,
			Quantity: res.Quantity,
			Unit:     res.Unit,
			Position: i,
		})
	}
	return result
}

func mapTaskToDTO(task *entities.MaintenanceTask) dto.MaintenanceTaskDTO {
	resources := make([]dto.MaintenanceResourceDTO, 0, len(task.Resources))
	for _, res := range task.Resources {
		resources = append(resources, dto.MaintenanceResourceDTO{
			Resource: res.Resource,
			Quantity: res.Quantity,
			Unit:     res.Unit,
		})
	}

	result := dto.MaintenanceTaskDTO{
		ID:          task.ID,
		EquipmentID: task.EquipmentID,
		DueDate:     task.DueDate.Format("2006-01-02"),
		Status:      task.Status,
		Notes:       task.Notes,
		Resources:   resources,
		CreatedAt:   task.CreatedAt.Format("2006-01-02 15:04:05"),
	}
	if task.CompletedAt != nil {
		result.CompletedAt = task.CompletedAt.Format("2006-01-02 15:04:05")
	}
	if task.Equipment != nil {
		result.Equipment = &dto.ShortEquipmentDTO{ID: task.Equipment.ID, Name: task.Equipment.Name}
	}
	return result
}
