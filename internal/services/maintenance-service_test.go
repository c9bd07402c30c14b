package services

import (
	"context"
	"testing"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/eventbus"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMaintenanceServiceForTest(t *testing.T) (MaintenanceServiceInterface, *fakeMaintenanceRepo, *fakeEquipmentRepo) {
	t.Helper()
	maintenanceRepo := newFakeMaintenanceRepo()
	equipmentRepo := newFakeEquipmentRepo()
	bus := eventbus.New(zap.NewNop())
	svc := NewMaintenanceService(maintenanceRepo, equipmentRepo, fakeTxManager{}, bus, zap.NewNop())
	return svc, maintenanceRepo, equipmentRepo
}

func TestMaintenanceService_ScheduleTask_СоздаётЗадачуСРесурсами(t *testing.T) {
	svc, _, equipmentRepo := newMaintenanceServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	task, err := svc.ScheduleTask(context.Background(), dto.ScheduleMaintenanceDTO{
		EquipmentID: id,
		DueDate:     "2026-09-15",
		Notes:       "Плановое ТО-2",
		Resources: []dto.MaintenanceResourceDTO{
			{Resource: "Масло моторное", Quantity: 12, Unit: "л"},
			{Resource: "Фильтр масляный", Quantity: 1, Unit: "шт"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, entities.MaintenanceStatusScheduled, task.Status)
	assert.Equal(t, "2026-09-15", task.DueDate)
	require.Len(t, task.Resources, 2)
	// Порядок ресурсов сохраняется как в запросе.
	assert.Equal(t, "Масло моторное", task.Resources[0].Resource)
	assert.Equal(t, "Фильтр масляный", task.Resources[1].Resource)
	assert.Empty(t, task.CompletedAt)

	// Оборудование уходит в статус "на обслуживании" той же операцией.
	eq, err := equipmentRepo.FindEquipment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, entities.EquipmentStatusMaintenance, eq.Status)
}

func TestMaintenanceService_ScheduleTask_СписанноеОборудование(t *testing.T) {
	svc, _, equipmentRepo := newMaintenanceServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusDecommissioned, 500, 0)

	_, err := svc.ScheduleTask(context.Background(), dto.ScheduleMaintenanceDTO{
		EquipmentID: id,
		DueDate:     "2026-09-15",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMaintenanceService_ScheduleTask_КриваяДата(t *testing.T) {
	svc, _, equipmentRepo := newMaintenanceServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	_, err := svc.ScheduleTask(context.Background(), dto.ScheduleMaintenanceDTO{
		EquipmentID: id,
		DueDate:     "15.09.2026",
	})
	var invalidInput *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalidInput)
	assert.Equal(t, "due_date", invalidInput.Field)
}

func TestMaintenanceService_CompleteTask_ЗавершаетсяРовноОдинРаз(t *testing.T) {
	svc, maintenanceRepo, equipmentRepo := newMaintenanceServiceForTest(t)
	eqID := seedEquipment(equipmentRepo, entities.EquipmentStatusMaintenance, 500, 0)
	taskID, err := maintenanceRepo.CreateTask(context.Background(), nil, &entities.MaintenanceTask{
		EquipmentID: eqID,
		DueDate:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:      entities.MaintenanceStatusScheduled,
	})
	require.NoError(t, err)

	done, err := svc.CompleteTask(context.Background(), taskID, 7)
	require.NoError(t, err)
	assert.Equal(t, entities.MaintenanceStatusCompleted, done.Status)
	assert.NotEmpty(t, done.CompletedAt)

	// Техника возвращается в строй вместе с завершением задачи.
	eq, err := equipmentRepo.FindEquipment(context.Background(), eqID)
	require.NoError(t, err)
	assert.Equal(t, entities.EquipmentStatusActive, eq.Status)

	// Повторное завершение — конфликт, метка завершения не затирается.
	first := done.CompletedAt
	_, err = svc.CompleteTask(context.Background(), taskID, 8)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	again, err := svc.FindTask(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, first, again.CompletedAt)
}

func TestMaintenanceService_UpdateTask_ЗавершённаяНеизменяема(t *testing.T) {
	svc, maintenanceRepo, equipmentRepo := newMaintenanceServiceForTest(t)
	eqID := seedEquipment(equipmentRepo, entities.EquipmentStatusMaintenance, 500, 0)
	taskID, err := maintenanceRepo.CreateTask(context.Background(), nil, &entities.MaintenanceTask{
		EquipmentID: eqID,
		DueDate:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:      entities.MaintenanceStatusScheduled,
	})
	require.NoError(t, err)

	_, err = svc.CompleteTask(context.Background(), taskID, 7)
	require.NoError(t, err)

	_, err = svc.UpdateTask(context.Background(), taskID, dto.UpdateMaintenanceDTO{
		Notes: null.StringFrom("правка задним числом"),
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestMaintenanceService_UpdateTask_ПереносСрока(t *testing.T) {
	svc, maintenanceRepo, equipmentRepo := newMaintenanceServiceForTest(t)
	eqID := seedEquipment(equipmentRepo, entities.EquipmentStatusMaintenance, 500, 0)
	taskID, err := maintenanceRepo.CreateTask(context.Background(), nil, &entities.MaintenanceTask{
		EquipmentID: eqID,
		DueDate:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:      entities.MaintenanceStatusScheduled,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(context.Background(), taskID, dto.UpdateMaintenanceDTO{
		DueDate: null.StringFrom("2026-10-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", updated.DueDate)
	assert.Equal(t, entities.MaintenanceStatusScheduled, updated.Status)
}

func TestMaintenanceService_DeleteTask_ЗавершённуюНеУдалить(t *testing.T) {
	svc, maintenanceRepo, equipmentRepo := newMaintenanceServiceForTest(t)
	eqID := seedEquipment(equipmentRepo, entities.EquipmentStatusMaintenance, 500, 0)
	taskID, err := maintenanceRepo.CreateTask(context.Background(), nil, &entities.MaintenanceTask{
		EquipmentID: eqID,
		DueDate:     time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		Status:      entities.MaintenanceStatusScheduled,
	})
	require.NoError(t, err)

	_, err = svc.CompleteTask(context.Background(), taskID, 7)
	require.NoError(t, err)

	err = svc.DeleteTask(context.Background(), taskID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}
