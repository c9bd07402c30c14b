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

func newEquipmentServiceForTest(t *testing.T) (EquipmentServiceInterface, *fakeEquipmentRepo, *fakeUsageRepo, *fakeFileStorage) {
	t.Helper()
	equipmentRepo := newFakeEquipmentRepo()
	usageRepo := newFakeUsageRepo()
	fileStorage := &fakeFileStorage{}
	bus := eventbus.New(zap.NewNop())
	svc := NewEquipmentService(equipmentRepo, usageRepo, fakeTxManager{}, fileStorage, bus, zap.NewNop())
	return svc, equipmentRepo, usageRepo, fileStorage
}

func seedEquipment(repo *fakeEquipmentRepo, status string, budget, cumulative float64) uint64 {
	return repo.add(entities.Equipment{
		Name:            "Экскаватор Hitachi ZX200",
		SerialNumber:    "HIT-ZX200-001",
		AssetNumber:     "AN-1001",
		Location:        "Площадка №1",
		Status:          status,
		AssetType:       entities.AssetTypeHours,
		OperatingHours:  budget,
		CumulativeHours: cumulative,
		CreatedAt:       time.Now(),
	})
}

func TestEquipmentService_LogUsage_ОбновляетНакопленнуюНаработку(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	due, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 8})
	require.NoError(t, err)

	eq, err := equipmentRepo.FindEquipment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 8.0, eq.CumulativeHours)
	assert.Equal(t, 492.0, due.HoursLeft)
	assert.False(t, due.Due)
	assert.False(t, due.Overdue)
}

func TestEquipmentService_LogUsage_ПовторныйЛогЗаДеньПерезаписывает(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	_, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 8})
	require.NoError(t, err)
	// Тот же день, исправленное значение: не дубль, а перезапись.
	due, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 10})
	require.NoError(t, err)

	eq, err := equipmentRepo.FindEquipment(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 10.0, eq.CumulativeHours)
	assert.Equal(t, 490.0, due.HoursLeft)
}

func TestEquipmentService_LogUsage_ПревышениеБюджетаДаётПросрочку(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	_, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 500})
	require.NoError(t, err)
	due, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-02", HoursWorked: 20})
	require.NoError(t, err)

	assert.Equal(t, -20.0, due.HoursLeft)
	assert.True(t, due.Due)
	assert.True(t, due.Overdue)
}

func TestEquipmentService_LogUsage_РовноНоль_DueБезOverdue(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	due, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 500})
	require.NoError(t, err)

	assert.Equal(t, 0.0, due.HoursLeft)
	assert.True(t, due.Due)
	assert.False(t, due.Overdue)
}

func TestEquipmentService_LogUsage_КривыеДанные(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	_, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "01.08.2026", HoursWorked: 8})
	var invalidInput *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalidInput)
	assert.Equal(t, "date", invalidInput.Field)

	_, err = svc.LogUsage(context.Background(), 999, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 8})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEquipmentService_LogUsage_СписанноеОборудование(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusDecommissioned, 500, 0)

	_, err := svc.LogUsage(context.Background(), id, dto.LogUsageDTO{Date: "2026-08-01", HoursWorked: 8})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEquipmentService_ChangeStatus_СписаниеНеобратимо(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusDecommissioned, 500, 0)

	err := svc.ChangeStatus(context.Background(), id, entities.EquipmentStatusActive)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEquipmentService_UpdateEquipment_ЧастичноеОбновление(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)

	updated, err := svc.UpdateEquipment(context.Background(), id, dto.UpdateEquipmentDTO{
		Location: null.StringFrom("Площадка №2"),
	})
	require.NoError(t, err)

	// Меняется только присланное поле, остальное остаётся как было.
	assert.Equal(t, "Площадка №2", updated.Location)
	assert.Equal(t, "Экскаватор Hitachi ZX200", updated.Name)
	assert.Equal(t, 500.0, updated.OperatingHours)
}

func TestEquipmentService_UploadImage_ПодчищаетСтароеИзображение(t *testing.T) {
	svc, equipmentRepo, _, fileStorage := newEquipmentServiceForTest(t)
	id := seedEquipment(equipmentRepo, entities.EquipmentStatusActive, 500, 0)
	old := "/uploads/old.png"
	equipmentRepo.items[id].ImageURL = &old

	path, err := svc.UploadImage(context.Background(), id, nil, "new.png")
	require.NoError(t, err)

	assert.Equal(t, "/uploads/new.png", path)
	assert.Contains(t, fileStorage.deleted, old)

	eq, err := equipmentRepo.FindEquipment(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, eq.ImageURL)
	assert.Equal(t, path, *eq.ImageURL)
}

func TestEquipmentService_GetDueInfo_ДатаОбслуживания(t *testing.T) {
	svc, equipmentRepo, _, _ := newEquipmentServiceForTest(t)
	createdAt, _ := time.Parse(time.RFC3339, "2026-08-01T00:00:00Z")
	id := equipmentRepo.add(entities.Equipment{
		Name:           "Генератор",
		Status:         entities.EquipmentStatusActive,
		AssetType:      entities.AssetTypeHours,
		OperatingHours: 240,
		CreatedAt:      createdAt,
	})

	due, err := svc.GetDueInfo(context.Background(), id)
	require.NoError(t, err)

	// 240 моточасов / 24 = 10 дней от даты создания.
	assert.Equal(t, "2026-08-11", due.MaintenanceDate)
	assert.Equal(t, "ч", due.Unit)
}
