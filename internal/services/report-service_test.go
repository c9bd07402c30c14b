package services

import (
	"testing"

	"maintenance-system/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestReportService_GroupUsageByDay(t *testing.T) {
	svc := NewReportService(nil, zap.NewNop())

	days := svc.GroupUsageByDay([]dto.UsageReportItemDTO{
		{Date: "2026-08-01", EquipmentID: 1, EquipmentName: "Экскаватор", HoursWorked: 8},
		{Date: "2026-08-01", EquipmentID: 2, EquipmentName: "Погрузчик", HoursWorked: 6.5},
		{Date: "2026-08-02", EquipmentID: 1, EquipmentName: "Экскаватор", HoursWorked: 4},
	})

	require.Len(t, days, 2)

	// Порядок дней — как во входных строках (репозиторий отдаёт их по дате).
	assert.Equal(t, "2026-08-01", days[0].Date)
	assert.Equal(t, 14.5, days[0].Total)
	require.Len(t, days[0].Entries, 2)
	assert.Equal(t, "Погрузчик", days[0].Entries[1].EquipmentName)

	assert.Equal(t, "2026-08-02", days[1].Date)
	assert.Equal(t, 4.0, days[1].Total)
	require.Len(t, days[1].Entries, 1)
}

func TestReportService_GroupUsageByDay_ПустойОтчёт(t *testing.T) {
	svc := NewReportService(nil, zap.NewNop())

	days := svc.GroupUsageByDay(nil)
	assert.Empty(t, days)
}
