package services

import (
	"context"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"

	"go.uber.org/zap"
)

type ReportServiceInterface interface {
	GetMaintenanceReport(ctx context.Context, filter entities.ReportFilter) ([]dto.MaintenanceReportItemDTO, uint64, error)
	GetUsageReport(ctx context.Context, filter entities.ReportFilter) ([]dto.UsageReportItemDTO, uint64, error)
	GroupUsageByDay(items []dto.UsageReportItemDTO) []dto.UsageReportDayDTO
}

type ReportService struct {
	reportRepo repositories.ReportRepositoryInterface
	logger     *zap.Logger
}

func NewReportService(reportRepo repositories.ReportRepositoryInterface, logger *zap.Logger) ReportServiceInterface {
	return &ReportService{reportRepo: reportRepo, logger: logger}
}

func (s *ReportService) GetMaintenanceReport(ctx context.Context, filter entities.ReportFilter) ([]dto.MaintenanceReportItemDTO, uint64, error) {
	items, total, err := s.reportRepo.GetMaintenanceReport(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.MaintenanceReportItemDTO, 0, len(items))
	for _, item := range items {
		row := dto.MaintenanceReportItemDTO{
			TaskID:        item.TaskID,
			EquipmentName: item.EquipmentName.String,
			SerialNumber:  item.SerialNumber.String,
			Location:      item.Location.String,
			DueDate:       item.DueDate.Format("2006-01-02"),
			Status:        item.Status,
			Notes:         item.Notes.String,
			CreatedAt:     item.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if item.CompletedAt.Valid {
			row.CompletedAt = item.CompletedAt.Time.Format("2006-01-02 15:04:05")
		}
		result = append(result, row)
	}
	return result, total, nil
}

func (s *ReportService) GetUsageReport(ctx context.Context, filter entities.ReportFilter) ([]dto.UsageReportItemDTO, uint64, error) {
	items, total, err := s.reportRepo.GetUsageReport(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.UsageReportItemDTO, 0, len(items))
	for _, item := range items {
		result = append(result, dto.UsageReportItemDTO{
			Date:          item.WorkDate.Format("2006-01-02"),
			EquipmentID:   item.EquipmentID,
			EquipmentName: item.EquipmentName.String,
			AssetType:     item.AssetType.String,
			HoursWorked:   item.HoursWorked,
		})
	}
	return result, total, nil
}

// GroupUsageByDay сворачивает построчный отчёт в дневные группы с итогом.
// Вход уже отсортирован по дате, порядок дней сохраняется.
func (s *ReportService) GroupUsageByDay(items []dto.UsageReportItemDTO) []dto.UsageReportDayDTO {
	var days []dto.UsageReportDayDTO
	index := make(map[string]int)

	for _, item := range items {
		i, ok := index[item.Date]
		if !ok {
			i = len(days)
			index[item.Date] = i
			days = append(days, dto.UsageReportDayDTO{Date: item.Date})
		}
		days[i].Entries = append(days[i].Entries, item)
		days[i].Total += item.HoursWorked
	}
	return days
}
