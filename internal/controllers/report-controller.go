package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func (c *ReportController) GetMaintenanceReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос отчёта по ТО", zap.Any("filters", filter), zap.String("format", format))

	data, total, err := c.reportService.GetMaintenanceReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithMaintenanceXLSX(ctx, data)
	}
	return utils.SuccessResponse(ctx, data, "Отчёт по обслуживанию сформирован", http.StatusOK, total)
}

func (c *ReportController) GetUsageReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter, format := c.parseFilters(ctx)
	c.logger.Debug("Запрос отчёта по наработке", zap.Any("filters", filter), zap.String("format", format))

	data, total, err := c.reportService.GetUsageReport(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithUsageXLSX(ctx, data)
	}

	grouped := c.reportService.GroupUsageByDay(data)
	return utils.SuccessResponse(ctx, grouped, "Отчёт по наработке сформирован", http.StatusOK, total)
}

func (c *ReportController) parseFilters(ctx echo.Context) (entities.ReportFilter, string) {
	stdFilter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	filter := entities.ReportFilter{
		Page:    stdFilter.Page,
		PerPage: stdFilter.Limit,
	}
	format := strings.ToLower(ctx.QueryParam("format"))

	if format == "xlsx" {
		filter.Page = 1
		filter.PerPage = 100000 // Выгружаем всё для экспорта
	}

	if df := ctx.QueryParam("date_from"); df != "" {
		if t, err := time.Parse("2006-01-02", df); err == nil {
			filter.DateFrom = &t
		}
	}
	if dt := ctx.QueryParam("date_to"); dt != "" {
		if t, err := time.Parse("2006-01-02", dt); err == nil {
			filter.DateTo = &t
		}
	}
	if status := ctx.QueryParam("status"); status != "" {
		filter.Status = status
	}

	var strs []string
	if arr, ok := ctx.QueryParams()["equipment_ids[]"]; ok {
		strs = arr
	} else if s := ctx.QueryParam("equipment_ids"); s != "" {
		strs = strings.Split(s, ",")
	}
	ids, _ := utils.ParseUint64Slice(strs)
	filter.EquipmentIDs = ids

	return filter, format
}

var maintenanceReportHeaders = []string{
	"№ задачи", "Оборудование", "Серийный номер", "Локация",
	"Плановая дата", "Статус", "Примечания", "Дата завершения", "Создано",
}

func (c *ReportController) respondWithMaintenanceXLSX(ctx echo.Context, data []dto.MaintenanceReportItemDTO) error {
	f := excelize.NewFile()
	sheet := "Отчёт по ТО"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &maintenanceReportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "I1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			item.TaskID, item.EquipmentName, item.SerialNumber, item.Location,
			item.DueDate, item.Status, item.Notes, item.CompletedAt, item.CreatedAt,
		}
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "B", 30)
	f.SetColWidth(sheet, "C", "D", 20)
	f.SetColWidth(sheet, "G", "G", 40)
	f.SetColWidth(sheet, "H", "I", 20)

	return writeXLSX(ctx, f, "maintenance_report")
}

var usageReportHeaders = []string{
	"Дата", "ID оборудования", "Оборудование", "Единица учёта", "Наработка",
}

func (c *ReportController) respondWithUsageXLSX(ctx echo.Context, data []dto.UsageReportItemDTO) error {
	f := excelize.NewFile()
	sheet := "Отчёт по наработке"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &usageReportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "E1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			item.Date, item.EquipmentID, item.EquipmentName, item.AssetType, item.HoursWorked,
		}
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "C", "C", 30)

	return writeXLSX(ctx, f, "usage_report")
}

func writeXLSX(ctx echo.Context, f *excelize.File, prefix string) error {
	fileName := fmt.Sprintf("%s_%s.xlsx", prefix, time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
