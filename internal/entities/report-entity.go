package entities

import (
	"database/sql"
	"time"
)

// ReportFilter — фильтр отчётных выборок.
type ReportFilter struct {
	DateFrom     *time.Time
	DateTo       *time.Time
	EquipmentIDs []uint64
	Status       string
	Page         int
	PerPage      int
}

// MaintenanceReportItem — строка отчёта по обслуживанию.
type MaintenanceReportItem struct {
	TaskID        uint64
	EquipmentName sql.NullString
	SerialNumber  sql.NullString
	Location      sql.NullString
	DueDate       time.Time
	Status        string
	Notes         sql.NullString
	CompletedAt   sql.NullTime
	CreatedAt     time.Time
}

// UsageReportItem — строка отчёта по наработке, сгруппированной по дате.
type UsageReportItem struct {
	WorkDate      time.Time
	EquipmentID   uint64
	EquipmentName sql.NullString
	AssetType     sql.NullString
	HoursWorked   float64
}
