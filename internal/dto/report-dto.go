package dto

type MaintenanceReportItemDTO struct {
	TaskID        uint64 `json:"task_id"`
	EquipmentName string `json:"equipment_name"`
	SerialNumber  string `json:"serial_number"`
	Location      string `json:"location"`
	DueDate       string `json:"due_date"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
	CompletedAt   string `json:"completed_at,omitempty"`
	CreatedAt     string `json:"created_at"`
}

type UsageReportItemDTO struct {
	Date          string  `json:"date"`
	EquipmentID   uint64  `json:"equipment_id"`
	EquipmentName string  `json:"equipment_name"`
	AssetType     string  `json:"asset_type"`
	HoursWorked   float64 `json:"hours_worked"`
}

// UsageReportDayDTO — группировка наработки по календарному дню.
type UsageReportDayDTO struct {
	Date    string               `json:"date"`
	Total   float64              `json:"total"`
	Entries []UsageReportItemDTO `json:"entries"`
}
