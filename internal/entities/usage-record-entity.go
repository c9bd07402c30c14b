package entities

import "time"

// UsageRecord — журнал наработки: одна запись на оборудование в день.
// Повторный лог за ту же дату перезаписывает часы, а не дублирует запись.
type UsageRecord struct {
	ID          uint64    `json:"id"`
	EquipmentID uint64    `json:"equipment_id"`
	WorkDate    time.Time `json:"work_date"`
	HoursWorked float64   `json:"hours_worked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
