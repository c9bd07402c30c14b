package dto

import "github.com/aarondl/null/v8"

type MaintenanceResourceDTO struct {
	Resource string  `json:"resource" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" validate:"required"`
}

type ScheduleMaintenanceDTO struct {
	EquipmentID uint64                   `json:"equipment_id" validate:"required,gt=0"`
	DueDate     string                   `json:"due_date" validate:"required,work_date"`
	Notes       string                   `json:"notes"`
	Resources   []MaintenanceResourceDTO `json:"resources" validate:"dive"`
}

type UpdateMaintenanceDTO struct {
	DueDate   null.String              `json:"due_date,omitempty"`
	Notes     null.String              `json:"notes,omitempty"`
	Resources []MaintenanceResourceDTO `json:"resources,omitempty" validate:"omitempty,dive"`
}

type MaintenanceTaskDTO struct {
	ID          uint64                   `json:"id"`
	EquipmentID uint64                   `json:"equipment_id"`
	Equipment   *ShortEquipmentDTO       `json:"equipment,omitempty"`
	DueDate     string                   `json:"due_date"`
	Status      string                   `json:"status"`
	Notes       string                   `json:"notes"`
	Resources   []MaintenanceResourceDTO `json:"resources"`
	CreatedAt   string                   `json:"created_at"`
	CompletedAt string                   `json:"completed_at,omitempty"`
}
