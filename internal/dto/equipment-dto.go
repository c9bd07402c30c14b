package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	Name           string  `json:"name" validate:"required"`
	SerialNumber   string  `json:"serial_number" validate:"required,serial_number"`
	AssetNumber    string  `json:"asset_number" validate:"required"`
	Location       string  `json:"location" validate:"required"`
	AssetType      string  `json:"asset_type" validate:"required,asset_type"`
	OperatingHours float64 `json:"operating_hours" validate:"gte=0"`
}

type UpdateEquipmentDTO struct {
	Name           null.String  `json:"name,omitempty"`
	SerialNumber   null.String  `json:"serial_number,omitempty"`
	AssetNumber    null.String  `json:"asset_number,omitempty"`
	Location       null.String  `json:"location,omitempty"`
	AssetType      null.String  `json:"asset_type,omitempty"`
	OperatingHours null.Float64 `json:"operating_hours,omitempty"`
}

type ChangeEquipmentStatusDTO struct {
	Status string `json:"status" validate:"required,equipment_status"`
}

type LogUsageDTO struct {
	Date        string  `json:"date" validate:"required,work_date"`
	HoursWorked float64 `json:"hours_worked" validate:"gte=0"`
}

type EquipmentDTO struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	SerialNumber    string  `json:"serial_number"`
	AssetNumber     string  `json:"asset_number"`
	Location        string  `json:"location"`
	Status          string  `json:"status"`
	AssetType       string  `json:"asset_type"`
	ImageURL        *string `json:"image_url"`
	OperatingHours  float64 `json:"operating_hours"`
	CumulativeHours float64 `json:"cumulative_hours"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type ShortEquipmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// EquipmentDueDTO — расчётная карточка "когда обслуживать".
type EquipmentDueDTO struct {
	EquipmentID     uint64  `json:"equipment_id"`
	MaintenanceDate string  `json:"maintenance_date"`
	DaysLeft        int     `json:"days_left"`
	HoursLeft       float64 `json:"hours_left"`
	Unit            string  `json:"unit"`
	Due             bool    `json:"due"`
	Overdue         bool    `json:"overdue"`
}

type UsageRecordDTO struct {
	ID          uint64  `json:"id"`
	EquipmentID uint64  `json:"equipment_id"`
	Date        string  `json:"date"`
	HoursWorked float64 `json:"hours_worked"`
}
