package entities

import (
	"time"
)

// Статусы оборудования.
const (
	EquipmentStatusActive         = "active"
	EquipmentStatusMaintenance    = "maintenance"
	EquipmentStatusDecommissioned = "decommissioned"
)

// Типы актива — единица учёта наработки.
const (
	AssetTypeHours      = "hours"
	AssetTypeKilometers = "kilometers"
	AssetTypeDAV        = "dav"
)

type Equipment struct {
	ID              uint64  `json:"id"`
	Name            string  `json:"name"`
	SerialNumber    string  `json:"serial_number"`
	AssetNumber     string  `json:"asset_number"`
	Location        string  `json:"location"`
	Status          string  `json:"status"`
	AssetType       string  `json:"asset_type"`
	ImageURL        *string `json:"image_url"`
	OperatingHours  float64 `json:"operating_hours"`  // бюджет до следующего ТО
	CumulativeHours float64 `json:"cumulative_hours"` // накопленная наработка

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitLabel — подпись единицы учёта для отображения. Чисто
// презентационная вещь, в расчётах не участвует.
func (e *Equipment) UnitLabel() string {
	switch e.AssetType {
	case AssetTypeKilometers:
		return "км"
	case AssetTypeDAV:
		return "DAV"
	default:
		return "ч"
	}
}
