package entities

import "time"

const (
	MaintenanceStatusScheduled = "scheduled"
	MaintenanceStatusCompleted = "completed"
)

// MaintenanceResource — позиция из упорядоченного списка ресурсов задачи.
type MaintenanceResource struct {
	ID       uint64  `json:"id"`
	TaskID   uint64  `json:"task_id"`
	Resource string  `json:"resource"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Position int     `json:"position"`
}

type MaintenanceTask struct {
	ID          uint64     `json:"id"`
	EquipmentID uint64     `json:"equipment_id"`
	DueDate     time.Time  `json:"due_date"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at"` // выставляется один раз, при завершении

	Resources []MaintenanceResource `json:"resources" db:"-"`

	// Связанные данные (не колонки таблицы)
	Equipment *Equipment `json:"equipment,omitempty" db:"-"`
}
