package dto

type DashboardDTO struct {
	EquipmentByStatus   map[string]uint64    `json:"equipment_by_status"`
	OverdueEquipment    []EquipmentDueDTO    `json:"overdue_equipment"`
	UpcomingMaintenance []MaintenanceTaskDTO `json:"upcoming_maintenance"`
	OpenRequisitions    uint64               `json:"open_requisitions"`
}
