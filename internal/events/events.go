package events

const (
	MaintenanceCompletedEventName = "maintenance.completed"
	RequisitionApprovedEventName  = "requisition.approved"
	EquipmentOverdueEventName     = "equipment.overdue"
)

// MaintenanceCompletedEvent публикуется при завершении задачи ТО.
type MaintenanceCompletedEvent struct {
	TaskID      uint64
	EquipmentID uint64
	CompletedBy uint64
}

func (MaintenanceCompletedEvent) Name() string { return MaintenanceCompletedEventName }

// RequisitionApprovedEvent публикуется при одобрении заявки на закупку.
type RequisitionApprovedEvent struct {
	RequisitionID   uint64
	PurchaseOrderID uint64
	ApprovedBy      uint64
}

func (RequisitionApprovedEvent) Name() string { return RequisitionApprovedEventName }

// EquipmentOverdueEvent публикуется, когда лог наработки выводит
// оборудование за порог обслуживания.
type EquipmentOverdueEvent struct {
	EquipmentID uint64
	HoursLeft   float64
}

func (EquipmentOverdueEvent) Name() string { return EquipmentOverdueEventName }
