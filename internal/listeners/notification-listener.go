package listeners

import (
	"context"

	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"

	"go.uber.org/zap"
)

// RegisterNotificationListeners подписывает журналирующие уведомления
// на доменные события. Пока канал доставки один — журнал; слушатели
// изолированы от публикаторов шиной.
func RegisterNotificationListeners(bus *eventbus.Bus, logger *zap.Logger) {
	log := logger.Named("notifications")

	bus.Subscribe(events.MaintenanceCompletedEventName, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.MaintenanceCompletedEvent)
		if !ok {
			return nil
		}
		log.Info("ТО завершено",
			zap.Uint64("taskID", e.TaskID),
			zap.Uint64("equipmentID", e.EquipmentID),
			zap.Uint64("completedBy", e.CompletedBy),
		)
		return nil
	})

	bus.Subscribe(events.RequisitionApprovedEventName, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.RequisitionApprovedEvent)
		if !ok {
			return nil
		}
		log.Info("Заявка на закупку одобрена",
			zap.Uint64("requisitionID", e.RequisitionID),
			zap.Uint64("purchaseOrderID", e.PurchaseOrderID),
			zap.Uint64("approvedBy", e.ApprovedBy),
		)
		return nil
	})

	bus.Subscribe(events.EquipmentOverdueEventName, func(ctx context.Context, event eventbus.Event) error {
		e, ok := event.(events.EquipmentOverdueEvent)
		if !ok {
			return nil
		}
		log.Warn("Оборудование выработало бюджет до ТО",
			zap.Uint64("equipmentID", e.EquipmentID),
			zap.Float64("hoursLeft", e.HoursLeft),
		)
		return nil
	})
}
