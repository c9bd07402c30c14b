package entities

import "time"

// Статусы заявки на закупку (PR).
const (
	RequisitionStatusPending  = "pending"
	RequisitionStatusApproved = "approved"
	RequisitionStatusRejected = "rejected"
)

// Статусы заказа поставщику (PO).
const (
	PurchaseOrderStatusOpen   = "open"
	PurchaseOrderStatusSent   = "sent"
	PurchaseOrderStatusClosed = "closed"
)

// RequisitionItem — позиция заявки на закупку.
type RequisitionItem struct {
	ID            uint64  `json:"id"`
	RequisitionID uint64  `json:"requisition_id"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	Unit          string  `json:"unit"`
	Note          string  `json:"note"`
}

// PurchaseRequisition — внутренняя заявка на закупку, требующая одобрения.
type PurchaseRequisition struct {
	ID          uint64     `json:"id"`
	Number      string     `json:"number"`
	RequestedBy uint64     `json:"requested_by"`
	Status      string     `json:"status"`
	Notes       string     `json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	ApprovedAt  *time.Time `json:"approved_at"`

	Items []RequisitionItem `json:"items" db:"-"`
}

// PurchaseOrder — заказ поставщику, создаётся при одобрении заявки.
type PurchaseOrder struct {
	ID            uint64    `json:"id"`
	Number        string    `json:"number"`
	RequisitionID uint64    `json:"requisition_id"`
	Vendor        string    `json:"vendor"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}
