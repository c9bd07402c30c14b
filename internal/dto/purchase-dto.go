package dto

import "github.com/aarondl/null/v8"

type RequisitionItemDTO struct {
	Name     string  `json:"name" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Unit     string  `json:"unit" validate:"required"`
	Note     string  `json:"note"`
}

type CreateRequisitionDTO struct {
	Notes string               `json:"notes"`
	Items []RequisitionItemDTO `json:"items" validate:"required,min=1,dive"`
}

type UpdateRequisitionDTO struct {
	Notes null.String          `json:"notes,omitempty"`
	Items []RequisitionItemDTO `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type ApproveRequisitionDTO struct {
	Vendor string `json:"vendor" validate:"required"`
}

type RequisitionDTO struct {
	ID          uint64               `json:"id"`
	Number      string               `json:"number"`
	RequestedBy uint64               `json:"requested_by"`
	Status      string               `json:"status"`
	Notes       string               `json:"notes"`
	Items       []RequisitionItemDTO `json:"items"`
	CreatedAt   string               `json:"created_at"`
	ApprovedAt  string               `json:"approved_at,omitempty"`
}

type UpdatePurchaseOrderDTO struct {
	Status string `json:"status" validate:"required,oneof=open sent closed"`
	Vendor string `json:"vendor"`
}

type PurchaseOrderDTO struct {
	ID            uint64 `json:"id"`
	Number        string `json:"number"`
	RequisitionID uint64 `json:"requisition_id"`
	Vendor        string `json:"vendor"`
	Status        string `json:"status"`
	CreatedAt     string `json:"created_at"`
}
