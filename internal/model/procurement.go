package model

import "github.com/shopspring/decimal"

// Procurement records a purchase made for an approved request.
type Procurement struct {
	ID             ID              `json:"id"`
	RequestItemsID ID              `json:"request_items_id"`
	Request        *ItemRequest    `json:"request,omitempty"`
	UserID         ID              `json:"user_id,omitempty"`
	PurchaseDate   string          `json:"purchase_date"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

// ProcurementInput is the payload of POST /procurements.
type ProcurementInput struct {
	RequestItemsID ID              `json:"request_items_id"`
	PurchaseDate   string          `json:"purchase_date"`
	Amount         decimal.Decimal `json:"amount"`
	Notes          string          `json:"notes"`
}

// ProcurementStats is the reply of /procurements/stats.
type ProcurementStats struct {
	Monthly struct {
		Count  []PeriodCount  `json:"count"`
		Amount []PeriodAmount `json:"amount"`
	} `json:"monthly"`
}

type PeriodAmount struct {
	Period      string          `json:"period,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// PipelineItem is an approved request together with the asset created for it, if any.
type PipelineItem struct {
	ItemRequest
	Asset         *Asset `json:"asset,omitempty"`
	DisplayStatus string `json:"display_status"`
}
