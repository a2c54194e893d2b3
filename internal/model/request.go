package model

import "github.com/shopspring/decimal"

const (
	RequestPending     = "pending"
	RequestApproved    = "approved"
	RequestRejected    = "rejected"
	RequestProcurement = "procurement"
	// Pipeline statuses reported by /procurements/approved-requests
	RequestNotReceived = "not_received"
	RequestCompleted   = "completed"
)

// ItemRequest is an employee's request for an item. Approval by an admin creates an asset upstream.
type ItemRequest struct {
	ID            ID              `json:"id"`
	UserID        ID              `json:"user_id,omitempty"`
	User          *User           `json:"user,omitempty"`
	ItemName      string          `json:"item_name"`
	Quantity      int             `json:"quantity"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Category      string          `json:"category"`
	Reason        string          `json:"reason,omitempty"`
	Status        string          `json:"status"`
	GANote        string          `json:"ga_note,omitempty"`
	CreatedAt     string          `json:"created_at,omitempty"`
}

// ItemRequestInput is the request form.
type ItemRequestInput struct {
	ItemName      string          `json:"item_name" binding:"required"`
	Quantity      int             `json:"quantity" binding:"required,min=1"`
	EstimatedCost decimal.Decimal `json:"estimated_cost"`
	Category      string          `json:"category" binding:"required"`
	Reason        string          `json:"reason"`
}

// ReviewNote carries the optional GA note of an approve/reject call.
type ReviewNote struct {
	GANote string `json:"ga_note,omitempty"`
}
