package model

const (
	AssetNotReceived      = "not_received"
	AssetReceived         = "received"
	AssetNeedsRepair      = "needs_repair"
	AssetNeedsReplacement = "needs_replacement"
	AssetProcurement      = "procurement"
	AssetRepairing        = "repairing"
	AssetReplacing        = "replacing"
)

// Asset is created upstream when a request is approved and then moves between the requester,
// the GA admin and procurement.
type Asset struct {
	ID             ID           `json:"id"`
	AssetCode      string       `json:"asset_code"`
	Name           string       `json:"name,omitempty"`
	Category       string       `json:"category"`
	Status         string       `json:"status"`
	UserID         ID           `json:"user_id,omitempty"`
	RequestItemsID ID           `json:"request_items_id,omitempty"`
	Request        *ItemRequest `json:"request,omitempty"`
	Notes          string       `json:"notes,omitempty"`
	ReceiptProof   string       `json:"receipt_proof,omitempty"`
	RepairProof    string       `json:"repair_proof,omitempty"`
	UpdatedAt      string       `json:"updated_at,omitempty"`
}

// DisplayName is the requested item name when the asset came from a request, its category otherwise.
func (a Asset) DisplayName() string {
	if a.Request != nil && a.Request.ItemName != "" {
		return a.Request.ItemName
	}
	if a.Name != "" {
		return a.Name
	}
	return a.Category
}

// AssetStats is the reply of /assets/stats.
type AssetStats struct {
	ByStatus []StatusCount `json:"by_status"`
}

type StatusCount struct {
	Status string `json:"status"`
	Total  Number `json:"total"`
}

// Total sums all status buckets.
func (s AssetStats) Total() int {
	var total float64
	for _, b := range s.ByStatus {
		total += float64(b.Total)
	}
	return int(total)
}
