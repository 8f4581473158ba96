package domain

import "time"

// AckStatusMock is returned for every purchase order; nothing is placed.
const AckStatusMock = "ok (mock)"

// PurchaseOrderAck acknowledges receipt of a purchase-order request.
type PurchaseOrderAck struct {
	ID             string    `json:"id"`              // unique per acknowledgment
	Status         string    `json:"status"`          // always AckStatusMock
	NDC            string    `json:"ndc"`
	Qty            int       `json:"qty"`
	IdempotencyKey string    `json:"idempotency_key"` // stable for ndc+qty within a window
	ReceivedAt     time.Time `json:"received_at"`
}
