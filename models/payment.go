package models

import "time"

// Invoice is the outcome of a payment confirmation attempt.
type Invoice struct {
	InvoiceID string    `json:"invoiceId"`
	SessionID string    `json:"sessionId"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"` // "pending" or "paid"
	Method    string    `json:"method"`
	PaymentID string    `json:"paymentId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
