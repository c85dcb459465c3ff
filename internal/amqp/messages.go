package amqp

import (
	"encoding/json"
	"time"

	"rentdesk/internal/core"
)

// PaymentCreatedMessage is the event published after a payment lands. It
// carries the payment fields the audit trail needs; consumers never call
// back into the property API.
type PaymentCreatedMessage struct {
	PaymentID string    `json:"payment_id"`
	Amount    any       `json:"amount"`
	Method    string    `json:"method"`
	PaidDate  string    `json:"paid_date"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// NewPaymentCreatedMessage builds the event for a created payment.
func NewPaymentCreatedMessage(p core.Payment) *PaymentCreatedMessage {
	return &PaymentCreatedMessage{
		PaymentID: core.Str(p.PaymentID),
		Amount:    p.Amount,
		Method:    p.Method,
		PaidDate:  p.PaidDate,
		Status:    p.Status,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *PaymentCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// PaymentCreatedMessageFromJSON creates a message from JSON bytes
func PaymentCreatedMessageFromJSON(data []byte) (*PaymentCreatedMessage, error) {
	var msg PaymentCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
