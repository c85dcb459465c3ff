package amqp

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"rentdesk/internal/core"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{0, 1 * time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},  // capped at 30s
		{10, 30 * time.Second}, // capped at 30s
		{40, 30 * time.Second}, // shift overflow still capped
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("attempt_%d", tt.attempt), func(t *testing.T) {
			result := exponentialBackoff(tt.attempt)
			if result != tt.expected {
				t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, result, tt.expected)
			}
		})
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"connection closed", errors.New("connection closed"), true},
		{"EOF", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"channel not open", errors.New("channel/connection is not open"), true},
		{"handler error", errors.New("insert payment audit: disk full"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.expected {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestPaymentCreatedMessageRoundTrip(t *testing.T) {
	msg := NewPaymentCreatedMessage(core.Payment{
		PaymentID: float64(42),
		Amount:    float64(1250),
		Method:    "ach",
		PaidDate:  "2026-08-01",
		Status:    "posted",
	})
	if msg.PaymentID != "42" {
		t.Fatalf("payment id coerced to %q", msg.PaymentID)
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := PaymentCreatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.PaymentID != "42" || decoded.Method != "ach" || decoded.Status != "posted" {
		t.Fatalf("decoded=%+v", decoded)
	}
	if got, ok := decoded.Amount.(float64); !ok || got != 1250 {
		t.Fatalf("amount=%v", decoded.Amount)
	}
}

func TestPaymentCreatedMessageNullAmount(t *testing.T) {
	msg := NewPaymentCreatedMessage(core.Payment{PaymentID: "7", Method: "cash"})
	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	decoded, err := PaymentCreatedMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Amount != nil {
		t.Fatalf("amount=%v, want nil", decoded.Amount)
	}

	if _, err := PaymentCreatedMessageFromJSON([]byte("not json")); err == nil {
		t.Fatalf("expected error for invalid body")
	}
}
