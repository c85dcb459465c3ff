package api

import (
	"context"

	"rentdesk/internal/core"
)

// Ports consumed by the page state and handlers.
type (
	ResidentService interface {
		ListResidents(ctx context.Context) ([]core.Resident, error)
		DeleteResident(ctx context.Context, id string) error
	}

	UnitService interface {
		ListUnits(ctx context.Context) ([]core.Unit, error)
		ListAvailableUnits(ctx context.Context) ([]core.Unit, error)
	}

	PaymentService interface {
		ListPayments(ctx context.Context) ([]core.Payment, error)
		CreatePayment(ctx context.Context, p core.NewPayment) (core.Payment, error)
	}
)
