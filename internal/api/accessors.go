package api

import (
	"context"
	"net/http"
	"net/url"

	"rentdesk/internal/core"
)

// Thin accessors over the backend's REST routes. No business logic lives
// here: each call maps to exactly one endpoint and passes records through
// untouched.

func (c *Client) ListResidents(ctx context.Context) ([]core.Resident, error) {
	var out []core.Resident
	err := c.DoJSON(ctx, http.MethodGet, "/residents", nil, &out)
	return out, err
}

func (c *Client) DeleteResident(ctx context.Context, id string) error {
	_, err := c.Do(ctx, http.MethodDelete, "/residents/"+url.PathEscape(id), nil)
	return err
}

func (c *Client) ListUnits(ctx context.Context) ([]core.Unit, error) {
	var out []core.Unit
	err := c.DoJSON(ctx, http.MethodGet, "/units", nil, &out)
	return out, err
}

func (c *Client) ListAvailableUnits(ctx context.Context) ([]core.Unit, error) {
	var out []core.Unit
	err := c.DoJSON(ctx, http.MethodGet, "/available-units", nil, &out)
	return out, err
}

func (c *Client) ListPayments(ctx context.Context) ([]core.Payment, error) {
	var out []core.Payment
	err := c.DoJSON(ctx, http.MethodGet, "/payments", nil, &out)
	return out, err
}

// CreatePayment posts exactly the fields the caller supplied.
func (c *Client) CreatePayment(ctx context.Context, p core.NewPayment) (core.Payment, error) {
	var out core.Payment
	err := c.DoJSON(ctx, http.MethodPost, "/payments", p, &out)
	return out, err
}
