// Package api is the console's client for the property-management backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Error is a non-success backend response. Message is the human-readable text
// the pages surface; there is no structured code beyond the HTTP status.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string { return e.Message }

// Client wraps the backend REST API. It normalizes response parsing and turns
// every non-2xx status into an *Error carrying the best available message.
type Client struct {
	rest *resty.Client
}

// NewClient builds a client for the backend at baseURL. A zero timeout means
// no timeout, matching the browser console this replaces.
func NewClient(baseURL string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if timeout > 0 {
		rc.SetTimeout(timeout)
	}
	return &Client{rest: rc}
}

// Do performs one request and returns the parsed body: a JSON value when the
// response says application/json, the raw text otherwise, nil when the body
// is empty or unparsable. A body with no content type is sent as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any) (any, error) {
	resp, err := c.execute(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	parsed := parseBody(resp)
	if err := checkStatus(resp, parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}

// DoJSON performs one request and decodes a successful JSON body into out.
// Decode failures degrade to a zero out rather than an error, the same way Do
// swallows parse failures.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.execute(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := checkStatus(resp, parseBody(resp)); err != nil {
		return err
	}
	if out != nil && strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(resp.Body(), out)
	}
	return nil
}

func (c *Client) execute(ctx context.Context, method, path string, body any) (*resty.Response, error) {
	req := c.rest.R().SetContext(ctx)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, nil
}

// parseBody interprets the response body by its declared content type. Parse
// failures are swallowed: a broken JSON body yields nil, not an error.
func parseBody(resp *resty.Response) any {
	raw := resp.Body()
	if strings.Contains(resp.Header().Get("Content-Type"), "application/json") {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil
		}
		return v
	}
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

// checkStatus converts a non-2xx response into an *Error. The message comes,
// in order, from a JSON "error" field, a JSON "message" field, a non-empty
// text body, or a synthesized status line.
func checkStatus(resp *resty.Response, parsed any) error {
	if resp.IsSuccess() {
		return nil
	}
	msg := ""
	switch v := parsed.(type) {
	case map[string]any:
		if s, ok := v["error"].(string); ok && s != "" {
			msg = s
		} else if s, ok := v["message"].(string); ok && s != "" {
			msg = s
		}
	case string:
		msg = v
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed: %d %s", resp.StatusCode(), http.StatusText(resp.StatusCode()))
	}
	return &Error{StatusCode: resp.StatusCode(), Message: msg}
}
