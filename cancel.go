package mailbridge

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/example/mailbridge-go/internal/validate"
)

const cancelPath = "/v1/cancel-email"

// Cancel cancels one scheduled email by id. On success the backend body is
// returned verbatim as the envelope data.
func (c *Client) Cancel(ctx context.Context, id string) *Result {
	res, started := c.start()

	if err := validate.Identifier("email id", id); err != nil {
		return c.failValidation(res, started, err)
	}

	path := cancelPath + "/" + url.PathEscape(id)
	status, body, ok := c.exchange(ctx, http.MethodPost, path, nil, res)
	if !ok {
		return c.finish(res, started)
	}
	if status < 200 || status > 299 {
		return c.failHTTP(res, started, status, body, path)
	}

	res.Success = true
	res.Data = body
	if msg, ok := body["message"].(string); ok && msg != "" {
		res.Message = msg
	} else {
		res.Message = "Email cancelled successfully"
	}
	return c.finish(res, started)
}

// CancelMany cancels a batch of scheduled emails in a single request. Every
// id is validated individually before any network call; failures name the
// offending element.
func (c *Client) CancelMany(ctx context.Context, ids []string) *Result {
	res, started := c.start()

	if err := validate.IdentifierList("email_ids", ids); err != nil {
		return c.failValidation(res, started, err)
	}

	payload := map[string]any{"email_ids": ids}
	status, body, ok := c.exchange(ctx, http.MethodPost, cancelPath, payload, res)
	if !ok {
		return c.finish(res, started)
	}
	if status < 200 || status > 299 {
		return c.failHTTP(res, started, status, body, cancelPath)
	}

	res.Success = true
	res.Data = body
	res.Message = cancelSummary(body)
	return c.finish(res, started)
}

// cancelSummary prefers a backend-supplied message and otherwise composes
// one from the reported counts.
func cancelSummary(body map[string]any) string {
	if msg, ok := body["message"].(string); ok && msg != "" {
		return msg
	}
	succeeded := intField(body, "success_count")
	failed := intField(body, "error_count")
	return fmt.Sprintf("Cancelled %d email(s), %d failed", succeeded, failed)
}

// intField reads a numeric body field, tolerating the float64 values
// encoding/json produces for JSON numbers.
func intField(body map[string]any, key string) int {
	switch v := body[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}
