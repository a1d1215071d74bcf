package mailbridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/mailbridge-go/internal/validate"
)

const sendPath = "/v1/send-email"

// EmailRequest describes one email to send. To, From and Subject are
// required, along with at least one of Text and HTML. Set ScheduledAt (or
// ScheduledAtRaw for a preformatted RFC3339 string) to schedule delivery;
// the instant must be strictly in the future when Send validates it. When
// both schedule fields are set the typed one wins.
type EmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	CC      []string `json:"cc,omitempty"`
	BCC     []string `json:"bcc,omitempty"`
	Subject string   `json:"subject"`
	Text    string   `json:"text,omitempty"`
	HTML    string   `json:"html,omitempty"`

	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	ScheduledAtRaw string     `json:"-"`
}

// Send validates the request and delivers it to the backend. Validation
// failures return immediately with a VALIDATION_ERROR envelope and no
// network call. The success message distinguishes immediate sends from
// scheduled ones.
func (c *Client) Send(ctx context.Context, req *EmailRequest) *Result {
	res, started := c.start()

	scheduledAt, err := validateSend(req, started)
	if err != nil {
		return c.failValidation(res, started, err)
	}

	payload := buildSendPayload(req, scheduledAt)

	status, body, ok := c.exchange(ctx, http.MethodPost, sendPath, payload, res)
	if !ok {
		return c.finish(res, started)
	}
	if status < 200 || status > 299 {
		return c.failHTTP(res, started, status, body, sendPath)
	}

	res.Success = true
	res.Data = extractSendData(body)
	if scheduledAt.IsZero() {
		res.Message = "Email sent successfully"
	} else {
		res.Message = "Email scheduled successfully"
	}
	return c.finish(res, started)
}

// validateSend enforces the send rules in a fixed order so the first failing
// rule determines the reported error: to, from, subject, body presence, then
// full address validation, then the schedule instant. It returns the
// resolved schedule time, zero when no scheduling was requested.
func validateSend(req *EmailRequest, now time.Time) (time.Time, error) {
	if req == nil {
		return time.Time{}, errors.New("send request is required")
	}
	if len(req.To) == 0 {
		return time.Time{}, fmt.Errorf("%w: to", validate.ErrMissingField)
	}
	if strings.TrimSpace(req.From) == "" {
		return time.Time{}, fmt.Errorf("%w: from", validate.ErrMissingField)
	}
	if strings.TrimSpace(req.Subject) == "" {
		return time.Time{}, fmt.Errorf("%w: subject", validate.ErrMissingField)
	}
	if req.Text == "" && req.HTML == "" {
		return time.Time{}, fmt.Errorf("%w: either text or html body", validate.ErrMissingField)
	}

	if err := validate.AddressField("to", req.To); err != nil {
		return time.Time{}, err
	}
	if err := validate.Address("from", req.From); err != nil {
		return time.Time{}, err
	}
	if len(req.CC) > 0 {
		if err := validate.AddressField("cc", req.CC); err != nil {
			return time.Time{}, err
		}
	}
	if len(req.BCC) > 0 {
		if err := validate.AddressField("bcc", req.BCC); err != nil {
			return time.Time{}, err
		}
	}

	switch {
	case req.ScheduledAt != nil:
		return validate.FutureInstant(*req.ScheduledAt, now)
	case req.ScheduledAtRaw != "":
		return validate.FutureInstant(req.ScheduledAtRaw, now)
	}
	return time.Time{}, nil
}

// buildSendPayload assembles the wire payload with only the present fields;
// optional fields are omitted rather than sent empty.
func buildSendPayload(req *EmailRequest, scheduledAt time.Time) map[string]any {
	payload := map[string]any{
		"from":    req.From,
		"to":      req.To,
		"subject": req.Subject,
	}
	if req.Text != "" {
		payload["text"] = req.Text
	}
	if req.HTML != "" {
		payload["html"] = req.HTML
	}
	if len(req.CC) > 0 {
		payload["cc"] = req.CC
	}
	if len(req.BCC) > 0 {
		payload["bcc"] = req.BCC
	}
	if !scheduledAt.IsZero() {
		payload["scheduled_at"] = scheduledAt.UTC().Format(time.RFC3339)
	}
	return payload
}

// extractSendData accepts both observed success shapes: a flat object, or a
// batched {results: [...]} wrapper whose first element is the richer
// representation.
func extractSendData(body map[string]any) map[string]any {
	if results, ok := body["results"].([]any); ok && len(results) > 0 {
		if first, ok := results[0].(map[string]any); ok {
			return first
		}
	}
	return body
}
