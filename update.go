package mailbridge

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/example/mailbridge-go/internal/validate"
)

const updatePath = "/v1/update-scheduled-email"

// SchedulePatch expresses the scheduled_at part of an update. It is
// tri-state: the zero value means the field is absent from the patch,
// Unschedule sends an explicit null, and ScheduleAt/ScheduleAtString carry a
// new instant. Unlike send-time scheduling, an updated instant is not
// required to be in the future.
type SchedulePatch struct {
	present bool
	clear   bool
	rawSet  bool
	at      time.Time
	raw     string
}

// ScheduleAt patches the schedule to the given instant.
func ScheduleAt(t time.Time) SchedulePatch {
	return SchedulePatch{present: true, at: t}
}

// ScheduleAtString patches the schedule from an RFC3339 string. The string
// is parsed during validation.
func ScheduleAtString(s string) SchedulePatch {
	return SchedulePatch{present: true, rawSet: true, raw: s}
}

// Unschedule patches the schedule to null, meaning "send immediately".
func Unschedule() SchedulePatch {
	return SchedulePatch{present: true, clear: true}
}

// UpdateEmailRequest is a sparse patch over a scheduled email. Nil pointer
// fields are omitted from the outbound payload; at least one field must be
// set.
type UpdateEmailRequest struct {
	Subject     *string
	BodyHTML    *string
	BodyText    *string
	ScheduledAt SchedulePatch
}

// String returns a pointer to v, a convenience for populating the optional
// patch fields.
func String(v string) *string {
	return &v
}

// UpdateScheduled applies a sparse update to a scheduled email. When the
// backend rejects the update and reports the email's current status, that
// status is surfaced in the envelope data so callers can tell whether the
// email had already been sent.
func (c *Client) UpdateScheduled(ctx context.Context, id string, patch *UpdateEmailRequest) *Result {
	res, started := c.start()

	payload, err := buildUpdatePayload(id, patch)
	if err != nil {
		return c.failValidation(res, started, err)
	}

	path := updatePath + "/" + url.PathEscape(id)
	status, body, ok := c.exchange(ctx, http.MethodPut, path, payload, res)
	if !ok {
		return c.finish(res, started)
	}
	if status < 200 || status > 299 {
		out := c.failHTTP(res, started, status, body, path)
		if current, found := body["current_status"]; found {
			out.Data = map[string]any{"current_status": current}
		}
		return out
	}

	res.Success = true
	res.Data = body
	res.Message = "Scheduled email updated successfully"
	return c.finish(res, started)
}

// buildUpdatePayload validates the patch and assembles the sparse wire
// payload. An explicit null scheduled_at survives as a JSON null, distinct
// from omission.
func buildUpdatePayload(id string, patch *UpdateEmailRequest) (map[string]any, error) {
	if err := validate.Identifier("email id", id); err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, errors.New("update request is required")
	}

	payload := map[string]any{}
	if patch.Subject != nil {
		payload["subject"] = *patch.Subject
	}
	if patch.BodyHTML != nil {
		payload["body_html"] = *patch.BodyHTML
	}
	if patch.BodyText != nil {
		payload["body_text"] = *patch.BodyText
	}

	if patch.ScheduledAt.present {
		switch {
		case patch.ScheduledAt.clear:
			payload["scheduled_at"] = nil
		case patch.ScheduledAt.rawSet:
			ts, err := validate.ParseInstant(patch.ScheduledAt.raw)
			if err != nil {
				return nil, err
			}
			payload["scheduled_at"] = ts.UTC().Format(time.RFC3339)
		default:
			payload["scheduled_at"] = patch.ScheduledAt.at.UTC().Format(time.RFC3339)
		}
	}

	if len(payload) == 0 {
		return nil, errors.New("update request must set at least one of subject, body_html, body_text or scheduled_at")
	}
	return payload, nil
}
