package mailbridge

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/mailbridge-go/internal/validate"
)

// EmailBuilder accumulates a send request through chained setter calls.
// Each setter validates its field immediately and records the first
// violation; Send then refuses to go to the network. The builder holds no
// network state of its own.
type EmailBuilder struct {
	client *Client
	req    EmailRequest
	err    error
}

// NewEmail starts a fluent send request bound to this client.
func (c *Client) NewEmail() *EmailBuilder {
	return &EmailBuilder{client: c}
}

func (b *EmailBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// To sets the recipient addresses.
func (b *EmailBuilder) To(addrs ...string) *EmailBuilder {
	if err := validate.AddressField("to", addrs); err != nil {
		b.setErr(err)
		return b
	}
	b.req.To = addrs
	return b
}

// From sets the sender address.
func (b *EmailBuilder) From(addr string) *EmailBuilder {
	if err := validate.Address("from", addr); err != nil {
		b.setErr(err)
		return b
	}
	b.req.From = addr
	return b
}

// Subject sets the subject line, which must be non-empty after trimming.
func (b *EmailBuilder) Subject(subject string) *EmailBuilder {
	if strings.TrimSpace(subject) == "" {
		b.setErr(fmt.Errorf("%w: subject", validate.ErrMissingField))
		return b
	}
	b.req.Subject = subject
	return b
}

// Text sets the plain-text body, which must be non-empty.
func (b *EmailBuilder) Text(text string) *EmailBuilder {
	if text == "" {
		b.setErr(fmt.Errorf("%w: text", validate.ErrMissingField))
		return b
	}
	b.req.Text = text
	return b
}

// HTML sets the HTML body, which must be non-empty.
func (b *EmailBuilder) HTML(html string) *EmailBuilder {
	if html == "" {
		b.setErr(fmt.Errorf("%w: html", validate.ErrMissingField))
		return b
	}
	b.req.HTML = html
	return b
}

// CC sets the carbon-copy addresses. Calling it with no addresses is a
// no-op.
func (b *EmailBuilder) CC(addrs ...string) *EmailBuilder {
	if len(addrs) == 0 {
		return b
	}
	if err := validate.AddressField("cc", addrs); err != nil {
		b.setErr(err)
		return b
	}
	b.req.CC = addrs
	return b
}

// BCC sets the blind-carbon-copy addresses. Calling it with no addresses is
// a no-op.
func (b *EmailBuilder) BCC(addrs ...string) *EmailBuilder {
	if len(addrs) == 0 {
		return b
	}
	if err := validate.AddressField("bcc", addrs); err != nil {
		b.setErr(err)
		return b
	}
	b.req.BCC = addrs
	return b
}

// ScheduleAt schedules delivery for the given instant, which must be
// strictly in the future.
func (b *EmailBuilder) ScheduleAt(t time.Time) *EmailBuilder {
	ts, err := validate.FutureInstant(t, b.client.now())
	if err != nil {
		b.setErr(fmt.Errorf("scheduled_at: %w", err))
		return b
	}
	b.req.ScheduledAt = &ts
	return b
}

// ScheduleAtString schedules delivery from an RFC3339 string.
func (b *EmailBuilder) ScheduleAtString(s string) *EmailBuilder {
	ts, err := validate.FutureInstant(s, b.client.now())
	if err != nil {
		b.setErr(fmt.Errorf("scheduled_at: %w", err))
		return b
	}
	b.req.ScheduledAt = &ts
	return b
}

// Err reports the first field violation recorded by the chained setters.
func (b *EmailBuilder) Err() error {
	return b.err
}

// Send hands the accumulated request to the client. When a setter has
// already recorded a violation, a VALIDATION_ERROR envelope is returned
// without any network call. A builder-built request produces the same
// outbound payload as a directly constructed EmailRequest with the same
// fields.
func (b *EmailBuilder) Send(ctx context.Context) *Result {
	if b.err != nil {
		res, started := b.client.start()
		return b.client.failValidation(res, started, b.err)
	}
	req := b.req
	return b.client.Send(ctx, &req)
}
