package mailbridge

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestBuilderMatchesDirectRequest(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)

	stub := &stubExchange{}
	client := newTestClient(t, stub, WithClock(func() time.Time { return now }))

	res := client.NewEmail().
		From("c@d.com").
		To("a@b.com", "e@f.com").
		CC("g@h.com").
		Subject("Hi").
		Text("body").
		HTML("<p>body</p>").
		ScheduleAt(future).
		Send(context.Background())
	if !res.Success {
		t.Fatalf("expected builder send to succeed, got %+v", res)
	}
	builderPayload := stub.lastPayload(t)

	res = client.Send(context.Background(), &EmailRequest{
		From:        "c@d.com",
		To:          []string{"a@b.com", "e@f.com"},
		CC:          []string{"g@h.com"},
		Subject:     "Hi",
		Text:        "body",
		HTML:        "<p>body</p>",
		ScheduledAt: &future,
	})
	if !res.Success {
		t.Fatalf("expected direct send to succeed, got %+v", res)
	}
	directPayload := stub.lastPayload(t)

	if !reflect.DeepEqual(builderPayload, directPayload) {
		t.Fatalf("builder and direct payloads differ:\n%v\n%v", builderPayload, directPayload)
	}
}

func TestBuilderFailFast(t *testing.T) {
	stub := &stubExchange{}
	client := newTestClient(t, stub)

	b := client.NewEmail().From("not-an-address")
	if b.Err() == nil {
		t.Fatalf("expected the from violation to be recorded immediately")
	}

	// Later setters keep chaining but the first violation wins.
	res := b.To("a@b.com").Subject("Hi").Text("body").Send(context.Background())

	if res.Success || res.ErrorType != ErrorTypeValidation {
		t.Fatalf("expected validation envelope, got %+v", res)
	}
	if !strings.Contains(res.Error, "from") {
		t.Fatalf("expected the first violation reported, got %q", res.Error)
	}
	if stub.requestCount() != 0 {
		t.Fatalf("expected no network call")
	}
}

func TestBuilderFirstErrorWins(t *testing.T) {
	stub := &stubExchange{}
	client := newTestClient(t, stub)

	b := client.NewEmail().To("bad-to").From("also-bad")
	if err := b.Err(); err == nil || !strings.Contains(err.Error(), "to[0]") {
		t.Fatalf("expected the to violation to win, got %v", b.Err())
	}
}

func TestBuilderOptionalNoOps(t *testing.T) {
	stub := &stubExchange{}
	client := newTestClient(t, stub)

	res := client.NewEmail().
		From("c@d.com").
		To("a@b.com").
		CC().
		BCC().
		Subject("Hi").
		Text("body").
		Send(context.Background())
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	payload := stub.lastPayload(t)
	if _, found := payload["cc"]; found {
		t.Fatalf("expected cc omitted after no-op setter, payload %v", payload)
	}
	if _, found := payload["bcc"]; found {
		t.Fatalf("expected bcc omitted after no-op setter, payload %v", payload)
	}
}

func TestBuilderContentSettersFailFast(t *testing.T) {
	stub := &stubExchange{}
	client := newTestClient(t, stub)

	if err := client.NewEmail().Subject("   ").Err(); err == nil {
		t.Fatalf("expected blank subject to fail at setter time")
	}
	if err := client.NewEmail().Text("").Err(); err == nil {
		t.Fatalf("expected empty text to fail at setter time")
	}
	if err := client.NewEmail().HTML("").Err(); err == nil {
		t.Fatalf("expected empty html to fail at setter time")
	}
}

func TestBuilderScheduleValidatesImmediately(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	stub := &stubExchange{}
	client := newTestClient(t, stub, WithClock(func() time.Time { return now }))

	b := client.NewEmail().ScheduleAt(now.Add(-time.Minute))
	if b.Err() == nil {
		t.Fatalf("expected past schedule to fail at setter time")
	}

	b = client.NewEmail().ScheduleAtString("garbage")
	if b.Err() == nil {
		t.Fatalf("expected unparseable schedule to fail at setter time")
	}
}
