package mailbridge

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestUpdateScheduledSuccess(t *testing.T) {
	stub := &stubExchange{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id": "em_1", "status": "scheduled"}`), nil
	}}
	client := newTestClient(t, stub)

	res := client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		Subject: String("New subject"),
	})

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	req := stub.lastRequest(t)
	if req.Method != http.MethodPut || req.URL.Path != "/v1/update-scheduled-email/em_1" {
		t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
	}
	payload := stub.lastPayload(t)
	if payload["subject"] != "New subject" {
		t.Fatalf("unexpected payload %v", payload)
	}
	if len(payload) != 1 {
		t.Fatalf("expected a sparse payload, got %v", payload)
	}
}

func TestUpdateScheduledNullSchedule(t *testing.T) {
	stub := &stubExchange{}
	client := newTestClient(t, stub)

	res := client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		ScheduledAt: Unschedule(),
	})
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}

	// The explicit null must survive on the wire, distinct from omission.
	payload := stub.lastPayload(t)
	value, found := payload["scheduled_at"]
	if !found {
		t.Fatalf("expected scheduled_at present, got %v", payload)
	}
	if value != nil {
		t.Fatalf("expected JSON null, got %v", value)
	}
}

func TestUpdateScheduledTypedAndRawInstants(t *testing.T) {
	at := time.Date(2030, 3, 4, 5, 6, 7, 0, time.UTC)

	stub := &stubExchange{}
	client := newTestClient(t, stub)

	res := client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		ScheduledAt: ScheduleAt(at),
	})
	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if got := stub.lastPayload(t)["scheduled_at"]; got != "2030-03-04T05:06:07Z" {
		t.Fatalf("unexpected wire timestamp %v", got)
	}

	// A past string instant is accepted here; only send-time scheduling is
	// future-constrained.
	res = client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		ScheduledAt: ScheduleAtString("2001-01-01T00:00:00Z"),
	})
	if !res.Success {
		t.Fatalf("expected past instant to be accepted on update, got %+v", res)
	}
	if got := stub.lastPayload(t)["scheduled_at"]; got != "2001-01-01T00:00:00Z" {
		t.Fatalf("unexpected wire timestamp %v", got)
	}
}

func TestUpdateScheduledValidation(t *testing.T) {
	stub := &stubExchange{}
	client := newTestClient(t, stub)

	res := client.UpdateScheduled(context.Background(), "", &UpdateEmailRequest{Subject: String("x")})
	if res.Success || res.ErrorType != ErrorTypeValidation {
		t.Fatalf("expected validation failure for missing id, got %+v", res)
	}

	res = client.UpdateScheduled(context.Background(), "em_1", nil)
	if res.Success || res.ErrorType != ErrorTypeValidation {
		t.Fatalf("expected validation failure for nil patch, got %+v", res)
	}

	res = client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{})
	if res.Success || res.ErrorType != ErrorTypeValidation {
		t.Fatalf("expected validation failure for empty patch, got %+v", res)
	}
	if !strings.Contains(res.Error, "at least one") {
		t.Fatalf("expected empty-patch error message, got %q", res.Error)
	}

	res = client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		ScheduledAt: ScheduleAtString("garbage"),
	})
	if res.Success || res.ErrorType != ErrorTypeValidation {
		t.Fatalf("expected validation failure for unparseable instant, got %+v", res)
	}

	// An empty schedule string is unparseable too; it must never fall
	// through to a zero-instant payload.
	res = client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		ScheduledAt: ScheduleAtString(""),
	})
	if res.Success || res.ErrorType != ErrorTypeValidation {
		t.Fatalf("expected validation failure for empty instant string, got %+v", res)
	}

	if stub.requestCount() != 0 {
		t.Fatalf("expected no network calls")
	}
}

func TestUpdateScheduledSurfacesCurrentStatus(t *testing.T) {
	stub := &stubExchange{respond: func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadRequest,
			`{"error": "email already sent", "current_status": "sent"}`), nil
	}}
	client := newTestClient(t, stub)

	res := client.UpdateScheduled(context.Background(), "em_1", &UpdateEmailRequest{
		Subject: String("too late"),
	})

	if res.Success {
		t.Fatalf("expected failure")
	}
	if res.ErrorType != ErrorTypeClient {
		t.Fatalf("expected CLIENT_ERROR, got %s", res.ErrorType)
	}
	if res.Error != "email already sent" {
		t.Fatalf("expected backend error message, got %q", res.Error)
	}
	if res.Data["current_status"] != "sent" {
		t.Fatalf("expected current_status surfaced, got %v", res.Data)
	}
}

func TestUpdatePayloadNullSerialization(t *testing.T) {
	payload, err := buildUpdatePayload("em_1", &UpdateEmailRequest{ScheduledAt: Unschedule()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("unexpected marshal error: %v", err)
	}
	if string(raw) != `{"scheduled_at":null}` {
		t.Fatalf("expected explicit null on the wire, got %s", raw)
	}
}
