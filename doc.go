// Package mailbridge is a client SDK for the Mailbridge transactional-email
// API. It validates input locally, issues HTTP requests against the REST
// backend, and normalizes every outcome, success or failure, into a uniform
// [Result] envelope.
//
// A client is constructed from an API key:
//
//	client, err := mailbridge.New("mb_live_...")
//	if err != nil {
//		// programmer misuse: empty credential
//	}
//	res := client.Send(ctx, &mailbridge.EmailRequest{
//		From:    "noreply@example.com",
//		To:      []string{"user@example.com"},
//		Subject: "Welcome",
//		Text:    "Hello!",
//	})
//	if !res.Success {
//		// res.ErrorType, res.Suggestion, res.RequestID
//	}
//
// Operations never return a Go error for expected failure modes: validation
// problems, HTTP error statuses and transport failures all come back inside
// the envelope with a machine-checkable [ErrorType] and, where known, an
// actionable suggestion. The client performs no retries and enforces no
// timeout of its own; impose deadlines through the context or the injected
// [HTTPClient].
//
// A Client is safe for concurrent use. All configuration is captured at
// construction and each call allocates its own request state.
package mailbridge
