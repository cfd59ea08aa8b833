package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyTransportError(t *testing.T) {
	for _, tc := range []struct {
		name string
		err  error
		want failureClass
	}{
		{name: "deadline", err: context.DeadlineExceeded, want: failureTimeout},
		{name: "wrapped deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: failureTimeout},
		{name: "rate limit", err: errors.New("got status 429 Too Many Requests"), want: failureRateLimit},
		{name: "unauthorized", err: errors.New("status 401 unauthorized"), want: failureAuth},
		{name: "bad api key", err: errors.New("invalid API key provided"), want: failureAuth},
		{name: "client", err: errors.New("request failed, status code: 400"), want: failureClient},
		{name: "server", err: errors.New("internal error"), want: failureServer},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := classifyTransportError(tc.err); got != tc.want {
				t.Fatalf("classifyTransportError = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestInvocationErrorMessage(t *testing.T) {
	err := &InvocationError{Model: "gemini-2.5-flash", cause: errors.New("status 429")}
	msg := err.Error()
	if !strings.Contains(msg, "gemini-2.5-flash") || !strings.Contains(msg, "rate-limited") {
		t.Fatalf("unexpected message: %q", msg)
	}
	if !errors.Is(err, err.cause) {
		t.Fatal("cause not unwrapped")
	}
}

func TestEmptyReplyErrorMessage(t *testing.T) {
	err := &EmptyReplyError{
		Model:         "gemini-2.5-flash",
		FinishReason:  "SAFETY",
		SafetyRatings: []string{"HARM_CATEGORY_X=HIGH"},
	}
	msg := err.Error()
	for _, want := range []string{"gemini-2.5-flash", "SAFETY", "HARM_CATEGORY_X=HIGH"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("message %q missing %q", msg, want)
		}
	}
}
