// Package llm invokes a hosted text-generation model with an assembled
// prompt. One attempt per analysis request: failures are surfaced with
// their diagnostics and the user decides whether to re-trigger.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Reply is the raw outcome of a completed model call.
type Reply struct {
	Text          string
	Model         string
	FinishReason  string
	SafetyRatings []string
}

// Caller sends one prompt to a model endpoint.
type Caller interface {
	Generate(ctx context.Context, prompt string) (Reply, error)
}

type failureClass int

const (
	failureTimeout failureClass = iota
	failureRateLimit
	failureServer
	failureClient
	failureAuth
)

func (c failureClass) String() string {
	switch c {
	case failureTimeout:
		return "timeout"
	case failureRateLimit:
		return "rate-limited"
	case failureClient:
		return "client error"
	case failureAuth:
		return "auth error"
	default:
		return "server error"
	}
}

// InvocationError wraps a transport or API failure (network, auth,
// timeout). The request is over; nothing was generated.
type InvocationError struct {
	Model string
	cause error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model invocation failed (%s, %s): %v", e.Model, classifyTransportError(e.cause), e.cause)
}

func (e *InvocationError) Unwrap() error { return e.cause }

// EmptyReplyError marks a call that completed but produced no usable
// content, typically a safety block or an empty candidate set. Whatever
// diagnostic metadata the endpoint supplied is carried along.
type EmptyReplyError struct {
	Model         string
	FinishReason  string
	SafetyRatings []string
}

func (e *EmptyReplyError) Error() string {
	msg := fmt.Sprintf("model returned no usable content (%s)", e.Model)
	if e.FinishReason != "" {
		msg += ", finish reason: " + e.FinishReason
	}
	if len(e.SafetyRatings) > 0 {
		msg += ", safety: " + strings.Join(e.SafetyRatings, "; ")
	}
	return msg
}

func classifyTransportError(err error) failureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return failureTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"):
		return failureRateLimit
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(msg, "api key"):
		return failureAuth
	case strings.Contains(msg, "status code: 4") || strings.Contains(msg, "status: 4"):
		return failureClient
	default:
		return failureServer
	}
}
