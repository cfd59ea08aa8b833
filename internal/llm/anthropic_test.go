package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type fakeMessager struct {
	resp *anthropic.Message
	err  error

	gotParams anthropic.MessageNewParams
}

func (f *fakeMessager) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.gotParams = params
	return f.resp, f.err
}

func TestAnthropicGenerate(t *testing.T) {
	fake := &fakeMessager{resp: &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{
			{Type: "text", Text: "```json\n"},
			{Type: "text", Text: "{}\n```"},
		},
		StopReason: "end_turn",
	}}
	caller := &AnthropicCaller{messages: fake, model: anthropic.ModelClaudeSonnet4_20250514, timeout: time.Minute}

	reply, err := caller.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply.Text != "```json\n{}\n```" {
		t.Fatalf("text = %q", reply.Text)
	}
	if reply.FinishReason != "end_turn" {
		t.Fatalf("finish reason = %q", reply.FinishReason)
	}
	if len(fake.gotParams.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(fake.gotParams.Messages))
	}
}

func TestAnthropicGenerateTransportError(t *testing.T) {
	fake := &fakeMessager{err: errors.New("status 500")}
	caller := &AnthropicCaller{messages: fake, model: "m", timeout: time.Minute}

	_, err := caller.Generate(context.Background(), "prompt")
	var invErr *InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error is %T, want *InvocationError", err)
	}
}

func TestAnthropicGenerateEmptyContent(t *testing.T) {
	fake := &fakeMessager{resp: &anthropic.Message{StopReason: "max_tokens"}}
	caller := &AnthropicCaller{messages: fake, model: "m", timeout: time.Minute}

	_, err := caller.Generate(context.Background(), "prompt")
	var emptyErr *EmptyReplyError
	if !errors.As(err, &emptyErr) {
		t.Fatalf("error is %T, want *EmptyReplyError", err)
	}
	if emptyErr.FinishReason != "max_tokens" {
		t.Fatalf("finish reason = %q", emptyErr.FinishReason)
	}
}

func TestNewAnthropicCallerFromEnvMissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewAnthropicCallerFromEnv(); err == nil {
		t.Fatal("expected an error without ANTHROPIC_API_KEY")
	}
}

func TestNewAnthropicCallerFromEnv(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	orig := newAnthropicClient
	defer func() { newAnthropicClient = orig }()
	fake := &fakeMessager{}
	newAnthropicClient = func(apiKey string) AnthropicMessager {
		if apiKey != "test-key" {
			t.Fatalf("apiKey = %q", apiKey)
		}
		return fake
	}

	caller, err := NewAnthropicCallerFromEnv()
	if err != nil {
		t.Fatalf("NewAnthropicCallerFromEnv: %v", err)
	}
	if caller.messages != fake {
		t.Fatal("creator not used")
	}
}
