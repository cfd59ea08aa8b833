package llm

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicSystemPrompt = "You are an expert in chemistry and material science patent analysis. " +
	"Respond with the requested JSON object only."

// AnthropicCaller is the alternate provider, following the same
// single-attempt contract as the Gemini caller.
type AnthropicCaller struct {
	messages AnthropicMessager
	model    anthropic.Model
	timeout  time.Duration
}

type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

func NewAnthropicCallerFromEnv() (*AnthropicCaller, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	return &AnthropicCaller{
		messages: newAnthropicClient(apiKey),
		model:    anthropic.ModelClaudeSonnet4_20250514,
		timeout:  DefaultRequestTimeout,
	}, nil
}

func (a *AnthropicCaller) Generate(ctx context.Context, promptText string) (Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       a.model,
		MaxTokens:   8192,
		System:      []anthropic.TextBlockParam{{Text: anthropicSystemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(promptText))},
		Temperature: anthropic.Float(0),
	})
	if err != nil {
		return Reply{}, &InvocationError{Model: string(a.model), cause: err}
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	reply := Reply{
		Text:         sb.String(),
		Model:        string(a.model),
		FinishReason: string(resp.StopReason),
	}
	if strings.TrimSpace(reply.Text) == "" {
		return Reply{}, &EmptyReplyError{Model: string(a.model), FinishReason: reply.FinishReason}
	}
	return reply, nil
}
